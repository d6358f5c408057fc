// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	Send(toEmail, subject, body string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// Send delivers a plain-text email on behalf of the agent. Bodies come
// from the tool layer, which has already screened the content.
func (s *emailService) Send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<p>%s</p>
		</div>
	`, body)

	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send email to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Email sent to %s\n", toEmail)
	return nil
}
