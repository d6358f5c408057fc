package tools

import (
	"context"
	"fmt"
	"strings"

	"ai-agent-gateway-be/internal/pkg/mailer"
)

// SendEmailTool lets the agent send follow-up emails through the SMTP
// service.
type SendEmailTool struct {
	mailer mailer.IEmailService
}

func NewSendEmailTool(svc mailer.IEmailService) *SendEmailTool {
	return &SendEmailTool{mailer: svc}
}

func (t *SendEmailTool) Name() string {
	return "send_email"
}

func (t *SendEmailTool) Description() string {
	return `Send an email. Args: {"to": "address", "subject": "...", "body": "..."}`
}

func (t *SendEmailTool) Execute(_ context.Context, tenantID string, args map[string]interface{}) (string, error) {
	to, _ := args["to"].(string)
	subject, _ := args["subject"].(string)
	body, _ := args["body"].(string)

	if to == "" || !strings.Contains(to, "@") {
		return "", fmt.Errorf("send_email requires a valid recipient address")
	}
	if subject == "" {
		subject = "Message from our assistant"
	}
	if body == "" {
		return "", fmt.Errorf("send_email requires a body")
	}

	if err := t.mailer.Send(to, subject, body); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return fmt.Sprintf("Email sent to %s.", to), nil
}
