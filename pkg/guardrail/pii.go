package guardrail

import (
	"regexp"
	"strings"
)

// Mask tokens. None of them contain digits, so masking already-masked text is
// a no-op (the pipeline relies on that to persist redacted copies safely).
const (
	maskSSN  = "***-**-****"
	maskCard = "**** **** **** ****"
	maskTel  = "***-***-****"
)

// Ordered longest-match-first: card numbers before SSNs before phone numbers,
// so a 16-digit card is never half-eaten by the phone pattern.
var (
	reCard  = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	reSSN   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	rePhone = regexp.MustCompile(`\b(?:\+?\d{1,2}[\s.-])?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	// The username class admits '*' so a previously masked address is
	// matched whole and can be recognised instead of re-masked.
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9.*_%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// MaskPII replaces detected PII spans with fixed mask tokens and reports
// whether anything was masked. Emails keep their first and last username
// character so support staff can still recognise the account; usernames
// too short for that are starred out entirely.
func MaskPII(text string) (string, bool) {
	masked := text
	found := false

	if reCard.MatchString(masked) {
		masked = reCard.ReplaceAllString(masked, maskCard)
		found = true
	}
	if reSSN.MatchString(masked) {
		masked = reSSN.ReplaceAllString(masked, maskSSN)
		found = true
	}
	if rePhone.MatchString(masked) {
		masked = rePhone.ReplaceAllString(masked, maskTel)
		found = true
	}

	masked = reEmail.ReplaceAllStringFunc(masked, func(email string) string {
		at := strings.IndexByte(email, '@')
		user, domain := email[:at], email[at:]
		if strings.ContainsRune(user, '*') {
			// Remnant of an earlier pass; leave it alone.
			return email
		}
		found = true
		if len(user) <= 2 {
			return strings.Repeat("*", len(user)) + domain
		}
		return user[:1] + strings.Repeat("*", len(user)-2) + user[len(user)-1:] + domain
	})

	return masked, found
}
