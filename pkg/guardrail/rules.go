package guardrail

import (
	"regexp"
	"strings"
	"unicode"
)

// Rule IDs surfaced to callers. Reason codes only; the matched patterns
// themselves are never exposed so rejections don't teach bypasses.
const (
	RuleEncoding      = "encoding"
	RuleLength        = "length"
	RuleInjection     = "prompt_injection"
	RuleInappropriate = "inappropriate_content"
	RulePII           = "pii"
	RuleNonsense      = "nonsense"
	RuleTone          = "policy_tone"
	RuleLowConfidence = "low_confidence"
	RuleShortReply    = "short_reply"
	RuleUncertain     = "uncertain"
)

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+previous\s+instructions`),
	regexp.MustCompile(`(?i)forget\s+everything\s+above`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+a\s+different`),
	regexp.MustCompile(`(?i)system\s*:\s*you\s+are`),
	regexp.MustCompile(`(?i)new\s+instructions\s*:`),
	regexp.MustCompile(`(?i)act\s+as\s+a\s+different`),
	regexp.MustCompile(`(?i)pretend\s+to\s+be`),
	regexp.MustCompile(`(?i)roleplay\s+as`),
	regexp.MustCompile(`(?i)simulate\s+being`),
	regexp.MustCompile(`(?i)reveal\s+the\s+system\s+prompt`),
}

var inappropriatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(hack|exploit|bypass|jailbreak)\b`),
	regexp.MustCompile(`(?i)\b(password|credential|token|api[_\s]?key)\b`),
	regexp.MustCompile(`(?i)\b(illegal|criminal|fraud|scam)\b`),
}

// Phrases the assistant must not emit regardless of tenant policy.
var forbiddenOutputPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i\s+am\s+an?\s+ai\s+language\s+model`),
	regexp.MustCompile(`(?i)as\s+an?\s+ai\s+(assistant|language\s+model)`),
	regexp.MustCompile(`(?i)my\s+knowledge\s+cutoff`),
	regexp.MustCompile(`(?i)i\s+am\s+chatgpt`),
	regexp.MustCompile(`(?i)i\s+(personally\s+)?guarantee\s+(you\s+)?(a\s+)?refund`),
	regexp.MustCompile(`(?i)this\s+offer\s+is\s+legally\s+binding`),
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// coherenceScore is a cheap proxy for "does this look like language the model
// can answer". 1.0 is fully coherent prose, 0.0 is keyboard mash.
func coherenceScore(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	var letters, digits, others int
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r) || unicode.IsSpace(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		default:
			others++
		}
	}
	total := letters + digits + others
	letterRatio := float64(letters) / float64(total)

	words := strings.Fields(trimmed)
	vowelWords := 0
	for _, w := range words {
		if strings.ContainsAny(strings.ToLower(w), "aeiouy0123456789") {
			vowelWords++
		}
	}
	vowelRatio := float64(vowelWords) / float64(len(words))

	// Both signals have to agree before we call something nonsense.
	return letterRatio * vowelRatio
}
