package guardrail

// VerdictKind classifies the outcome of screening one piece of text.
type VerdictKind string

const (
	KindClean   VerdictKind = "clean"
	KindFlagged VerdictKind = "flagged"
	KindBlocked VerdictKind = "blocked"
)

// Verdict is the result of screening. Redacted always carries a usable copy of
// the text (masked where PII was found); Suggestion carries the replacement
// reply when the pipeline should not use the original text at all.
type Verdict struct {
	Kind       VerdictKind `json:"kind"`
	RuleIDs    []string    `json:"rule_ids,omitempty"`
	Redacted   string      `json:"redacted"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Blocked reports whether the verdict is terminal for the original text.
func (v Verdict) Blocked() bool {
	return v.Kind == KindBlocked
}

// Policy is the per-tenant tuning surface. Zero values fall back to the
// engine defaults, so a missing tenant config never disables screening.
type Policy struct {
	MaxInputChars     int      // upper bound on input length, default 2000
	NonsenseThreshold float64  // min coherence score before asking to rephrase
	ForbiddenClaims   []string // tenant phrases the model must never emit
}

const (
	DefaultMaxInputChars     = 2000
	DefaultNonsenseThreshold = 0.2

	// Output confidence boundaries.
	MinOutputConfidence        = 0.3
	LowConfidenceThreshold     = 0.7
	minReplyChars              = 10
	UncertaintyDisclaimer      = "\n\n*Note: I'm not entirely certain about this response. Please verify the information if it's important.*"
	LowConfidenceFallbackReply = "I'm not confident in my response to that question. Could you please rephrase or provide more details?"
	ShortReplyFallback         = "I apologize, but I couldn't generate an appropriate response. Could you please try rephrasing your question?"
	ClarificationSuggestion    = "I'm not sure I understood that. Could you rephrase your question?"
)

func (p Policy) maxInputChars() int {
	if p.MaxInputChars > 0 {
		return p.MaxInputChars
	}
	return DefaultMaxInputChars
}

func (p Policy) nonsenseThreshold() float64 {
	if p.NonsenseThreshold > 0 {
		return p.NonsenseThreshold
	}
	return DefaultNonsenseThreshold
}
