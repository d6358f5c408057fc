package guardrail

import (
	"strings"
	"unicode/utf8"
)

// Engine screens user input and model output against an ordered rule chain.
// It is stateless: both Screen methods are pure functions of their arguments,
// so one Engine is safely shared by every concurrent pipeline.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// ScreenInput evaluates the input rule chain in fixed order. The first
// blocking rule wins; flagging rules accumulate. Precedence is positional,
// never severity-based, so the outcome is deterministic.
func (e *Engine) ScreenInput(text string, pol Policy) Verdict {
	if !utf8.ValidString(text) {
		return Verdict{Kind: KindBlocked, RuleIDs: []string{RuleEncoding}}
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 1 || len(text) > pol.maxInputChars() {
		return Verdict{Kind: KindBlocked, RuleIDs: []string{RuleLength}}
	}

	lowered := strings.ToLower(text)
	if matchesAny(lowered, injectionPatterns) {
		return Verdict{Kind: KindBlocked, RuleIDs: []string{RuleInjection}}
	}
	if matchesAny(lowered, inappropriatePatterns) {
		return Verdict{Kind: KindBlocked, RuleIDs: []string{RuleInappropriate}}
	}

	verdict := Verdict{Kind: KindClean, Redacted: text}

	masked, found := MaskPII(text)
	if found {
		verdict.Kind = KindFlagged
		verdict.RuleIDs = append(verdict.RuleIDs, RulePII)
		verdict.Redacted = masked
	}

	if coherenceScore(text) < pol.nonsenseThreshold() {
		verdict.Kind = KindFlagged
		verdict.RuleIDs = append(verdict.RuleIDs, RuleNonsense)
		verdict.Suggestion = ClarificationSuggestion
	}

	return verdict
}

// ScreenOutput screens a model reply before it reaches the user. A blocked
// verdict means the reply must be discarded; Suggestion then carries the safe
// substitute the pipeline should return instead.
func (e *Engine) ScreenOutput(text string, confidence float64, pol Policy) Verdict {
	if !utf8.ValidString(text) {
		return Verdict{Kind: KindBlocked, RuleIDs: []string{RuleEncoding}, Suggestion: ShortReplyFallback}
	}

	if matchesAny(text, forbiddenOutputPatterns) || matchesTenantClaims(text, pol.ForbiddenClaims) {
		return Verdict{Kind: KindBlocked, RuleIDs: []string{RuleTone}, Suggestion: ShortReplyFallback}
	}

	if confidence < MinOutputConfidence {
		return Verdict{Kind: KindBlocked, RuleIDs: []string{RuleLowConfidence}, Suggestion: LowConfidenceFallbackReply}
	}

	if len(strings.TrimSpace(text)) < minReplyChars {
		return Verdict{Kind: KindBlocked, RuleIDs: []string{RuleShortReply}, Suggestion: ShortReplyFallback}
	}

	verdict := Verdict{Kind: KindClean, Redacted: text}

	masked, found := MaskPII(text)
	if found {
		verdict.Kind = KindFlagged
		verdict.RuleIDs = append(verdict.RuleIDs, RulePII)
		verdict.Redacted = masked
	}

	if confidence < LowConfidenceThreshold {
		verdict.Kind = KindFlagged
		verdict.RuleIDs = append(verdict.RuleIDs, RuleUncertain)
		verdict.Redacted = strings.TrimSpace(verdict.Redacted) + UncertaintyDisclaimer
	}

	return verdict
}

func matchesTenantClaims(text string, claims []string) bool {
	if len(claims) == 0 {
		return false
	}
	lowered := strings.ToLower(text)
	for _, claim := range claims {
		if claim != "" && strings.Contains(lowered, strings.ToLower(claim)) {
			return true
		}
	}
	return false
}
