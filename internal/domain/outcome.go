package domain

// OutcomeKind classifies how a generate action ended, or, for
// OutcomeEnhancementFailed, a recoverable step along the way.
type OutcomeKind string

const (
	OutcomeOK                  OutcomeKind = "ok"
	OutcomeEmptyInput          OutcomeKind = "empty_input"
	OutcomeEnhancementFailed   OutcomeKind = "enhancement_failed"
	OutcomeInsufficientCredits OutcomeKind = "insufficient_credits"
	OutcomeOtherError          OutcomeKind = "other_error"
	OutcomeJobFailed           OutcomeKind = "job_failed"
	OutcomeTimeout             OutcomeKind = "timeout"
)

// Failed reports whether the action ended without a usable result.
func (k OutcomeKind) Failed() bool {
	switch k {
	case OutcomeOK, OutcomeEnhancementFailed:
		return false
	default:
		return true
	}
}
