package image

import (
	"errors"
	"strings"

	"sketchgen/internal/domain"
	"sketchgen/internal/providers/magichour"
)

// SubmissionError wraps a failed call to the image service with its
// classification. Error returns the underlying message verbatim.
type SubmissionError struct {
	Op   string
	Kind domain.OutcomeKind
	Err  error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Is lets callers test for domain.ErrInsufficientCredits without knowing how
// the shortfall was detected.
func (e *SubmissionError) Is(target error) bool {
	return target == domain.ErrInsufficientCredits && e.Kind == domain.OutcomeInsufficientCredits
}

func newSubmissionError(op string, err error) *SubmissionError {
	return &SubmissionError{Op: op, Kind: ClassifyError(err), Err: err}
}

// ClassifyError maps an image-service failure to an outcome kind. Typed signals
// (quota errors and poll timeouts) win; the case-insensitive "frames" substring
// match is only consulted after them.
func ClassifyError(err error) domain.OutcomeKind {
	if err == nil {
		return domain.OutcomeOK
	}
	var subErr *SubmissionError
	if errors.As(err, &subErr) && subErr.Kind != "" {
		return subErr.Kind
	}
	if errors.Is(err, domain.ErrInsufficientCredits) {
		return domain.OutcomeInsufficientCredits
	}
	var apiErr *magichour.APIError
	if errors.As(err, &apiErr) && apiErr.Insufficient() {
		return domain.OutcomeInsufficientCredits
	}
	if errors.Is(err, domain.ErrPollTimeout) {
		return domain.OutcomeTimeout
	}
	if strings.Contains(strings.ToLower(err.Error()), "frames") {
		return domain.OutcomeInsufficientCredits
	}
	return domain.OutcomeOtherError
}
