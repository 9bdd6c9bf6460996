package magichour

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the image service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("magichour: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("magichour: status %d: %s", e.StatusCode, e.Message)
}

// Insufficient reports whether the service signalled a frame/credit shortfall
// through structured fields.
func (e *APIError) Insufficient() bool {
	if e == nil {
		return false
	}
	if e.StatusCode == http.StatusPaymentRequired {
		return true
	}
	code := strings.ToLower(e.Code)
	return strings.Contains(code, "frame") || strings.Contains(code, "credit")
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil {
		apiErr.Code = strings.TrimSpace(detail.Code)
		apiErr.Message = strings.TrimSpace(detail.Message)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(detail.Error)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
