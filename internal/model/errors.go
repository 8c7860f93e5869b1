package model

import "errors"

// Machine-readable error types carried on FetchResult and failure responses.
const (
	ErrorTypeInvalidInput        = "invalid_input"
	ErrorTypeUpstreamUnavailable = "upstream_unavailable"
	ErrorTypeEmptyResult         = "empty_result"
	ErrorTypeLocaleExhausted     = "locale_exhausted"
	ErrorTypeTimeout             = "timeout"
	ErrorTypePartialFailure      = "partial_failure"
)

// Sentinel errors for the fetch/analysis taxonomy. Everything else degrades
// gracefully instead of propagating.
var (
	// ErrInvalidInput means the product identifier or request parameters are
	// unusable. Fatal, no fallback.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLocaleExhausted means every locale in the priority list failed and
	// the synthetic fallback is disabled. Terminal.
	ErrLocaleExhausted = errors.New("all locales exhausted")
)

// FailureReport is the structured failure callers receive instead of an
// AnalysisResult when the whole call fails.
type FailureReport struct {
	ProductID    string            `json:"product_id"`
	ErrorType    string            `json:"error_type"`
	Error        string            `json:"error"`
	Suggestion   string            `json:"suggestion,omitempty"`
	LocalesTried []string          `json:"locales_tried,omitempty"`
	LocaleErrors map[string]string `json:"locale_errors,omitempty"`
}
