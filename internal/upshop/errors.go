package upshop

import (
	"fmt"
	"time"
)

// maxBodyInError caps how much of a response body is carried in an error
// message; enough to diagnose, short enough not to flood the log file.
const maxBodyInError = 512

// APIErrorKind distinguishes the three ways a call to the Upshop API can
// fail before any job-level semantics apply.
type APIErrorKind string

const (
	// KindNetwork covers transport-level failures (DNS, TLS, timeouts).
	KindNetwork APIErrorKind = "network"
	// KindHTTP covers non-2xx responses.
	KindHTTP APIErrorKind = "http"
	// KindDecode covers 2xx responses whose body is not the expected JSON.
	KindDecode APIErrorKind = "decode"
)

// statusHints maps HTTP status codes to operator guidance shown alongside
// the raw failure. Kept from the field-support playbook of the original
// tool.
var statusHints = map[int]string{
	400: "validate store configuration (store number, approved orders, permissions)",
	401: "validate API credentials and base URL in the configuration",
	403: "access denied; validate API permissions for this store",
	404: "API endpoint not found; validate base URL in the configuration",
	500: "Upshop API internal error; try again later or contact the vendor",
}

// APIError is a fatal failure of a single Upshop API call.
type APIError struct {
	Kind       APIErrorKind
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("upshop: request to %s failed: %v", e.Endpoint, e.Err)
	case KindDecode:
		return fmt.Sprintf("upshop: %s returned a non-JSON body (HTTP %d): %s",
			e.Endpoint, e.StatusCode, e.Body)
	default:
		msg := fmt.Sprintf("upshop: %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
		if hint, ok := statusHints[e.StatusCode]; ok {
			msg += " (" + hint + ")"
		}
		return msg
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AuthError means the login call succeeded at the HTTP level but produced
// no usable access token.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "upshop: authentication failed: " + e.Reason
}

// JobFailedError means the export job reached a terminal failure state.
type JobFailedError struct {
	Status  string
	Message string
}

func (e *JobFailedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upshop: export job failed with status %q: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upshop: export job failed with status %q", e.Status)
}

// JobTimeoutError means the export job did not reach a terminal state
// within the polling window.
type JobTimeoutError struct {
	LastStatus string
	Timeout    time.Duration
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf("upshop: export job did not finish within %s (last status %q)",
		e.Timeout, e.LastStatus)
}

// truncate limits a response body for inclusion in errors and logs.
func truncate(body []byte) string {
	if len(body) > maxBodyInError {
		return string(body[:maxBodyInError]) + "..."
	}
	return string(body)
}
