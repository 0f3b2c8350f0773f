package llm

import "fmt"

// UpstreamError reports a failed completion request: network error,
// timeout, non-2xx status, or an unparseable response body.
//
// The agent loop treats it as fatal for the turn. A hosted paid API
// call must not be silently repeated on a fixed budget, so there is no
// automatic retry; the caller is told to retry later.
type UpstreamError struct {
	Status int    // HTTP status, 0 when the request never completed
	Body   string // truncated response body, when available
	Err    error  // underlying transport or decode error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0 && e.Body != "":
		return fmt.Sprintf("completion service returned status %d: %s", e.Status, e.Body)
	case e.Status != 0:
		return fmt.Sprintf("completion service returned status %d", e.Status)
	default:
		return fmt.Sprintf("completion request failed: %v", e.Err)
	}
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}
