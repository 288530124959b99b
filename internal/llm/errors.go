package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind distinguishes model-call failures the pipeline reports
// differently to users.
type ErrorKind string

const (
	KindQuota       ErrorKind = "quota"
	KindRateLimited ErrorKind = "rate_limited"
	KindAuth        ErrorKind = "auth"
	KindTimeout     ErrorKind = "timeout"
	KindOther       ErrorKind = "other"
)

// Error wraps a provider failure with its classified kind. Classification
// happens here, at the boundary, so callers match on the kind instead of
// sniffing message text.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(provider string, kind ErrorKind, err error) *Error {
	return &Error{Provider: provider, Kind: kind, Err: err}
}

// kindFromStatus maps an HTTP status from a provider API to an ErrorKind.
// 429 is ambiguous between rate limiting and quota exhaustion; callers refine
// it with provider-specific codes where available.
func kindFromStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindRateLimited
	case status == 408 || status == 504:
		return KindTimeout
	default:
		return KindOther
	}
}

func kindFromContext(err error) (ErrorKind, bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout, true
	}
	return "", false
}
