package source

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a source failed. Every kind is recoverable at the
// orchestrator level; none aborts a run.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindParse
	KindBlocked
	KindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindBlocked:
		return "blocked"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Error wraps a source failure with its origin and kind so the orchestrator
// can aggregate and report it without inspecting adapter internals.
type Error struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func networkErr(source string, err error) *Error {
	return &Error{Source: source, Kind: KindNetwork, Err: err}
}

func parseErr(source string, err error) *Error {
	return &Error{Source: source, Kind: KindParse, Err: err}
}

func blockedErr(source string, err error) *Error {
	return &Error{Source: source, Kind: KindBlocked, Err: err}
}

func rateLimitedErr(source string, err error) *Error {
	return &Error{Source: source, Kind: KindRateLimited, Err: err}
}

// statusErr maps an HTTP status to the right error kind. Boards signal bot
// blocks as 403 (LinkedIn uses 999) and rate limits as 429.
func statusErr(source string, status int) *Error {
	err := fmt.Errorf("http %d", status)
	switch {
	case status == 429:
		return rateLimitedErr(source, err)
	case status == 403 || status == 999:
		return blockedErr(source, err)
	default:
		return networkErr(source, err)
	}
}

// AsError coerces any adapter failure into a *Error, defaulting to the
// network kind for plain transport errors.
func AsError(name string, err error) *Error {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr
	}
	return networkErr(name, err)
}
