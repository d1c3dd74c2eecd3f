package fetcher

import "errors"

// Kind is an error kind, not a type: callers compare with errors.Is against
// the sentinel values below rather than type-switching.
type Kind int

const (
	// RateLimited means the upstream signaled back-pressure (HTTP 429).
	RateLimited Kind = iota
	// NoData means the symbol is unknown or the response had no usable bars.
	NoData
	// Transport means a network/timeout/parse failure.
	Transport
)

var (
	ErrRateLimited = errors.New("fetcher: rate limited")
	ErrNoData      = errors.New("fetcher: no data")
	ErrTransport   = errors.New("fetcher: transport error")
)

func sentinelFor(k Kind) error {
	switch k {
	case RateLimited:
		return ErrRateLimited
	case NoData:
		return ErrNoData
	default:
		return ErrTransport
	}
}

// Error wraps an underlying cause with a Kind so callers can classify it
// with errors.Is(err, fetcher.ErrRateLimited) etc. without losing the
// original error text.
type Error struct {
	Kind  Kind
	Cause error
}

func newError(k Kind, cause error) *Error {
	return &Error{Kind: k, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return sentinelFor(e.Kind).Error()
	}
	return sentinelFor(e.Kind).Error() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}
