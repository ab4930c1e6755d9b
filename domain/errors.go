package domain

import "errors"

var (
	// ErrInternalServerError is the message clients see in place of unexpected failures
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
	// ErrForbidden will throw if the caller may not act on the item
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized will throw if the acting identity cannot be resolved
	ErrUnauthorized = errors.New("user not authenticated")
	// ErrUpstream wraps failures of the store or the upload provider
	ErrUpstream = errors.New("upstream failure")
	// ErrCacheMiss is returned by caches when the key is absent
	ErrCacheMiss = errors.New("cache miss")
)

// Error carries a client-facing message on top of one of the sentinel kinds above.
// errors.Is(err, kind) holds for it.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}
