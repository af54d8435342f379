package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrOutOfRange         = errors.New("parameter out of range")
	ErrUpstreamFailure    = errors.New("upstream failure")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// Upstream is the GraphQL data source every service reads from.
// Query returns the raw response body; Decode unmarshals its data member into out.
type Upstream interface {
	Query(ctx context.Context, operation, query string) ([]byte, error)
	Decode(ctx context.Context, operation, query string, out interface{}) error
}
