package client

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

// ErrNotConnected is returned when no data connection is available
// and no request was attempted.
var ErrNotConnected = errors.New("no data connection available")

type Client interface {
	// FetchJSON issues a GET for path under the client's base URL and returns
	// the response body, whatever the HTTP status.
	FetchJSON(ctx context.Context, operation, path string, query url.Values) (string, error)
}

// Connectivity reports whether a data connection is currently available.
type Connectivity interface {
	Available() bool
}

type ConnectivityFunc func() bool

func (f ConnectivityFunc) Available() bool {
	return f()
}

// AlwaysConnected never blocks requests.
var AlwaysConnected Connectivity = ConnectivityFunc(func() bool { return true })
