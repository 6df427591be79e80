package translink

import (
	"context"
	"net"

	"github.com/pkg/errors"

	"github.com/weininghu1012/NextBus/pkg/client"
)

type Kind int

const (
	KindService Kind = iota
	KindConnectivity
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindTimeout:
		return "timeout"
	default:
		return "service"
	}
}

// Error is the only error the Service returns. Its message is fit for
// display; Kind and the wrapped cause are there for logs and tests.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error) *Error {
	switch {
	case errors.Is(err, client.ErrNotConnected):
		return &Error{Kind: KindConnectivity, Message: "Data not available: check network connection", Err: err}
	case isTimeout(err):
		return &Error{Kind: KindTimeout, Message: "Unable to connect to Translink at this time", Err: err}
	default:
		return &Error{Kind: KindService, Message: "Failed to get data from Translink service", Err: err}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ProviderError is the Code/Message object Translink answers with when it
// cannot satisfy a request. It is reported as "no data", not as an Error.
type ProviderError struct {
	Code    string
	Message string
}
