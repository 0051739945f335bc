package errors

import (
	"errors"
	"net"
	"os"
)

var ErrTimeout = errors.New("timeout")

// IsDeadlineError reports whether err came from a read deadline expiring
// rather than from a real transport failure. The drain loop uses this to
// tell idle ticks apart from fatal errors.
func IsDeadlineError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	return false
}
