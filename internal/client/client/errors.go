package client

import (
	"errors"
	"fmt"

	"github.com/passy1977/pocket-web-backend/internal/common"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRemoteFault   = errors.New("remote fault")
	ErrNotConfigured = errors.New("device not configured")
)

// RemoteError is a failure reported by the server with a specific status.
type RemoteError struct {
	Stat common.Stat
	Msg  string
}

func (e *RemoteError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("remote fault: %s", e.Stat)
	}
	return fmt.Sprintf("remote fault: %s: %s", e.Stat, e.Msg)
}

func (e *RemoteError) Unwrap() error { return ErrRemoteFault }
