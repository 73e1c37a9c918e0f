package speech

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by sends after Close.
var ErrClosed = errors.New("speech: client closed")

// ConnectionError reports a failed dial.
type ConnectionError struct {
	Op  string
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("speech: %s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("speech: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// SendError reports a request that could not be encoded or written.
type SendError struct {
	Op   string
	Path string
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("speech: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
