package client

import "errors"

var (
	// ErrUnavailable means the backend could not be reached. Worth retrying.
	ErrUnavailable = errors.New("sync server unavailable")
	// ErrRejected means the backend refused the event. Retrying will not help.
	ErrRejected     = errors.New("event rejected")
	ErrUnauthorized = errors.New("unauthorized")
)
