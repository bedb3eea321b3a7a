package client

import "context"

// Client is the remote sync collaborator.
type Client interface {
	SubmitEvent(ctx context.Context, ev Event) error
	Ping(ctx context.Context) error
	Close() error
}
