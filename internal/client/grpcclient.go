package client

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/guardian/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName        = "guardian.sync.v1.SyncService"
	submitEventMethod  = "/" + serviceName + "/SubmitEvent"
	defaultCallTimeout = 3 * time.Second
)

type invokeFunc func(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	invoke      invokeFunc
	health      healthpb.HealthClient
	userID      atomic.Int64
}

// NewGRPCClient prepares a lazy connection to endpointURL. Nothing is
// dialed until the first call, so this succeeds while offline. Extra dial
// options are appended to the defaults.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.userInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.invoke = conn.Invoke
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

// SetUser tags subsequent calls with the signed-in user. Zero clears it.
func (c *GRPCClient) SetUser(id int64) { c.userID.Store(id) }

func withUser(ctx context.Context, id int64) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.UserHeaderName, strconv.FormatInt(id, 10))
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) userInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if id := c.userID.Load(); id > 0 {
		ctx = withUser(ctx, id)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// SubmitEvent delivers one event.
func (c *GRPCClient) SubmitEvent(ctx context.Context, ev Event) error {
	if !ev.Type.Valid() {
		return fmt.Errorf("event type %q: %w", ev.Type, ErrRejected)
	}
	req, err := structpb.NewStruct(map[string]any{
		"id":        ev.ID,
		"type":      string(ev.Type),
		"timestamp": ev.Timestamp.UTC().Format(time.RFC3339Nano),
		"payload":   ev.Payload,
	})
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.ID, ErrRejected)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.invoke(ctx, submitEventMethod, req, &emptypb.Empty{}); err != nil {
		return c.mapError(err)
	}
	return nil
}

// Ping asks the standard health service whether the sync service is up.
func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: serviceName})
	if err != nil {
		return c.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return ErrUnavailable
	case codes.InvalidArgument, codes.FailedPrecondition, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
