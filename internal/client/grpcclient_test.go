package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * fakes
 *************/

// fakeHealth implements only Check; other methods panic via the nil
// embedded interface.
type fakeHealth struct {
	healthpb.HealthClient
	resp *healthpb.HealthCheckResponse
	err  error
}

func (f *fakeHealth) Check(ctx context.Context, in *healthpb.HealthCheckRequest, opts ...grpc.CallOption) (*healthpb.HealthCheckResponse, error) {
	return f.resp, f.err
}

/*************
 * SubmitEvent
 *************/

func TestSubmitEvent_EncodesStruct(t *testing.T) {
	var gotMethod string
	var gotReq *structpb.Struct
	c := &GRPCClient{timeout: time.Second}
	c.invoke = func(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
		gotMethod = method
		gotReq = args.(*structpb.Struct)
		return nil
	}

	ev := NewEvent(EventLocation, map[string]any{"latitude": 10.0, "user_id": 1.0})
	require.NoError(t, c.SubmitEvent(context.Background(), ev))

	assert.Equal(t, submitEventMethod, gotMethod)
	m := gotReq.AsMap()
	assert.Equal(t, ev.ID, m["id"])
	assert.Equal(t, "location", m["type"])
	assert.Equal(t, map[string]any{"latitude": 10.0, "user_id": 1.0}, m["payload"])
}

func TestSubmitEvent_RejectsBadEventsLocally(t *testing.T) {
	called := false
	c := &GRPCClient{timeout: time.Second}
	c.invoke = func(context.Context, string, any, any, ...grpc.CallOption) error {
		called = true
		return nil
	}

	err := c.SubmitEvent(context.Background(), Event{Type: "weather"})
	require.ErrorIs(t, err, ErrRejected)

	err = c.SubmitEvent(context.Background(), NewEvent(EventSOSAlert, map[string]any{"at": time.Now()}))
	require.ErrorIs(t, err, ErrRejected)

	assert.False(t, called)
}

func TestSubmitEvent_MapsStatus(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unavailable, ErrUnavailable},
		{codes.DeadlineExceeded, ErrUnavailable},
		{codes.InvalidArgument, ErrRejected},
		{codes.AlreadyExists, ErrRejected},
		{codes.Unauthenticated, ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			c := &GRPCClient{timeout: time.Second}
			c.invoke = func(context.Context, string, any, any, ...grpc.CallOption) error {
				return status.Error(tt.code, "nope")
			}
			err := c.SubmitEvent(context.Background(), NewEvent(EventUserSync, nil))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapError_Other(t *testing.T) {
	c := &GRPCClient{}
	require.NoError(t, c.mapError(nil))

	err := c.mapError(errors.New("weird"))
	require.ErrorContains(t, err, "rpc error")
	require.NotErrorIs(t, err, ErrUnavailable)
}

/*************
 * Ping
 *************/

func TestPing(t *testing.T) {
	c := &GRPCClient{timeout: time.Second}

	c.health = &fakeHealth{resp: &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}}
	require.NoError(t, c.Ping(context.Background()))

	c.health = &fakeHealth{resp: &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	c.health = &fakeHealth{err: status.Error(codes.Unavailable, "down")}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

/*************
 * userInterceptor
 *************/

func TestUserInterceptor(t *testing.T) {
	c := &GRPCClient{}

	var got []string
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		got = md.Get(common.UserHeaderName)
		return nil
	}

	require.NoError(t, c.userInterceptor(context.Background(), "/m", nil, nil, nil, invoker))
	assert.Empty(t, got)

	c.SetUser(42)
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.UserHeaderName, "stale")
	require.NoError(t, c.userInterceptor(ctx, "/m", nil, nil, nil, invoker))
	assert.Equal(t, []string{"42"}, got)
}

/*************
 * end to end over bufconn
 *************/

type recordingServer struct {
	mu     sync.Mutex
	events []map[string]any
	users  []string
}

func (s *recordingServer) handle(_ any, stream grpc.ServerStream) error {
	method, _ := grpc.MethodFromServerStream(stream)
	if method != submitEventMethod {
		return status.Errorf(codes.Unimplemented, "unknown method %s", method)
	}
	var in structpb.Struct
	if err := stream.RecvMsg(&in); err != nil {
		return err
	}
	md, _ := metadata.FromIncomingContext(stream.Context())

	s.mu.Lock()
	s.events = append(s.events, in.AsMap())
	s.users = append(s.users, md.Get(common.UserHeaderName)...)
	s.mu.Unlock()

	return stream.SendMsg(&emptypb.Empty{})
}

func TestGRPCClient_EndToEnd(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	rec := &recordingServer{}

	srv := grpc.NewServer(grpc.UnknownServiceHandler(rec.handle))
	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet", time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	c.SetUser(5)

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.SubmitEvent(ctx, NewEvent(EventSOSAlert, map[string]any{"status": "active"})))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.events, 1)
	assert.Equal(t, "sos_alert", rec.events[0]["type"])
	assert.Equal(t, []string{"5"}, rec.users)
}
