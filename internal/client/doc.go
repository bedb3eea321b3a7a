// Package client talks to the remote sync backend over gRPC.
//
// The backend exposes a single generic SubmitEvent call taking a
// google.protobuf.Struct, so no generated stubs are needed: events are
// encoded with structpb and sent through grpc.ClientConn.Invoke. gRPC
// status codes are mapped onto the package errors so callers can decide
// whether to queue an event for later.
package client
