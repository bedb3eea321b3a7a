// Package common contains shared constants and sentinel errors used across
// Guardian components.
package common

// UserHeaderName is the gRPC metadata key carrying the id of the signed-in
// user on outbound sync requests.
const UserHeaderName = "x-guardian-user"

// MaxEvidenceSize caps a single evidence payload at write time (50 MiB).
const MaxEvidenceSize = 50 << 20
