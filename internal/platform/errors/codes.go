// Package errors provides structured service errors that map onto gRPC
// status codes with machine-readable details.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Startup errors
	CodeDependencyTimeout Code = "DEPENDENCY_TIMEOUT"

	// Map storage errors
	CodeMapNameInvalid  Code = "MAP_NAME_INVALID"
	CodeMapWriteFailed  Code = "MAP_WRITE_FAILED"
	CodeRevisionsFailed Code = "MAP_REVISIONS_FAILED"
)

// GRPCCode maps a domain code to its gRPC status code.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeMapNameInvalid:
		return codes.InvalidArgument
	case CodeDependencyTimeout:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
