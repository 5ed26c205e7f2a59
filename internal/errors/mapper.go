// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Map converts service/repo errors into gRPC status errors.
// Keeps service layer transport-agnostic by centralizing the mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")
	}

	return status.Error(Code(KindOf(err)), Message(err))
}

// Code returns the gRPC code for a Kind.
func Code(k Kind) codes.Code {
	switch k {
	case KindNotFound:
		return codes.NotFound
	case KindForbidden:
		return codes.PermissionDenied
	case KindInvalidArgument:
		return codes.InvalidArgument
	case KindConflict:
		return codes.AlreadyExists
	case KindUnauthenticated:
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}
