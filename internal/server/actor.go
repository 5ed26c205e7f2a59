package server

import (
	"context"
	"strconv"
	"strings"

	"google.golang.org/grpc/metadata"

	svcErr "github.com/oggyb/vidhub/internal/errors"
)

// ActorHeader carries the authenticated user id set by the gateway.
const ActorHeader = "x-actor-id"

// ActorID returns the caller's user id. Mutating calls require it.
func ActorID(ctx context.Context) (uint64, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return 0, svcErr.Unauthenticated("missing " + ActorHeader)
	}
	vals := md.Get(ActorHeader)
	if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
		return 0, svcErr.Unauthenticated("missing " + ActorHeader)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(vals[0]), 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Unauthenticated(ActorHeader + " must be a positive integer")
	}
	return id, nil
}

// OptionalActorID returns 0 for anonymous or malformed callers.
func OptionalActorID(ctx context.Context) uint64 {
	id, err := ActorID(ctx)
	if err != nil {
		return 0
	}
	return id
}
