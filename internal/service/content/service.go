package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oggyb/vidhub/internal/app"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/logger"
	"github.com/oggyb/vidhub/internal/metrics"
)

// Service applies ownership-scoped mutations to comments, tweets,
// playlists and videos. Every non-create mutation loads the record,
// checks that the actor owns it, and only then writes.
type Service struct {
	appCtx *app.AppContext
}

// NewContentService creates the mutation engine on top of AppContext.
func NewContentService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, s.appCtx.Logger)
}

// done counts the mutation and logs unexpected failures.
func (s *Service) done(ctx context.Context, entity, op string, err error) {
	metrics.MutationsTotal.WithLabelValues(entity, op, metrics.Result(err)).Inc()
	if err != nil && svcErr.Is(err, svcErr.KindInternal) {
		s.log(ctx).Error("mutation failed", "entity", entity, "op", op, "err", err)
	}
}

func (s *Service) invalidateStats(ctx context.Context, videoIDs ...uint64) {
	if err := s.appCtx.RedisCache.InvalidateVideoStats(context.WithoutCancel(ctx), videoIDs...); err != nil {
		s.log(ctx).Warn("failed to invalidate video stats", "videos", videoIDs, "err", err)
	}
}

func requireActor(actorID uint64) error {
	if actorID == 0 {
		return svcErr.Unauthenticated("actor is required")
	}
	return nil
}

func requireID(id uint64, name string) error {
	if id == 0 {
		return svcErr.InvalidArgument(name + " id is required")
	}
	return nil
}

// checkOwner rejects actors other than the record owner.
func checkOwner(ownerID, actorID uint64, verb, entity string) error {
	if ownerID != actorID {
		return svcErr.Forbidden(fmt.Sprintf("You are not allowed to %s this %s", verb, entity))
	}
	return nil
}
