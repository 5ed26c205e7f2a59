package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/cache"
	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/lock"
	"github.com/oggyb/vidhub/internal/logger"
	"github.com/oggyb/vidhub/internal/metrics"
	"github.com/oggyb/vidhub/internal/repository"
	"github.com/oggyb/vidhub/internal/response"
)

const reconcileBatch = 500

// Service toggles likes and subscriptions and keeps the video counters
// in step with the like and comment rows.
type Service struct {
	appCtx    *app.AppContext
	videoRepo *repository.VideoRepository
}

// NewEngagementService creates the toggle engine on top of AppContext.
func NewEngagementService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		videoRepo: repository.NewVideoRepository(appCtx.DB),
	}
}

// LikeState is the outcome of a like toggle.
type LikeState struct {
	Liked      bool          `json:"liked"`
	TargetType db.TargetType `json:"target_type"`
	TargetID   uint64        `json:"target_id"`
}

// SubscriptionState is the outcome of a subscription toggle.
type SubscriptionState struct {
	Subscribed bool   `json:"subscribed"`
	ChannelID  uint64 `json:"channel_id"`
}

// ReconcileReport holds the recomputed counters of one video.
type ReconcileReport struct {
	VideoID  uint64 `json:"video_id"`
	Likes    int64  `json:"likes_count"`
	Comments int64  `json:"comments_count"`
}

// ToggleLike flips the like of actorID on target.
//
// Behavior:
//   - Serializes on the (actor, target) lock key.
//   - Loads the target, then deletes or inserts the like row in one transaction.
//   - For video targets, likes_count moves by ±1 in the same transaction.
//   - Drops the cached stats of the video after commit.
//
// Example:
//
//	svc.ToggleLike(ctx, 7, db.VideoTarget(42)) // liked=true, then false on the next call
func (s *Service) ToggleLike(ctx context.Context, actorID uint64, target db.LikeTarget) (*response.Result, error) {
	s.log(ctx).Debug("ToggleLike called", "actor", actorID, "target_type", target.Type, "target_id", target.ID)

	if actorID == 0 {
		return nil, svcErr.Unauthenticated("actor is required")
	}
	if _, ok := db.ParseTargetType(string(target.Type)); !ok {
		return nil, svcErr.InvalidArgument("target type must be one of video, comment, tweet")
	}
	if target.ID == 0 {
		return nil, svcErr.InvalidArgument(fmt.Sprintf("%s id is required", target.Type))
	}

	release, err := s.appCtx.Locker.Acquire(ctx, lock.LikeKey(actorID, target))
	if err != nil {
		metrics.TogglesTotal.WithLabelValues(string(target.Type), "error").Inc()
		return nil, lockError(err)
	}
	defer release()

	state := LikeState{TargetType: target.Type, TargetID: target.ID}
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := targetExists(ctx, tx, target); err != nil {
			return err
		}

		likes := repository.NewLikeRepository(tx)
		existing, err := likes.Find(ctx, actorID, target)
		if err != nil {
			return err
		}

		delta := int64(1)
		if existing != nil {
			if _, err := likes.Delete(ctx, existing.ID); err != nil {
				return err
			}
			delta = -1
		} else {
			if _, err := likes.Create(ctx, actorID, target); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return svcErr.Conflict(fmt.Sprintf("%s is already liked", target.Type))
				}
				return err
			}
			state.Liked = true
		}

		if target.Type == db.TargetVideo {
			return repository.NewVideoRepository(tx).AdjustLikes(ctx, target.ID, delta)
		}
		return nil
	})
	if err != nil {
		metrics.TogglesTotal.WithLabelValues(string(target.Type), "error").Inc()
		if !svcErr.Is(err, svcErr.KindNotFound) && !svcErr.Is(err, svcErr.KindConflict) {
			s.log(ctx).Error("ToggleLike failed", "actor", actorID, "target_type", target.Type, "target_id", target.ID, "err", err)
		}
		return nil, svcErr.Wrap(err, "failed to toggle like")
	}

	if target.Type == db.TargetVideo {
		s.invalidateStats(ctx, target.ID)
	}

	outcome, verb := "off", "unliked"
	if state.Liked {
		outcome, verb = "on", "liked"
	}
	metrics.TogglesTotal.WithLabelValues(string(target.Type), outcome).Inc()

	return response.OK(fmt.Sprintf("%s %s successfully", target.Type, verb), state), nil
}

// ToggleSubscription flips subscriberID's subscription to channelID.
// Self-subscription is allowed.
func (s *Service) ToggleSubscription(ctx context.Context, subscriberID, channelID uint64) (*response.Result, error) {
	s.log(ctx).Debug("ToggleSubscription called", "subscriber", subscriberID, "channel", channelID)

	if subscriberID == 0 {
		return nil, svcErr.Unauthenticated("actor is required")
	}
	if channelID == 0 {
		return nil, svcErr.InvalidArgument("channel id is required")
	}

	release, err := s.appCtx.Locker.Acquire(ctx, lock.SubscriptionKey(subscriberID, channelID))
	if err != nil {
		metrics.TogglesTotal.WithLabelValues("subscription", "error").Inc()
		return nil, lockError(err)
	}
	defer release()

	state := SubscriptionState{ChannelID: channelID}
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repository.NewUserRepository(tx).Exists(ctx, channelID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.NotFound("channel not found")
		}

		subs := repository.NewSubscriptionRepository(tx)
		existing, err := subs.Find(ctx, subscriberID, channelID)
		if err != nil {
			return err
		}
		if existing != nil {
			_, err := subs.Delete(ctx, existing.ID)
			return err
		}
		if _, err := subs.Create(ctx, subscriberID, channelID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return svcErr.Conflict("already subscribed to channel")
			}
			return err
		}
		state.Subscribed = true
		return nil
	})
	if err != nil {
		metrics.TogglesTotal.WithLabelValues("subscription", "error").Inc()
		return nil, svcErr.Wrap(err, "failed to toggle subscription")
	}

	if state.Subscribed {
		metrics.TogglesTotal.WithLabelValues("subscription", "on").Inc()
		return response.OK("Subscribed successfully", state), nil
	}
	metrics.TogglesTotal.WithLabelValues("subscription", "off").Inc()
	return response.OK("Unsubscribed successfully", state), nil
}

// ReconcileVideoCounters recomputes likes_count and comments_count of one
// video from the rows they mirror.
func (s *Service) ReconcileVideoCounters(ctx context.Context, videoID uint64) (*response.Result, error) {
	if videoID == 0 {
		return nil, svcErr.InvalidArgument("video id is required")
	}

	report, err := s.reconcile(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return response.OK("Video counters reconciled successfully", report), nil
}

func (s *Service) reconcile(ctx context.Context, videoID uint64) (*ReconcileReport, error) {
	var counters *repository.VideoCounters
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		videos := repository.NewVideoRepository(tx)
		ok, err := videos.Exists(ctx, videoID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.NotFound("video not found")
		}
		if err := videos.Reconcile(ctx, videoID); err != nil {
			return err
		}
		counters, err = videos.Counters(ctx, videoID)
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to reconcile video counters")
	}

	metrics.ReconciledCounters.Inc()
	s.invalidateStats(ctx, videoID)

	return &ReconcileReport{VideoID: videoID, Likes: counters.LikesCount, Comments: counters.CommentsCount}, nil
}

// ReconcileAll walks every video in id order and reconciles them with at
// most concurrency workers. Videos deleted mid-walk are skipped.
func (s *Service) ReconcileAll(ctx context.Context, concurrency int) (int, error) {
	if concurrency <= 0 {
		concurrency = 4
	}
	s.log(ctx).Info("reconciling video counters", "concurrency", concurrency)

	var (
		afterID uint64
		total   int
	)
	for {
		ids, err := s.videoRepo.IDsAfter(ctx, afterID, reconcileBatch)
		if err != nil {
			return total, svcErr.Wrap(err, "failed to list videos")
		}
		if len(ids) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, id := range ids {
			g.Go(func() error {
				_, err := s.reconcile(gctx, id)
				if svcErr.Is(err, svcErr.KindNotFound) {
					return nil
				}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return total, err
		}

		total += len(ids)
		afterID = ids[len(ids)-1]
	}

	s.log(ctx).Info("video counters reconciled", "videos", total)
	return total, nil
}

// VideoStats returns the counters of a video.
// Cache-first strategy:
//  1. Attempts to read from Redis (video:stats:<id>).
//  2. On miss or Redis failure, falls back to the videos row.
//  3. On DB fetch, stores the counters with the configured TTL.
func (s *Service) VideoStats(ctx context.Context, videoID uint64) (*response.Result, error) {
	s.log(ctx).Debug("VideoStats called", "video", videoID)

	if videoID == 0 {
		return nil, svcErr.InvalidArgument("video id is required")
	}

	if cached, err := s.appCtx.RedisCache.GetVideoStats(ctx, videoID); err == nil && cached != nil {
		return response.OK("Video stats fetched successfully", *cached), nil
	}

	counters, err := s.videoRepo.Counters(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("video not found")
	}
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to load video stats")
	}

	stats := cache.VideoStats{
		Likes:    counters.LikesCount,
		Dislikes: counters.DislikesCount,
		Comments: counters.CommentsCount,
		Views:    counters.Views,
	}
	if err := s.appCtx.RedisCache.SetVideoStats(ctx, videoID, stats); err != nil {
		s.log(ctx).Warn("failed to cache video stats", "video", videoID, "err", err)
	}

	return response.OK("Video stats fetched successfully", stats), nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, s.appCtx.Logger)
}

func (s *Service) invalidateStats(ctx context.Context, videoID uint64) {
	if err := s.appCtx.RedisCache.InvalidateVideoStats(context.WithoutCancel(ctx), videoID); err != nil {
		s.log(ctx).Warn("failed to invalidate video stats", "video", videoID, "err", err)
	}
}

// targetExists holds a shared lock on the target row, so a delete of the
// target cannot commit between this check and the like insert.
func targetExists(ctx context.Context, tx *gorm.DB, target db.LikeTarget) error {
	var (
		ok  bool
		err error
	)
	switch target.Type {
	case db.TargetVideo:
		ok, err = repository.NewVideoRepository(tx).ExistsForShare(ctx, target.ID)
	case db.TargetComment:
		ok, err = repository.NewCommentRepository(tx).ExistsForShare(ctx, target.ID)
	case db.TargetTweet:
		ok, err = repository.NewTweetRepository(tx).ExistsForShare(ctx, target.ID)
	}
	if err != nil {
		return err
	}
	if !ok {
		return svcErr.NotFound(fmt.Sprintf("%s not found", target.Type))
	}
	return nil
}

func lockError(err error) error {
	if errors.Is(err, lock.ErrBusy) {
		return svcErr.Conflict("another toggle on this target is in progress")
	}
	return svcErr.Wrap(err, "failed to acquire lock")
}
