package playlist

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/app"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/lock"
	"github.com/oggyb/vidhub/internal/logger"
	"github.com/oggyb/vidhub/internal/metrics"
	"github.com/oggyb/vidhub/internal/repository"
	"github.com/oggyb/vidhub/internal/response"
)

// Service manages playlist membership. A playlist holds each video at most
// once, in insertion order.
type Service struct {
	appCtx *app.AppContext
}

func NewPlaylistService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

// Membership is returned by AddVideo and RemoveVideo.
type Membership struct {
	PlaylistID uint64   `json:"playlist_id"`
	VideoID    uint64   `json:"video_id"`
	VideoIDs   []uint64 `json:"video_ids"`
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, s.appCtx.Logger)
}

// AddVideo appends videoID to a playlist owned by actorID.
//
// Behavior:
//   - Playlist or video missing → NotFound; non-owner → Forbidden.
//   - Video already present → Conflict (pre-check, then the primary key).
//   - Calls on the same playlist are serialized on lock:playlist:<id>.
func (s *Service) AddVideo(ctx context.Context, actorID, playlistID, videoID uint64) (res *response.Result, err error) {
	s.log(ctx).Debug("AddVideo called", "actor", actorID, "playlist", playlistID, "video", videoID)
	defer func() { s.done(ctx, "add", err) }()

	if err := validateIDs(actorID, playlistID, videoID); err != nil {
		return nil, err
	}

	release, err := s.appCtx.Locker.Acquire(ctx, lock.PlaylistKey(playlistID))
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	var ids []uint64
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		playlists := repository.NewPlaylistRepository(tx)
		if err := ownedPlaylist(ctx, playlists, playlistID, actorID); err != nil {
			return err
		}

		ok, err := repository.NewVideoRepository(tx).ExistsForShare(ctx, videoID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.NotFound("Video not found")
		}

		present, err := playlists.HasVideo(ctx, playlistID, videoID)
		if err != nil {
			return err
		}
		if present {
			return svcErr.Conflict("Video already exists in playlist")
		}
		if err := playlists.AppendVideo(ctx, playlistID, videoID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return svcErr.Conflict("Video already exists in playlist")
			}
			return err
		}

		ids, err = playlists.VideoIDs(ctx, playlistID)
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to add video to playlist")
	}

	return response.OK("Video added to playlist successfully", Membership{
		PlaylistID: playlistID, VideoID: videoID, VideoIDs: ids,
	}), nil
}

// RemoveVideo drops videoID from a playlist owned by actorID. Removing a
// video that is not a member → NotFound. Other members keep their order.
func (s *Service) RemoveVideo(ctx context.Context, actorID, playlistID, videoID uint64) (res *response.Result, err error) {
	s.log(ctx).Debug("RemoveVideo called", "actor", actorID, "playlist", playlistID, "video", videoID)
	defer func() { s.done(ctx, "remove", err) }()

	if err := validateIDs(actorID, playlistID, videoID); err != nil {
		return nil, err
	}

	release, err := s.appCtx.Locker.Acquire(ctx, lock.PlaylistKey(playlistID))
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	var ids []uint64
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		playlists := repository.NewPlaylistRepository(tx)
		if err := ownedPlaylist(ctx, playlists, playlistID, actorID); err != nil {
			return err
		}

		removed, err := playlists.RemoveVideo(ctx, playlistID, videoID)
		if err != nil {
			return err
		}
		if !removed {
			return svcErr.NotFound("Video not found in playlist")
		}

		ids, err = playlists.VideoIDs(ctx, playlistID)
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to remove video from playlist")
	}

	return response.OK("Video removed from playlist successfully", Membership{
		PlaylistID: playlistID, VideoID: videoID, VideoIDs: ids,
	}), nil
}

func (s *Service) done(ctx context.Context, op string, err error) {
	metrics.MutationsTotal.WithLabelValues("playlist_video", op, metrics.Result(err)).Inc()
	if err != nil && svcErr.Is(err, svcErr.KindInternal) {
		s.log(ctx).Error("playlist membership change failed", "op", op, "err", err)
	}
}

func validateIDs(actorID, playlistID, videoID uint64) error {
	switch {
	case actorID == 0:
		return svcErr.Unauthenticated("actor is required")
	case playlistID == 0:
		return svcErr.InvalidArgument("playlist id is required")
	case videoID == 0:
		return svcErr.InvalidArgument("video id is required")
	}
	return nil
}

func ownedPlaylist(ctx context.Context, playlists *repository.PlaylistRepository, playlistID, actorID uint64) error {
	p, err := playlists.FindByID(ctx, playlistID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("Playlist not found")
	}
	if err != nil {
		return err
	}
	if p.OwnerID != actorID {
		return svcErr.Forbidden("You are not allowed to modify this playlist")
	}
	return nil
}

func lockError(err error) error {
	if errors.Is(err, lock.ErrBusy) {
		return svcErr.Conflict("playlist is being modified, try again")
	}
	return svcErr.Wrap(err, "failed to acquire lock")
}
