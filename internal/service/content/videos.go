package content

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/media"
	"github.com/oggyb/vidhub/internal/repository"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/validate"
)

// VideoInput describes an already uploaded video. VideoFile and Thumbnail
// are references into the media store.
type VideoInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"required,max=5000"`
	VideoFile   string  `json:"video_file" validate:"required,max=512"`
	Thumbnail   string  `json:"thumbnail" validate:"required,max=512"`
	Duration    float64 `json:"duration" validate:"gt=0"`
	Category    string  `json:"category" validate:"required,category"`
}

// VideoUpdate applies only the non-empty fields.
type VideoUpdate struct {
	Title       string `json:"title" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,max=512"`
}

// VideoChange is returned by UpdateVideo.
type VideoChange struct {
	Video   *db.Video `json:"video"`
	Updated []string  `json:"updated"`
}

// PublishVideo creates a published video owned by actorID.
func (s *Service) PublishVideo(ctx context.Context, actorID uint64, in VideoInput) (res *response.Result, err error) {
	s.log(ctx).Debug("PublishVideo called", "actor", actorID)
	defer func() { s.done(ctx, "video", "create", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	validate.Trim(&in.Title, &in.Description, &in.VideoFile, &in.Thumbnail, &in.Category)
	in.Category = strings.ToLower(in.Category)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	video := &db.Video{
		OwnerID:     actorID,
		Title:       in.Title,
		Description: in.Description,
		VideoFile:   in.VideoFile,
		Thumbnail:   in.Thumbnail,
		Duration:    in.Duration,
		IsPublished: true,
		Category:    in.Category,
	}
	if err := repository.NewVideoRepository(s.appCtx.DB).Create(ctx, video); err != nil {
		return nil, svcErr.Wrap(err, "failed to create video")
	}
	return response.Created("Video created successfully", video), nil
}

// UpdateVideo applies title, description and thumbnail changes to a video
// owned by actorID. A replaced thumbnail is removed from the media store
// after commit.
//
// Example:
//
//	svc.UpdateVideo(ctx, 7, 42, content.VideoUpdate{Title: "New"})
//	// message: "Video updated successfully, updated title"
func (s *Service) UpdateVideo(ctx context.Context, actorID, videoID uint64, in VideoUpdate) (res *response.Result, err error) {
	s.log(ctx).Debug("UpdateVideo called", "actor", actorID, "video", videoID)
	defer func() { s.done(ctx, "video", "update", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(videoID, "video"); err != nil {
		return nil, err
	}
	validate.Trim(&in.Title, &in.Description, &in.Thumbnail)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var (
		video        *db.Video
		oldThumbnail string
		updated      = []string{}
	)
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		videos := repository.NewVideoRepository(tx)
		v, err := loadVideo(ctx, videos, videoID)
		if err != nil {
			return err
		}
		if err := checkOwner(v.OwnerID, actorID, "update", "video"); err != nil {
			return err
		}

		fields := map[string]any{}
		if in.Title != "" {
			fields["title"] = in.Title
			updated = append(updated, "title")
		}
		if in.Description != "" {
			fields["description"] = in.Description
			updated = append(updated, "description")
		}
		if in.Thumbnail != "" {
			fields["thumbnail"] = in.Thumbnail
			updated = append(updated, "thumbnail")
			if v.Thumbnail != in.Thumbnail {
				oldThumbnail = v.Thumbnail
			}
		}
		if err := videos.UpdateFields(ctx, videoID, fields); err != nil {
			return err
		}
		video, err = videos.FindByID(ctx, videoID)
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to update video")
	}

	media.Discard(ctx, s.appCtx.Media, s.log(ctx), oldThumbnail)

	summary := "none"
	if len(updated) > 0 {
		summary = strings.Join(updated, ", ")
	}
	return response.OK("Video updated successfully, updated "+summary, VideoChange{Video: video, Updated: updated}), nil
}

// TogglePublishStatus flips is_published of a video owned by actorID.
func (s *Service) TogglePublishStatus(ctx context.Context, actorID, videoID uint64) (res *response.Result, err error) {
	s.log(ctx).Debug("TogglePublishStatus called", "actor", actorID, "video", videoID)
	defer func() { s.done(ctx, "video", "publish", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(videoID, "video"); err != nil {
		return nil, err
	}

	var video *db.Video
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		videos := repository.NewVideoRepository(tx)
		v, err := loadVideo(ctx, videos, videoID)
		if err != nil {
			return err
		}
		if err := checkOwner(v.OwnerID, actorID, "update", "video"); err != nil {
			return err
		}
		if err := videos.SetPublished(ctx, videoID, !v.IsPublished); err != nil {
			return err
		}
		video, err = videos.FindByID(ctx, videoID)
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to toggle publish status")
	}
	return response.OK("Video publish status updated successfully", video), nil
}

// DeleteVideo removes a video owned by actorID together with its comments,
// every like on the video or its comments, playlist memberships and
// watch-history entries. The media files are removed after commit.
func (s *Service) DeleteVideo(ctx context.Context, actorID, videoID uint64) (res *response.Result, err error) {
	s.log(ctx).Debug("DeleteVideo called", "actor", actorID, "video", videoID)
	defer func() { s.done(ctx, "video", "delete", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(videoID, "video"); err != nil {
		return nil, err
	}

	var video *db.Video
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		videos := repository.NewVideoRepository(tx)
		v, err := loadVideo(ctx, videos, videoID)
		if err != nil {
			return err
		}
		if err := checkOwner(v.OwnerID, actorID, "delete", "video"); err != nil {
			return err
		}
		video = v
		return videos.Delete(ctx, videoID)
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to delete video")
	}

	s.invalidateStats(ctx, videoID)
	media.Discard(ctx, s.appCtx.Media, s.log(ctx), video.Thumbnail, video.VideoFile)

	return response.OK("Video deleted successfully", map[string]uint64{"video_id": videoID}), nil
}

// RecordWatch counts a view and prepends the video to the actor's watch
// history in one transaction. Unpublished videos are visible to their
// owner only.
func (s *Service) RecordWatch(ctx context.Context, actorID, videoID uint64) (res *response.Result, err error) {
	s.log(ctx).Debug("RecordWatch called", "actor", actorID, "video", videoID)
	defer func() { s.done(ctx, "watch", "create", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(videoID, "video"); err != nil {
		return nil, err
	}

	var views int64
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		videos := repository.NewVideoRepository(tx)
		v, err := loadVideo(ctx, videos, videoID)
		if err != nil {
			return err
		}
		if !v.IsPublished && v.OwnerID != actorID {
			return svcErr.NotFound("Video not found")
		}
		if err := videos.IncrementViews(ctx, videoID); err != nil {
			return err
		}
		if err := repository.NewUserRepository(tx).AppendWatch(ctx, actorID, videoID); err != nil {
			return err
		}
		views = v.Views + 1
		return nil
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to record watch")
	}

	s.invalidateStats(ctx, videoID)
	return response.OK("Watch recorded successfully", map[string]any{"video_id": videoID, "views": views}), nil
}

func loadVideo(ctx context.Context, videos *repository.VideoRepository, id uint64) (*db.Video, error) {
	v, err := videos.FindForUpdate(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Video not found")
	}
	return v, err
}
