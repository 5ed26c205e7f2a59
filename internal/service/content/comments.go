package content

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/repository"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/validate"
)

// CommentInput is the editable part of a comment.
type CommentInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// CreateComment adds a comment to a video and bumps its comments_count in
// the same transaction.
func (s *Service) CreateComment(ctx context.Context, actorID, videoID uint64, content string) (res *response.Result, err error) {
	s.log(ctx).Debug("CreateComment called", "actor", actorID, "video", videoID)
	defer func() { s.done(ctx, "comment", "create", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(videoID, "video"); err != nil {
		return nil, err
	}
	in := CommentInput{Content: content}
	validate.Trim(&in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	comment := &db.Comment{VideoID: videoID, OwnerID: actorID, Content: in.Content}
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		videos := repository.NewVideoRepository(tx)
		ok, err := videos.ExistsForShare(ctx, videoID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.NotFound("Video not found")
		}
		if err := repository.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}
		return videos.AdjustComments(ctx, videoID, 1)
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to create comment")
	}

	s.invalidateStats(ctx, videoID)
	return response.Created("Comment created successfully", comment), nil
}

// UpdateComment replaces the content of a comment owned by actorID.
func (s *Service) UpdateComment(ctx context.Context, actorID, commentID uint64, content string) (res *response.Result, err error) {
	s.log(ctx).Debug("UpdateComment called", "actor", actorID, "comment", commentID)
	defer func() { s.done(ctx, "comment", "update", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(commentID, "comment"); err != nil {
		return nil, err
	}
	in := CommentInput{Content: content}
	validate.Trim(&in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var comment *db.Comment
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := repository.NewCommentRepository(tx)
		c, err := loadComment(ctx, comments, commentID)
		if err != nil {
			return err
		}
		if err := checkOwner(c.OwnerID, actorID, "update", "comment"); err != nil {
			return err
		}
		if err := comments.UpdateContent(ctx, commentID, in.Content); err != nil {
			return err
		}
		comment, err = comments.FindByID(ctx, commentID)
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to update comment")
	}

	return response.OK("Comment updated successfully", comment), nil
}

// DeleteComment removes a comment owned by actorID along with the likes
// on it, and decrements the video's comments_count in the same transaction.
func (s *Service) DeleteComment(ctx context.Context, actorID, commentID uint64) (res *response.Result, err error) {
	s.log(ctx).Debug("DeleteComment called", "actor", actorID, "comment", commentID)
	defer func() { s.done(ctx, "comment", "delete", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(commentID, "comment"); err != nil {
		return nil, err
	}

	var videoID uint64
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := repository.NewCommentRepository(tx)
		c, err := loadComment(ctx, comments, commentID)
		if err != nil {
			return err
		}
		if err := checkOwner(c.OwnerID, actorID, "delete", "comment"); err != nil {
			return err
		}
		videoID = c.VideoID
		removed, err := comments.Delete(ctx, commentID)
		if err != nil {
			return err
		}
		if !removed {
			return svcErr.NotFound("Comment not found")
		}
		err = repository.NewVideoRepository(tx).AdjustComments(ctx, c.VideoID, -1)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to delete comment")
	}

	s.invalidateStats(ctx, videoID)
	return response.OK("Comment deleted successfully", map[string]uint64{"comment_id": commentID}), nil
}

func loadComment(ctx context.Context, comments *repository.CommentRepository, id uint64) (*db.Comment, error) {
	c, err := comments.FindForUpdate(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Comment not found")
	}
	return c, err
}
