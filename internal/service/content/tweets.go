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

type TweetInput struct {
	Content string `json:"content" validate:"required,max=280"`
}

func (s *Service) CreateTweet(ctx context.Context, actorID uint64, content string) (res *response.Result, err error) {
	s.log(ctx).Debug("CreateTweet called", "actor", actorID)
	defer func() { s.done(ctx, "tweet", "create", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	in := TweetInput{Content: content}
	validate.Trim(&in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	tweet := &db.Tweet{OwnerID: actorID, Content: in.Content}
	if err := repository.NewTweetRepository(s.appCtx.DB).Create(ctx, tweet); err != nil {
		return nil, svcErr.Wrap(err, "failed to create tweet")
	}
	return response.Created("Tweet created successfully", tweet), nil
}

func (s *Service) UpdateTweet(ctx context.Context, actorID, tweetID uint64, content string) (res *response.Result, err error) {
	s.log(ctx).Debug("UpdateTweet called", "actor", actorID, "tweet", tweetID)
	defer func() { s.done(ctx, "tweet", "update", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(tweetID, "tweet"); err != nil {
		return nil, err
	}
	in := TweetInput{Content: content}
	validate.Trim(&in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var tweet *db.Tweet
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tweets := repository.NewTweetRepository(tx)
		t, err := loadTweet(ctx, tweets, tweetID)
		if err != nil {
			return err
		}
		if err := checkOwner(t.OwnerID, actorID, "update", "tweet"); err != nil {
			return err
		}
		if err := tweets.UpdateContent(ctx, tweetID, in.Content); err != nil {
			return err
		}
		tweet, err = tweets.FindByID(ctx, tweetID)
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to update tweet")
	}
	return response.OK("Tweet updated successfully", tweet), nil
}

// DeleteTweet removes a tweet owned by actorID and the likes on it.
func (s *Service) DeleteTweet(ctx context.Context, actorID, tweetID uint64) (res *response.Result, err error) {
	s.log(ctx).Debug("DeleteTweet called", "actor", actorID, "tweet", tweetID)
	defer func() { s.done(ctx, "tweet", "delete", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(tweetID, "tweet"); err != nil {
		return nil, err
	}

	var deleted *db.Tweet
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tweets := repository.NewTweetRepository(tx)
		t, err := loadTweet(ctx, tweets, tweetID)
		if err != nil {
			return err
		}
		if err := checkOwner(t.OwnerID, actorID, "delete", "tweet"); err != nil {
			return err
		}
		deleted = t
		removed, err := tweets.Delete(ctx, tweetID)
		if err != nil {
			return err
		}
		if !removed {
			return svcErr.NotFound("Tweet not found")
		}
		return nil
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to delete tweet")
	}
	return response.OK("Tweet deleted successfully", deleted), nil
}

func loadTweet(ctx context.Context, tweets *repository.TweetRepository, id uint64) (*db.Tweet, error) {
	t, err := tweets.FindForUpdate(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Tweet not found")
	}
	return t, err
}
