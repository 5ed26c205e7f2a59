package views

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/logger"
	"github.com/oggyb/vidhub/internal/repository"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/utils/pagination"
)

// Service assembles read-only composite views with joins at read time.
// A view fails with NotFound only when its root record is missing; empty
// relationship sets come back as empty lists.
type Service struct {
	appCtx       *app.AppContext
	userRepo     *repository.UserRepository
	videoRepo    *repository.VideoRepository
	commentRepo  *repository.CommentRepository
	likeRepo     *repository.LikeRepository
	subRepo      *repository.SubscriptionRepository
	tweetRepo    *repository.TweetRepository
	playlistRepo *repository.PlaylistRepository
}

func NewViewsService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		userRepo:     repository.NewUserRepository(appCtx.DB),
		videoRepo:    repository.NewVideoRepository(appCtx.DB),
		commentRepo:  repository.NewCommentRepository(appCtx.DB),
		likeRepo:     repository.NewLikeRepository(appCtx.DB),
		subRepo:      repository.NewSubscriptionRepository(appCtx.DB),
		tweetRepo:    repository.NewTweetRepository(appCtx.DB),
		playlistRepo: repository.NewPlaylistRepository(appCtx.DB),
	}
}

// VideoHeader is the slice of a video shown above its comments.
type VideoHeader struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type VideoComments struct {
	Video    VideoHeader             `json:"video"`
	Comments []repository.CommentRow `json:"comments"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	Limit    int                     `json:"limit"`
}

type LikedVideos struct {
	User   *repository.UserProfile `json:"user"`
	Videos []repository.LikedVideo `json:"videos"`
	Count  int                     `json:"count"`
}

type ChannelSubscribers struct {
	Channel     *repository.UserProfile  `json:"channel"`
	Subscribers []repository.UserProfile `json:"subscribers"`
	Count       int                      `json:"count"`
}

type SubscribedChannels struct {
	Subscriber *repository.UserProfile  `json:"subscriber"`
	Channels   []repository.UserProfile `json:"channels"`
	Count      int                      `json:"count"`
}

type UserTweets struct {
	User   *repository.UserProfile `json:"user"`
	Tweets []db.Tweet              `json:"tweets"`
}

type UserPlaylists struct {
	User      *repository.UserProfile `json:"user"`
	Playlists []db.Playlist           `json:"playlists"`
}

type PlaylistContents struct {
	Playlist *db.Playlist           `json:"playlist"`
	Owner    *repository.UserProfile `json:"owner"`
	Videos   []repository.VideoCard `json:"videos"`
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, s.appCtx.Logger)
}

// ChannelProfile returns a channel with both subscription counts and
// whether viewerID subscribes to it. viewerID 0 is an anonymous viewer.
func (s *Service) ChannelProfile(ctx context.Context, viewerID uint64, userName string) (*response.Result, error) {
	s.log(ctx).Debug("ChannelProfile called", "viewer", viewerID, "username", userName)

	userName = strings.ToLower(strings.TrimSpace(userName))
	if userName == "" {
		return nil, svcErr.InvalidArgument("username is required")
	}

	channel, err := s.userRepo.Channel(ctx, userName, viewerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("channel does not exist")
	}
	if err != nil {
		return nil, s.fail(ctx, "ChannelProfile", err)
	}
	return response.OK("Channel details fetched successfully", channel), nil
}

// VideoComments returns one page of a video's comments in insertion order,
// with the total comment count.
//
// Example:
//
//	svc.VideoComments(ctx, 42, 2, 10) // comments 11..20
func (s *Service) VideoComments(ctx context.Context, videoID uint64, page, limit int64) (*response.Result, error) {
	s.log(ctx).Debug("VideoComments called", "video", videoID, "page", page, "limit", limit)

	if videoID == 0 {
		return nil, svcErr.InvalidArgument("video id is required")
	}
	p, err := pagination.New(page, limit)
	if err != nil {
		return nil, svcErr.InvalidArgument(err.Error())
	}

	video, err := s.videoRepo.FindByID(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Video not found")
	}
	if err != nil {
		return nil, s.fail(ctx, "VideoComments", err)
	}

	comments, err := s.commentRepo.ListByVideo(ctx, videoID, p.Offset(), p.Limit)
	if err != nil {
		return nil, s.fail(ctx, "VideoComments", err)
	}
	total, err := s.commentRepo.CountByVideo(ctx, videoID)
	if err != nil {
		return nil, s.fail(ctx, "VideoComments", err)
	}

	return response.OK("comments fetched successfully", VideoComments{
		Video: VideoHeader{
			ID:          video.ID,
			Title:       video.Title,
			Thumbnail:   video.Thumbnail,
			Description: video.Description,
			CreatedAt:   video.CreatedAt,
		},
		Comments: comments,
		Total:    total,
		Page:     p.Number,
		Limit:    p.Limit,
	}), nil
}

// LikedVideos returns the videos userID liked, most recent like first.
func (s *Service) LikedVideos(ctx context.Context, userID uint64) (*response.Result, error) {
	s.log(ctx).Debug("LikedVideos called", "user", userID)

	user, err := s.profile(ctx, userID, "User not found")
	if err != nil {
		return nil, err
	}
	videos, err := s.likeRepo.LikedVideos(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "LikedVideos", err)
	}
	return response.OK("Liked videos fetched successfully", LikedVideos{User: user, Videos: videos, Count: len(videos)}), nil
}

func (s *Service) ChannelSubscribers(ctx context.Context, channelID uint64) (*response.Result, error) {
	s.log(ctx).Debug("ChannelSubscribers called", "channel", channelID)

	channel, err := s.profile(ctx, channelID, "Channel not found")
	if err != nil {
		return nil, err
	}
	subs, err := s.subRepo.Subscribers(ctx, channelID)
	if err != nil {
		return nil, s.fail(ctx, "ChannelSubscribers", err)
	}
	return response.OK("Fetched user channels successfully", ChannelSubscribers{
		Channel: channel, Subscribers: subs, Count: len(subs),
	}), nil
}

func (s *Service) SubscribedChannels(ctx context.Context, subscriberID uint64) (*response.Result, error) {
	s.log(ctx).Debug("SubscribedChannels called", "subscriber", subscriberID)

	subscriber, err := s.profile(ctx, subscriberID, "Subscriber not found")
	if err != nil {
		return nil, err
	}
	channels, err := s.subRepo.SubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, s.fail(ctx, "SubscribedChannels", err)
	}
	return response.OK("Fetched subscribed channels successfully", SubscribedChannels{
		Subscriber: subscriber, Channels: channels, Count: len(channels),
	}), nil
}

// WatchHistory returns the user's watched videos, most recent first, each
// with a single embedded owner.
func (s *Service) WatchHistory(ctx context.Context, userID uint64) (*response.Result, error) {
	s.log(ctx).Debug("WatchHistory called", "user", userID)

	if _, err := s.profile(ctx, userID, "User not found"); err != nil {
		return nil, err
	}
	videos, err := s.userRepo.WatchHistory(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "WatchHistory", err)
	}
	return response.OK("WatchHistory fetched successfully", videos), nil
}

func (s *Service) UserTweets(ctx context.Context, userID uint64) (*response.Result, error) {
	s.log(ctx).Debug("UserTweets called", "user", userID)

	user, err := s.profile(ctx, userID, "User not found")
	if err != nil {
		return nil, err
	}
	tweets, err := s.tweetRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "UserTweets", err)
	}
	return response.OK("User tweets fetched successfully", UserTweets{User: user, Tweets: tweets}), nil
}

func (s *Service) UserPlaylists(ctx context.Context, userID uint64) (*response.Result, error) {
	s.log(ctx).Debug("UserPlaylists called", "user", userID)

	user, err := s.profile(ctx, userID, "User not found")
	if err != nil {
		return nil, err
	}
	playlists, err := s.playlistRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "UserPlaylists", err)
	}
	return response.OK("User playlists fetched successfully", UserPlaylists{User: user, Playlists: playlists}), nil
}

// PlaylistContents resolves a playlist's members in position order.
func (s *Service) PlaylistContents(ctx context.Context, playlistID uint64) (*response.Result, error) {
	s.log(ctx).Debug("PlaylistContents called", "playlist", playlistID)

	if playlistID == 0 {
		return nil, svcErr.InvalidArgument("playlist id is required")
	}
	playlist, err := s.playlistRepo.FindByID(ctx, playlistID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Playlist not found")
	}
	if err != nil {
		return nil, s.fail(ctx, "PlaylistContents", err)
	}

	owner, err := s.userRepo.Profile(ctx, playlist.OwnerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.fail(ctx, "PlaylistContents", err)
	}
	videos, err := s.playlistRepo.Videos(ctx, playlistID)
	if err != nil {
		return nil, s.fail(ctx, "PlaylistContents", err)
	}
	return response.OK("Playlist fetched successfully", PlaylistContents{Playlist: playlist, Owner: owner, Videos: videos}), nil
}

// Video returns one video with its owner. Unpublished videos are visible
// to their owner only; viewerID is 0 for anonymous callers.
func (s *Service) Video(ctx context.Context, viewerID, videoID uint64) (*response.Result, error) {
	s.log(ctx).Debug("Video called", "viewer", viewerID, "video", videoID)

	if videoID == 0 {
		return nil, svcErr.InvalidArgument("video id is required")
	}
	card, err := s.videoRepo.Card(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Video not found")
	}
	if err != nil {
		return nil, s.fail(ctx, "Video", err)
	}
	if !card.IsPublished && (viewerID == 0 || card.Owner.ID != viewerID) {
		return nil, svcErr.NotFound("Video not found")
	}
	return response.OK("Video fetched successfully", card), nil
}

func (s *Service) profile(ctx context.Context, userID uint64, notFound string) (*repository.UserProfile, error) {
	if userID == 0 {
		return nil, svcErr.InvalidArgument("user id is required")
	}
	p, err := s.userRepo.Profile(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound(notFound)
	}
	if err != nil {
		return nil, s.fail(ctx, "profile", err)
	}
	return p, nil
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	wrapped := svcErr.Wrap(err, "failed to load "+op)
	if svcErr.Is(wrapped, svcErr.KindInternal) {
		s.log(ctx).Error(op+" failed", "err", err)
	}
	return wrapped
}
