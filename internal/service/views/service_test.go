package views_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/vidhub/internal/app/apptest"
	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/repository"
	"github.com/oggyb/vidhub/internal/service/views"
)

func setupService(t *testing.T) (*views.Service, *apptest.Env) {
	t.Helper()
	env := apptest.New(t)
	return views.NewViewsService(env.App), env
}

func subscribe(t *testing.T, env *apptest.Env, subscriberID, channelID uint64) {
	t.Helper()
	require.NoError(t, env.App.DB.Create(&db.Subscription{SubscriberID: subscriberID, ChannelID: channelID}).Error)
}

func TestChannelProfile(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	channel := env.User(t, "channel")
	a := env.User(t, "alice")
	b := env.User(t, "bob")
	subscribe(t, env, a.ID, channel.ID)
	subscribe(t, env, b.ID, channel.ID)
	subscribe(t, env, channel.ID, a.ID)

	res, err := svc.ChannelProfile(ctx, a.ID, " Channel ")
	require.NoError(t, err)
	row := res.Data.(*repository.ChannelRow)
	assert.Equal(t, channel.ID, row.ID)
	assert.Equal(t, int64(2), row.SubscribersCount)
	assert.Equal(t, int64(1), row.ChannelsSubscribedToCount)
	assert.True(t, row.IsSubscribed)

	res, err = svc.ChannelProfile(ctx, 0, "channel")
	require.NoError(t, err)
	assert.False(t, res.Data.(*repository.ChannelRow).IsSubscribed)

	res, err = svc.ChannelProfile(ctx, channel.ID, "bob")
	require.NoError(t, err)
	assert.False(t, res.Data.(*repository.ChannelRow).IsSubscribed)
	assert.Equal(t, int64(0), res.Data.(*repository.ChannelRow).SubscribersCount)

	_, err = svc.ChannelProfile(ctx, a.ID, "nobody")
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))

	_, err = svc.ChannelProfile(ctx, a.ID, "  ")
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))
}

func TestVideoComments_Pagination(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	video := env.Video(t, owner.ID, "busy")
	for i := 1; i <= 15; i++ {
		env.Comment(t, owner.ID, video.ID, fmt.Sprintf("comment %d", i))
	}

	res, err := svc.VideoComments(ctx, video.ID, 2, 10)
	require.NoError(t, err)
	page := res.Data.(views.VideoComments)
	assert.Equal(t, int64(15), page.Total)
	require.Len(t, page.Comments, 5)
	for i, c := range page.Comments {
		assert.Equal(t, fmt.Sprintf("comment %d", 11+i), c.Content)
		assert.Equal(t, owner.ID, c.Owner.ID)
		assert.Equal(t, "owner", c.Owner.Username)
	}
	assert.Equal(t, video.Title, page.Video.Title)

	res, err = svc.VideoComments(ctx, video.ID, 0, 0)
	require.NoError(t, err)
	page = res.Data.(views.VideoComments)
	assert.Len(t, page.Comments, 10)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, "comment 1", page.Comments[0].Content)

	res, err = svc.VideoComments(ctx, video.ID, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Data.(views.VideoComments).Comments)

	_, err = svc.VideoComments(ctx, video.ID, -1, 10)
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))

	// an offset that wraps around must not fall back to the first page
	_, err = svc.VideoComments(ctx, video.ID, 1<<62+1, 4)
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))
}

func TestVideoComments_EmptyVersusMissing(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	video := env.Video(t, owner.ID, "quiet")

	res, err := svc.VideoComments(ctx, video.ID, 1, 10)
	require.NoError(t, err)
	page := res.Data.(views.VideoComments)
	assert.NotNil(t, page.Comments)
	assert.Empty(t, page.Comments)
	assert.Equal(t, int64(0), page.Total)

	_, err = svc.VideoComments(ctx, 999, 1, 10)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}

func TestLikedVideos(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	fan := env.User(t, "fan")
	first := env.Video(t, owner.ID, "first")
	second := env.Video(t, owner.ID, "second")
	tweet := env.Tweet(t, owner.ID, "hi")

	for _, l := range []db.Like{
		{LikedBy: fan.ID, TargetType: string(db.TargetVideo), TargetID: first.ID},
		{LikedBy: fan.ID, TargetType: string(db.TargetTweet), TargetID: tweet.ID},
		{LikedBy: fan.ID, TargetType: string(db.TargetVideo), TargetID: second.ID},
	} {
		require.NoError(t, env.App.DB.Create(&l).Error)
	}

	res, err := svc.LikedVideos(ctx, fan.ID)
	require.NoError(t, err)
	liked := res.Data.(views.LikedVideos)
	require.Equal(t, 2, liked.Count)
	assert.Equal(t, second.ID, liked.Videos[0].ID)
	assert.Equal(t, first.ID, liked.Videos[1].ID)
	assert.Equal(t, "owner", liked.Videos[0].Owner.Username)
	assert.Equal(t, fan.ID, liked.User.ID)

	res, err = svc.LikedVideos(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Data.(views.LikedVideos).Videos)

	_, err = svc.LikedVideos(ctx, 999)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}

func TestSubscriptionsViews(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	channel := env.User(t, "channel")
	a := env.User(t, "alice")
	b := env.User(t, "bob")
	subscribe(t, env, a.ID, channel.ID)
	subscribe(t, env, b.ID, channel.ID)
	subscribe(t, env, a.ID, b.ID)

	res, err := svc.ChannelSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	subs := res.Data.(views.ChannelSubscribers)
	assert.Equal(t, 2, subs.Count)
	assert.Equal(t, []string{"alice", "bob"}, []string{subs.Subscribers[0].Username, subs.Subscribers[1].Username})
	assert.Equal(t, "alice@example.com", subs.Subscribers[0].Email)

	res, err = svc.SubscribedChannels(ctx, a.ID)
	require.NoError(t, err)
	chans := res.Data.(views.SubscribedChannels)
	assert.Equal(t, 2, chans.Count)
	assert.Equal(t, channel.ID, chans.Channels[0].ID)

	res, err = svc.SubscribedChannels(ctx, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Data.(views.SubscribedChannels).Count)

	_, err = svc.ChannelSubscribers(ctx, 999)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}

func TestWatchHistory(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	viewer := env.User(t, "viewer")
	a := env.Video(t, owner.ID, "a")
	b := env.Video(t, owner.ID, "b")
	for _, id := range []uint64{a.ID, b.ID, a.ID} {
		require.NoError(t, env.App.DB.Create(&db.WatchHistoryEntry{UserID: viewer.ID, VideoID: id}).Error)
	}

	res, err := svc.WatchHistory(ctx, viewer.ID)
	require.NoError(t, err)
	history := res.Data.([]repository.VideoCard)
	require.Len(t, history, 3)
	assert.Equal(t, []uint64{a.ID, b.ID, a.ID}, []uint64{history[0].ID, history[1].ID, history[2].ID})
	assert.Equal(t, repository.OwnerProfile{
		ID: owner.ID, Username: "owner", FullName: "owner", Avatar: owner.Avatar,
	}, history[0].Owner)
}

func TestUserTweetsAndPlaylists(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	user := env.User(t, "user")
	env.Tweet(t, user.ID, "older")
	env.Tweet(t, user.ID, "newer")
	env.Playlist(t, user.ID, "one")

	res, err := svc.UserTweets(ctx, user.ID)
	require.NoError(t, err)
	tweets := res.Data.(views.UserTweets).Tweets
	require.Len(t, tweets, 2)
	assert.Equal(t, "newer", tweets[0].Content)

	res, err = svc.UserPlaylists(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, res.Data.(views.UserPlaylists).Playlists, 1)
}

func TestPlaylistContentsAndVideo(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	a := env.Video(t, owner.ID, "a")
	b := env.Video(t, owner.ID, "b")
	playlist := env.Playlist(t, owner.ID, "mix")
	require.NoError(t, env.App.DB.Create(&db.PlaylistVideo{PlaylistID: playlist.ID, VideoID: b.ID, Position: 1}).Error)
	require.NoError(t, env.App.DB.Create(&db.PlaylistVideo{PlaylistID: playlist.ID, VideoID: a.ID, Position: 2}).Error)

	res, err := svc.PlaylistContents(ctx, playlist.ID)
	require.NoError(t, err)
	contents := res.Data.(views.PlaylistContents)
	require.Len(t, contents.Videos, 2)
	assert.Equal(t, b.ID, contents.Videos[0].ID)
	assert.Equal(t, a.ID, contents.Videos[1].ID)
	assert.Equal(t, owner.ID, contents.Owner.ID)

	_, err = svc.PlaylistContents(ctx, 999)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))

	res, err = svc.Video(ctx, 0, a.ID)
	require.NoError(t, err)
	card := res.Data.(*repository.VideoCard)
	assert.Equal(t, "a", card.Title)
	assert.Equal(t, "owner", card.Owner.Username)

	_, err = svc.Video(ctx, 0, 999)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}

func TestVideo_UnpublishedVisibleToOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	viewer := env.User(t, "viewer")
	video := env.Video(t, owner.ID, "draft")
	require.NoError(t, env.App.DB.Model(&db.Video{}).Where("id = ?", video.ID).Update("is_published", false).Error)

	_, err := svc.Video(ctx, 0, video.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
	_, err = svc.Video(ctx, viewer.ID, video.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))

	res, err := svc.Video(ctx, owner.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, res.Data.(*repository.VideoCard).IsPublished)
}
