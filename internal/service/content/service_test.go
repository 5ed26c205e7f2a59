package content_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/vidhub/internal/app/apptest"
	"github.com/oggyb/vidhub/internal/cache"
	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/service/content"
)

func setupService(t *testing.T) (*content.Service, *apptest.Env) {
	t.Helper()
	env := apptest.New(t)
	return content.NewContentService(env.App), env
}

func count(t *testing.T, env *apptest.Env, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.App.DB.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func like(t *testing.T, env *apptest.Env, actorID uint64, target db.LikeTarget) {
	t.Helper()
	require.NoError(t, env.App.DB.Create(&db.Like{
		LikedBy: actorID, TargetType: string(target.Type), TargetID: target.ID,
	}).Error)
}

func TestCreateComment_BumpsCounter(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	fan := env.User(t, "fan")
	video := env.Video(t, owner.ID, "intro")

	res, err := svc.CreateComment(ctx, fan.ID, video.ID, "  great video  ")
	require.NoError(t, err)
	assert.Equal(t, response.StatusCreated, res.Status)
	c := res.Data.(*db.Comment)
	assert.Equal(t, "great video", c.Content)
	assert.Equal(t, fan.ID, c.OwnerID)

	assert.Equal(t, int64(1), env.ReloadVideo(t, video.ID).CommentsCount)
	assert.Equal(t, int64(1), count(t, env, &db.Comment{}, "video_id = ?", video.ID))
}

func TestCreateComment_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)
	fan := env.User(t, "fan")
	video := env.Video(t, fan.ID, "intro")

	_, err := svc.CreateComment(ctx, fan.ID, 999, "hello")
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
	assert.Equal(t, int64(0), count(t, env, &db.Comment{}, "1 = 1"))

	_, err = svc.CreateComment(ctx, fan.ID, video.ID, "   ")
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))
	assert.EqualError(t, err, "content is required")

	_, err = svc.CreateComment(ctx, 0, video.ID, "hello")
	assert.True(t, svcErr.Is(err, svcErr.KindUnauthenticated))

	assert.Equal(t, int64(0), env.ReloadVideo(t, video.ID).CommentsCount)
}

func TestUpdateComment_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	other := env.User(t, "other")
	video := env.Video(t, owner.ID, "intro")
	comment := env.Comment(t, owner.ID, video.ID, "original")

	_, err := svc.UpdateComment(ctx, other.ID, comment.ID, "hijacked")
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))

	var stored db.Comment
	require.NoError(t, env.App.DB.Take(&stored, comment.ID).Error)
	assert.Equal(t, "original", stored.Content)

	res, err := svc.UpdateComment(ctx, owner.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", res.Data.(*db.Comment).Content)

	_, err = svc.UpdateComment(ctx, owner.ID, 999, "edited")
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}

func TestDeleteComment_RemovesLikesAndDecrements(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	fan := env.User(t, "fan")
	video := env.Video(t, owner.ID, "intro")
	comment := env.Comment(t, fan.ID, video.ID, "first")
	env.Comment(t, owner.ID, video.ID, "second")
	like(t, env, owner.ID, db.CommentTarget(comment.ID))

	_, err := svc.DeleteComment(ctx, owner.ID, comment.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))
	assert.Equal(t, int64(2), env.ReloadVideo(t, video.ID).CommentsCount)

	_, err = svc.DeleteComment(ctx, fan.ID, comment.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), env.ReloadVideo(t, video.ID).CommentsCount)
	assert.Equal(t, int64(1), count(t, env, &db.Comment{}, "video_id = ?", video.ID))
	assert.Equal(t, int64(0), count(t, env, &db.Like{}, "target_type = ? AND target_id = ?", "comment", comment.ID))

	_, err = svc.DeleteComment(ctx, fan.ID, comment.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}

func TestDeleteComment_ConcurrentDeletesDecrementOnce(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	video := env.Video(t, owner.ID, "intro")
	comment := env.Comment(t, owner.ID, video.ID, "double submit")
	env.Comment(t, owner.ID, video.ID, "keeper")

	const n = 4
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.DeleteComment(ctx, owner.ID, comment.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, svcErr.Is(err, svcErr.KindNotFound), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	rows := count(t, env, &db.Comment{}, "video_id = ?", video.ID)
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, rows, env.ReloadVideo(t, video.ID).CommentsCount)
}

func TestCommentMutationsInvalidateStats(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	video := env.Video(t, owner.ID, "intro")
	rc := env.App.RedisCache
	require.NoError(t, rc.SetVideoStats(ctx, video.ID, cache.VideoStats{Comments: 0}))

	_, err := svc.CreateComment(ctx, owner.ID, video.ID, "hello")
	require.NoError(t, err)
	assert.False(t, env.Redis.Exists(rc.KeyForVideoStats(video.ID)))
}

func TestTweets(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	author := env.User(t, "author")
	other := env.User(t, "other")

	res, err := svc.CreateTweet(ctx, author.ID, "hello world")
	require.NoError(t, err)
	tweet := res.Data.(*db.Tweet)

	_, err = svc.CreateTweet(ctx, author.ID, "")
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))

	_, err = svc.UpdateTweet(ctx, other.ID, tweet.ID, "mine now")
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))

	res, err = svc.UpdateTweet(ctx, author.ID, tweet.ID, "hello again")
	require.NoError(t, err)
	assert.Equal(t, "hello again", res.Data.(*db.Tweet).Content)

	like(t, env, other.ID, db.TweetTarget(tweet.ID))

	_, err = svc.DeleteTweet(ctx, other.ID, tweet.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))

	_, err = svc.DeleteTweet(ctx, author.ID, tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count(t, env, &db.Tweet{}, "id = ?", tweet.ID))
	assert.Equal(t, int64(0), count(t, env, &db.Like{}, "target_type = ?", "tweet"))
}

func TestPlaylists(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	other := env.User(t, "other")
	video := env.Video(t, owner.ID, "intro")

	res, err := svc.CreatePlaylist(ctx, owner.ID, content.PlaylistInput{Name: "Favourites", Description: "best of"})
	require.NoError(t, err)
	playlist := res.Data.(*db.Playlist)

	_, err = svc.CreatePlaylist(ctx, owner.ID, content.PlaylistInput{Name: " "})
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))

	// empty fields are left as they are
	res, err = svc.UpdatePlaylist(ctx, owner.ID, playlist.ID, content.PlaylistUpdate{Name: "Top"})
	require.NoError(t, err)
	updated := res.Data.(*db.Playlist)
	assert.Equal(t, "Top", updated.Name)
	assert.Equal(t, "best of", updated.Description)

	_, err = svc.UpdatePlaylist(ctx, other.ID, playlist.ID, content.PlaylistUpdate{Name: "Mine"})
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))

	require.NoError(t, env.App.DB.Create(&db.PlaylistVideo{PlaylistID: playlist.ID, VideoID: video.ID, Position: 1}).Error)

	_, err = svc.DeletePlaylist(ctx, other.ID, playlist.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))

	_, err = svc.DeletePlaylist(ctx, owner.ID, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count(t, env, &db.Playlist{}, "id = ?", playlist.ID))
	assert.Equal(t, int64(0), count(t, env, &db.PlaylistVideo{}, "playlist_id = ?", playlist.ID))

	_, err = svc.DeletePlaylist(ctx, owner.ID, playlist.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}

func validVideo() content.VideoInput {
	return content.VideoInput{
		Title:       "Go in practice",
		Description: "a talk",
		VideoFile:   "http://media.local/vidhub-media/videos/go.mp4",
		Thumbnail:   "http://media.local/vidhub-media/thumbs/go.png",
		Duration:    312.5,
		Category:    "Education",
	}
}

func TestPublishVideo(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)
	owner := env.User(t, "owner")

	res, err := svc.PublishVideo(ctx, owner.ID, validVideo())
	require.NoError(t, err)
	v := res.Data.(*db.Video)
	assert.Equal(t, "education", v.Category)
	assert.True(t, v.IsPublished)
	assert.Equal(t, int64(0), v.LikesCount)

	bad := validVideo()
	bad.Category = "cooking"
	_, err = svc.PublishVideo(ctx, owner.ID, bad)
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))

	bad = validVideo()
	bad.Duration = 0
	_, err = svc.PublishVideo(ctx, owner.ID, bad)
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))

	bad = validVideo()
	bad.Title = ""
	_, err = svc.PublishVideo(ctx, owner.ID, bad)
	assert.EqualError(t, err, "title is required")
}

func TestUpdateVideo_ReplacesThumbnail(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	other := env.User(t, "other")
	video := env.Video(t, owner.ID, "intro")

	_, err := svc.UpdateVideo(ctx, other.ID, video.ID, content.VideoUpdate{Title: "x"})
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))

	res, err := svc.UpdateVideo(ctx, owner.ID, video.ID, content.VideoUpdate{
		Title:     "Intro v2",
		Thumbnail: "http://media.local/vidhub-media/thumbs/v2.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Video updated successfully, updated title, thumbnail", res.Message)
	change := res.Data.(content.VideoChange)
	assert.Equal(t, []string{"title", "thumbnail"}, change.Updated)
	assert.Equal(t, "Intro v2", change.Video.Title)
	assert.Equal(t, video.Description, change.Video.Description)
	assert.Equal(t, []string{video.Thumbnail}, env.Media.Removed())

	res, err = svc.UpdateVideo(ctx, owner.ID, video.ID, content.VideoUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Video updated successfully, updated none", res.Message)
	assert.Len(t, env.Media.Removed(), 1)
}

func TestUpdateVideo_MediaFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)
	env.Media.Fail = true

	owner := env.User(t, "owner")
	video := env.Video(t, owner.ID, "intro")

	_, err := svc.UpdateVideo(ctx, owner.ID, video.ID, content.VideoUpdate{Thumbnail: "http://media.local/vidhub-media/thumbs/new.png"})
	require.NoError(t, err)
	assert.Equal(t, "http://media.local/vidhub-media/thumbs/new.png", env.ReloadVideo(t, video.ID).Thumbnail)
}

func TestTogglePublishStatus(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	other := env.User(t, "other")
	video := env.Video(t, owner.ID, "intro")

	res, err := svc.TogglePublishStatus(ctx, owner.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, res.Data.(*db.Video).IsPublished)

	res, err = svc.TogglePublishStatus(ctx, owner.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, res.Data.(*db.Video).IsPublished)

	_, err = svc.TogglePublishStatus(ctx, other.ID, video.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))
}

func TestDeleteVideo_Cascades(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	fan := env.User(t, "fan")
	video := env.Video(t, owner.ID, "doomed")
	keep := env.Video(t, owner.ID, "kept")
	comment := env.Comment(t, fan.ID, video.ID, "bye")
	like(t, env, fan.ID, db.VideoTarget(video.ID))
	like(t, env, owner.ID, db.CommentTarget(comment.ID))
	like(t, env, fan.ID, db.VideoTarget(keep.ID))
	playlist := env.Playlist(t, fan.ID, "mix")
	require.NoError(t, env.App.DB.Create(&db.PlaylistVideo{PlaylistID: playlist.ID, VideoID: video.ID, Position: 1}).Error)
	require.NoError(t, env.App.DB.Create(&db.WatchHistoryEntry{UserID: fan.ID, VideoID: video.ID}).Error)

	_, err := svc.DeleteVideo(ctx, fan.ID, video.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindForbidden))

	_, err = svc.DeleteVideo(ctx, owner.ID, video.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), count(t, env, &db.Video{}, "id = ?", video.ID))
	assert.Equal(t, int64(0), count(t, env, &db.Comment{}, "video_id = ?", video.ID))
	assert.Equal(t, int64(1), count(t, env, &db.Like{}, "1 = 1"))
	assert.Equal(t, int64(0), count(t, env, &db.PlaylistVideo{}, "video_id = ?", video.ID))
	assert.Equal(t, int64(0), count(t, env, &db.WatchHistoryEntry{}, "video_id = ?", video.ID))
	assert.ElementsMatch(t, []string{video.Thumbnail, video.VideoFile}, env.Media.Removed())

	_, err = svc.DeleteVideo(ctx, owner.ID, video.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}

func TestRecordWatch(t *testing.T) {
	ctx := context.Background()
	svc, env := setupService(t)

	owner := env.User(t, "owner")
	viewer := env.User(t, "viewer")
	video := env.Video(t, owner.ID, "intro")

	_, err := svc.RecordWatch(ctx, viewer.ID, video.ID)
	require.NoError(t, err)
	_, err = svc.RecordWatch(ctx, viewer.ID, video.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), env.ReloadVideo(t, video.ID).Views)
	assert.Equal(t, int64(2), count(t, env, &db.WatchHistoryEntry{}, "user_id = ?", viewer.ID))

	require.NoError(t, env.App.DB.Model(&db.Video{}).Where("id = ?", video.ID).Update("is_published", false).Error)
	_, err = svc.RecordWatch(ctx, viewer.ID, video.ID)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))

	_, err = svc.RecordWatch(ctx, owner.ID, video.ID)
	require.NoError(t, err)
}
