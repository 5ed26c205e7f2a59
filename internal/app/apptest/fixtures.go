package apptest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oggyb/vidhub/internal/db"
)

// User inserts a user named name.
func (e *Env) User(t *testing.T, name string) *db.User {
	t.Helper()
	u := &db.User{
		Username:     name,
		Email:        name + "@example.com",
		FullName:     name,
		PasswordHash: "x",
		Avatar:       fmt.Sprintf("http://media.local/vidhub-media/avatars/%s.png", name),
	}
	require.NoError(t, e.App.DB.Create(u).Error)
	return u
}

// Video inserts a published video owned by ownerID.
func (e *Env) Video(t *testing.T, ownerID uint64, title string) *db.Video {
	t.Helper()
	v := &db.Video{
		OwnerID:     ownerID,
		Title:       title,
		Description: title + " description",
		VideoFile:   "http://media.local/vidhub-media/videos/" + title + ".mp4",
		Thumbnail:   "http://media.local/vidhub-media/thumbs/" + title + ".png",
		Duration:    60,
		IsPublished: true,
		Category:    "education",
	}
	require.NoError(t, e.App.DB.Create(v).Error)
	return v
}

// Comment inserts a comment directly, keeping comments_count in step.
func (e *Env) Comment(t *testing.T, ownerID, videoID uint64, content string) *db.Comment {
	t.Helper()
	c := &db.Comment{OwnerID: ownerID, VideoID: videoID, Content: content}
	require.NoError(t, e.App.DB.Create(c).Error)
	require.NoError(t, e.App.DB.Exec("UPDATE videos SET comments_count = comments_count + 1 WHERE id = ?", videoID).Error)
	return c
}

func (e *Env) Tweet(t *testing.T, ownerID uint64, content string) *db.Tweet {
	t.Helper()
	tw := &db.Tweet{OwnerID: ownerID, Content: content}
	require.NoError(t, e.App.DB.Create(tw).Error)
	return tw
}

func (e *Env) Playlist(t *testing.T, ownerID uint64, name string) *db.Playlist {
	t.Helper()
	p := &db.Playlist{OwnerID: ownerID, Name: name, Description: name + " description"}
	require.NoError(t, e.App.DB.Create(p).Error)
	return p
}

// ReloadVideo reads the stored video row.
func (e *Env) ReloadVideo(t *testing.T, id uint64) *db.Video {
	t.Helper()
	var v db.Video
	require.NoError(t, e.App.DB.Take(&v, id).Error)
	return &v
}
