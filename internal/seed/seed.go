package seed

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/db"
	"github.com/oggyb/vidhub/internal/repository"
	"github.com/oggyb/vidhub/internal/service/content"
	"github.com/oggyb/vidhub/internal/service/engagement"
	"github.com/oggyb/vidhub/internal/service/playlist"
)

// Options sizes the demo dataset.
type Options struct {
	Users           int
	VideosPerUser   int
	CommentsPerUser int
	Seed            int64
}

// DefaultOptions is what `admin seed` and development servers use.
var DefaultOptions = Options{Users: 10, VideosPerUser: 3, CommentsPerUser: 5, Seed: 1}

// Stats reports what was created.
type Stats struct {
	Users         int
	Videos        int
	Comments      int
	Likes         int
	Subscriptions int
	Playlists     int
}

// Run resets every table and populates demo data through the engines, so
// counters are maintained the same way as in production.
//
// Behavior:
//  1. Clears all tables (children first) and resets sequences.
//  2. Creates users with bcrypt hashes of "password".
//  3. Publishes videos, comments, likes, subscriptions, playlists and
//     watch history with a deterministic random source.
func Run(ctx context.Context, appCtx *app.AppContext, opts Options) (*Stats, error) {
	if opts.Users <= 0 {
		opts = DefaultOptions
	}
	r := rand.New(rand.NewSource(opts.Seed))
	log := appCtx.Logger

	if err := reset(appCtx.DB); err != nil {
		return nil, err
	}
	log.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	stats := &Stats{}
	users := repository.NewUserRepository(appCtx.DB)
	userIDs := make([]uint64, 0, opts.Users)
	for i := 1; i <= opts.Users; i++ {
		u := &db.User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			FullName:     fmt.Sprintf("User %d", i),
			PasswordHash: string(hash),
			Avatar:       fmt.Sprintf("avatars/user%d.png", i),
		}
		if err := users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to seed user: %w", err)
		}
		userIDs = append(userIDs, u.ID)
	}
	stats.Users = len(userIDs)

	contentSvc := content.NewContentService(appCtx)
	engagementSvc := engagement.NewEngagementService(appCtx)
	playlistSvc := playlist.NewPlaylistService(appCtx)

	var videoIDs []uint64
	for _, owner := range userIDs {
		for j := 1; j <= opts.VideosPerUser; j++ {
			res, err := contentSvc.PublishVideo(ctx, owner, content.VideoInput{
				Title:       fmt.Sprintf("Video %d by user %d", j, owner),
				Description: "Seeded demo video",
				VideoFile:   fmt.Sprintf("videos/%d-%d.mp4", owner, j),
				Thumbnail:   fmt.Sprintf("thumbs/%d-%d.png", owner, j),
				Duration:    float64(30 + r.Intn(600)),
				Category:    db.Categories[r.Intn(len(db.Categories))],
			})
			if err != nil {
				return nil, fmt.Errorf("failed to seed video: %w", err)
			}
			videoIDs = append(videoIDs, res.Data.(*db.Video).ID)
		}
	}
	stats.Videos = len(videoIDs)
	if len(videoIDs) == 0 {
		return stats, nil
	}

	for _, actor := range userIDs {
		for j := 0; j < opts.CommentsPerUser; j++ {
			video := videoIDs[r.Intn(len(videoIDs))]
			if _, err := contentSvc.CreateComment(ctx, actor, video, fmt.Sprintf("Comment %d from user %d", j+1, actor)); err != nil {
				return nil, fmt.Errorf("failed to seed comment: %w", err)
			}
			stats.Comments++
		}

		// like a distinct sample of videos, roughly 70% of the time
		for _, i := range r.Perm(len(videoIDs))[:min(len(videoIDs), 6)] {
			if r.Intn(100) >= 70 {
				continue
			}
			if _, err := engagementSvc.ToggleLike(ctx, actor, db.VideoTarget(videoIDs[i])); err != nil {
				return nil, fmt.Errorf("failed to seed like: %w", err)
			}
			stats.Likes++
		}

		for _, i := range r.Perm(len(userIDs))[:min(len(userIDs), 3)] {
			if userIDs[i] == actor {
				continue
			}
			if _, err := engagementSvc.ToggleSubscription(ctx, actor, userIDs[i]); err != nil {
				return nil, fmt.Errorf("failed to seed subscription: %w", err)
			}
			stats.Subscriptions++
		}

		res, err := contentSvc.CreatePlaylist(ctx, actor, content.PlaylistInput{
			Name:        fmt.Sprintf("Favourites of user %d", actor),
			Description: "Seeded playlist",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed playlist: %w", err)
		}
		stats.Playlists++
		playlistID := res.Data.(*db.Playlist).ID
		for _, i := range r.Perm(len(videoIDs))[:min(len(videoIDs), 3)] {
			if _, err := playlistSvc.AddVideo(ctx, actor, playlistID, videoIDs[i]); err != nil {
				return nil, fmt.Errorf("failed to seed playlist video: %w", err)
			}
			if _, err := contentSvc.RecordWatch(ctx, actor, videoIDs[i]); err != nil {
				return nil, fmt.Errorf("failed to seed watch history: %w", err)
			}
		}
	}

	log.Info("seeded demo data",
		"users", stats.Users, "videos", stats.Videos, "comments", stats.Comments,
		"likes", stats.Likes, "subscriptions", stats.Subscriptions, "playlists", stats.Playlists)
	return stats, nil
}

var tables = []string{
	"likes", "playlist_videos", "watch_history", "comments", "tweets",
	"playlists", "subscriptions", "videos", "users",
}

// reset clears every table. AUTO_INCREMENT reset is dialect specific.
func reset(gdb *gorm.DB) error {
	for _, table := range tables {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		switch gdb.Dialector.Name() {
		case "mysql":
			gdb.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		case "sqlite":
			gdb.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}
	return nil
}
