package db

import (
	"time"
)

// User table. Credential fields are written by the auth flows only.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	FullName     string    `gorm:"size:128;not null;default:''" json:"full_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Avatar       string    `gorm:"size:512" json:"avatar"`
	CoverImage   string    `gorm:"size:512" json:"cover_image"`
	RefreshToken string    `gorm:"size:512" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// WatchHistoryEntry is one element of a user's watch history.
// Ordered by ID DESC (most recent first); the same video may appear many times.
type WatchHistoryEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_watch_user_id,priority:1" json:"user_id"`
	VideoID   uint64    `gorm:"not null;index" json:"video_id"`
	WatchedAt time.Time `gorm:"autoCreateTime" json:"watched_at"`
}

func (WatchHistoryEntry) TableName() string { return "watch_history" }

// Video carries three denormalized counters. LikesCount and CommentsCount
// are written only inside the transactions that create/delete the rows
// they count.
type Video struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID       uint64    `gorm:"not null;index" json:"owner_id"`
	Title         string    `gorm:"size:255;not null;index" json:"title"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	VideoFile     string    `gorm:"size:512;not null" json:"video_file"`
	Thumbnail     string    `gorm:"size:512;not null" json:"thumbnail"`
	Duration      float64   `gorm:"not null" json:"duration"`
	Views         int64     `gorm:"not null;default:0" json:"views"`
	IsPublished   bool      `gorm:"not null;default:true" json:"is_published"`
	Category      string    `gorm:"size:32;not null" json:"category"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int64     `gorm:"not null;default:0" json:"dislikes_count"`
	CommentsCount int64     `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   uint64    `gorm:"not null;index:idx_comment_video_id,priority:1" json:"video_id"`
	OwnerID   uint64    `gorm:"not null;index" json:"owner_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Tweet struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   uint64    `gorm:"not null;index" json:"owner_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Like is a relationship row pointing at exactly one video, comment or tweet.
//
// Unique index idx_like_actor_target(liked_by, target_type, target_id)
// enforces at most one like per (liker, target) at the storage layer.
// idx_like_target(target_type, target_id) serves counts per target.
type Like struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	LikedBy    uint64    `gorm:"not null;uniqueIndex:idx_like_actor_target,priority:1" json:"liked_by"`
	TargetType string    `gorm:"size:16;not null;uniqueIndex:idx_like_actor_target,priority:2;index:idx_like_target,priority:1" json:"target_type"`
	TargetID   uint64    `gorm:"not null;uniqueIndex:idx_like_actor_target,priority:3;index:idx_like_target,priority:2" json:"target_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Subscription links a subscriber to a channel (both users).
// Unique index idx_subscription_pair(subscriber_id, channel_id).
type Subscription struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SubscriberID uint64    `gorm:"not null;uniqueIndex:idx_subscription_pair,priority:1" json:"subscriber_id"`
	ChannelID    uint64    `gorm:"not null;uniqueIndex:idx_subscription_pair,priority:2;index" json:"channel_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Playlist struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PlaylistVideo is one membership row. The composite PK makes the
// playlist a set; Position keeps insertion order.
type PlaylistVideo struct {
	PlaylistID uint64    `gorm:"primaryKey;autoIncrement:false" json:"playlist_id"`
	VideoID    uint64    `gorm:"primaryKey;autoIncrement:false;index" json:"video_id"`
	Position   int64     `gorm:"not null" json:"position"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// All lists every model for migrations.
func All() []any {
	return []any{
		&User{}, &WatchHistoryEntry{}, &Video{}, &Comment{}, &Tweet{},
		&Like{}, &Subscription{}, &Playlist{}, &PlaylistVideo{},
	}
}

// TargetType is the discriminant of a like target.
type TargetType string

const (
	TargetVideo   TargetType = "video"
	TargetComment TargetType = "comment"
	TargetTweet   TargetType = "tweet"
)

// ParseTargetType accepts the lower-case discriminant names.
func ParseTargetType(s string) (TargetType, bool) {
	switch t := TargetType(s); t {
	case TargetVideo, TargetComment, TargetTweet:
		return t, true
	}
	return "", false
}

// LikeTarget is the tagged reference a like points at.
type LikeTarget struct {
	Type TargetType
	ID   uint64
}

func VideoTarget(id uint64) LikeTarget   { return LikeTarget{Type: TargetVideo, ID: id} }
func CommentTarget(id uint64) LikeTarget { return LikeTarget{Type: TargetComment, ID: id} }
func TweetTarget(id uint64) LikeTarget   { return LikeTarget{Type: TargetTweet, ID: id} }

// Categories accepted for videos.
var Categories = []string{
	"music", "sports", "gaming", "news", "movies", "tv shows", "education", "comedy", "entertainment",
}
