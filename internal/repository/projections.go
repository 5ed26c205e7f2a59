package repository

import "time"

// UserProfile is the public-safe subset of a user row.
type UserProfile struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

// OwnerProfile is the projection embedded into video rows.
type OwnerProfile struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

// VideoCard is a video joined with its owner.
type VideoCard struct {
	ID            uint64       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	VideoFile     string       `json:"video_file"`
	Thumbnail     string       `json:"thumbnail"`
	Duration      float64      `json:"duration"`
	Views         int64        `json:"views"`
	IsPublished   bool         `json:"is_published"`
	Category      string       `json:"category"`
	LikesCount    int64        `json:"likes_count"`
	DislikesCount int64        `json:"dislikes_count"`
	CommentsCount int64        `json:"comments_count"`
	CreatedAt     time.Time    `json:"created_at"`
	Owner         OwnerProfile `json:"owner" gorm:"embedded;embeddedPrefix:owner_"`
}

// CommentRow is a comment joined with its author.
type CommentRow struct {
	ID        uint64       `json:"id"`
	VideoID   uint64       `json:"video_id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Owner     OwnerProfile `json:"owner" gorm:"embedded;embeddedPrefix:owner_"`
}

// ChannelRow is a user joined with both sides of its subscriptions.
type ChannelRow struct {
	ID                        uint64 `json:"id"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	FullName                  string `json:"full_name"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"cover_image"`
	SubscribersCount          int64  `json:"subscribers_count"`
	ChannelsSubscribedToCount int64  `json:"channels_subscribed_to_count"`
	IsSubscribed              bool   `json:"is_subscribed"`
}

const (
	videoCardColumns = `v.id, v.title, v.description, v.video_file, v.thumbnail, v.duration, v.views,
		v.is_published, v.category, v.likes_count, v.dislikes_count, v.comments_count, v.created_at,
		u.id AS owner_id, u.username AS owner_username, u.full_name AS owner_full_name, u.avatar AS owner_avatar`

	userProfileColumns = "u.id, u.username, u.email, u.full_name, u.avatar"
)
