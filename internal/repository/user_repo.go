package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/db"
)

// UserRepository provides data access for users and their watch history.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a user. Username/email uniqueness is enforced by the schema.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID returns gorm.ErrRecordNotFound when the user does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Take(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Profile returns the public projection of a user.
func (r *UserRepository) Profile(ctx context.Context, id uint64) (*UserProfile, error) {
	var p UserProfile
	res := r.db.WithContext(ctx).
		Table("users u").
		Select(userProfileColumns).
		Where("u.id = ?", id).
		Limit(1).
		Scan(&p)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

// Channel loads a user by username together with its subscriber count,
// the number of channels it subscribes to, and whether viewerID subscribes
// to it. viewerID 0 never matches.
func (r *UserRepository) Channel(ctx context.Context, userName string, viewerID uint64) (*ChannelRow, error) {
	var row ChannelRow
	res := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id, u.username, u.email, u.full_name, u.avatar, u.cover_image,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscribers_count,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS channels_subscribed_to_count,
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = ?) AS is_subscribed`,
			viewerID).
		Where("u.username = ?", userName).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// AppendWatch records videoID at the head of the user's watch history.
func (r *UserRepository) AppendWatch(ctx context.Context, userID, videoID uint64) error {
	return r.db.WithContext(ctx).Create(&db.WatchHistoryEntry{UserID: userID, VideoID: videoID}).Error
}

// WatchHistory resolves the history into videos with their owners,
// most recent first. Entries whose video no longer exists are skipped.
func (r *UserRepository) WatchHistory(ctx context.Context, userID uint64) ([]VideoCard, error) {
	videos := []VideoCard{}
	err := r.db.WithContext(ctx).
		Table("watch_history w").
		Select(videoCardColumns).
		Joins("JOIN videos v ON v.id = w.video_id").
		Joins("JOIN users u ON u.id = v.owner_id").
		Where("w.user_id = ?", userID).
		Order("w.id DESC").
		Scan(&videos).Error
	return videos, err
}
