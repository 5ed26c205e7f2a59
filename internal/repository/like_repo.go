package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/db"
)

// LikeRepository provides data access for like relationship rows.
type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// LikedVideo is a video-type like joined with the video and its owner.
type LikedVideo struct {
	VideoCard
	LikedAt time.Time `json:"liked_at"`
}

// Find returns the like of actorID on target, or nil when there is none.
func (r *LikeRepository) Find(ctx context.Context, actorID uint64, target db.LikeTarget) (*db.Like, error) {
	var like db.Like
	err := r.db.WithContext(ctx).
		Where("liked_by = ? AND target_type = ? AND target_id = ?", actorID, string(target.Type), target.ID).
		Take(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Create inserts a like. A second row for the same (actor, target) fails
// with gorm.ErrDuplicatedKey via idx_like_actor_target.
func (r *LikeRepository) Create(ctx context.Context, actorID uint64, target db.LikeTarget) (*db.Like, error) {
	like := &db.Like{LikedBy: actorID, TargetType: string(target.Type), TargetID: target.ID}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

// Delete removes a like by id and reports whether a row was removed.
func (r *LikeRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&db.Like{}, id)
	return res.RowsAffected > 0, res.Error
}

// LikedVideos returns the videos userID liked, most recent like first.
// Likes on comments or tweets, and likes whose video is gone, drop out of
// the inner join.
func (r *LikeRepository) LikedVideos(ctx context.Context, userID uint64) ([]LikedVideo, error) {
	rows := []LikedVideo{}
	err := r.db.WithContext(ctx).
		Table("likes l").
		Select(videoCardColumns+", l.created_at AS liked_at").
		Joins("JOIN videos v ON v.id = l.target_id").
		Joins("JOIN users u ON u.id = v.owner_id").
		Where("l.liked_by = ? AND l.target_type = ?", userID, string(db.TargetVideo)).
		Order("l.id DESC").
		Scan(&rows).Error
	return rows, err
}
