package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/vidhub/internal/db"
)

// VideoRepository provides data access for videos and their counters.
//
// Counter writers (AdjustLikes, AdjustComments, Reconcile) are meant to be
// called on a transaction handle together with the row change they mirror.
type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(database *gorm.DB) *VideoRepository {
	return &VideoRepository{db: database}
}

// VideoCounters is the stored counter state of one video.
type VideoCounters struct {
	LikesCount    int64 `json:"likes_count"`
	DislikesCount int64 `json:"dislikes_count"`
	CommentsCount int64 `json:"comments_count"`
	Views         int64 `json:"views"`
}

func (r *VideoRepository) Create(ctx context.Context, video *db.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// FindByID returns gorm.ErrRecordNotFound when the video does not exist.
func (r *VideoRepository) FindByID(ctx context.Context, id uint64) (*db.Video, error) {
	var v db.Video
	if err := r.db.WithContext(ctx).Take(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// FindForUpdate is FindByID holding an exclusive row lock until the
// transaction ends.
func (r *VideoRepository) FindForUpdate(ctx context.Context, id uint64) (*db.Video, error) {
	var v db.Video
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).Take(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsForShare is Exists holding a shared lock on the row, so a
// concurrent Delete waits for the caller's transaction.
func (r *VideoRepository) ExistsForShare(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Video{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Card returns the video joined with its owner.
func (r *VideoRepository) Card(ctx context.Context, id uint64) (*VideoCard, error) {
	var card VideoCard
	res := r.db.WithContext(ctx).
		Table("videos v").
		Select(videoCardColumns).
		Joins("JOIN users u ON u.id = v.owner_id").
		Where("v.id = ?", id).
		Limit(1).
		Scan(&card)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &card, nil
}

// UpdateFields applies content-field changes. Counter columns are rejected
// by the caller-side allow list.
func (r *VideoRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&db.Video{}).Where("id = ?", id).Updates(fields).Error
}

func (r *VideoRepository) SetPublished(ctx context.Context, id uint64, published bool) error {
	return r.db.WithContext(ctx).Model(&db.Video{}).Where("id = ?", id).
		Update("is_published", published).Error
}

// AdjustLikes adds delta to likes_count.
func (r *VideoRepository) AdjustLikes(ctx context.Context, id uint64, delta int64) error {
	return r.adjust(ctx, id, "likes_count", delta)
}

// AdjustComments adds delta to comments_count.
func (r *VideoRepository) AdjustComments(ctx context.Context, id uint64, delta int64) error {
	return r.adjust(ctx, id, "comments_count", delta)
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id uint64) error {
	return r.adjust(ctx, id, "views", 1)
}

func (r *VideoRepository) adjust(ctx context.Context, id uint64, column string, delta int64) error {
	res := r.db.WithContext(ctx).Model(&db.Video{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reconcile recomputes likes_count and comments_count from the rows they
// mirror in a single statement.
func (r *VideoRepository) Reconcile(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&db.Video{}).Where("id = ?", id).
		UpdateColumns(map[string]any{
			"likes_count": gorm.Expr(
				"(SELECT COUNT(*) FROM likes l WHERE l.target_type = ? AND l.target_id = videos.id)",
				string(db.TargetVideo)),
			"comments_count": gorm.Expr(
				"(SELECT COUNT(*) FROM comments c WHERE c.video_id = videos.id)"),
		}).Error
}

// Counters reads the stored counters of one video.
func (r *VideoRepository) Counters(ctx context.Context, id uint64) (*VideoCounters, error) {
	var c VideoCounters
	res := r.db.WithContext(ctx).Model(&db.Video{}).
		Select("likes_count, dislikes_count, comments_count, views").
		Where("id = ?", id).
		Limit(1).
		Scan(&c)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

// IDsAfter pages through video ids in ascending order.
func (r *VideoRepository) IDsAfter(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&db.Video{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// Delete removes the video together with every row that references it:
// comments, likes on the video or on its comments, playlist memberships
// and watch-history entries. Run it on a transaction handle.
func (r *VideoRepository) Delete(ctx context.Context, id uint64) error {
	tx := r.db.WithContext(ctx)

	commentIDs := tx.Model(&db.Comment{}).Select("id").Where("video_id = ?", id)
	if err := tx.Where("target_type = ? AND target_id IN (?)", string(db.TargetComment), commentIDs).
		Delete(&db.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("target_type = ? AND target_id = ?", string(db.TargetVideo), id).
		Delete(&db.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("video_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("video_id = ?", id).Delete(&db.PlaylistVideo{}).Error; err != nil {
		return err
	}
	if err := tx.Where("video_id = ?", id).Delete(&db.WatchHistoryEntry{}).Error; err != nil {
		return err
	}
	return tx.Delete(&db.Video{}, id).Error
}
