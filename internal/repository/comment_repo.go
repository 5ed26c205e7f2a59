package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/vidhub/internal/db"
)

// CommentRepository provides data access for comments.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(database *gorm.DB) *CommentRepository {
	return &CommentRepository{db: database}
}

func (r *CommentRepository) Create(ctx context.Context, comment *db.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByID returns gorm.ErrRecordNotFound when the comment does not exist.
func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*db.Comment, error) {
	var c db.Comment
	if err := r.db.WithContext(ctx).Take(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindForUpdate is FindByID holding an exclusive row lock until the
// transaction ends. SQLite drops the locking clause; its writers are
// serialized anyway.
func (r *CommentRepository) FindForUpdate(ctx context.Context, id uint64) (*db.Comment, error) {
	var c db.Comment
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).Take(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsForShare reports whether the comment exists and holds a shared
// lock on it, so a concurrent Delete waits for the caller's transaction.
func (r *CommentRepository) ExistsForShare(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Comment{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id uint64, content string) error {
	return r.db.WithContext(ctx).Model(&db.Comment{}).Where("id = ?", id).
		Update("content", content).Error
}

// Delete removes the comment and the likes pointing at it, and reports
// whether the comment row was still there. Likes are only touched when it was.
func (r *CommentRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	tx := r.db.WithContext(ctx)
	res := tx.Delete(&db.Comment{}, id)
	if res.Error != nil || res.RowsAffected == 0 {
		return false, res.Error
	}
	err := tx.Where("target_type = ? AND target_id = ?", string(db.TargetComment), id).Delete(&db.Like{}).Error
	return err == nil, err
}

// ListByVideo returns one page of a video's comments in insertion order,
// each joined with its author.
//
// Example:
//
//	repo.ListByVideo(ctx, 42, 10, 10) // comments 11..20 of video 42
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID uint64, offset, limit int) ([]CommentRow, error) {
	rows := []CommentRow{}
	err := r.db.WithContext(ctx).
		Table("comments c").
		Select(`c.id, c.video_id, c.content, c.created_at, c.updated_at,
			u.id AS owner_id, u.username AS owner_username, u.full_name AS owner_full_name, u.avatar AS owner_avatar`).
		Joins("LEFT JOIN users u ON u.id = c.owner_id").
		Where("c.video_id = ?", videoID).
		Order("c.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *CommentRepository) CountByVideo(ctx context.Context, videoID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Comment{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}
