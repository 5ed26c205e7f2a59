package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/vidhub/internal/db"
)

// TweetRepository provides data access for tweets.
type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(database *gorm.DB) *TweetRepository {
	return &TweetRepository{db: database}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *db.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *TweetRepository) FindByID(ctx context.Context, id uint64) (*db.Tweet, error) {
	var t db.Tweet
	if err := r.db.WithContext(ctx).Take(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// FindForUpdate is FindByID holding an exclusive row lock.
func (r *TweetRepository) FindForUpdate(ctx context.Context, id uint64) (*db.Tweet, error) {
	var t db.Tweet
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).Take(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ExistsForShare reports whether the tweet exists under a shared row lock.
func (r *TweetRepository) ExistsForShare(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Tweet{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id uint64, content string) error {
	return r.db.WithContext(ctx).Model(&db.Tweet{}).Where("id = ?", id).
		Update("content", content).Error
}

// Delete removes the tweet and the likes pointing at it, and reports
// whether the tweet row was still there.
func (r *TweetRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	tx := r.db.WithContext(ctx)
	res := tx.Delete(&db.Tweet{}, id)
	if res.Error != nil || res.RowsAffected == 0 {
		return false, res.Error
	}
	err := tx.Where("target_type = ? AND target_id = ?", string(db.TargetTweet), id).Delete(&db.Like{}).Error
	return err == nil, err
}

// ListByOwner returns the user's tweets, newest first.
func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]db.Tweet, error) {
	tweets := []db.Tweet{}
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id DESC").Find(&tweets).Error
	return tweets, err
}
