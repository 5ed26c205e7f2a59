package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/db"
)

// SubscriptionRepository provides data access for subscriber -> channel rows.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(database *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: database}
}

// Find returns the subscription of subscriberID to channelID, or nil.
func (r *SubscriptionRepository) Find(ctx context.Context, subscriberID, channelID uint64) (*db.Subscription, error) {
	var sub db.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a subscription; duplicates fail with gorm.ErrDuplicatedKey.
func (r *SubscriptionRepository) Create(ctx context.Context, subscriberID, channelID uint64) (*db.Subscription, error) {
	sub := &db.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&db.Subscription{}, id)
	return res.RowsAffected > 0, res.Error
}

// Subscribers returns the public profiles of users subscribed to channelID,
// in subscription order.
func (r *SubscriptionRepository) Subscribers(ctx context.Context, channelID uint64) ([]UserProfile, error) {
	return r.profiles(ctx, "s.subscriber_id", "s.channel_id = ?", channelID)
}

// SubscribedChannels returns the public profiles of channels subscriberID
// subscribes to, in subscription order.
func (r *SubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID uint64) ([]UserProfile, error) {
	return r.profiles(ctx, "s.channel_id", "s.subscriber_id = ?", subscriberID)
}

func (r *SubscriptionRepository) profiles(ctx context.Context, joinColumn, where string, id uint64) ([]UserProfile, error) {
	rows := []UserProfile{}
	err := r.db.WithContext(ctx).
		Table("subscriptions s").
		Select(userProfileColumns).
		Joins("JOIN users u ON u.id = " + joinColumn).
		Where(where, id).
		Order("s.id ASC").
		Scan(&rows).Error
	return rows, err
}
