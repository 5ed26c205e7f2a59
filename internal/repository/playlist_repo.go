package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/db"
)

// PlaylistRepository provides data access for playlists and their members.
type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(database *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: database}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *db.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *PlaylistRepository) FindByID(ctx context.Context, id uint64) (*db.Playlist, error) {
	var p db.Playlist
	if err := r.db.WithContext(ctx).Take(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlaylistRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&db.Playlist{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the playlist and its membership rows.
func (r *PlaylistRepository) Delete(ctx context.Context, id uint64) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("playlist_id = ?", id).Delete(&db.PlaylistVideo{}).Error; err != nil {
		return err
	}
	return tx.Delete(&db.Playlist{}, id).Error
}

// ListByOwner returns the user's playlists in creation order.
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]db.Playlist, error) {
	playlists := []db.Playlist{}
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&playlists).Error
	return playlists, err
}

func (r *PlaylistRepository) HasVideo(ctx context.Context, playlistID, videoID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Count(&count).Error
	return count > 0, err
}

// AppendVideo adds videoID after the current last member. The composite
// primary key rejects a second row for the same video with
// gorm.ErrDuplicatedKey.
func (r *PlaylistRepository) AppendVideo(ctx context.Context, playlistID, videoID uint64) error {
	tx := r.db.WithContext(ctx)

	var last int64
	if err := tx.Model(&db.PlaylistVideo{}).
		Select("COALESCE(MAX(position), 0)").
		Where("playlist_id = ?", playlistID).
		Scan(&last).Error; err != nil {
		return err
	}

	return tx.Create(&db.PlaylistVideo{
		PlaylistID: playlistID,
		VideoID:    videoID,
		Position:   last + 1,
	}).Error
}

// RemoveVideo deletes the membership row and reports whether one existed.
// Positions of the remaining members are left as they are.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&db.PlaylistVideo{})
	return res.RowsAffected > 0, res.Error
}

// VideoIDs returns the member ids in playlist order.
func (r *PlaylistRepository) VideoIDs(ctx context.Context, playlistID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&db.PlaylistVideo{}).
		Where("playlist_id = ?", playlistID).
		Order("position ASC").
		Pluck("video_id", &ids).Error
	return ids, err
}

// Videos resolves the members into videos with owners, in playlist order.
func (r *PlaylistRepository) Videos(ctx context.Context, playlistID uint64) ([]VideoCard, error) {
	videos := []VideoCard{}
	err := r.db.WithContext(ctx).
		Table("playlist_videos pv").
		Select(videoCardColumns).
		Joins("JOIN videos v ON v.id = pv.video_id").
		Joins("JOIN users u ON u.id = v.owner_id").
		Where("pv.playlist_id = ?", playlistID).
		Order("pv.position ASC").
		Scan(&videos).Error
	return videos, err
}
