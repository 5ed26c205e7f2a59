package content

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/repository"
	"github.com/oggyb/vidhub/internal/response"
	"github.com/oggyb/vidhub/internal/validate"
)

type PlaylistInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// PlaylistUpdate applies only the non-empty fields.
type PlaylistUpdate struct {
	Name        string `json:"name" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

func (s *Service) CreatePlaylist(ctx context.Context, actorID uint64, in PlaylistInput) (res *response.Result, err error) {
	s.log(ctx).Debug("CreatePlaylist called", "actor", actorID)
	defer func() { s.done(ctx, "playlist", "create", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	validate.Trim(&in.Name, &in.Description)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	playlist := &db.Playlist{OwnerID: actorID, Name: in.Name, Description: in.Description}
	if err := repository.NewPlaylistRepository(s.appCtx.DB).Create(ctx, playlist); err != nil {
		return nil, svcErr.Wrap(err, "failed to create playlist")
	}
	return response.Created("Playlist created successfully", playlist), nil
}

func (s *Service) UpdatePlaylist(ctx context.Context, actorID, playlistID uint64, in PlaylistUpdate) (res *response.Result, err error) {
	s.log(ctx).Debug("UpdatePlaylist called", "actor", actorID, "playlist", playlistID)
	defer func() { s.done(ctx, "playlist", "update", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(playlistID, "playlist"); err != nil {
		return nil, err
	}
	validate.Trim(&in.Name, &in.Description)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}

	var playlist *db.Playlist
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		playlists := repository.NewPlaylistRepository(tx)
		p, err := loadPlaylist(ctx, playlists, playlistID)
		if err != nil {
			return err
		}
		if err := checkOwner(p.OwnerID, actorID, "update", "playlist"); err != nil {
			return err
		}
		if err := playlists.UpdateFields(ctx, playlistID, fields); err != nil {
			return err
		}
		playlist, err = playlists.FindByID(ctx, playlistID)
		return err
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to update playlist")
	}
	return response.OK("Playlist updated successfully", playlist), nil
}

// DeletePlaylist removes a playlist owned by actorID with its memberships.
func (s *Service) DeletePlaylist(ctx context.Context, actorID, playlistID uint64) (res *response.Result, err error) {
	s.log(ctx).Debug("DeletePlaylist called", "actor", actorID, "playlist", playlistID)
	defer func() { s.done(ctx, "playlist", "delete", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireID(playlistID, "playlist"); err != nil {
		return nil, err
	}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		playlists := repository.NewPlaylistRepository(tx)
		p, err := loadPlaylist(ctx, playlists, playlistID)
		if err != nil {
			return err
		}
		if err := checkOwner(p.OwnerID, actorID, "delete", "playlist"); err != nil {
			return err
		}
		return playlists.Delete(ctx, playlistID)
	})
	if err != nil {
		return nil, svcErr.Wrap(err, "failed to delete playlist")
	}
	return response.OK("Playlist deleted successfully", map[string]uint64{"playlist_id": playlistID}), nil
}

func loadPlaylist(ctx context.Context, playlists *repository.PlaylistRepository, id uint64) (*db.Playlist, error) {
	p, err := playlists.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Playlist not found")
	}
	return p, err
}
