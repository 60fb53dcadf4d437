package service

import (
	"context"
	"strings"

	"cinetheque/internal/models"
	"cinetheque/internal/pagination"
	"cinetheque/internal/repository"
	"cinetheque/internal/validation"
)

// DefaultPlaylistTab is shown when no tab is requested and the playlist is untyped.
const DefaultPlaylistTab = models.TabMovies

// PlaylistService manages user playlists and resolves their items per tab.
type PlaylistService struct {
	playlists repository.PlaylistRepository
}

type CreatePlaylistInput struct {
	UserID      uint
	Name        string
	Description string
	IsPrivate   bool
	ContentType string
}

type UpdatePlaylistInput struct {
	UserID         uint
	PlaylistID     uint
	Name           *string
	Description    *string
	IsPrivate      *bool
	IsArchived     *bool
	CoverImageHash *string
}

// PlaylistItemsInput selects one tab page. PrevTab is the tab the client was
// showing; a different Tab means the client switched and starts at page 1.
type PlaylistItemsInput struct {
	PlaylistID uint
	ViewerID   uint
	Tab        string
	PrevTab    string
	Page       int
	PerPage    int
}

type PlaylistItemInput struct {
	UserID      uint
	PlaylistID  uint
	ContentType string
	ItemID      uint
}

// PlaylistItems is one tab page of a playlist with the per-tab totals.
type PlaylistItems struct {
	Playlist  *models.Playlist             `json:"playlist"`
	Tab       models.PlaylistTab           `json:"tab"`
	TabCounts map[models.PlaylistTab]int64 `json:"tab_counts"`
	*Listing[models.PlaylistItem]
}

func NewPlaylistService(playlists repository.PlaylistRepository) *PlaylistService {
	return &PlaylistService{playlists: playlists}
}

// ResolveTab validates the requested tab and applies the tab-switch rule:
// when tab differs from prevTab the page resets to 1.
func ResolveTab(tab, prevTab string, page int, fallback models.PlaylistTab) (models.PlaylistTab, int, error) {
	tab = strings.ToLower(strings.TrimSpace(tab))
	prevTab = strings.ToLower(strings.TrimSpace(prevTab))
	if tab == "" {
		return fallback, pageOrFirst(page, prevTab != "" && prevTab != string(fallback)), nil
	}
	parsed, err := models.ParsePlaylistTab(tab)
	if err != nil {
		return "", 0, models.NewValidationError("Unknown playlist tab")
	}
	return parsed, pageOrFirst(page, prevTab != "" && prevTab != string(parsed)), nil
}

func pageOrFirst(page int, switched bool) int {
	if switched || page < 1 {
		return 1
	}
	return page
}

// visible hides private playlists from everyone but their owner.
func (s *PlaylistService) visible(ctx context.Context, id, viewerID uint) (*models.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Playlist", id)
	}
	if playlist.IsPrivate && playlist.UserID != viewerID {
		return nil, models.NewNotFoundError("Playlist", id)
	}
	return playlist, nil
}

func (s *PlaylistService) owned(ctx context.Context, id, userID uint) (*models.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Playlist", id)
	}
	if playlist.UserID != userID {
		if playlist.IsPrivate {
			return nil, models.NewNotFoundError("Playlist", id)
		}
		return nil, models.NewForbiddenError("Not authorized to modify this playlist")
	}
	return playlist, nil
}

func (s *PlaylistService) Create(ctx context.Context, in CreatePlaylistInput) (*models.Playlist, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validation.ValidatePlaylistName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	playlist := &models.Playlist{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		UserID:      in.UserID,
	}
	if in.ContentType != "" {
		ct, err := models.ParseContentType(in.ContentType)
		if err != nil {
			return nil, models.NewValidationError("Unknown content type")
		}
		playlist.ContentType = &ct
	}

	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, translateRepoError(err, "Playlist", 0)
	}
	return playlist, nil
}

func (s *PlaylistService) Get(ctx context.Context, id, viewerID uint) (*models.Playlist, error) {
	return s.visible(ctx, id, viewerID)
}

func (s *PlaylistService) Update(ctx context.Context, in UpdatePlaylistInput) (*models.Playlist, error) {
	playlist, err := s.owned(ctx, in.PlaylistID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validation.ValidatePlaylistName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		playlist.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		playlist.Description = *in.Description
	}
	if in.IsPrivate != nil {
		playlist.IsPrivate = *in.IsPrivate
	}
	if in.IsArchived != nil {
		playlist.IsArchived = *in.IsArchived
	}
	if in.CoverImageHash != nil {
		playlist.CoverImageHash = *in.CoverImageHash
	}

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, translateRepoError(err, "Playlist", playlist.ID)
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, id); err != nil {
		return translateRepoError(err, "Playlist", id)
	}
	return nil
}

// ListByUser lists ownerID's playlists; private ones only when the owner asks.
func (s *PlaylistService) ListByUser(ctx context.Context, ownerID, viewerID uint, page, perPage int) (*Listing[models.Playlist], error) {
	req := pagination.NewRequest(page, perPage, pagination.DefaultPerPage)
	playlists, total, err := s.playlists.ListByUser(ctx, ownerID, ownerID == viewerID, req.Offset(), req.Limit())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return newListing(playlists, total, req), nil
}

// Items resolves one tab page of a playlist. Typed playlists default to
// their own content type's tab.
func (s *PlaylistService) Items(ctx context.Context, in PlaylistItemsInput) (*PlaylistItems, error) {
	playlist, err := s.visible(ctx, in.PlaylistID, in.ViewerID)
	if err != nil {
		return nil, err
	}

	fallback := DefaultPlaylistTab
	if playlist.ContentType != nil {
		if tab, ok := models.TabFor(*playlist.ContentType); ok {
			fallback = tab
		}
	}
	tab, page, err := ResolveTab(in.Tab, in.PrevTab, in.Page, fallback)
	if err != nil {
		return nil, err
	}

	req := pagination.NewRequest(page, in.PerPage, pagination.DefaultPerPage)
	items, total, err := s.playlists.Items(ctx, playlist.ID, tab, req.Offset(), req.Limit())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	counts, err := s.playlists.TabCounts(ctx, playlist.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &PlaylistItems{
		Playlist:  playlist,
		Tab:       tab,
		TabCounts: counts,
		Listing:   newListing(items, total, req),
	}, nil
}

func (s *PlaylistService) AddItem(ctx context.Context, in PlaylistItemInput) (*models.Playlist, error) {
	playlist, err := s.owned(ctx, in.PlaylistID, in.UserID)
	if err != nil {
		return nil, err
	}
	if playlist.IsArchived {
		return nil, models.NewValidationError("Playlist is archived")
	}
	ct, err := models.ParseContentType(in.ContentType)
	if err != nil {
		return nil, models.NewValidationError("Unknown content type")
	}
	if playlist.ContentType != nil && *playlist.ContentType != ct {
		return nil, models.NewValidationError("Playlist only accepts " + string(*playlist.ContentType) + " items")
	}

	if err := s.playlists.AddItem(ctx, playlist.ID, ct, in.ItemID); err != nil {
		return nil, translateRepoError(err, string(ct), in.ItemID)
	}
	return s.reload(ctx, playlist.ID)
}

func (s *PlaylistService) RemoveItem(ctx context.Context, in PlaylistItemInput) (*models.Playlist, error) {
	playlist, err := s.owned(ctx, in.PlaylistID, in.UserID)
	if err != nil {
		return nil, err
	}
	ct, err := models.ParseContentType(in.ContentType)
	if err != nil {
		return nil, models.NewValidationError("Unknown content type")
	}
	if err := s.playlists.RemoveItem(ctx, playlist.ID, ct, in.ItemID); err != nil {
		return nil, translateRepoError(err, "Playlist item", in.ItemID)
	}
	return s.reload(ctx, playlist.ID)
}

func (s *PlaylistService) reload(ctx context.Context, id uint) (*models.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Playlist", id)
	}
	return playlist, nil
}
