package repository

import (
	"context"
	"fmt"
	"time"

	"cinetheque/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistRepository defines persistence operations for playlists and their items.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uint) (*models.Playlist, error)
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, includePrivate bool, offset, limit int) ([]models.Playlist, int64, error)

	Items(ctx context.Context, playlistID uint, tab models.PlaylistTab, offset, limit int) ([]models.PlaylistItem, int64, error)
	TabCounts(ctx context.Context, playlistID uint) (map[models.PlaylistTab]int64, error)
	AddItem(ctx context.Context, playlistID uint, contentType models.ContentType, itemID uint) error
	RemoveItem(ctx context.Context, playlistID uint, contentType models.ContentType, itemID uint) error
}

type playlistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository returns a new PlaylistRepository implementation.
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

// itemTable describes one playlist item join table.
type itemTable struct {
	table   string
	column  string
	preload string
	target  func() interface{}
	row     func(playlistID, itemID uint) interface{}
}

var itemTables = map[models.ContentType]itemTable{
	models.ContentTypeMovie: {
		table: "playlist_movies", column: "movie_id", preload: "Movie",
		target: func() interface{} { return &models.Movie{} },
		row:    func(p, i uint) interface{} { return &models.PlaylistMovie{PlaylistID: p, MovieID: i} },
	},
	models.ContentTypeSerie: {
		table: "playlist_series", column: "serie_id", preload: "Serie",
		target: func() interface{} { return &models.Serie{} },
		row:    func(p, i uint) interface{} { return &models.PlaylistSerie{PlaylistID: p, SerieID: i} },
	},
	models.ContentTypeSeason: {
		table: "playlist_seasons", column: "season_id", preload: "Season",
		target: func() interface{} { return &models.Season{} },
		row:    func(p, i uint) interface{} { return &models.PlaylistSeason{PlaylistID: p, SeasonID: i} },
	},
	models.ContentTypeEpisode: {
		table: "playlist_episodes", column: "episode_id", preload: "Episode",
		target: func() interface{} { return &models.Episode{} },
		row:    func(p, i uint) interface{} { return &models.PlaylistEpisode{PlaylistID: p, EpisodeID: i} },
	},
	models.ContentTypeActor: {
		table: "playlist_actors", column: "actor_id", preload: "Actor",
		target: func() interface{} { return &models.Actor{} },
		row:    func(p, i uint) interface{} { return &models.PlaylistActor{PlaylistID: p, ActorID: i} },
	},
	models.ContentTypeCrew: {
		table: "playlist_crew", column: "crew_id", preload: "Crew",
		target: func() interface{} { return &models.Crew{} },
		row:    func(p, i uint) interface{} { return &models.PlaylistCrew{PlaylistID: p, CrewID: i} },
	},
}

func itemTableFor(ct models.ContentType) (itemTable, error) {
	t, ok := itemTables[ct]
	if !ok {
		return itemTable{}, fmt.Errorf("unknown content type %q", ct)
	}
	return t, nil
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	return r.db.WithContext(ctx).Omit("User").Create(playlist).Error
}

func (r *playlistRepository) GetByID(ctx context.Context, id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.WithContext(ctx).Preload("User").First(&playlist, id).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Update writes the editable fields; item_count only moves through the item methods.
func (r *playlistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	return r.db.WithContext(ctx).Model(playlist).
		Select("name", "description", "is_private", "is_archived", "content_type", "cover_image_hash").
		Updates(playlist).Error
}

func (r *playlistRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range itemTables {
			if err := tx.Where("playlist_id = ?", id).Delete(t.row(0, 0)).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Playlist{}, id).Error
	})
}

func (r *playlistRepository) ListByUser(ctx context.Context, userID uint, includePrivate bool, offset, limit int) ([]models.Playlist, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Playlist{}).Where("user_id = ?", userID)
		if !includePrivate {
			q = q.Where("is_private = ?", false)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var playlists []models.Playlist
	err := base().Order("updated_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&playlists).Error
	if err != nil {
		return nil, 0, err
	}
	return playlists, total, nil
}

// Items returns one page of the tab's rows, oldest addition first, with the
// catalog entity preloaded. Only the tab's own content type is queried.
func (r *playlistRepository) Items(ctx context.Context, playlistID uint, tab models.PlaylistTab, offset, limit int) ([]models.PlaylistItem, int64, error) {
	ct := tab.ContentType()
	t, err := itemTableFor(ct)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Table(t.table).Where("playlist_id = ?", playlistID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := func(dest interface{}) error {
		return r.db.WithContext(ctx).
			Preload(t.preload).
			Where("playlist_id = ?", playlistID).
			Order("created_at ASC").
			Order("id ASC").
			Offset(offset).
			Limit(limit).
			Find(dest).Error
	}

	var items []models.PlaylistItem
	switch ct {
	case models.ContentTypeMovie:
		var rows []models.PlaylistMovie
		if err := page(&rows); err != nil {
			return nil, 0, err
		}
		for _, row := range rows {
			items = append(items, models.PlaylistItem{ContentType: ct, AddedAt: row.CreatedAt, Movie: row.Movie})
		}
	case models.ContentTypeSerie:
		var rows []models.PlaylistSerie
		if err := page(&rows); err != nil {
			return nil, 0, err
		}
		for _, row := range rows {
			items = append(items, models.PlaylistItem{ContentType: ct, AddedAt: row.CreatedAt, Serie: row.Serie})
		}
	case models.ContentTypeSeason:
		var rows []models.PlaylistSeason
		if err := page(&rows); err != nil {
			return nil, 0, err
		}
		for _, row := range rows {
			items = append(items, models.PlaylistItem{ContentType: ct, AddedAt: row.CreatedAt, Season: row.Season})
		}
	case models.ContentTypeEpisode:
		var rows []models.PlaylistEpisode
		if err := page(&rows); err != nil {
			return nil, 0, err
		}
		for _, row := range rows {
			items = append(items, models.PlaylistItem{ContentType: ct, AddedAt: row.CreatedAt, Episode: row.Episode})
		}
	case models.ContentTypeActor:
		var rows []models.PlaylistActor
		if err := page(&rows); err != nil {
			return nil, 0, err
		}
		for _, row := range rows {
			items = append(items, models.PlaylistItem{ContentType: ct, AddedAt: row.CreatedAt, Actor: row.Actor})
		}
	case models.ContentTypeCrew:
		var rows []models.PlaylistCrew
		if err := page(&rows); err != nil {
			return nil, 0, err
		}
		for _, row := range rows {
			items = append(items, models.PlaylistItem{ContentType: ct, AddedAt: row.CreatedAt, Crew: row.Crew})
		}
	}
	return items, total, nil
}

// TabCounts returns the number of rows per tab.
func (r *playlistRepository) TabCounts(ctx context.Context, playlistID uint) (map[models.PlaylistTab]int64, error) {
	counts := make(map[models.PlaylistTab]int64, len(itemTables))
	for ct, t := range itemTables {
		tab, _ := models.TabFor(ct)
		var n int64
		if err := r.db.WithContext(ctx).Table(t.table).Where("playlist_id = ?", playlistID).Count(&n).Error; err != nil {
			return nil, err
		}
		counts[tab] = n
	}
	return counts, nil
}

// AddItem links a catalog entity to the playlist and recomputes item_count in
// the same transaction. Adding an item twice is a no-op. A missing catalog
// entity yields gorm.ErrRecordNotFound.
func (r *playlistRepository) AddItem(ctx context.Context, playlistID uint, contentType models.ContentType, itemID uint) error {
	t, err := itemTableFor(contentType)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(t.target(), itemID).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(t.row(playlistID, itemID)).Error; err != nil {
			return err
		}
		if err := RecomputePlaylistItemCount(tx, playlistID); err != nil {
			return err
		}
		return tx.Model(&models.Playlist{}).Where("id = ?", playlistID).UpdateColumn("updated_at", time.Now().UTC()).Error
	})
}

// RemoveItem unlinks a catalog entity and recomputes item_count in the same transaction.
func (r *playlistRepository) RemoveItem(ctx context.Context, playlistID uint, contentType models.ContentType, itemID uint) error {
	t, err := itemTableFor(contentType)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("playlist_id = ? AND "+t.column+" = ?", playlistID, itemID).Delete(t.row(0, 0))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return RecomputePlaylistItemCount(tx, playlistID)
	})
}
