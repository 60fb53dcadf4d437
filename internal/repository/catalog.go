package repository

import (
	"context"

	"cinetheque/internal/models"

	"gorm.io/gorm"
)

// CatalogQuery filters, sorts and pages a movie or serie listing.
type CatalogQuery struct {
	GenreSlug string
	Search    string
	SortBy    string
	Order     string
	Offset    int
	Limit     int
}

// DefaultCatalogSort is applied when none (or an unknown one) is requested.
const DefaultCatalogSort = "title"

// IsCatalogSort reports whether sortBy names a sortable catalog column.
func IsCatalogSort(sortBy string) bool {
	switch sortBy {
	case "title", "releaseDate", "rating", "createdAt":
		return true
	}
	return false
}

// CatalogRepository reads the movie/serie catalog.
type CatalogRepository interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	ListMovies(ctx context.Context, q CatalogQuery) ([]models.Movie, int64, error)
	GetMovie(ctx context.Context, id uint) (*models.Movie, error)
	ListSeries(ctx context.Context, q CatalogQuery) ([]models.Serie, int64, error)
	GetSerie(ctx context.Context, id uint) (*models.Serie, error)
	GetSeason(ctx context.Context, id uint) (*models.Season, error)
	ListEpisodes(ctx context.Context, seasonID uint) ([]models.Episode, error)
	GetEpisode(ctx context.Context, id uint) (*models.Episode, error)
	GetActor(ctx context.Context, id uint) (*models.Actor, error)
	GetCrew(ctx context.Context, id uint) (*models.Crew, error)
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository returns a new CatalogRepository implementation.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

// catalogFilter applies the genre and title filters to movies or series.
// joinTable/joinColumn name the genre link table of the listed entity.
func catalogFilter(db *gorm.DB, table, joinTable, joinColumn string, q CatalogQuery) *gorm.DB {
	if q.GenreSlug != "" {
		db = db.Where(table+".id IN (SELECT "+joinTable+"."+joinColumn+" FROM "+joinTable+
			" JOIN genres ON genres.id = "+joinTable+".genre_id WHERE genres.slug = ?)", q.GenreSlug)
	}
	if q.Search != "" {
		db = db.Where("LOWER("+table+`.title) LIKE ? ESCAPE '\'`, likePattern(q.Search))
	}
	return db
}

func catalogOrder(table, dateColumn string, q CatalogQuery) string {
	column := map[string]string{
		"title":       table + ".title",
		"releaseDate": table + "." + dateColumn,
		"rating":      table + ".rating",
		"createdAt":   table + ".created_at",
	}[q.SortBy]
	if column == "" {
		column = table + ".title"
	}
	return column + " " + orderDirection(q.Order, "ASC")
}

func (r *catalogRepository) ListMovies(ctx context.Context, q CatalogQuery) ([]models.Movie, int64, error) {
	base := func() *gorm.DB {
		return catalogFilter(r.db.WithContext(ctx).Model(&models.Movie{}), "movies", "movie_genres", "movie_id", q)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var movies []models.Movie
	err := base().
		Preload("Genres").
		Order(catalogOrder("movies", "release_date", q)).
		Order("movies.id ASC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

func (r *catalogRepository) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	var movie models.Movie
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Actors").
		Preload("Crew").
		First(&movie, id).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *catalogRepository) ListSeries(ctx context.Context, q CatalogQuery) ([]models.Serie, int64, error) {
	base := func() *gorm.DB {
		return catalogFilter(r.db.WithContext(ctx).Model(&models.Serie{}), "series", "serie_genres", "serie_id", q)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var series []models.Serie
	err := base().
		Preload("Genres").
		Order(catalogOrder("series", "first_air_date", q)).
		Order("series.id ASC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&series).Error
	if err != nil {
		return nil, 0, err
	}
	return series, total, nil
}

func (r *catalogRepository) GetSerie(ctx context.Context, id uint) (*models.Serie, error) {
	var serie models.Serie
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Actors").
		Preload("Crew").
		Preload("Seasons", func(db *gorm.DB) *gorm.DB {
			return db.Order("season_number ASC")
		}).
		First(&serie, id).Error
	if err != nil {
		return nil, err
	}
	return &serie, nil
}

func (r *catalogRepository) GetSeason(ctx context.Context, id uint) (*models.Season, error) {
	var season models.Season
	if err := r.db.WithContext(ctx).Preload("Serie").First(&season, id).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *catalogRepository) ListEpisodes(ctx context.Context, seasonID uint) ([]models.Episode, error) {
	var episodes []models.Episode
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("episode_number ASC").
		Find(&episodes).Error
	return episodes, err
}

func (r *catalogRepository) GetEpisode(ctx context.Context, id uint) (*models.Episode, error) {
	var episode models.Episode
	if err := r.db.WithContext(ctx).Preload("Season.Serie").First(&episode, id).Error; err != nil {
		return nil, err
	}
	return &episode, nil
}

func (r *catalogRepository) GetActor(ctx context.Context, id uint) (*models.Actor, error) {
	var actor models.Actor
	if err := r.db.WithContext(ctx).First(&actor, id).Error; err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *catalogRepository) GetCrew(ctx context.Context, id uint) (*models.Crew, error) {
	var crew models.Crew
	if err := r.db.WithContext(ctx).First(&crew, id).Error; err != nil {
		return nil, err
	}
	return &crew, nil
}
