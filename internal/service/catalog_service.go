package service

import (
	"context"
	"strings"

	"cinetheque/internal/cache"
	"cinetheque/internal/models"
	"cinetheque/internal/pagination"
	"cinetheque/internal/repository"
)

// CatalogService serves read-only movie and serie browsing.
type CatalogService struct {
	catalog repository.CatalogRepository
}

type ListCatalogInput struct {
	Genre   string
	Search  string
	SortBy  string
	Order   string
	Page    int
	PerPage int
}

func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (in ListCatalogInput) query(req pagination.Request) repository.CatalogQuery {
	sortBy := in.SortBy
	if !repository.IsCatalogSort(sortBy) {
		sortBy = repository.DefaultCatalogSort
	}
	return repository.CatalogQuery{
		GenreSlug: strings.TrimSpace(in.Genre),
		Search:    strings.TrimSpace(in.Search),
		SortBy:    sortBy,
		Order:     in.Order,
		Offset:    req.Offset(),
		Limit:     req.Limit(),
	}
}

func (s *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	err := cache.Aside(ctx, cache.GenresKey, &genres, cache.ReferenceTTL, func() error {
		var fetchErr error
		genres, fetchErr = s.catalog.ListGenres(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return genres, nil
}

func (s *CatalogService) ListMovies(ctx context.Context, in ListCatalogInput) (*Listing[models.Movie], error) {
	req := pagination.NewRequest(in.Page, in.PerPage, pagination.DefaultPerPage)
	movies, total, err := s.catalog.ListMovies(ctx, in.query(req))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return newListing(movies, total, req), nil
}

// GetMovie returns a movie with genres, cast and crew. Details are cached.
func (s *CatalogService) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	var movie models.Movie
	err := cache.Aside(ctx, cache.MovieKey(id), &movie, cache.CatalogTTL, func() error {
		m, fetchErr := s.catalog.GetMovie(ctx, id)
		if fetchErr != nil {
			return fetchErr
		}
		movie = *m
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err, "Movie", id)
	}
	return &movie, nil
}

func (s *CatalogService) ListSeries(ctx context.Context, in ListCatalogInput) (*Listing[models.Serie], error) {
	req := pagination.NewRequest(in.Page, in.PerPage, pagination.DefaultPerPage)
	series, total, err := s.catalog.ListSeries(ctx, in.query(req))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return newListing(series, total, req), nil
}

// GetSerie returns a serie with its genres, cast, crew and seasons. Details are cached.
func (s *CatalogService) GetSerie(ctx context.Context, id uint) (*models.Serie, error) {
	var serie models.Serie
	err := cache.Aside(ctx, cache.SerieKey(id), &serie, cache.CatalogTTL, func() error {
		m, fetchErr := s.catalog.GetSerie(ctx, id)
		if fetchErr != nil {
			return fetchErr
		}
		serie = *m
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err, "Serie", id)
	}
	return &serie, nil
}

func (s *CatalogService) GetSeason(ctx context.Context, id uint) (*models.Season, error) {
	season, err := s.catalog.GetSeason(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Season", id)
	}
	return season, nil
}

// ListEpisodes returns a season's episodes in episode order.
func (s *CatalogService) ListEpisodes(ctx context.Context, seasonID uint) ([]models.Episode, error) {
	if _, err := s.catalog.GetSeason(ctx, seasonID); err != nil {
		return nil, translateRepoError(err, "Season", seasonID)
	}
	episodes, err := s.catalog.ListEpisodes(ctx, seasonID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if episodes == nil {
		episodes = []models.Episode{}
	}
	return episodes, nil
}

func (s *CatalogService) GetEpisode(ctx context.Context, id uint) (*models.Episode, error) {
	episode, err := s.catalog.GetEpisode(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Episode", id)
	}
	return episode, nil
}

func (s *CatalogService) GetActor(ctx context.Context, id uint) (*models.Actor, error) {
	actor, err := s.catalog.GetActor(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Actor", id)
	}
	return actor, nil
}

func (s *CatalogService) GetCrew(ctx context.Context, id uint) (*models.Crew, error) {
	crew, err := s.catalog.GetCrew(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Crew", id)
	}
	return crew, nil
}
