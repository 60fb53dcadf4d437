package server

import (
	"cinetheque/internal/models"
	"cinetheque/internal/service"

	"github.com/gofiber/fiber/v2"
)

// contentTypeEntry is one row of GET /api/catalog/content-types.
type contentTypeEntry struct {
	Type models.ContentType `json:"type"`
	models.ContentTypeDisplay
}

// GetContentTypes handles GET /api/catalog/content-types
func (s *Server) GetContentTypes(c *fiber.Ctx) error {
	out := make([]contentTypeEntry, 0, len(models.ContentTypes))
	for _, ct := range models.ContentTypes {
		display, ok := models.DisplayFor(&ct)
		if !ok {
			continue
		}
		out = append(out, contentTypeEntry{Type: ct, ContentTypeDisplay: display})
	}
	return c.JSON(out)
}

// GetGenres handles GET /api/catalog/genres
func (s *Server) GetGenres(c *fiber.Ctx) error {
	genres, err := s.catalogService.ListGenres(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(genres)
}

func catalogInput(c *fiber.Ctx) service.ListCatalogInput {
	page := parsePagination(c)
	return service.ListCatalogInput{
		Genre:   c.Query("genre"),
		Search:  c.Query("q"),
		SortBy:  c.Query("sort_by"),
		Order:   c.Query("order"),
		Page:    page.Page,
		PerPage: page.PerPage,
	}
}

// GetMovies handles GET /api/catalog/movies
// @Summary Browse movies
// @Tags catalog
// @Produce json
// @Param genre query string false "Genre slug"
// @Param q query string false "Title search"
// @Param sort_by query string false "title, releaseDate, rating or createdAt"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} object{items=[]models.Movie,total=int,pagination=pagination.Page}
// @Router /catalog/movies [get]
func (s *Server) GetMovies(c *fiber.Ctx) error {
	movies, err := s.catalogService.ListMovies(c.UserContext(), catalogInput(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(movies)
}

// GetMovie handles GET /api/catalog/movies/:id
// @Summary Movie details with genres, cast and crew
// @Tags catalog
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} models.Movie
// @Failure 404 {object} models.ErrorResponse
// @Router /catalog/movies/{id} [get]
func (s *Server) GetMovie(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	movie, err := s.catalogService.GetMovie(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(movie)
}

// GetSeries handles GET /api/catalog/series
func (s *Server) GetSeries(c *fiber.Ctx) error {
	series, err := s.catalogService.ListSeries(c.UserContext(), catalogInput(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(series)
}

// GetSerie handles GET /api/catalog/series/:id
func (s *Server) GetSerie(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	serie, err := s.catalogService.GetSerie(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(serie)
}

// GetSeason handles GET /api/catalog/seasons/:id
func (s *Server) GetSeason(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	season, err := s.catalogService.GetSeason(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(season)
}

// GetSeasonEpisodes handles GET /api/catalog/seasons/:id/episodes
func (s *Server) GetSeasonEpisodes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	episodes, err := s.catalogService.ListEpisodes(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(episodes)
}

// GetEpisode handles GET /api/catalog/episodes/:id
func (s *Server) GetEpisode(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	episode, err := s.catalogService.GetEpisode(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(episode)
}

// GetActor handles GET /api/catalog/actors/:id
func (s *Server) GetActor(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.catalogService.GetActor(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(actor)
}

// GetCrew handles GET /api/catalog/crew/:id
func (s *Server) GetCrew(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	crew, err := s.catalogService.GetCrew(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(crew)
}
