package seed

import (
	"fmt"
	"strings"
	"time"

	"cinetheque/internal/models"
	"cinetheque/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plaintext password of every seeded user.
const Password = "Cinetheque123!"

// Factory builds domain entities with fake content and persists them.
type Factory struct {
	db     *gorm.DB
	faker  *gofakeit.Faker
	now    time.Time
	window time.Duration

	passwordHash string
}

// NewFactory binds a factory to db. maxDays bounds how far back generated
// timestamps reach; skipBcrypt stores the password hash at minimum cost.
func NewFactory(db *gorm.DB, faker *gofakeit.Faker, maxDays int, skipBcrypt bool) (*Factory, error) {
	if maxDays <= 0 {
		maxDays = 90
	}
	cost := bcrypt.DefaultCost
	if skipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{
		db:           db,
		faker:        faker,
		now:          time.Now().UTC(),
		window:       time.Duration(maxDays) * 24 * time.Hour,
		passwordHash: string(hash),
	}, nil
}

// timeAfter returns a random instant between start and now.
func (f *Factory) timeAfter(start time.Time) time.Time {
	if !start.Before(f.now) {
		return f.now
	}
	return f.faker.DateRange(start, f.now).UTC()
}

func (f *Factory) recent() time.Time {
	return f.timeAfter(f.now.Add(-f.window))
}

func (f *Factory) dateBetween(fromYear, toYear int) *time.Time {
	d := f.faker.DateRange(
		time.Date(fromYear, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(toYear, 12, 31, 0, 0, 0, 0, time.UTC),
	).UTC()
	return &d
}

// CreateUser persists a user whose password is Password.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := strings.ToLower(f.faker.Username())
	if len(username) > 20 {
		username = username[:20]
	}
	username = fmt.Sprintf("%s%d", username, f.faker.Number(100, 9999))

	user := &models.User{
		Username: username,
		Email:    username + "@cinetheque.test",
		Password: f.passwordHash,
		Bio:      f.faker.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateActor persists an actor with a unique slug.
func (f *Factory) CreateActor() (*models.Actor, error) {
	name := f.faker.Name()
	actor := &models.Actor{
		Name:      name,
		Slug:      validation.UniqueSlug(name),
		Biography: f.faker.Paragraph(1, 3, 12, " "),
		BirthDate: f.dateBetween(1930, 2005),
		PhotoURL:  fmt.Sprintf("https://i.pravatar.cc/300?u=%s", f.faker.UUID()),
	}
	if err := f.db.Create(actor).Error; err != nil {
		return nil, err
	}
	return actor, nil
}

// CreateCrew persists a crew member credited with role.
func (f *Factory) CreateCrew(role CrewRoleFixture) (*models.Crew, error) {
	name := f.faker.Name()
	crew := &models.Crew{
		Name:       name,
		Slug:       validation.UniqueSlug(name),
		Role:       role.Role,
		Department: role.Department,
		PhotoURL:   fmt.Sprintf("https://i.pravatar.cc/300?u=%s", f.faker.UUID()),
	}
	if err := f.db.Create(crew).Error; err != nil {
		return nil, err
	}
	return crew, nil
}

// Credits is the pool a movie or serie draws its genres and people from.
type Credits struct {
	Genres []models.Genre
	Actors []models.Actor
	Crew   []models.Crew
}

// CreateMovie persists a movie credited with a random slice of credits.
func (f *Factory) CreateMovie(credits Credits) (*models.Movie, error) {
	title := f.faker.MovieName()
	movie := &models.Movie{
		Title:       title,
		Slug:        validation.UniqueSlug(title),
		Overview:    f.faker.Paragraph(1, 3, 15, " "),
		ReleaseDate: f.dateBetween(1920, 2025),
		Runtime:     f.faker.Number(75, 190),
		Rating:      f.rating(),
		PosterURL:   fmt.Sprintf("https://picsum.photos/seed/%s/400/600", f.faker.UUID()),
		Genres:      pick(f.faker, credits.Genres, 1, 3),
		Actors:      pick(f.faker, credits.Actors, 2, 6),
		Crew:        pick(f.faker, credits.Crew, 1, 4),
	}
	if err := f.db.Create(movie).Error; err != nil {
		return nil, err
	}
	return movie, nil
}

// CreateSerie persists a serie with its seasons and episodes in one insert.
func (f *Factory) CreateSerie(credits Credits, seasons, episodesPerSeason int) (*models.Serie, error) {
	title := f.faker.MovieName()
	firstAired := f.dateBetween(1960, 2024)
	serie := &models.Serie{
		Title:        title,
		Slug:         validation.UniqueSlug(title),
		Overview:     f.faker.Paragraph(1, 3, 15, " "),
		FirstAirDate: firstAired,
		Rating:       f.rating(),
		PosterURL:    fmt.Sprintf("https://picsum.photos/seed/%s/400/600", f.faker.UUID()),
		Genres:       pick(f.faker, credits.Genres, 1, 3),
		Actors:       pick(f.faker, credits.Actors, 2, 8),
		Crew:         pick(f.faker, credits.Crew, 1, 4),
	}

	for s := 1; s <= seasons; s++ {
		airDate := firstAired.AddDate(s-1, 0, 0)
		season := models.Season{
			SeasonNumber: s,
			Name:         fmt.Sprintf("Season %d", s),
			Overview:     f.faker.Sentence(14),
			AirDate:      &airDate,
		}
		for e := 1; e <= episodesPerSeason; e++ {
			episodeDate := airDate.AddDate(0, 0, 7*(e-1))
			season.Episodes = append(season.Episodes, models.Episode{
				EpisodeNumber: e,
				Title:         strings.TrimSuffix(f.faker.Sentence(f.faker.Number(2, 5)), "."),
				Overview:      f.faker.Sentence(18),
				AirDate:       &episodeDate,
				Runtime:       f.faker.Number(22, 65),
			})
		}
		serie.Seasons = append(serie.Seasons, season)
	}

	if err := f.db.Create(serie).Error; err != nil {
		return nil, err
	}
	return serie, nil
}

func (f *Factory) rating() float64 {
	return float64(int(f.faker.Float64Range(4.5, 9.6)*10)) / 10
}

// CreateTopic persists a topic in category written by author.
func (f *Factory) CreateTopic(category *models.ForumCategory, author *models.User, tags []models.ForumTag) (*models.ForumTopic, error) {
	title := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(4, 10)), ".") + "?"
	createdAt := f.recent()
	topic := &models.ForumTopic{
		Title:      title,
		Content:    f.faker.Paragraph(f.faker.Number(1, 3), 4, 12, "\n\n"),
		Slug:       validation.UniqueSlug(title),
		IsPinned:   f.faker.Number(1, 20) == 1,
		IsLocked:   f.faker.Number(1, 25) == 1,
		Status:     "open",
		CategoryID: category.ID,
		UserID:     author.ID,
		Tags:       tags,
		LastPostAt: createdAt,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := f.db.Create(topic).Error; err != nil {
		return nil, err
	}
	return topic, nil
}

// CreatePost persists a post in topic, dated after the topic.
func (f *Factory) CreatePost(topic *models.ForumTopic, author *models.User) (*models.ForumPost, error) {
	createdAt := f.timeAfter(topic.CreatedAt)
	post := &models.ForumPost{
		Content:   f.faker.Paragraph(1, f.faker.Number(1, 4), 14, " "),
		Slug:      validation.UniqueSlug(topic.Title),
		TopicID:   topic.ID,
		UserID:    author.ID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateReply persists a reply to post, dated after the post.
func (f *Factory) CreateReply(post *models.ForumPost, author *models.User) (*models.ForumReply, error) {
	createdAt := f.timeAfter(post.CreatedAt)
	reply := &models.ForumReply{
		Content:   f.faker.Sentence(f.faker.Number(5, 25)),
		PostID:    post.ID,
		UserID:    author.ID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// CreatePlaylist persists a playlist for owner. A nil contentType makes a
// mixed playlist.
func (f *Factory) CreatePlaylist(owner *models.User, contentType *models.ContentType) (*models.Playlist, error) {
	name := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(2, 4)), ".")
	playlist := &models.Playlist{
		Name:        name,
		Description: f.faker.Sentence(12),
		IsPrivate:   f.faker.Number(1, 5) == 1,
		ContentType: contentType,
		UserID:      owner.ID,
	}
	if err := f.db.Create(playlist).Error; err != nil {
		return nil, err
	}
	return playlist, nil
}

// pick returns between min and max distinct elements of items.
func pick[T any](faker *gofakeit.Faker, items []T, min, max int) []T {
	if len(items) == 0 {
		return nil
	}
	n := faker.Number(min, max)
	if n > len(items) {
		n = len(items)
	}
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	faker.ShuffleInts(order)

	out := make([]T, 0, n)
	for _, idx := range order[:n] {
		out = append(out, items[idx])
	}
	return out
}
