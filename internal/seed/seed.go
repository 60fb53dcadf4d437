// Package seed fills a database with reference data and realistic fake
// content for development and demos. Every bulk step logs and skips the
// items it cannot create; only structural failures abort the run.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cinetheque/internal/models"
	"cinetheque/internal/repository"
	"cinetheque/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options sizes a seed run.
type Options struct {
	Users             int
	Actors            int
	CrewMembers       int
	Movies            int
	Series            int
	SeasonsPerSerie   int
	EpisodesPerSeason int

	TopicsPerCategory int
	MaxPostsPerTopic  int
	MaxRepliesPerPost int
	VotesPerUser      int

	PlaylistsPerUser int
	ItemsPerPlaylist int
	BookmarksPerUser int

	MaxDays    int
	SkipBcrypt bool
	// RandSeed makes a run reproducible; zero picks a random seed.
	RandSeed int64
}

// DefaultOptions is the dataset the seed command builds.
func DefaultOptions() Options {
	return Options{
		Users:             40,
		Actors:            60,
		CrewMembers:       30,
		Movies:            80,
		Series:            15,
		SeasonsPerSerie:   3,
		EpisodesPerSeason: 8,
		TopicsPerCategory: 6,
		MaxPostsPerTopic:  8,
		MaxRepliesPerPost: 3,
		VotesPerUser:      25,
		PlaylistsPerUser:  2,
		ItemsPerPlaylist:  10,
		BookmarksPerUser:  5,
		MaxDays:           120,
	}
}

// Summary counts what a run created.
type Summary struct {
	Users         int
	Actors        int
	Crew          int
	Movies        int
	Series        int
	Episodes      int
	Topics        int
	Posts         int
	Replies       int
	Votes         int
	Playlists     int
	PlaylistItems int
	Bookmarks     int
	Skipped       int
	Stats         service.RollupResult
}

// Seeder runs the seed steps against one database.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	faker   *gofakeit.Faker
	factory *Factory

	playlists repository.PlaylistRepository
	bookmarks repository.BookmarkRepository
	stats     *service.StatsService
}

func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	faker := gofakeit.New(opts.RandSeed)
	factory, err := NewFactory(db, faker, opts.MaxDays, opts.SkipBcrypt)
	if err != nil {
		return nil, err
	}
	return &Seeder{
		db:        db,
		opts:      opts,
		faker:     faker,
		factory:   factory,
		playlists: repository.NewPlaylistRepository(db),
		bookmarks: repository.NewBookmarkRepository(db),
		stats: service.NewStatsService(
			repository.NewStatsRepository(db),
			repository.NewUserRepository(db),
		),
	}, nil
}

// Reference is the fixture data after it has been written.
type Reference struct {
	Categories []models.ForumCategory
	Tags       []models.ForumTag
	Genres     []models.Genre
	CrewRoles  []CrewRoleFixture
}

// ReferenceData upserts the embedded forum categories, tags and genres.
// It is safe to run on every start.
func ReferenceData(ctx context.Context, db *gorm.DB) (*Reference, error) {
	fixtures, err := LoadFixtures()
	if err != nil {
		return nil, err
	}

	ref := &Reference{CrewRoles: fixtures.CrewRoles}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categorySlugs := make([]string, 0, len(fixtures.Categories))
		for i, item := range fixtures.Categories {
			category := models.ForumCategory{
				Name:        item.Name,
				Slug:        item.Slug,
				Description: item.Description,
				SortOrder:   i,
				IsActive:    true,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description", "sort_order", "updated_at"}),
			}).Create(&category).Error; err != nil {
				return fmt.Errorf("category %s: %w", item.Slug, err)
			}
			categorySlugs = append(categorySlugs, item.Slug)
		}

		tagNames := make([]string, 0, len(fixtures.Tags))
		for _, item := range fixtures.Tags {
			tag := models.ForumTag{Name: item.Name, Color: item.Color, Description: item.Description}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"color", "description"}),
			}).Create(&tag).Error; err != nil {
				return fmt.Errorf("tag %s: %w", item.Name, err)
			}
			tagNames = append(tagNames, item.Name)
		}

		genreSlugs := make([]string, 0, len(fixtures.Genres))
		for _, item := range fixtures.Genres {
			genre := models.Genre{Name: item.Name, Slug: item.Slug}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"name"}),
			}).Create(&genre).Error; err != nil {
				return fmt.Errorf("genre %s: %w", item.Slug, err)
			}
			genreSlugs = append(genreSlugs, item.Slug)
		}

		// Reload so IDs are right whether rows were inserted or updated.
		if err := tx.Where("slug IN ?", categorySlugs).Order("sort_order ASC").Find(&ref.Categories).Error; err != nil {
			return err
		}
		if err := tx.Where("name IN ?", tagNames).Order("name ASC").Find(&ref.Tags).Error; err != nil {
			return err
		}
		return tx.Where("slug IN ?", genreSlugs).Order("name ASC").Find(&ref.Genres).Error
	})
	if err != nil {
		return nil, fmt.Errorf("seed reference data: %w", err)
	}
	return ref, nil
}

// Run executes every seed step in order and recomputes all derived data.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	ref, err := ReferenceData(ctx, s.db)
	if err != nil {
		return nil, err
	}
	log.Printf("✓ %d categories, %d tags, %d genres", len(ref.Categories), len(ref.Tags), len(ref.Genres))

	credits := s.seedPeople(ref, summary)
	movies := s.seedMovies(credits, summary)
	series := s.seedSeries(credits, summary)
	log.Printf("✓ %d actors, %d crew, %d movies, %d series (%d episodes)",
		summary.Actors, summary.Crew, summary.Movies, summary.Series, summary.Episodes)

	users := s.seedUsers(summary)
	if len(users) == 0 {
		return nil, errors.New("no users could be created")
	}
	log.Printf("✓ %d users (password %q)", len(users), Password)

	topics, posts := s.seedForum(ctx, ref, users, summary)
	log.Printf("✓ %d topics, %d posts, %d replies", summary.Topics, summary.Posts, summary.Replies)

	s.seedVotes(users, topics, posts, summary)
	log.Printf("✓ %d votes", summary.Votes)

	s.seedPlaylists(ctx, users, catalogPool{movies: movies, series: series, actors: credits.Actors, crew: credits.Crew}, summary)
	log.Printf("✓ %d playlists with %d items", summary.Playlists, summary.PlaylistItems)

	s.seedBookmarks(ctx, users, series, summary)
	log.Printf("✓ %d episode bookmarks", summary.Bookmarks)

	if err := repository.RecomputeAllCounters(ctx, s.db); err != nil {
		return nil, fmt.Errorf("recompute counters: %w", err)
	}
	log.Println("✓ denormalized counters recomputed")

	rollup, err := s.stats.RecomputeAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("forum stats roll-up: %w", err)
	}
	summary.Stats = rollup
	log.Printf("✓ forum stats for %d users (%d failed)", rollup.Processed, rollup.Failed)

	if summary.Skipped > 0 {
		log.Printf("⚠️  %d items skipped, see log above", summary.Skipped)
	}
	return summary, nil
}

func (s *Seeder) skip(summary *Summary, what string, err error) {
	summary.Skipped++
	log.Printf("skipping %s: %v", what, err)
}

func (s *Seeder) seedPeople(ref *Reference, summary *Summary) Credits {
	credits := Credits{Genres: ref.Genres}
	for i := 0; i < s.opts.Actors; i++ {
		actor, err := s.factory.CreateActor()
		if err != nil {
			s.skip(summary, "actor", err)
			continue
		}
		credits.Actors = append(credits.Actors, *actor)
		summary.Actors++
	}
	for i := 0; i < s.opts.CrewMembers; i++ {
		role := ref.CrewRoles[i%len(ref.CrewRoles)]
		crew, err := s.factory.CreateCrew(role)
		if err != nil {
			s.skip(summary, "crew member", err)
			continue
		}
		credits.Crew = append(credits.Crew, *crew)
		summary.Crew++
	}
	return credits
}

func (s *Seeder) seedMovies(credits Credits, summary *Summary) []models.Movie {
	movies := make([]models.Movie, 0, s.opts.Movies)
	for i := 0; i < s.opts.Movies; i++ {
		movie, err := s.factory.CreateMovie(credits)
		if err != nil {
			s.skip(summary, "movie", err)
			continue
		}
		movies = append(movies, *movie)
		summary.Movies++
	}
	return movies
}

func (s *Seeder) seedSeries(credits Credits, summary *Summary) []models.Serie {
	series := make([]models.Serie, 0, s.opts.Series)
	for i := 0; i < s.opts.Series; i++ {
		seasons := s.faker.Number(1, max(s.opts.SeasonsPerSerie, 1))
		serie, err := s.factory.CreateSerie(credits, seasons, s.opts.EpisodesPerSeason)
		if err != nil {
			s.skip(summary, "serie", err)
			continue
		}
		series = append(series, *serie)
		summary.Series++
		for _, season := range serie.Seasons {
			summary.Episodes += len(season.Episodes)
		}
	}
	return series
}

func (s *Seeder) seedUsers(summary *Summary) []models.User {
	users := make([]models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			s.skip(summary, "user", err)
			continue
		}
		users = append(users, *user)
		summary.Users++
	}
	return users
}

func (s *Seeder) randomUser(users []models.User) *models.User {
	return &users[s.faker.Number(0, len(users)-1)]
}

func (s *Seeder) seedForum(ctx context.Context, ref *Reference, users []models.User, summary *Summary) ([]models.ForumTopic, []models.ForumPost) {
	var (
		topics []models.ForumTopic
		posts  []models.ForumPost
	)
	for i := range ref.Categories {
		category := &ref.Categories[i]
		for t := 0; t < s.opts.TopicsPerCategory; t++ {
			if ctx.Err() != nil {
				return topics, posts
			}
			topic, err := s.factory.CreateTopic(category, s.randomUser(users), pick(s.faker, ref.Tags, 0, 3))
			if err != nil {
				s.skip(summary, "topic", err)
				continue
			}
			topics = append(topics, *topic)
			summary.Topics++

			for p := s.faker.Number(0, s.opts.MaxPostsPerTopic); p > 0; p-- {
				post, err := s.factory.CreatePost(topic, s.randomUser(users))
				if err != nil {
					s.skip(summary, "post", err)
					continue
				}
				posts = append(posts, *post)
				summary.Posts++

				for r := s.faker.Number(0, s.opts.MaxRepliesPerPost); r > 0; r-- {
					if _, err := s.factory.CreateReply(post, s.randomUser(users)); err != nil {
						s.skip(summary, "reply", err)
						continue
					}
					summary.Replies++
				}
			}
		}
	}
	return topics, posts
}

type voteKey struct {
	userID   uint
	target   models.VoteTarget
	targetID uint
}

// seedVotes writes ledger rows directly. Self-votes are never generated and
// each (user, target) pair votes at most once across both directions.
func (s *Seeder) seedVotes(users []models.User, topics []models.ForumTopic, posts []models.ForumPost, summary *Summary) {
	if len(topics) == 0 && len(posts) == 0 {
		return
	}
	voted := make(map[voteKey]struct{})
	for i := range users {
		voter := &users[i]
		for v := 0; v < s.opts.VotesPerUser; v++ {
			up := s.faker.Number(1, 100) <= 80
			var row interface{}
			var key voteKey
			if len(posts) == 0 || (len(topics) > 0 && s.faker.Bool()) {
				topic := &topics[s.faker.Number(0, len(topics)-1)]
				if topic.UserID == voter.ID {
					continue
				}
				key = voteKey{userID: voter.ID, target: models.VoteTargetTopic, targetID: topic.ID}
				row = topicVote(voter.ID, topic.ID, up)
			} else {
				post := &posts[s.faker.Number(0, len(posts)-1)]
				if post.UserID == voter.ID {
					continue
				}
				key = voteKey{userID: voter.ID, target: models.VoteTargetPost, targetID: post.ID}
				row = postVote(voter.ID, post.ID, up)
			}
			if _, ok := voted[key]; ok {
				continue
			}
			voted[key] = struct{}{}
			res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
			if res.Error != nil {
				s.skip(summary, "vote", res.Error)
				continue
			}
			summary.Votes += int(res.RowsAffected)
		}
	}
}

func topicVote(userID, topicID uint, up bool) interface{} {
	if up {
		return &models.UpvoteForumTopic{UserID: userID, TopicID: topicID}
	}
	return &models.DownvoteForumTopic{UserID: userID, TopicID: topicID}
}

func postVote(userID, postID uint, up bool) interface{} {
	if up {
		return &models.UpvoteForumPost{UserID: userID, PostID: postID}
	}
	return &models.DownvoteForumPost{UserID: userID, PostID: postID}
}

type catalogPool struct {
	movies []models.Movie
	series []models.Serie
	actors []models.Actor
	crew   []models.Crew
}

// randomItem returns the ID of a random catalog entity of type ct.
func (p catalogPool) randomItem(faker *gofakeit.Faker, ct models.ContentType) (uint, bool) {
	switch ct {
	case models.ContentTypeMovie:
		if len(p.movies) > 0 {
			return p.movies[faker.Number(0, len(p.movies)-1)].ID, true
		}
	case models.ContentTypeSerie:
		if len(p.series) > 0 {
			return p.series[faker.Number(0, len(p.series)-1)].ID, true
		}
	case models.ContentTypeSeason:
		if len(p.series) > 0 {
			serie := p.series[faker.Number(0, len(p.series)-1)]
			if len(serie.Seasons) > 0 {
				return serie.Seasons[faker.Number(0, len(serie.Seasons)-1)].ID, true
			}
		}
	case models.ContentTypeEpisode:
		if len(p.series) > 0 {
			serie := p.series[faker.Number(0, len(p.series)-1)]
			if len(serie.Seasons) > 0 {
				season := serie.Seasons[faker.Number(0, len(serie.Seasons)-1)]
				if len(season.Episodes) > 0 {
					return season.Episodes[faker.Number(0, len(season.Episodes)-1)].ID, true
				}
			}
		}
	case models.ContentTypeActor:
		if len(p.actors) > 0 {
			return p.actors[faker.Number(0, len(p.actors)-1)].ID, true
		}
	case models.ContentTypeCrew:
		if len(p.crew) > 0 {
			return p.crew[faker.Number(0, len(p.crew)-1)].ID, true
		}
	}
	return 0, false
}

func (s *Seeder) seedPlaylists(ctx context.Context, users []models.User, pool catalogPool, summary *Summary) {
	for i := range users {
		owner := &users[i]
		for p := 0; p < s.opts.PlaylistsPerUser; p++ {
			// Half the playlists are typed; the rest mix content types.
			var typed *models.ContentType
			if s.faker.Bool() {
				ct := models.ContentTypes[s.faker.Number(0, len(models.ContentTypes)-1)]
				typed = &ct
			}
			playlist, err := s.factory.CreatePlaylist(owner, typed)
			if err != nil {
				s.skip(summary, "playlist", err)
				continue
			}
			summary.Playlists++

			for n := 0; n < s.opts.ItemsPerPlaylist; n++ {
				ct := models.ContentTypes[s.faker.Number(0, len(models.ContentTypes)-1)]
				if typed != nil {
					ct = *typed
				}
				itemID, ok := pool.randomItem(s.faker, ct)
				if !ok {
					continue
				}
				if err := s.playlists.AddItem(ctx, playlist.ID, ct, itemID); err != nil {
					s.skip(summary, "playlist item", err)
					continue
				}
				summary.PlaylistItems++
			}
		}
	}
}

func (s *Seeder) seedBookmarks(ctx context.Context, users []models.User, series []models.Serie, summary *Summary) {
	pool := catalogPool{series: series}
	for i := range users {
		for b := 0; b < s.opts.BookmarksPerUser; b++ {
			episodeID, ok := pool.randomItem(s.faker, models.ContentTypeEpisode)
			if !ok {
				return
			}
			if err := s.bookmarks.Add(ctx, users[i].ID, episodeID); err != nil {
				s.skip(summary, "bookmark", err)
				continue
			}
			summary.Bookmarks++
		}
	}
}
