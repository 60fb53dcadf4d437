// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"cinetheque/internal/database"
	"cinetheque/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewTestDB opens a fresh, fully migrated in-memory SQLite database.
// Every call gets its own named shared-cache database, so tests never see
// each other's rows. The pool is pinned to one connection because SQLite
// serializes writers anyway.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:cinetheque_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// MustCreate inserts value or fails the test.
func MustCreate(t testing.TB, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

// TestPassword is the plaintext password of every user created by CreateUser.
const TestPassword = "Password123!"

var hashedTestPassword = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// CreateUser inserts a user whose password is TestPassword.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashedTestPassword,
	}
	MustCreate(t, db, user)
	return user
}

// CreateCategory inserts an active forum category.
func CreateCategory(t testing.TB, db *gorm.DB, slug string) *models.ForumCategory {
	t.Helper()
	category := &models.ForumCategory{Name: slug, Slug: slug, IsActive: true}
	MustCreate(t, db, category)
	return category
}

// CreateTopic inserts a topic directly, bypassing counter maintenance.
func CreateTopic(t testing.TB, db *gorm.DB, categoryID, userID uint, title string) *models.ForumTopic {
	t.Helper()
	now := time.Now().UTC()
	topic := &models.ForumTopic{
		Title:      title,
		Content:    title + " body",
		Slug:       fmt.Sprintf("topic-%d", dbCounter.Add(1)),
		Status:     models.TopicStatusOpen,
		CategoryID: categoryID,
		UserID:     userID,
		LastPostAt: now,
		CreatedAt:  now,
	}
	MustCreate(t, db, topic)
	return topic
}

// CreatePost inserts a post directly, bypassing counter maintenance.
func CreatePost(t testing.TB, db *gorm.DB, topicID, userID uint, content string) *models.ForumPost {
	t.Helper()
	post := &models.ForumPost{
		Content: content,
		Slug:    fmt.Sprintf("post-%d", dbCounter.Add(1)),
		TopicID: topicID,
		UserID:  userID,
	}
	MustCreate(t, db, post)
	return post
}

// CreateEpisode inserts a serie with one season holding one episode.
func CreateEpisode(t testing.TB, db *gorm.DB, title string) *models.Episode {
	t.Helper()
	n := dbCounter.Add(1)
	serie := &models.Serie{Title: title, Slug: fmt.Sprintf("serie-%d", n)}
	MustCreate(t, db, serie)
	season := &models.Season{SerieID: serie.ID, SeasonNumber: 1, Name: "Season 1"}
	MustCreate(t, db, season)
	episode := &models.Episode{SeasonID: season.ID, EpisodeNumber: 1, Title: title}
	MustCreate(t, db, episode)
	return episode
}
