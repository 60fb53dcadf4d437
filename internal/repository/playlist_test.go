package repository

import (
	"context"
	"testing"

	"cinetheque/internal/models"
	"cinetheque/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistRepository_ItemsPerTab(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "alice")
	playlist := &models.Playlist{Name: "Weekend", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, playlist))

	m1 := &models.Movie{Title: "Alien", Slug: "alien"}
	m2 := &models.Movie{Title: "Heat", Slug: "heat"}
	actor := &models.Actor{Name: "Sigourney Weaver", Slug: "sigourney-weaver"}
	crew := &models.Crew{Name: "Ridley Scott", Slug: "ridley-scott", Role: "Director"}
	testutil.MustCreate(t, db, m1)
	testutil.MustCreate(t, db, m2)
	testutil.MustCreate(t, db, actor)
	testutil.MustCreate(t, db, crew)
	episode := testutil.CreateEpisode(t, db, "Pilot")

	require.NoError(t, repo.AddItem(ctx, playlist.ID, models.ContentTypeMovie, m1.ID))
	require.NoError(t, repo.AddItem(ctx, playlist.ID, models.ContentTypeMovie, m2.ID))
	require.NoError(t, repo.AddItem(ctx, playlist.ID, models.ContentTypeMovie, m1.ID), "adding twice is a no-op")
	require.NoError(t, repo.AddItem(ctx, playlist.ID, models.ContentTypeActor, actor.ID))
	require.NoError(t, repo.AddItem(ctx, playlist.ID, models.ContentTypeCrew, crew.ID))
	require.NoError(t, repo.AddItem(ctx, playlist.ID, models.ContentTypeEpisode, episode.ID))

	stored, err := repo.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.ItemCount)

	items, total, err := repo.Items(ctx, playlist.ID, models.TabMovies, 0, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, models.ContentTypeMovie, item.ContentType)
		require.NotNil(t, item.Movie)
		assert.Nil(t, item.Actor)
	}
	assert.Equal(t, "Alien", items[0].Movie.Title)

	items, total, err = repo.Items(ctx, playlist.ID, models.TabMovies, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Heat", items[0].Movie.Title)

	items, total, err = repo.Items(ctx, playlist.ID, models.TabCrew, 0, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Director", items[0].Crew.Role)

	items, total, err = repo.Items(ctx, playlist.ID, models.TabSeasons, 0, 12)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	counts, err := repo.TabCounts(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.TabMovies])
	assert.Equal(t, int64(1), counts[models.TabEpisodes])
	assert.Equal(t, int64(0), counts[models.TabSeries])
}

func TestPlaylistRepository_AddMissingAndRemove(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "alice")
	playlist := &models.Playlist{Name: "List", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, playlist))

	err := repo.AddItem(ctx, playlist.ID, models.ContentTypeSerie, 404)
	assert.True(t, IsNotFound(err))

	movie := &models.Movie{Title: "Alien", Slug: "alien"}
	testutil.MustCreate(t, db, movie)
	require.NoError(t, repo.AddItem(ctx, playlist.ID, models.ContentTypeMovie, movie.ID))
	require.NoError(t, repo.RemoveItem(ctx, playlist.ID, models.ContentTypeMovie, movie.ID))

	stored, err := repo.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.ItemCount)

	err = repo.RemoveItem(ctx, playlist.ID, models.ContentTypeMovie, movie.ID)
	assert.True(t, IsNotFound(err))
}

func TestPlaylistRepository_ListByUserAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "alice")
	public := &models.Playlist{Name: "Public", UserID: owner.ID}
	private := &models.Playlist{Name: "Private", UserID: owner.ID, IsPrivate: true}
	require.NoError(t, repo.Create(ctx, public))
	require.NoError(t, repo.Create(ctx, private))

	movie := &models.Movie{Title: "Alien", Slug: "alien"}
	testutil.MustCreate(t, db, movie)
	require.NoError(t, repo.AddItem(ctx, private.ID, models.ContentTypeMovie, movie.ID))

	all, total, err := repo.ListByUser(ctx, owner.ID, true, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	visible, total, err := repo.ListByUser(ctx, owner.ID, false, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, visible, 1)
	assert.Equal(t, "Public", visible[0].Name)

	require.NoError(t, repo.Delete(ctx, private.ID))
	_, err = repo.GetByID(ctx, private.ID)
	assert.True(t, IsNotFound(err))

	var links int64
	require.NoError(t, db.Model(&models.PlaylistMovie{}).Count(&links).Error)
	assert.Zero(t, links)
}
