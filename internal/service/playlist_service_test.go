package service

import (
	"context"
	"testing"

	"cinetheque/internal/models"
	"cinetheque/internal/repository"
	"cinetheque/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResolveTab(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		tab      string
		prevTab  string
		page     int
		wantTab  models.PlaylistTab
		wantPage int
		wantErr  bool
	}{
		{name: "same tab keeps page", tab: "series", prevTab: "series", page: 3, wantTab: models.TabSeries, wantPage: 3},
		{name: "first load keeps page", tab: "series", page: 2, wantTab: models.TabSeries, wantPage: 2},
		{name: "switch resets page", tab: "actors", prevTab: "movies", page: 4, wantTab: models.TabActors, wantPage: 1},
		{name: "case and whitespace", tab: " Crew ", prevTab: "crew", page: 2, wantTab: models.TabCrew, wantPage: 2},
		{name: "previous tab is normalized too", tab: "movies", prevTab: " Movies", page: 3, wantTab: models.TabMovies, wantPage: 3},
		{name: "empty with fallback as previous tab", prevTab: "MOVIES", page: 2, wantTab: models.TabMovies, wantPage: 2},
		{name: "empty uses fallback", page: 0, wantTab: models.TabMovies, wantPage: 1},
		{name: "empty after other tab resets", prevTab: "episodes", page: 5, wantTab: models.TabMovies, wantPage: 1},
		{name: "unknown tab", tab: "podcasts", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tab, page, err := ResolveTab(tc.tab, tc.prevTab, tc.page, models.TabMovies)
			if tc.wantErr {
				assertValidationError(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTab, tab)
			assert.Equal(t, tc.wantPage, page)
		})
	}
}

type playlistFixture struct {
	db    *gorm.DB
	svc   *PlaylistService
	owner *models.User
	other *models.User
}

func newPlaylistFixture(t *testing.T) *playlistFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &playlistFixture{
		db:    db,
		svc:   NewPlaylistService(repository.NewPlaylistRepository(db)),
		owner: testutil.CreateUser(t, db, "owner"),
		other: testutil.CreateUser(t, db, "visitor"),
	}
}

func TestPlaylistService_PrivatePlaylistIsHidden(t *testing.T) {
	t.Parallel()
	f := newPlaylistFixture(t)
	ctx := context.Background()

	playlist, err := f.svc.Create(ctx, CreatePlaylistInput{UserID: f.owner.ID, Name: "Secret", IsPrivate: true})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, playlist.ID, f.owner.ID)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, playlist.ID, f.other.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)
	_, err = f.svc.Items(ctx, PlaylistItemsInput{PlaylistID: playlist.ID, ViewerID: 0})
	assertAppErrorCode(t, err, models.CodeNotFound)

	rename := "Mine now"
	_, err = f.svc.Update(ctx, UpdatePlaylistInput{UserID: f.other.ID, PlaylistID: playlist.ID, Name: &rename})
	assertAppErrorCode(t, err, models.CodeNotFound)

	owned, err := f.svc.ListByUser(ctx, f.owner.ID, f.owner.ID, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, owned.Total)
	public, err := f.svc.ListByUser(ctx, f.owner.ID, f.other.ID, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, public.Total)
	assert.NotNil(t, public.Items)
}

func TestPlaylistService_PublicPlaylistIsReadOnlyForOthers(t *testing.T) {
	t.Parallel()
	f := newPlaylistFixture(t)
	ctx := context.Background()

	playlist, err := f.svc.Create(ctx, CreatePlaylistInput{UserID: f.owner.ID, Name: "Shared"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, playlist.ID, f.other.ID)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, f.other.ID, playlist.ID)
	assertAppErrorCode(t, err, models.CodeForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.owner.ID, playlist.ID))
}

func TestPlaylistService_AddItemRules(t *testing.T) {
	t.Parallel()
	f := newPlaylistFixture(t)
	ctx := context.Background()
	movie := &models.Movie{Title: "Vertigo", Slug: "vertigo"}
	testutil.MustCreate(t, f.db, movie)
	episode := testutil.CreateEpisode(t, f.db, "Pilot")

	typed, err := f.svc.Create(ctx, CreatePlaylistInput{UserID: f.owner.ID, Name: "Films", ContentType: "movie"})
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, PlaylistItemInput{UserID: f.owner.ID, PlaylistID: typed.ID, ContentType: "episode", ItemID: episode.ID})
	assertValidationError(t, err)

	_, err = f.svc.AddItem(ctx, PlaylistItemInput{UserID: f.owner.ID, PlaylistID: typed.ID, ContentType: "movie", ItemID: 404})
	assertAppErrorCode(t, err, models.CodeNotFound)

	updated, err := f.svc.AddItem(ctx, PlaylistItemInput{UserID: f.owner.ID, PlaylistID: typed.ID, ContentType: "movie", ItemID: movie.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ItemCount)

	// Adding twice is idempotent.
	updated, err = f.svc.AddItem(ctx, PlaylistItemInput{UserID: f.owner.ID, PlaylistID: typed.ID, ContentType: "movie", ItemID: movie.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ItemCount)

	archived := true
	_, err = f.svc.Update(ctx, UpdatePlaylistInput{UserID: f.owner.ID, PlaylistID: typed.ID, IsArchived: &archived})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, PlaylistItemInput{UserID: f.owner.ID, PlaylistID: typed.ID, ContentType: "movie", ItemID: movie.ID})
	assertValidationError(t, err)

	updated, err = f.svc.RemoveItem(ctx, PlaylistItemInput{UserID: f.owner.ID, PlaylistID: typed.ID, ContentType: "movie", ItemID: movie.ID})
	require.NoError(t, err)
	assert.Zero(t, updated.ItemCount)
}

func TestPlaylistService_ItemsByTab(t *testing.T) {
	t.Parallel()
	f := newPlaylistFixture(t)
	ctx := context.Background()
	movie := &models.Movie{Title: "Rope", Slug: "rope"}
	testutil.MustCreate(t, f.db, movie)
	episode := testutil.CreateEpisode(t, f.db, "Finale")

	playlist, err := f.svc.Create(ctx, CreatePlaylistInput{UserID: f.owner.ID, Name: "Mixed"})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, PlaylistItemInput{UserID: f.owner.ID, PlaylistID: playlist.ID, ContentType: "movie", ItemID: movie.ID})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, PlaylistItemInput{UserID: f.owner.ID, PlaylistID: playlist.ID, ContentType: "episode", ItemID: episode.ID})
	require.NoError(t, err)

	page, err := f.svc.Items(ctx, PlaylistItemsInput{PlaylistID: playlist.ID, ViewerID: f.other.ID})
	require.NoError(t, err)
	assert.Equal(t, models.TabMovies, page.Tab)
	assert.EqualValues(t, 1, page.Total)
	assert.EqualValues(t, 1, page.TabCounts[models.TabEpisodes])

	page, err = f.svc.Items(ctx, PlaylistItemsInput{PlaylistID: playlist.ID, Tab: "episodes", PrevTab: "movies", Page: 7})
	require.NoError(t, err)
	assert.Equal(t, models.TabEpisodes, page.Tab)
	assert.Equal(t, 1, page.Pagination.Page)
	require.Len(t, page.Items, 1)

	_, err = f.svc.Items(ctx, PlaylistItemsInput{PlaylistID: playlist.ID, Tab: "nope"})
	assertValidationError(t, err)
}

func TestPlaylistService_TypedPlaylistDefaultsToItsTab(t *testing.T) {
	t.Parallel()
	f := newPlaylistFixture(t)
	ctx := context.Background()

	playlist, err := f.svc.Create(ctx, CreatePlaylistInput{UserID: f.owner.ID, Name: "Cast", ContentType: "actor"})
	require.NoError(t, err)

	page, err := f.svc.Items(ctx, PlaylistItemsInput{PlaylistID: playlist.ID})
	require.NoError(t, err)
	assert.Equal(t, models.TabActors, page.Tab)

	_, err = f.svc.Create(ctx, CreatePlaylistInput{UserID: f.owner.ID, Name: "Bad", ContentType: "podcast"})
	assertValidationError(t, err)
}
