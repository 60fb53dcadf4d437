package bootstrap

import (
	"context"
	"testing"

	"cinetheque/internal/config"
	"cinetheque/internal/models"
	"cinetheque/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func devConfig() *config.Config {
	return &config.Config{
		Env:              "development",
		DevBootstrapRoot: true,
		DevRootPassword:  "RootPassword123!",
	}
}

func TestEnsureDevRootAdmin_CreatesRoot(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, EnsureDevRootAdmin(context.Background(), devConfig(), db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.True(t, root.IsAdmin)
	assert.Equal(t, defaultRootUsername, root.Username)
	assert.Equal(t, defaultRootEmail, root.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("RootPassword123!")))
}

func TestEnsureDevRootAdmin_PromotesExistingUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	existing := testutil.CreateUser(t, db, "firstuser")
	require.EqualValues(t, 1, existing.ID)

	require.NoError(t, EnsureDevRootAdmin(context.Background(), devConfig(), db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.True(t, root.IsAdmin)
	assert.Equal(t, "firstuser", root.Username)
}

func TestEnsureDevRootAdmin_Skips(t *testing.T) {
	db := testutil.NewTestDB(t)

	prod := devConfig()
	prod.Env = "production"
	require.NoError(t, EnsureDevRootAdmin(context.Background(), prod, db))

	disabled := devConfig()
	disabled.DevBootstrapRoot = false
	require.NoError(t, EnsureDevRootAdmin(context.Background(), disabled, db))

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEnsureDevRootAdmin_RequiresPassword(t *testing.T) {
	cfg := devConfig()
	cfg.DevRootPassword = ""
	err := EnsureDevRootAdmin(context.Background(), cfg, testutil.NewTestDB(t))
	assert.ErrorContains(t, err, "DEV_ROOT_PASSWORD")
}
