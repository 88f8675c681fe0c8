package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzaky3022/wincal/internal/client/repositories/metadata"
	"github.com/dzaky3022/wincal/internal/common"
	"github.com/dzaky3022/wincal/internal/logging"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func setupAuth(t *testing.T) *AuthService {
	t.Helper()
	db := setupDB(t)
	return NewAuthService(metadata.NewSQLiteRepository(db), logging.NewNopLogger())
}

func TestLogin_PersistsUserSnapshot(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	token := signedToken(t, jwt.MapClaims{
		"sub":     "uid-123",
		"name":    "Dina",
		"email":   "dina@example.com",
		"picture": "https://example.com/p.jpg",
	})

	user, err := svc.Login(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", user.ID)
	assert.Equal(t, "Dina", user.Name)

	got, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestLogin_FallsBackToUserIDClaim(t *testing.T) {
	svc := setupAuth(t)

	token := signedToken(t, jwt.MapClaims{"user_id": "uid-456"})
	user, err := svc.Login(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-456", user.ID)
}

func TestLogin_RejectsTokenWithoutSubject(t *testing.T) {
	svc := setupAuth(t)

	token := signedToken(t, jwt.MapClaims{"email": "nobody@example.com"})
	_, err := svc.Login(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestLogin_RejectsGarbage(t *testing.T) {
	svc := setupAuth(t)
	_, err := svc.Login(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCurrentUser_NoSession(t *testing.T) {
	svc := setupAuth(t)
	_, err := svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)
}

func TestLogout_ClearsSession(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, signedToken(t, jwt.MapClaims{"sub": "uid-1"}))
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	_, err = svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, common.ErrNoSession)
}

func TestLayoutPreference(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	// defaults to list
	layout, err := svc.Layout(ctx)
	require.NoError(t, err)
	assert.Equal(t, LayoutList, layout)

	require.NoError(t, svc.SetLayout(ctx, LayoutGrid))
	layout, err = svc.Layout(ctx)
	require.NoError(t, err)
	assert.Equal(t, LayoutGrid, layout)

	err = svc.SetLayout(ctx, "mosaic")
	assert.ErrorIs(t, err, common.ErrValidation)
}
