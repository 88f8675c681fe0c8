package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/client/repositories/metadata"
	"github.com/dzaky3022/wincal/internal/common"
	"github.com/dzaky3022/wincal/internal/logging"
)

// Layout preference values.
const (
	LayoutList = "list"
	LayoutGrid = "grid"
)

// AuthService manages the signed-in session. The identity provider has
// already verified the token by the time it reaches Login, so the token
// is only decoded here, never re-validated; its subject claim becomes
// the owner id that scopes every local query.
type AuthService struct {
	meta metadata.Repository
	log  logging.Logger
}

func NewAuthService(meta metadata.Repository, log logging.Logger) *AuthService {
	return &AuthService{meta: meta, log: log.With("component", "auth")}
}

// Login decodes the provider token, extracts the user identity and
// persists it as the session snapshot. Returns the signed-in user.
func (s *AuthService) Login(ctx context.Context, idToken string) (*models.User, error) {
	user, err := userFromToken(idToken)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encoding user snapshot: %w", err)
	}
	if err := s.meta.Set(ctx, metadata.KeyUser, data); err != nil {
		return nil, fmt.Errorf("saving user snapshot: %w", err)
	}

	s.log.Info(ctx, "user signed in", "uid", user.ID)
	return user, nil
}

// CurrentUser returns the persisted session snapshot, or
// common.ErrNoSession when nobody is signed in.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	data, err := s.meta.Get(ctx, metadata.KeyUser)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, common.ErrNoSession
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decoding user snapshot: %w", err)
	}
	return &user, nil
}

// Logout drops the session snapshot. Local records stay on disk and are
// picked up again when the same user signs back in.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.meta.Delete(ctx, metadata.KeyUser); err != nil {
		return err
	}
	s.log.Info(ctx, "user signed out")
	return nil
}

// Layout returns the stored layout preference, defaulting to LayoutList.
func (s *AuthService) Layout(ctx context.Context) (string, error) {
	data, err := s.meta.Get(ctx, metadata.KeyLayout)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return LayoutList, nil
	}
	return string(data), nil
}

// SetLayout persists the layout preference.
func (s *AuthService) SetLayout(ctx context.Context, layout string) error {
	if layout != LayoutList && layout != LayoutGrid {
		return fmt.Errorf("%w: unknown layout %q", common.ErrValidation, layout)
	}
	return s.meta.Set(ctx, metadata.KeyLayout, []byte(layout))
}

// userFromToken reads the identity claims out of an already-verified
// provider token.
func userFromToken(idToken string) (*models.User, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	uid, _ := claims["sub"].(string)
	if uid == "" {
		uid, _ = claims["user_id"].(string)
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: missing subject claim", common.ErrInvalidToken)
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	photo, _ := claims["picture"].(string)

	return &models.User{ID: uid, Name: name, Email: email, PhotoURL: photo}, nil
}
