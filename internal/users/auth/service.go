// Copyright (c) 2026 Vidora. All rights reserved.

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/pkg/casefold"
	"github.com/vidora/vidora/pkg/uuid"
)

// TokenProvider is the subset of [sec.TokenService] the session service
// needs. Access-token verification belongs to the guard, not here.
type TokenProvider interface {
	IssueAccessToken(userID, username, email string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyRefreshToken(tokenString string) (*sec.RefreshClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// Session is the result of a successful login or refresh: the freshly
// issued token pair plus the account it belongs to.
type Session struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterInput carries the validated registration form. Media files have
// already been spooled to disk by the handler; the service moves them to
// durable storage.
type RegisterInput struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// Service implements the account and session workflows.
type Service struct {
	users   UserRepository
	tokens  TokenProvider
	storage media.Storage
	logger  *slog.Logger
}

// NewService creates the session service with its collaborators.
func NewService(users UserRepository, tokens TokenProvider, storage media.Storage, logger *slog.Logger) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		storage: storage,
		logger:  logger,
	}
}

/*
Register creates a new account.

Description: The identity conflict check runs before any media upload so a
duplicate registration never touches the media host. The avatar upload is
mandatory and fatal on failure; the cover upload is optional and degrades
to "no cover" on failure. A unique-constraint race at INSERT time still
surfaces as a 409 via the dberr bridge.

Parameters:
  - ctx: context.Context
  - input: Validated registration form with spooled media paths

Returns:
  - *User: The created account (secrets excluded from JSON)
  - error: Validation, conflict, upload or storage failures
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := casefold.Username(input.Username)
	email := casefold.Email(input.Email)

	existing, err := service.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("User with email or username already exists")
	}

	if input.AvatarPath == "" {
		return nil, apperr.ValidationError("Avatar file is required")
	}

	avatarURL, err := service.storage.Upload(ctx, input.AvatarPath)
	if err != nil {
		return nil, apperr.Upload("Avatar upload failed", err)
	}

	coverImageURL := ""
	if input.CoverImagePath != "" {
		coverImageURL, err = service.storage.Upload(ctx, input.CoverImagePath)
		if err != nil {
			// The cover is decorative; registration proceeds without it.
			service.logger.Warn("auth_cover_upload_failed", slog.Any("error", err))
			coverImageURL = ""
		}
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	currentTime := time.Now().UTC()
	user := &User{
		ID:            uuid.New(),
		Username:      username,
		Email:         email,
		FullName:      input.FullName,
		PasswordHash:  passwordHash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		CreatedAt:     currentTime,
		UpdatedAt:     currentTime,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("auth_user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

/*
Login verifies credentials and opens a session.

Description: The caller may identify themselves by username, email, or
both. The freshly issued refresh token replaces whatever token was stored,
so logging in on a new device logs the previous device out of refreshing.

Returns:
  - *Session: Token pair plus account
  - error: Validation, not-found or credential failures
*/
func (service *Service) Login(ctx context.Context, username, email, password string) (*Session, error) {
	username = casefold.Username(username)
	email = casefold.Email(email)

	if username == "" && email == "" {
		return nil, apperr.ValidationError("Username or email is required")
	}

	user, err := service.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid user credentials")
	}

	session, err := service.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	service.logger.Info("auth_user_logged_in", slog.String("user_id", user.ID))

	return session, nil
}

// Logout invalidates the stored refresh token. The access token keeps
// working until its short expiry; only refreshing is cut off.
func (service *Service) Logout(ctx context.Context, userID string) error {
	if err := service.users.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}

	service.logger.Info("auth_user_logged_out", slog.String("user_id", userID))

	return nil
}

/*
Refresh rotates a refresh token into a new session.

Description: Three gates in order — the token must verify cryptographically,
its user must still exist, and it must still be the stored token. The last
gate is an atomic compare-and-swap, so replaying an already-rotated token
fails with "Refresh Token is expired".

Returns:
  - *Session: Fresh token pair plus account
  - error: 401-class failures for every invalid token path
*/
func (service *Service) Refresh(ctx context.Context, presentedToken string) (*Session, error) {
	if presentedToken == "" {
		return nil, apperr.Unauthorized("Unauthorized request")
	}

	claims, err := service.tokens.VerifyRefreshToken(presentedToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid Refresh Token")
	}

	user, err := service.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid Refresh Token")
	}

	accessToken, err := service.tokens.IssueAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	refreshToken, err := service.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.users.RotateRefreshToken(ctx, user.ID, presentedToken, refreshToken); err != nil {
		if errors.Is(err, ErrRefreshTokenMismatch) {
			return nil, apperr.Unauthorized("Refresh Token is expired")
		}
		return nil, err
	}

	user.RefreshToken = refreshToken

	service.logger.Info("auth_session_refreshed", slog.String("user_id", user.ID))

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

/*
ChangePassword swaps the account password after re-proving the old one.

Returns:
  - error: 401 "Invalid old password" when the proof fails
*/
func (service *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Invalid old password")
	}

	passwordHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := service.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	service.logger.Info("auth_password_changed", slog.String("user_id", userID))

	return nil
}

// AccessTTL exposes the access-token lifetime for cookie expiry.
func (service *Service) AccessTTL() time.Duration { return service.tokens.AccessTTL() }

// RefreshTTL exposes the refresh-token lifetime for cookie expiry.
func (service *Service) RefreshTTL() time.Duration { return service.tokens.RefreshTTL() }

// issueSession mints a token pair and persists the refresh half.
func (service *Service) issueSession(ctx context.Context, user *User) (*Session, error) {
	accessToken, err := service.tokens.IssueAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshToken, err := service.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}
	user.RefreshToken = refreshToken

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
