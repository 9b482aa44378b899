// Copyright (c) 2026 Vidora. All rights reserved.

package auth

import (
	"context"
	"errors"
)

// ErrRefreshTokenMismatch is returned by [UserRepository.RotateRefreshToken]
// when the presented token is no longer the stored one. The service maps it
// to a 401 "Refresh Token is expired".
var ErrRefreshTokenMismatch = errors.New("auth: refresh token does not match stored token")

// UserRepository is the persistence contract for account records.
//
// All lookup methods return [apperr.AppError]-wrapped errors via the dberr
// bridge, so services can pass them straight to the HTTP boundary.
type UserRepository interface {

	// FindByID returns the account with the given primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername returns the account with the given case-folded handle.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByUsernameOrEmail returns the first account matching either
	// identifier. Used for both login and registration conflict checks;
	// blank identifiers never match.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)

	// Create inserts a new account record.
	Create(ctx context.Context, user *User) error

	// UpdateAccountDetails patches full name and email, returning the
	// fresh record.
	UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*User, error)

	// UpdateAvatarURL replaces the avatar URL, returning the fresh record.
	UpdateAvatarURL(ctx context.Context, id, url string) (*User, error)

	// UpdateCoverImageURL replaces the cover image URL, returning the
	// fresh record.
	UpdateCoverImageURL(ctx context.Context, id, url string) (*User, error)

	// UpdatePassword replaces the stored bcrypt hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	/*
		SetRefreshToken unconditionally stores a new refresh token,
		invalidating whatever token was live before. Used at login.
	*/
	SetRefreshToken(ctx context.Context, id, token string) error

	/*
		RotateRefreshToken atomically swaps oldToken for newToken.

		Description: The swap is a single conditional UPDATE; it succeeds
		only if oldToken is still the stored token. Two concurrent refresh
		calls with the same token therefore race, and exactly one wins.

		Returns:
		  - error: ErrRefreshTokenMismatch when the condition fails
	*/
	RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error

	// ClearRefreshToken removes the stored refresh token, ending the
	// session. Used at logout.
	ClearRefreshToken(ctx context.Context, id string) error
}
