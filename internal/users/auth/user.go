// Copyright (c) 2026 Vidora. All rights reserved.

/*
Package auth owns the user account aggregate and its session lifecycle.

It covers registration, credential login, JWT session rotation, logout and
password changes, plus the access guard middleware that protects the rest
of the user-facing API.

# Architecture

  - User: The account entity. Secret material (password hash, stored
    refresh token) is structurally excluded from JSON serialization.
  - UserRepository: Persistence contract implemented by PostgreSQL.
  - Service: Application-layer session workflows.
  - Authenticate/RequireAuth: HTTP access guard resolving the caller's
    full account record on every protected request.

# Session Model

A user has at most one live refresh token, stored on the account record
itself. Refresh rotation is a single conditional UPDATE: the presented
token must still be the stored one, so a stolen-and-replayed token loses
the race and is rejected.
*/
package auth

import "time"

// User represents a registered account.
//
// # Security
//
// PasswordHash and RefreshToken are tagged `json:"-"` so no handler can
// ever leak them, regardless of which query populated the struct.
type User struct {
	// ID is the UUIDv7 primary key.
	ID string `json:"id"`
	// Username is the unique, case-folded handle.
	Username string `json:"username"`
	// Email is the unique contact address.
	Email string `json:"email"`
	// FullName is the display name shown on the channel page.
	FullName string `json:"fullName"`
	// PasswordHash is the bcrypt digest of the account password.
	PasswordHash string `json:"-"`
	// AvatarURL is the public URL of the mandatory profile image.
	AvatarURL string `json:"avatarUrl"`
	// CoverImageURL is the public URL of the optional channel banner.
	CoverImageURL string `json:"coverImageUrl,omitempty"`
	// RefreshToken is the single currently valid refresh token, empty
	// when the user is logged out everywhere.
	RefreshToken string `json:"-"`
	// CreatedAt is the registration timestamp (UTC).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the last modification timestamp (UTC).
	UpdatedAt time.Time `json:"updatedAt"`
}
