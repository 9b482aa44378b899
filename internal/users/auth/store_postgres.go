// Copyright (c) 2026 Vidora. All rights reserved.

package auth

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/dberr"
)

// accountColumns is the canonical projection shared by every account query,
// in scanUser order. refreshtoken is NULL for logged-out users.
const accountColumns = `
	id, username, email, fullname, passwordhash,
	avatarurl, COALESCE(coverimageurl, ''), COALESCE(refreshtoken, ''),
	createdat, updatedat`

// PostgresUserRepository implements [UserRepository] backed by pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates the production account store.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// FindByID returns the account with the given primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1`
	return repository.scanUser(repository.pool.QueryRow(ctx, query, id))
}

// FindByUsername returns the account with the given case-folded handle.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE username = $1`
	return repository.scanUser(repository.pool.QueryRow(ctx, query, username))
}

/*
FindByUsernameOrEmail returns the first account matching either identifier.

Description: Blank identifiers are excluded from the match so that a lookup
with only an email never matches an account whose username happens to be
empty, and vice versa.
*/
func (repository *PostgresUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	query := `SELECT ` + accountColumns + `
		FROM users.account
		WHERE (username = $1 AND $1 <> '') OR (email = $2 AND $2 <> '')
		LIMIT 1`
	return repository.scanUser(repository.pool.QueryRow(ctx, query, username, email))
}

// Create inserts a new account record.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users.account
			(id, username, email, fullname, passwordhash, avatarurl, coverimageurl, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.AvatarURL,
		user.CoverImageURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

// UpdateAccountDetails patches full name and email, returning the fresh record.
func (repository *PostgresUserRepository) UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*User, error) {
	query := `
		UPDATE users.account
		SET fullname = $2, email = $3, updatedat = now()
		WHERE id = $1
		RETURNING ` + accountColumns
	return repository.scanUser(repository.pool.QueryRow(ctx, query, id, fullName, email))
}

// UpdateAvatarURL replaces the avatar URL, returning the fresh record.
func (repository *PostgresUserRepository) UpdateAvatarURL(ctx context.Context, id, url string) (*User, error) {
	query := `
		UPDATE users.account
		SET avatarurl = $2, updatedat = now()
		WHERE id = $1
		RETURNING ` + accountColumns
	return repository.scanUser(repository.pool.QueryRow(ctx, query, id, url))
}

// UpdateCoverImageURL replaces the cover image URL, returning the fresh record.
func (repository *PostgresUserRepository) UpdateCoverImageURL(ctx context.Context, id, url string) (*User, error) {
	query := `
		UPDATE users.account
		SET coverimageurl = NULLIF($2, ''), updatedat = now()
		WHERE id = $1
		RETURNING ` + accountColumns
	return repository.scanUser(repository.pool.QueryRow(ctx, query, id, url))
}

// UpdatePassword replaces the stored bcrypt hash.
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users.account SET passwordhash = $2, updatedat = now() WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User")
	}

	return nil
}

// SetRefreshToken unconditionally stores a new refresh token.
func (repository *PostgresUserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	query := `UPDATE users.account SET refreshtoken = $2, updatedat = now() WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id, token)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User")
	}

	return nil
}

/*
RotateRefreshToken atomically swaps oldToken for newToken.

Description: The WHERE clause doubles as the compare of a compare-and-swap.
When zero rows match, either the user vanished or the stored token has
already moved on; both cases invalidate the presented token.
*/
func (repository *PostgresUserRepository) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error {
	query := `
		UPDATE users.account
		SET refreshtoken = $3, updatedat = now()
		WHERE id = $1 AND refreshtoken = $2`

	tag, err := repository.pool.Exec(ctx, query, id, oldToken, newToken)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return ErrRefreshTokenMismatch
	}

	return nil
}

// ClearRefreshToken removes the stored refresh token, ending the session.
func (repository *PostgresUserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	query := `UPDATE users.account SET refreshtoken = NULL, updatedat = now() WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, id); err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

// scanUser maps a single account row into a [User].
func (repository *PostgresUserRepository) scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return &user, nil
}
