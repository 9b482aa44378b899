// Copyright (c) 2026 Vidora. All rights reserved.

package profile_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/internal/users/profile"
)

// stubUserRepository is a single-user [auth.UserRepository] for profile tests.
// Session-only methods are never reached from this package.
type stubUserRepository struct {
	user *auth.User
}

func (repo *stubUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if repo.user == nil || repo.user.ID != id {
		return nil, apperr.NotFound("User")
	}
	clone := *repo.user
	return &clone, nil
}

func (repo *stubUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if repo.user == nil || repo.user.Username != username {
		return nil, apperr.NotFound("User")
	}
	clone := *repo.user
	return &clone, nil
}

func (repo *stubUserRepository) FindByUsernameOrEmail(context.Context, string, string) (*auth.User, error) {
	return nil, apperr.NotFound("User")
}

func (repo *stubUserRepository) Create(context.Context, *auth.User) error { return nil }

func (repo *stubUserRepository) UpdateAccountDetails(_ context.Context, id, fullName, email string) (*auth.User, error) {
	if repo.user == nil || repo.user.ID != id {
		return nil, apperr.NotFound("User")
	}
	repo.user.FullName = fullName
	repo.user.Email = email
	clone := *repo.user
	return &clone, nil
}

func (repo *stubUserRepository) UpdateAvatarURL(_ context.Context, id, url string) (*auth.User, error) {
	if repo.user == nil || repo.user.ID != id {
		return nil, apperr.NotFound("User")
	}
	repo.user.AvatarURL = url
	clone := *repo.user
	return &clone, nil
}

func (repo *stubUserRepository) UpdateCoverImageURL(_ context.Context, id, url string) (*auth.User, error) {
	if repo.user == nil || repo.user.ID != id {
		return nil, apperr.NotFound("User")
	}
	repo.user.CoverImageURL = url
	clone := *repo.user
	return &clone, nil
}

func (repo *stubUserRepository) UpdatePassword(context.Context, string, string) error  { return nil }
func (repo *stubUserRepository) SetRefreshToken(context.Context, string, string) error { return nil }
func (repo *stubUserRepository) ClearRefreshToken(context.Context, string) error       { return nil }
func (repo *stubUserRepository) RotateRefreshToken(context.Context, string, string, string) error {
	return nil
}

// recordingStorage tracks gateway traffic and the order of calls.
type recordingStorage struct {
	calls      []string
	failUpload bool
}

func (storage *recordingStorage) Upload(_ context.Context, localPath string) (string, error) {
	if storage.failUpload {
		storage.calls = append(storage.calls, "upload-failed")
		return "", fmt.Errorf("storage unreachable")
	}
	storage.calls = append(storage.calls, "upload:"+localPath)
	return "https://media.test/new-" + localPath, nil
}

func (storage *recordingStorage) Delete(_ context.Context, url string) {
	storage.calls = append(storage.calls, "delete:"+url)
}

func newProfileFixture(user *auth.User) (*profile.Service, *stubUserRepository, *recordingStorage) {
	repo := &stubUserRepository{user: user}
	storage := &recordingStorage{}
	service := profile.NewService(repo, storage, slog.New(slog.DiscardHandler))
	return service, repo, storage
}

func testUser() *auth.User {
	return &auth.User{
		ID:        "user-1",
		Username:  "ana_k",
		Email:     "ana@x.com",
		FullName:  "Ana K",
		AvatarURL: "https://media.test/old-avatar",
	}
}

func TestUpdateAccountDetails(t *testing.T) {
	service, repo, _ := newProfileFixture(testUser())

	updated, err := service.UpdateAccountDetails(context.Background(), "user-1", "Ana Kim", "Ana.Kim@X.com")
	require.NoError(t, err)

	assert.Equal(t, "Ana Kim", updated.FullName)
	assert.Equal(t, "Ana.Kim@X.com", updated.Email, "email case is preserved, only trimmed")
	assert.Equal(t, "Ana Kim", repo.user.FullName)
}

func TestUpdateAccountDetails_UnknownUser(t *testing.T) {
	service, _, _ := newProfileFixture(testUser())

	_, err := service.UpdateAccountDetails(context.Background(), "ghost", "X", "x@x.com")
	assert.True(t, apperr.IsNotFound(err))
}

// TestUpdateAvatar_DeleteThenUpload verifies the replacement order: the old
// asset is removed before the new one is stored.
func TestUpdateAvatar_DeleteThenUpload(t *testing.T) {
	service, repo, storage := newProfileFixture(testUser())

	updated, err := service.UpdateAvatar(context.Background(), "user-1", "/tmp/spool/new.png")
	require.NoError(t, err)

	require.Len(t, storage.calls, 2)
	assert.Equal(t, "delete:https://media.test/old-avatar", storage.calls[0])
	assert.Equal(t, "upload:/tmp/spool/new.png", storage.calls[1])

	assert.Equal(t, "https://media.test/new-/tmp/spool/new.png", updated.AvatarURL)
	assert.Equal(t, updated.AvatarURL, repo.user.AvatarURL)
}

// TestUpdateAvatar_UploadFailure: a failed upload must not patch the record.
func TestUpdateAvatar_UploadFailure(t *testing.T) {
	service, repo, storage := newProfileFixture(testUser())
	storage.failUpload = true

	_, err := service.UpdateAvatar(context.Background(), "user-1", "/tmp/spool/new.png")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPLOAD_FAILED", ae.Code)

	assert.Equal(t, "https://media.test/old-avatar", repo.user.AvatarURL, "record must be untouched")
}

// TestUpdateCoverImage_NoPreviousCover: a user without a cover skips the delete.
func TestUpdateCoverImage_NoPreviousCover(t *testing.T) {
	service, repo, storage := newProfileFixture(testUser())

	updated, err := service.UpdateCoverImage(context.Background(), "user-1", "/tmp/spool/cover.png")
	require.NoError(t, err)

	require.Len(t, storage.calls, 1)
	assert.Equal(t, "upload:/tmp/spool/cover.png", storage.calls[0])
	assert.NotEmpty(t, updated.CoverImageURL)
	assert.Equal(t, updated.CoverImageURL, repo.user.CoverImageURL)
}

func TestUpdateCoverImage_ReplacesExisting(t *testing.T) {
	user := testUser()
	user.CoverImageURL = "https://media.test/old-cover"
	service, _, storage := newProfileFixture(user)

	_, err := service.UpdateCoverImage(context.Background(), "user-1", "/tmp/spool/cover.png")
	require.NoError(t, err)

	require.Len(t, storage.calls, 2)
	assert.Equal(t, "delete:https://media.test/old-cover", storage.calls[0])
}
