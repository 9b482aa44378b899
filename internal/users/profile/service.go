// Copyright (c) 2026 Vidora. All rights reserved.

/*
Package profile implements account self-management for authenticated users.

It covers the current-user read, account detail patches, and the two media
replacements (avatar, cover image). Media replacement is delete-then-upload:
the old asset is removed best-effort before the new one is stored, so a
failed delete never blocks the update and a failed upload leaves the
account record untouched.
*/
package profile

import (
	"context"
	"log/slog"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/casefold"
)

// Service implements the profile workflows on top of the account store.
type Service struct {
	users   auth.UserRepository
	storage media.Storage
	logger  *slog.Logger
}

// NewService creates the profile service.
func NewService(users auth.UserRepository, storage media.Storage, logger *slog.Logger) *Service {
	return &Service{
		users:   users,
		storage: storage,
		logger:  logger,
	}
}

// UpdateAccountDetails patches full name and email. Email uniqueness is
// enforced by the store; a collision surfaces as a 409.
func (service *Service) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*auth.User, error) {
	user, err := service.users.UpdateAccountDetails(ctx, userID, fullName, casefold.Email(email))
	if err != nil {
		return nil, err
	}

	service.logger.Info("profile_account_updated", slog.String("user_id", userID))

	return user, nil
}

/*
UpdateAvatar replaces the caller's avatar with the spooled file at localPath.

Description: The current asset is deleted first (best-effort), then the new
file is uploaded, then the account record is patched. An upload failure
therefore never leaves the record pointing at a missing object.
*/
func (service *Service) UpdateAvatar(ctx context.Context, userID, localPath string) (*auth.User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.AvatarURL != "" {
		service.storage.Delete(ctx, user.AvatarURL)
	}

	avatarURL, err := service.storage.Upload(ctx, localPath)
	if err != nil {
		return nil, apperr.Upload("Avatar upload failed", err)
	}

	updated, err := service.users.UpdateAvatarURL(ctx, userID, avatarURL)
	if err != nil {
		return nil, err
	}

	service.logger.Info("profile_avatar_updated", slog.String("user_id", userID))

	return updated, nil
}

// UpdateCoverImage replaces the caller's cover image. Same delete-then-upload
// discipline as UpdateAvatar; a user without a cover simply skips the delete.
func (service *Service) UpdateCoverImage(ctx context.Context, userID, localPath string) (*auth.User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.CoverImageURL != "" {
		service.storage.Delete(ctx, user.CoverImageURL)
	}

	coverImageURL, err := service.storage.Upload(ctx, localPath)
	if err != nil {
		return nil, apperr.Upload("Cover image upload failed", err)
	}

	updated, err := service.users.UpdateCoverImageURL(ctx, userID, coverImageURL)
	if err != nil {
		return nil, err
	}

	service.logger.Info("profile_cover_updated", slog.String("user_id", userID))

	return updated, nil
}
