// Copyright (c) 2026 Vidora. All rights reserved.

package channel

import (
	"context"
	"log/slog"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/casefold"
)

// Service assembles the public channel profile.
type Service struct {
	users         auth.UserRepository
	subscriptions SubscriptionRepository
	cache         CountsCache
	logger        *slog.Logger
}

// NewService creates the channel service. cache may be nil, which disables
// count caching entirely (used in tests).
func NewService(users auth.UserRepository, subscriptions SubscriptionRepository, cache CountsCache, logger *slog.Logger) *Service {
	return &Service{
		users:         users,
		subscriptions: subscriptions,
		cache:         cache,
		logger:        logger,
	}
}

/*
GetProfile builds the channel page for a handle as seen by a viewer.

Description: The handle is case-folded before lookup so /c/ChaiCode and
/c/chaicode reach the same channel. The two count aggregates are served
from cache when possible; the per-viewer IsSubscribed flag never is,
because it differs per caller. viewerID is empty for anonymous viewers.

Parameters:
  - ctx: context.Context
  - username: Channel handle from the URL
  - viewerID: Authenticated caller's ID, or "" when anonymous

Returns:
  - *Profile: The assembled read model
  - error: Validation failure for a blank handle, 404 for unknown channels
*/
func (service *Service) GetProfile(ctx context.Context, username, viewerID string) (*Profile, error) {
	username = casefold.Username(username)
	if username == "" {
		return nil, apperr.ValidationError("Username is required")
	}

	user, err := service.users.FindByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, err
	}

	counts, err := service.channelCounts(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerID != "" {
		isSubscribed, err = service.subscriptions.IsSubscribed(ctx, user.ID, viewerID)
		if err != nil {
			return nil, err
		}
	}

	return &Profile{
		ID:                user.ID,
		Username:          user.Username,
		FullName:          user.FullName,
		Email:             user.Email,
		AvatarURL:         user.AvatarURL,
		CoverImageURL:     user.CoverImageURL,
		SubscribersCount:  counts.Subscribers,
		SubscribedToCount: counts.SubscribedTo,
		IsSubscribed:      isSubscribed,
		CreatedAt:         user.CreatedAt,
	}, nil
}

// channelCounts returns the subscription aggregates, cache-first.
func (service *Service) channelCounts(ctx context.Context, channelID string) (*Counts, error) {
	if service.cache != nil {
		if cached, err := service.cache.Get(ctx, channelID); err == nil && cached != nil {
			return cached, nil
		}
	}

	subscribers, err := service.subscriptions.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}

	subscribedTo, err := service.subscriptions.CountSubscriptions(ctx, channelID)
	if err != nil {
		return nil, err
	}

	counts := &Counts{Subscribers: subscribers, SubscribedTo: subscribedTo}

	if service.cache != nil {
		if err := service.cache.Set(ctx, channelID, counts); err != nil {
			service.logger.Warn("channel_counts_cache_write_failed", slog.Any("error", err))
		}
	}

	return counts, nil
}
