// Copyright (c) 2026 Vidora. All rights reserved.

package channel_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/internal/users/channel"
)

// stubUsers resolves exactly one channel owner by handle. Only the lookup
// methods are reachable from the channel service.
type stubUsers struct {
	user *auth.User
}

func (repo *stubUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	if repo.user != nil && repo.user.ID == id {
		return repo.user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *stubUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if repo.user != nil && repo.user.Username == username {
		return repo.user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *stubUsers) FindByUsernameOrEmail(context.Context, string, string) (*auth.User, error) {
	return nil, apperr.NotFound("User")
}

func (repo *stubUsers) Create(context.Context, *auth.User) error { return nil }
func (repo *stubUsers) UpdateAccountDetails(context.Context, string, string, string) (*auth.User, error) {
	return nil, nil
}
func (repo *stubUsers) UpdateAvatarURL(context.Context, string, string) (*auth.User, error) {
	return nil, nil
}
func (repo *stubUsers) UpdateCoverImageURL(context.Context, string, string) (*auth.User, error) {
	return nil, nil
}
func (repo *stubUsers) UpdatePassword(context.Context, string, string) error { return nil }
func (repo *stubUsers) SetRefreshToken(context.Context, string, string) error { return nil }
func (repo *stubUsers) RotateRefreshToken(context.Context, string, string, string) error {
	return nil
}
func (repo *stubUsers) ClearRefreshToken(context.Context, string) error { return nil }

// stubSubscriptions serves fixed aggregates and counts its SQL-equivalent calls.
type stubSubscriptions struct {
	subscribers  int64
	subscribedTo int64
	subscribed   map[string]bool // subscriberID -> subscribes to the channel
	countCalls   int
}

func (repo *stubSubscriptions) CountSubscribers(context.Context, string) (int64, error) {
	repo.countCalls++
	return repo.subscribers, nil
}

func (repo *stubSubscriptions) CountSubscriptions(context.Context, string) (int64, error) {
	repo.countCalls++
	return repo.subscribedTo, nil
}

func (repo *stubSubscriptions) IsSubscribed(_ context.Context, _, subscriberID string) (bool, error) {
	return repo.subscribed[subscriberID], nil
}

// memoryCountsCache is a map-backed [channel.CountsCache].
type memoryCountsCache struct {
	entries map[string]*channel.Counts
}

func (cache *memoryCountsCache) Get(_ context.Context, channelID string) (*channel.Counts, error) {
	return cache.entries[channelID], nil
}

func (cache *memoryCountsCache) Set(_ context.Context, channelID string, counts *channel.Counts) error {
	cache.entries[channelID] = counts
	return nil
}

func channelOwner() *auth.User {
	return &auth.User{
		ID:        "channel-1",
		Username:  "chaicode",
		FullName:  "Chai Code",
		Email:     "chai@x.com",
		AvatarURL: "https://media.test/avatar",
	}
}

func newChannelFixture(cache channel.CountsCache) (*channel.Service, *stubSubscriptions) {
	subscriptions := &stubSubscriptions{
		subscribers:  42,
		subscribedTo: 7,
		subscribed:   map[string]bool{"viewer-1": true},
	}
	service := channel.NewService(&stubUsers{user: channelOwner()}, subscriptions, cache, slog.New(slog.DiscardHandler))
	return service, subscriptions
}

func TestGetProfile_Assembly(t *testing.T) {
	service, _ := newChannelFixture(nil)

	profile, err := service.GetProfile(context.Background(), "chaicode", "viewer-1")
	require.NoError(t, err)

	assert.Equal(t, "channel-1", profile.ID)
	assert.Equal(t, "chaicode", profile.Username)
	assert.Equal(t, "Chai Code", profile.FullName)
	assert.Equal(t, int64(42), profile.SubscribersCount)
	assert.Equal(t, int64(7), profile.SubscribedToCount)
	assert.True(t, profile.IsSubscribed)
}

// TestGetProfile_CaseFoldedLookup: /c/ChaiCode and /c/chaicode are the same channel.
func TestGetProfile_CaseFoldedLookup(t *testing.T) {
	service, _ := newChannelFixture(nil)

	profile, err := service.GetProfile(context.Background(), "ChaiCode", "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, "chaicode", profile.Username)
}

func TestGetProfile_ViewerNotSubscribed(t *testing.T) {
	service, _ := newChannelFixture(nil)

	profile, err := service.GetProfile(context.Background(), "chaicode", "viewer-2")
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)
}

func TestGetProfile_Failures(t *testing.T) {
	service, _ := newChannelFixture(nil)

	_, err := service.GetProfile(context.Background(), "", "viewer-1")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)

	_, err = service.GetProfile(context.Background(), "ghost", "viewer-1")
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, "Channel not found", ae.Message)
}

// TestGetProfile_CountsCache: the second read is served from cache, the
// per-viewer flag is computed fresh both times.
func TestGetProfile_CountsCache(t *testing.T) {
	cache := &memoryCountsCache{entries: make(map[string]*channel.Counts)}
	service, subscriptions := newChannelFixture(cache)

	_, err := service.GetProfile(context.Background(), "chaicode", "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, 2, subscriptions.countCalls, "cold read hits both COUNT queries")

	profile, err := service.GetProfile(context.Background(), "chaicode", "viewer-2")
	require.NoError(t, err)
	assert.Equal(t, 2, subscriptions.countCalls, "warm read must not hit SQL")
	assert.Equal(t, int64(42), profile.SubscribersCount)
	assert.False(t, profile.IsSubscribed)
}
