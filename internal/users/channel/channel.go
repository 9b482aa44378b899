// Copyright (c) 2026 Vidora. All rights reserved.

/*
Package channel serves the public channel page of a user.

A channel is the outward-facing projection of an account: display fields
plus the subscriber relationship aggregates, viewed through the eyes of
the requesting user.

# Architecture

  - Profile: The read model returned to clients.
  - SubscriptionRepository: PostgreSQL aggregates over the subscription table.
  - CountsCache: Redis cache in front of the two COUNT queries; channel
    pages are read-heavy and the counts tolerate short staleness.
  - Service: Combines the account lookup, the aggregates and the
    per-viewer subscription flag.
*/
package channel

import (
	"context"
	"time"
)

// Profile is the public channel read model. It never exposes secret
// material because it is built from scratch, not serialized from the
// account entity.
type Profile struct {
	// ID is the channel owner's account ID.
	ID string `json:"id"`
	// Username is the channel handle.
	Username string `json:"username"`
	// FullName is the channel display name.
	FullName string `json:"fullName"`
	// Email is the owner's contact address.
	Email string `json:"email"`
	// AvatarURL is the channel profile image.
	AvatarURL string `json:"avatarUrl"`
	// CoverImageURL is the channel banner, empty when unset.
	CoverImageURL string `json:"coverImageUrl,omitempty"`
	// SubscribersCount is how many users subscribe to this channel.
	SubscribersCount int64 `json:"subscribersCount"`
	// SubscribedToCount is how many channels this user subscribes to.
	SubscribedToCount int64 `json:"subscribedToCount"`
	// IsSubscribed reports whether the requesting viewer subscribes to
	// this channel. Always false for anonymous viewers.
	IsSubscribed bool `json:"isSubscribed"`
	// CreatedAt is when the channel (account) was created.
	CreatedAt time.Time `json:"createdAt"`
}

// Counts bundles the two subscription aggregates of a channel. This is the
// cacheable part of a [Profile]: it is viewer-independent.
type Counts struct {
	Subscribers  int64 `json:"subscribers"`
	SubscribedTo int64 `json:"subscribedTo"`
}

// SubscriptionRepository is the persistence contract for subscription
// aggregates.
type SubscriptionRepository interface {

	// CountSubscribers returns how many users subscribe to the channel.
	CountSubscribers(ctx context.Context, channelID string) (int64, error)

	// CountSubscriptions returns how many channels the user subscribes to.
	CountSubscriptions(ctx context.Context, subscriberID string) (int64, error)

	// IsSubscribed reports whether subscriberID subscribes to channelID.
	IsSubscribed(ctx context.Context, channelID, subscriberID string) (bool, error)
}

// CountsCache is the contract for the channel-counts cache.
//
// Get returns (nil, nil) on a miss; cache failures are downgraded to
// misses by implementations so the channel page never depends on Redis.
type CountsCache interface {
	Get(ctx context.Context, channelID string) (*Counts, error)
	Set(ctx context.Context, channelID string, counts *Counts) error
}
