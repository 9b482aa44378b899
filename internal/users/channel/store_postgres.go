// Copyright (c) 2026 Vidora. All rights reserved.

package channel

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/dberr"
)

// PostgresSubscriptionRepository implements [SubscriptionRepository] over
// the users.subscription table.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionRepository creates the production subscription store.
func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// CountSubscribers returns how many users subscribe to the channel.
func (repository *PostgresSubscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	query := `SELECT COUNT(*) FROM users.subscription WHERE channelid = $1`

	var count int64
	if err := repository.pool.QueryRow(ctx, query, channelID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "Subscription")
	}

	return count, nil
}

// CountSubscriptions returns how many channels the user subscribes to.
func (repository *PostgresSubscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID string) (int64, error) {
	query := `SELECT COUNT(*) FROM users.subscription WHERE subscriberid = $1`

	var count int64
	if err := repository.pool.QueryRow(ctx, query, subscriberID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "Subscription")
	}

	return count, nil
}

// IsSubscribed reports whether subscriberID subscribes to channelID.
func (repository *PostgresSubscriptionRepository) IsSubscribed(ctx context.Context, channelID, subscriberID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM users.subscription WHERE channelid = $1 AND subscriberid = $2
	)`

	var subscribed bool
	if err := repository.pool.QueryRow(ctx, query, channelID, subscriberID).Scan(&subscribed); err != nil {
		return false, dberr.Wrap(err, "Subscription")
	}

	return subscribed, nil
}
