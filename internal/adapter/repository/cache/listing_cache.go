package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "listing:"
	maxSetRetries = 3

	// tombstone marks a deleted listing so an in-flight read cannot cache it again.
	tombstone    = "deleted"
	tombstoneTTL = 30 * time.Second
)

var errStaleEntry = errors.New("cached entry is newer")

type Options struct {
	Address  string
	Password string
	DB       int
}

// ListingCache stores listings as JSON under listing:<id>.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, opts Options, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("address", opts.Address), zap.Error(err))
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Address, err)
	}
	log.Info("Successfully connected to Redis", zap.String("address", opts.Address))
	return rdb, nil
}

func NewListingCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ListingCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ListingCache{client: client, ttl: ttl, logger: log.Named("ListingCache")}
}

func listingKey(id string) string {
	return keyPrefix + id
}

// GetListing returns (nil, nil) on a cache miss or for a deleted listing.
func (c *ListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.Error("Redis Get operation failed", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}
	if string(data) == tombstone {
		return nil, nil
	}

	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", zap.String("listing_id", id), zap.Error(err))
		_ = c.client.Del(ctx, listingKey(id)).Err()
		return nil, nil
	}
	return &listing, nil
}

// SetListing stores listing unless the cache already holds a newer version of it
// or a tombstone left by DeleteListing.
func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", listing.ID, err)
	}

	key := listingKey(listing.ID)
	for attempt := 0; attempt < maxSetRetries; attempt++ {
		err = c.client.Watch(ctx, func(tx *redis.Tx) error {
			current, getErr := tx.Get(ctx, key).Bytes()
			if getErr != nil && !errors.Is(getErr, redis.Nil) {
				return getErr
			}
			if getErr == nil && !replaces(listing, current) {
				return errStaleEntry
			}
			_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, c.ttl)
				return nil
			})
			return pipeErr
		}, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}

	switch {
	case err == nil:
		c.logger.Debug("Listing cached", zap.String("listing_id", listing.ID), zap.Duration("ttl", c.ttl))
		return nil
	case errors.Is(err, errStaleEntry):
		c.logger.Debug("Skipped caching outdated listing", zap.String("listing_id", listing.ID))
		return nil
	default:
		c.logger.Error("Redis Set operation failed", zap.String("listing_id", listing.ID), zap.Error(err))
		return fmt.Errorf("cache set %s: %w", listing.ID, err)
	}
}

// DeleteListing replaces the entry with a short-lived tombstone.
func (c *ListingCache) DeleteListing(ctx context.Context, id string) error {
	if err := c.client.Set(ctx, listingKey(id), tombstone, tombstoneTTL).Err(); err != nil {
		c.logger.Error("Redis tombstone write failed", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("cache delete %s: %w", id, err)
	}
	return nil
}

// replaces reports whether next may overwrite the cached bytes current.
// Undecodable entries are always replaced.
func replaces(next *domain.Listing, current []byte) bool {
	if string(current) == tombstone {
		return false
	}
	var cached domain.Listing
	if err := json.Unmarshal(current, &cached); err != nil {
		return true
	}
	return !cached.UpdatedAt.After(next.UpdatedAt)
}
