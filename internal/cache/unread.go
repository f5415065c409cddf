// Package cache keeps hot per-user counters in Redis so the notification
// badge does not hit postgres on every poll.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadTTL = 24 * time.Hour

type UnreadCache struct {
	client *redis.Client
}

// NewUnreadCache connects to Redis at the given URL. An empty URL returns
// nil: callers treat a nil cache as "no cache" and fall through to the
// database.
func NewUnreadCache(redisURL string) (*UnreadCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("unable to ping redis: %v", err)
	}
	return &UnreadCache{client: client}, nil
}

func (c *UnreadCache) Close() {
	if c != nil && c.client != nil {
		_ = c.client.Close()
	}
}

func unreadKey(userID int64) string {
	return "notifications:unread:" + strconv.FormatInt(userID, 10)
}

// Increment bumps the user's unread counter if one is cached. A missing
// key stays missing so the next Get repopulates from the database.
func (c *UnreadCache) Increment(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	key := unreadKey(userID)
	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("unread cache exists %s: %v", key, err)
		return
	}
	if exists == 0 {
		return
	}
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		log.Printf("unread cache incr %s: %v", key, err)
	}
}

// Get returns the cached unread count, or ok=false on miss or error.
func (c *UnreadCache) Get(ctx context.Context, userID int64) (int, bool) {
	if c == nil {
		return 0, false
	}
	value, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("unread cache get user %d: %v", userID, err)
		}
		return 0, false
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores a freshly computed unread count.
func (c *UnreadCache) Set(ctx context.Context, userID int64, count int) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, unreadKey(userID), count, unreadTTL).Err(); err != nil {
		log.Printf("unread cache set user %d: %v", userID, err)
	}
}

// Invalidate drops the cached counter, forcing a database recount.
func (c *UnreadCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		log.Printf("unread cache del user %d: %v", userID, err)
	}
}
