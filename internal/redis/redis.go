package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// SetLastSeen records a screen heartbeat with a TTL so the key ages out for
// screens that stop reporting.
func SetLastSeen(ctx context.Context, screenID string, ts time.Time) {
	if Rdb == nil {
		return
	}
	key := "screen:lastseen:" + screenID
	if err := Rdb.Set(ctx, key, ts.Format(time.RFC3339), 24*time.Hour).Err(); err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to store last-seen in redis")
	}
}

// GetLastSeen returns the cached heartbeat timestamp, or zero when absent.
func GetLastSeen(ctx context.Context, screenID string) time.Time {
	if Rdb == nil {
		return time.Time{}
	}
	raw, err := Rdb.Get(ctx, "screen:lastseen:"+screenID).Result()
	if err != nil {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// ErrUnavailable is returned by pairing operations when no Redis client is
// configured.
var ErrUnavailable = errors.New("redis not configured")

// SetPairingCode stores a short-lived pairing code for a device.
func SetPairingCode(ctx context.Context, code, screenID string) error {
	if Rdb == nil {
		return ErrUnavailable
	}
	return Rdb.Set(ctx, "pairing:"+code, screenID, 5*time.Minute).Err()
}

// ClaimPairingCode resolves and consumes a pairing code.
func ClaimPairingCode(ctx context.Context, code string) (string, error) {
	if Rdb == nil {
		return "", ErrUnavailable
	}
	key := "pairing:" + code
	screenID, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}
	Rdb.Del(ctx, key)
	return screenID, nil
}
