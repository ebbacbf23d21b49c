package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vaultexam/vaultexam-backend/internal/config"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// TestCache is a read-through cache of live test payloads keyed by access
// code. Entries carry a TTL equal to the remaining life of the test, so a
// cache hit is always a live test.
type TestCache interface {
	Get(ctx context.Context, code string) (*model.Test, bool)
	Put(ctx context.Context, t *model.Test, ttl time.Duration)
}

// MonitorPublisher broadcasts accepted submissions to live monitor streams.
type MonitorPublisher interface {
	SubmissionAccepted(ctx context.Context, sub *model.Submission)
}

// SubmissionEvent is the monitor wire format for an accepted submission.
type SubmissionEvent struct {
	SubmissionID string    `json:"submission_id"`
	TestID       string    `json:"test_id"`
	StudentName  string    `json:"student_name"`
	IsSuspicious bool      `json:"is_suspicious"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type redisTestCache struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisTestCache creates the Redis-backed TestCache.
func NewRedisTestCache(rdb *redis.Client, log zerolog.Logger) TestCache {
	return &redisTestCache{
		rdb: rdb,
		log: log.With().Str("component", "test_cache").Logger(),
	}
}

func (c *redisTestCache) Get(ctx context.Context, code string) (*model.Test, bool) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.TestPayloadKey(code)).Bytes()
	if err != nil {
		// redis.Nil is an ordinary miss; anything else falls back to the DB.
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("code", code).Msg("Cache read failed")
		}
		return nil, false
	}

	var t model.Test
	if err := json.Unmarshal(raw, &t); err != nil {
		c.log.Warn().Err(err).Str("code", code).Msg("Discarding corrupt cache entry")
		c.rdb.Del(ctx, config.CacheKey.TestPayloadKey(code))
		return nil, false
	}
	return &t, true
}

func (c *redisTestCache) Put(ctx context.Context, t *model.Test, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, config.CacheKey.TestPayloadKey(t.TestCode), raw, ttl).Err(); err != nil {
		// Cache misses heal themselves; the request still succeeds.
		c.log.Warn().Err(err).Str("code", t.TestCode).Msg("Cache write failed")
	}
}

type redisMonitorPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisMonitorPublisher creates the Redis pub/sub MonitorPublisher.
func NewRedisMonitorPublisher(rdb *redis.Client, log zerolog.Logger) MonitorPublisher {
	return &redisMonitorPublisher{
		rdb: rdb,
		log: log.With().Str("component", "monitor_publisher").Logger(),
	}
}

func (p *redisMonitorPublisher) SubmissionAccepted(ctx context.Context, sub *model.Submission) {
	payload, _ := json.Marshal(SubmissionEvent{
		SubmissionID: sub.ID.String(),
		TestID:       sub.TestID.String(),
		StudentName:  sub.StudentName,
		IsSuspicious: sub.IsSuspicious,
		SubmittedAt:  sub.SubmittedAt,
	})
	channel := config.CacheKey.TestMonitorChannel(sub.TestID.String())
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		// Monitoring is best effort; the submission is already stored.
		p.log.Warn().Err(err).Str("channel", channel).Msg("Monitor publish failed")
	}
}
