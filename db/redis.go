package db

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"govcards/pkg/gov"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const (
	ResolveQueueKey = "govcards:queue:resolve"
	DeadLetterKey   = "govcards:queue:failed"

	proposalCachePrefix = "govcards:proposal:"

	// Freshness window for cached proposal view models.
	ProposalCacheTTL = 5 * time.Minute
)

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		slog.Warn("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

func PushToQueue(queueKey string, data string) error {
	return Redis.LPush(Ctx, queueKey, data).Err()
}

// PopFromQueue blocks up to timeout for the next queued item. An idle
// queue is not an error: it returns "" with a nil error so long-running
// consumers can keep polling.
func PopFromQueue(queueKey string, timeout time.Duration) (string, error) {
	result, err := Redis.BRPop(Ctx, timeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return result[1], nil
}

func GetQueueLength(queueKey string) (int64, error) {
	return Redis.LLen(Ctx, queueKey).Result()
}

// ProposalCache stores normalized proposals in Redis keyed by source URL,
// expiring after the freshness window.
type ProposalCache struct{}

func (ProposalCache) Get(url string) (*gov.Proposal, bool, error) {
	raw, err := Redis.Get(Ctx, proposalCachePrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p gov.Proposal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (ProposalCache) Set(url string, p *gov.Proposal) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, proposalCachePrefix+url, raw, ProposalCacheTTL).Err()
}
