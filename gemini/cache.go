package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cachePrefix = "ai:text:"

// Cache 同じプロンプトの結果を Redis に保存する
// Redis が落ちていても生成はそのまま続ける
type Cache struct {
	next Generator
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

func NewCache(next Generator, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{next: next, rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return cachePrefix + hex.EncodeToString(sum[:])
}

func (c *Cache) Generate(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, redis.Nil):
		c.log.Warn("ai cache read failed", zap.Error(err))
	}

	text, err := c.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.log.Warn("ai cache write failed", zap.Error(err))
	}
	return text, nil
}
