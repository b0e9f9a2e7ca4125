package repository

import (
	"agritrain_backend/internal/model"
	"agritrain_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	scenarioListKey    = "agritrain:catalog:scenarios"
	quizByScenarioKeyF = "agritrain:catalog:scenario:%d:quiz"
)

// CatalogCache caches read-mostly catalog lookups in Redis. A nil client
// turns every call into a miss/no-op. Cache failures are logged and never
// surface to callers.
type CatalogCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{RDB: rdb, TTL: ttl}
}

func quizKey(scenarioID uint) string {
	return fmt.Sprintf(quizByScenarioKeyF, scenarioID)
}

func (c *CatalogCache) get(ctx context.Context, key string, dst interface{}) bool {
	if c == nil || c.RDB == nil {
		return false
	}
	raw, err := c.RDB.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Log.Warn("catalog cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.RDB == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.RDB.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		logger.Log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CatalogCache) del(ctx context.Context, keys ...string) {
	if c == nil || c.RDB == nil {
		return
	}
	if err := c.RDB.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *CatalogCache) GetScenarios(ctx context.Context) ([]model.Scenario, bool) {
	var scenarios []model.Scenario
	ok := c.get(ctx, scenarioListKey, &scenarios)
	return scenarios, ok
}

func (c *CatalogCache) SetScenarios(ctx context.Context, scenarios []model.Scenario) {
	c.set(ctx, scenarioListKey, scenarios)
}

func (c *CatalogCache) InvalidateScenarios(ctx context.Context) {
	c.del(ctx, scenarioListKey)
}

func (c *CatalogCache) GetQuizForScenario(ctx context.Context, scenarioID uint) (*model.Quiz, bool) {
	var quiz model.Quiz
	if !c.get(ctx, quizKey(scenarioID), &quiz) {
		return nil, false
	}
	return &quiz, true
}

func (c *CatalogCache) SetQuizForScenario(ctx context.Context, quiz *model.Quiz) {
	c.set(ctx, quizKey(quiz.ScenarioID), quiz)
}

func (c *CatalogCache) InvalidateQuiz(ctx context.Context, scenarioID uint) {
	c.del(ctx, quizKey(scenarioID))
}
