package container

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/minerdev/codenames-api/config"
	"github.com/minerdev/codenames-api/pkg/helpers"
)

// Container carries the infrastructure shared by modules. It is built once
// in main and passed down explicitly.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client // nil unless rate limiting is enabled
}

func New(cfg *config.Config, logger *logrus.Logger) *Container {
	c := &Container{Config: cfg, Logger: logger}
	if cfg.RateLimitEnabled {
		c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(context.Background(), c.Redis, 2*time.Second); err != nil {
			// the limiter fails open, keep serving
			logger.WithError(err).Warn("redis unreachable, rate limiting will be skipped")
		}
	}
	return c
}

func (c *Container) Close() error {
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
