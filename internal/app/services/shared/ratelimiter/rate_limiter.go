package ratelimiter

import (
	"context"
	"fmt"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/pkg/constvars"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AttemptLimiter counts failures per resource in a fixed window stored in
// Redis. The auth usecase uses it to stop password guessing against one
// username from many addresses, which the per-IP middleware can't see.
type AttemptLimiter struct {
	redis       contracts.RedisRepository
	log         *zap.Logger
	group       string
	window      time.Duration
	maxFailures int
}

func NewAttemptLimiter(redis contracts.RedisRepository, log *zap.Logger, group string, window time.Duration, maxFailures int) *AttemptLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &AttemptLimiter{
		redis:       redis,
		log:         log,
		group:       strings.ToUpper(strings.TrimSpace(group)),
		window:      window,
		maxFailures: maxFailures,
	}
}

func (l *AttemptLimiter) key(resource string) string {
	return fmt.Sprintf("%s%s:%s", constvars.RedisKeyAttemptPrefix, l.group, strings.ToLower(strings.TrimSpace(resource)))
}

// Allowed reports whether resource is still under its failure quota. Redis
// errors fail open: a cache outage must not lock every admin out.
func (l *AttemptLimiter) Allowed(ctx context.Context, resource string) bool {
	if l.maxFailures <= 0 {
		return true
	}

	value, err := l.redis.Get(ctx, l.key(resource))
	if err != nil {
		l.log.Warn("AttemptLimiter.Allowed redis read failed",
			zap.String(constvars.LoggingRedisKey, l.key(resource)),
			zap.Error(err),
		)
		return true
	}
	if value == "" {
		return true
	}

	failures, err := strconv.Atoi(strings.Trim(value, `"`))
	if err != nil {
		return true
	}
	return failures < l.maxFailures
}

func (l *AttemptLimiter) RegisterFailure(ctx context.Context, resource string) int {
	failures, err := l.redis.IncrementWithTTL(ctx, l.key(resource), l.window)
	if err != nil {
		l.log.Warn("AttemptLimiter.RegisterFailure redis increment failed",
			zap.String(constvars.LoggingRedisKey, l.key(resource)),
			zap.Error(err),
		)
		return 0
	}
	return failures
}

func (l *AttemptLimiter) Reset(ctx context.Context, resource string) {
	if err := l.redis.Delete(ctx, l.key(resource)); err != nil {
		l.log.Warn("AttemptLimiter.Reset redis delete failed",
			zap.String(constvars.LoggingRedisKey, l.key(resource)),
			zap.Error(err),
		)
	}
}
