package redis

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker/v2"

	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/pkg/circuitbreaker"
)

// lookup 缓存调用的结果，经过熔断器时需要合成一个值
type lookup struct {
	summaries []rating.Summary
	hit       bool
	gen       int64
	stored    bool
}

// GuardedCache 带熔断的Top榜缓存
// Redis连续故障时熔断器打开，Get/Set/Invalidate立即返回错误，
// 用例层把错误当作未命中处理，请求直接走聚合
type GuardedCache struct {
	inner   rating.Cache
	breaker *gobreaker.CircuitBreaker[lookup]
}

// NewGuardedCache 用熔断器包装缓存
func NewGuardedCache(inner rating.Cache, cfg circuitbreaker.Config) *GuardedCache {
	return &GuardedCache{
		inner:   inner,
		breaker: circuitbreaker.New[lookup](cfg),
	}
}

// Get 读取缓存
func (c *GuardedCache) Get(ctx context.Context, limit int) ([]rating.Summary, bool, error) {
	res, err := c.breaker.Execute(func() (lookup, error) {
		summaries, hit, err := c.inner.Get(ctx, limit)
		return lookup{summaries: summaries, hit: hit}, err
	})
	if err != nil {
		return nil, false, fmt.Errorf("top rated cache get: %w", err)
	}
	return res.summaries, res.hit, nil
}

// Generation 读取缓存代数
func (c *GuardedCache) Generation(ctx context.Context) (int64, error) {
	res, err := c.breaker.Execute(func() (lookup, error) {
		gen, err := c.inner.Generation(ctx)
		return lookup{gen: gen}, err
	})
	if err != nil {
		return 0, fmt.Errorf("top rated cache generation: %w", err)
	}
	return res.gen, nil
}

// Set 代数未变时写入缓存
func (c *GuardedCache) Set(ctx context.Context, limit int, gen int64, summaries []rating.Summary) (bool, error) {
	res, err := c.breaker.Execute(func() (lookup, error) {
		stored, err := c.inner.Set(ctx, limit, gen, summaries)
		return lookup{stored: stored}, err
	})
	if err != nil {
		return false, fmt.Errorf("top rated cache set: %w", err)
	}
	return res.stored, nil
}

// Invalidate 清空缓存
func (c *GuardedCache) Invalidate(ctx context.Context) error {
	_, err := c.breaker.Execute(func() (lookup, error) {
		return lookup{}, c.inner.Invalidate(ctx)
	})
	if err != nil {
		return fmt.Errorf("top rated cache invalidate: %w", err)
	}
	return nil
}

// State 当前熔断状态
func (c *GuardedCache) State() gobreaker.State {
	return c.breaker.State()
}
