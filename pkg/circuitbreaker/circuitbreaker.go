// Package circuitbreaker 基于sony/gobreaker的熔断器
//
// 三种状态：
//   - CLOSED：请求正常通过，统计失败率
//   - OPEN：失败率超过阈值后快速失败，持续Timeout
//   - HALF_OPEN：放行MaxRequests个探测请求，成功则关闭，失败则重新打开
//
// 用于保护可降级的外部依赖（如Top榜Redis缓存）：依赖故障时直接返回ErrOpen，
// 调用方走降级路径，不再逐个等待网络超时。
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrOpen 熔断器打开（或半开状态探测请求已满）时返回
var ErrOpen = gobreaker.ErrOpenState

// ErrTooManyRequests 半开状态下超过MaxRequests的请求返回
var ErrTooManyRequests = gobreaker.ErrTooManyRequests

// Config 熔断器配置
type Config struct {
	Name string

	// MaxRequests 半开状态下允许的探测请求数，0表示1个
	MaxRequests uint32

	// Interval 关闭状态下清零统计的周期，0表示不清零
	Interval time.Duration

	// Timeout 打开状态持续时间，之后转为半开
	Timeout time.Duration

	// FailureRatio 失败率阈值，如0.5表示一半请求失败即熔断
	FailureRatio float64

	// MinRequests 统计窗口内至少有这么多请求才评估失败率
	MinRequests uint32
}

// DefaultConfig 默认配置
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// New 创建熔断器
// 状态变化写warn日志；调用方取消的context不计为失败
func New[T any](cfg Config) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return ShouldTrip(counts, cfg)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// ShouldTrip 判断统计数据是否达到熔断条件
func ShouldTrip(counts gobreaker.Counts, cfg Config) bool {
	if counts.Requests == 0 || counts.Requests < cfg.MinRequests {
		return false
	}
	ratio := float64(counts.TotalFailures) / float64(counts.Requests)
	return ratio >= cfg.FailureRatio
}

// IsOpen 判断错误是否由熔断器拒绝产生
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen) || errors.Is(err, ErrTooManyRequests)
}
