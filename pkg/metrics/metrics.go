// Package metrics 提供基于Prometheus的指标收集
//
// 指标分两类：
//   - HTTP指标：由middleware.Metrics在每个请求结束时记录
//   - 业务指标：图书删除、评论级联删除、Top榜缓存命中
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 业务代码
//	metrics.IncCounter(metrics.BooksDeletedTotal)
//	metrics.IncCounterVec(metrics.TopRatedCacheRequests, map[string]string{"result": "hit"})
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method、path（路由模板，如/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BooksDeletedTotal 删除图书总数
	BooksDeletedTotal prometheus.Counter

	// ReviewsCascadedTotal 随图书级联删除的评论总数
	ReviewsCascadedTotal prometheus.Counter

	// ReviewCascadeFailuresTotal 图书已删除但评论级联删除失败的次数
	// 非0表示存在孤儿评论
	ReviewCascadeFailuresTotal prometheus.Counter

	// TopRatedCacheRequests Top榜缓存访问次数
	// 标签：result（hit/miss/error）
	TopRatedCacheRequests *prometheus.CounterVec

	// TopRatedDuration Top榜聚合耗时（不含缓存命中）
	TopRatedDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次。使用promauto注册到默认Registry，
// 重复调用直接返回。
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	BooksDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_deleted_total",
			Help: "删除图书总数",
		},
	)

	ReviewsCascadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_cascaded_total",
			Help: "随图书级联删除的评论总数",
		},
	)

	ReviewCascadeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "review_cascade_failures_total",
			Help: "评论级联删除失败次数",
		},
	)

	TopRatedCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "top_rated_cache_requests_total",
			Help: "Top榜缓存访问次数",
		},
		[]string{"result"},
	)

	TopRatedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "top_rated_aggregation_duration_seconds",
			Help: "Top榜聚合耗时（秒）",
			// 聚合要扫描全部评论，桶比普通请求放宽
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// AddCounter Counter增加指定值（负数忽略）
func AddCounter(counter prometheus.Counter, value float64) {
	if value > 0 {
		counter.Add(value)
	}
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// CounterValue 读取Counter当前值（用于测试和调试端点）
func CounterValue(counter prometheus.Counter) float64 {
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
