package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic（promauto重复注册会panic）

	if HTTPRequestsTotal == nil || HTTPRequestDuration == nil || HTTPRequestsInProgress == nil {
		t.Fatal("HTTP指标未初始化")
	}
	if BooksDeletedTotal == nil || ReviewsCascadedTotal == nil || ReviewCascadeFailuresTotal == nil {
		t.Fatal("级联删除指标未初始化")
	}
	if TopRatedCacheRequests == nil || TopRatedDuration == nil {
		t.Fatal("Top榜指标未初始化")
	}

	t.Log("✅ 所有指标初始化成功")
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := CounterValue(BooksDeletedTotal)
	IncCounter(BooksDeletedTotal)
	IncCounter(BooksDeletedTotal)

	if got := CounterValue(BooksDeletedTotal) - before; got != 2 {
		t.Errorf("Counter增量错误: expected=2, got=%f", got)
	}

	before = CounterValue(ReviewsCascadedTotal)
	AddCounter(ReviewsCascadedTotal, 5)
	AddCounter(ReviewsCascadedTotal, 0)
	AddCounter(ReviewsCascadedTotal, -3) // 负数忽略

	if got := CounterValue(ReviewsCascadedTotal) - before; got != 5 {
		t.Errorf("AddCounter增量错误: expected=5, got=%f", got)
	}
}

// TestCounterVec 测试CounterVec指标
func TestCounterVec(t *testing.T) {
	InitMetrics()

	hit := map[string]string{"result": "hit"}
	miss := map[string]string{"result": "miss"}
	beforeHit := getCounterVecValue(t, TopRatedCacheRequests, hit)
	beforeMiss := getCounterVecValue(t, TopRatedCacheRequests, miss)

	IncCounterVec(TopRatedCacheRequests, hit)
	IncCounterVec(TopRatedCacheRequests, miss)
	IncCounterVec(TopRatedCacheRequests, hit)

	if got := getCounterVecValue(t, TopRatedCacheRequests, hit) - beforeHit; got != 2 {
		t.Errorf("hit计数错误: expected=2, got=%f", got)
	}
	if got := getCounterVecValue(t, TopRatedCacheRequests, miss) - beforeMiss; got != 1 {
		t.Errorf("miss计数错误: expected=1, got=%f", got)
	}
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()

	HTTPRequestsInProgress.Set(0)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 1 {
		t.Errorf("Gauge值错误: expected=1, got=%f", v)
	}
}

// TestHistogramVec 测试HistogramVec指标
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "GET", "path": "/books/top"}
	before := getHistogramVecCount(t, HTTPRequestDuration, labels)

	ObserveHistogramVec(HTTPRequestDuration, labels, 0.05)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.1)
	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "GET", "path": "/books"}, 0.2)

	if got := getHistogramVecCount(t, HTTPRequestDuration, labels) - before; got != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", got)
	}

	ObserveHistogram(TopRatedDuration, 0.01)
	var m dto.Metric
	if err := TopRatedDuration.Write(&m); err != nil {
		t.Fatalf("读取Histogram失败: %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Error("TopRatedDuration应有观测值")
	}
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	var metric dto.Metric
	if err := counterVec.With(labels).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	t.Helper()
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
