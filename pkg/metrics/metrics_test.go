package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestHelpersNilSafe 未初始化时辅助函数必须静默跳过
func TestHelpersNilSafe(t *testing.T) {
	// 不能panic
	IncCounter(nil)
	IncCounterVec(nil, map[string]string{"a": "b"})
	IncGauge(nil)
	DecGauge(nil)
	SetGaugeVec(nil, map[string]string{"a": "b"}, 1)
	ObserveHistogram(nil, 0.5)
	ObserveHistogramVec(nil, map[string]string{"a": "b"}, 0.5)
}

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if OrdersPlacedTotal == nil {
		t.Error("OrdersPlacedTotal未初始化")
	}
	if CircuitBreakerState == nil {
		t.Error("CircuitBreakerState未初始化")
	}

	// 重复初始化不应panic（promauto对重复注册会panic，靠initialized守卫）
	InitMetrics()
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(OrdersPlacedTotal)

	IncCounter(OrdersPlacedTotal)
	IncCounter(OrdersPlacedTotal)
	IncCounter(OrdersPlacedTotal)

	got := testutil.ToFloat64(OrdersPlacedTotal)
	if got-before != 3 {
		t.Errorf("Counter值错误: expected=+3, got=+%f", got-before)
	}
}

// TestCounterVec 测试带标签的Counter
func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"provider": "MOBILE_MONEY", "result": "completed"}
	before := testutil.ToFloat64(PaymentEventsTotal.With(labels))

	IncCounterVec(PaymentEventsTotal, labels)

	got := testutil.ToFloat64(PaymentEventsTotal.With(labels))
	if got-before != 1 {
		t.Errorf("CounterVec值错误: expected=+1, got=+%f", got-before)
	}
}
