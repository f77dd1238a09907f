// Package provider 封装对外部支付网关的调用
//
// 网关调用包了一层熔断器：连续失败达到阈值后快速失败，
// 避免网关故障时把下单链路拖垮
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/liuwen/marketplace/internal/infrastructure/config"
	"github.com/liuwen/marketplace/pkg/circuitbreaker"
	"github.com/liuwen/marketplace/pkg/metrics"
)

// chargeRequest 发往网关的扣款请求
type chargeRequest struct {
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// Client 支付网关客户端
type Client struct {
	endpoint string
	http     *http.Client
	breaker  *circuitbreaker.CircuitBreaker
}

// NewClient 创建网关客户端
//
// endpoint为空时进入本地模式，不发起真实网络请求直接返回成功，
// 方便本地开发与联调
func NewClient(cfg config.ProviderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := circuitbreaker.NewCircuitBreaker("payment-provider", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器[%s]状态变化: %s -> %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: timeout},
		breaker:  cb,
	}
}

// CreateCharge 向网关发起扣款
func (c *Client) CreateCharge(ctx context.Context, provider, reference string, amount int64) error {
	err := c.breaker.Execute(func() error {
		return c.doCharge(ctx, provider, reference, amount)
	})

	result := "success"
	if err != nil {
		result = "failure"
		if err == circuitbreaker.ErrOpenState {
			result = "rejected"
		}
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{
		"name":   "payment-provider",
		"result": result,
	})
	return err
}

func (c *Client) doCharge(ctx context.Context, provider, reference string, amount int64) error {
	if c.endpoint == "" {
		log.Printf("[本地模式] 模拟网关扣款: provider=%s reference=%s amount=%d", provider, reference, amount)
		return nil
	}

	body, err := json.Marshal(chargeRequest{
		Provider:  provider,
		Reference: reference,
		Amount:    amount,
		Currency:  "CNY",
	})
	if err != nil {
		return fmt.Errorf("序列化扣款请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("构造网关请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("调用支付网关失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("支付网关返回异常状态: %d", resp.StatusCode)
	}
	return nil
}
