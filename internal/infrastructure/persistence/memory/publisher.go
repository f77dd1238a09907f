package memory

import (
	"sync"
)

// PublishedMessage 记录一次发布
type PublishedMessage struct {
	RoutingKey string
	Message    interface{}
}

// Publisher 消息发布器内存实现，记录所有发布供测试断言
type Publisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
}

// NewPublisher 创建内存发布器
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish 记录消息
func (p *Publisher) Publish(routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(p.messages, PublishedMessage{RoutingKey: routingKey, Message: message})
	return nil
}

// Messages 返回已发布消息的副本
func (p *Publisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]PublishedMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

// RoutingKeys 返回已发布消息的路由键序列
func (p *Publisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}
