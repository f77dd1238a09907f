// Package notification 将领域事件发布到消息总线
//
// 所有事件走Topic Exchange（marketplace.events），routing_key为
// <聚合>.<动作>（如order.placed、payment.succeeded）。
// 事件发布失败只记录日志，不阻断主流程。
package notification

import (
	"log"
	"time"

	"github.com/liuwen/marketplace/pkg/metrics"
)

// Publisher 消息发布接口（生产环境为pkg/mq的RabbitMQ Publisher）
type Publisher interface {
	Publish(routingKey string, message interface{}) error
}

// 路由键定义
const (
	RouteOrderPlaced      = "order.placed"
	RouteOrderCancelled   = "order.cancelled"
	RouteOrderStatus      = "order.status_changed"
	RoutePaymentSucceeded = "payment.succeeded"
	RoutePaymentFailed    = "payment.failed"
	RouteRefundRecorded   = "payment.refund_recorded"
	RouteDisputeOpened    = "dispute.opened"
	RouteDisputeResolved  = "dispute.resolved"
)

// OrderEvent 订单事件
type OrderEvent struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	BuyerID   uint   `json:"buyer_id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Timestamp string `json:"timestamp"`
}

// PaymentEvent 支付事件
type PaymentEvent struct {
	PaymentID uint   `json:"payment_id"`
	OrderID   uint   `json:"order_id"`
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// DisputeEvent 纠纷事件
type DisputeEvent struct {
	DisputeID  uint   `json:"dispute_id"`
	OrderID    uint   `json:"order_id"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Notifier 领域事件通知器
type Notifier struct {
	publisher Publisher
	exchange  string
}

// NewNotifier 创建通知器
func NewNotifier(publisher Publisher, exchange string) *Notifier {
	return &Notifier{
		publisher: publisher,
		exchange:  exchange,
	}
}

// publish 发布事件，失败只记录日志
func (n *Notifier) publish(routingKey string, event interface{}) {
	if n == nil || n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(routingKey, event); err != nil {
		log.Printf("事件发布失败: routing_key=%s, err=%v", routingKey, err)
		return
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    n.exchange,
		"routing_key": routingKey,
	})
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// OrderPlaced 订单创建成功
func (n *Notifier) OrderPlaced(orderID uint, orderNo string, buyerID uint, amount int64) {
	n.publish(RouteOrderPlaced, OrderEvent{
		OrderID: orderID, OrderNo: orderNo, BuyerID: buyerID,
		Status: "pending_payment", Amount: amount, Timestamp: now(),
	})
}

// OrderCancelled 订单取消
func (n *Notifier) OrderCancelled(orderID uint, orderNo string, buyerID uint) {
	n.publish(RouteOrderCancelled, OrderEvent{
		OrderID: orderID, OrderNo: orderNo, BuyerID: buyerID,
		Status: "cancelled", Timestamp: now(),
	})
}

// OrderStatusChanged 订单状态变更（发货、送达等）
func (n *Notifier) OrderStatusChanged(orderID uint, orderNo string, buyerID uint, status string) {
	n.publish(RouteOrderStatus, OrderEvent{
		OrderID: orderID, OrderNo: orderNo, BuyerID: buyerID,
		Status: status, Timestamp: now(),
	})
}

// PaymentSucceeded 支付成功
func (n *Notifier) PaymentSucceeded(paymentID, orderID uint, provider, reference string, amount int64) {
	n.publish(RoutePaymentSucceeded, PaymentEvent{
		PaymentID: paymentID, OrderID: orderID, Provider: provider,
		Reference: reference, Amount: amount, Status: "completed", Timestamp: now(),
	})
}

// PaymentFailed 支付失败
func (n *Notifier) PaymentFailed(paymentID, orderID uint, provider, reference string) {
	n.publish(RoutePaymentFailed, PaymentEvent{
		PaymentID: paymentID, OrderID: orderID, Provider: provider,
		Reference: reference, Status: "failed", Timestamp: now(),
	})
}

// RefundRecorded 退款入账
func (n *Notifier) RefundRecorded(paymentID, orderID uint, reference string, amount int64) {
	n.publish(RouteRefundRecorded, PaymentEvent{
		PaymentID: paymentID, OrderID: orderID,
		Reference: reference, Amount: amount, Status: "refunded", Timestamp: now(),
	})
}

// DisputeOpened 纠纷发起
func (n *Notifier) DisputeOpened(disputeID, orderID uint) {
	n.publish(RouteDisputeOpened, DisputeEvent{
		DisputeID: disputeID, OrderID: orderID, Status: "open", Timestamp: now(),
	})
}

// DisputeResolved 纠纷裁决
func (n *Notifier) DisputeResolved(disputeID, orderID uint, resolution string) {
	n.publish(RouteDisputeResolved, DisputeEvent{
		DisputeID: disputeID, OrderID: orderID, Status: "resolved",
		Resolution: resolution, Timestamp: now(),
	})
}
