package payment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuwen/marketplace/internal/application/notification"
	apporder "github.com/liuwen/marketplace/internal/application/order"
	apppayment "github.com/liuwen/marketplace/internal/application/payment"
	"github.com/liuwen/marketplace/internal/domain/catalog"
	"github.com/liuwen/marketplace/internal/domain/inventory"
	"github.com/liuwen/marketplace/internal/domain/order"
	"github.com/liuwen/marketplace/internal/domain/payment"
	"github.com/liuwen/marketplace/internal/infrastructure/persistence/memory"
)

// stubProvider 总是成功的网关桩
type stubProvider struct {
	calls int
	fail  bool
}

func (s *stubProvider) CreateCharge(ctx context.Context, provider, reference string, amount int64) error {
	s.calls++
	if s.fail {
		return assert.AnError
	}
	return nil
}

type paymentFixture struct {
	orderRepo     *memory.OrderRepository
	paymentRepo   *memory.PaymentRepository
	inventoryRepo *memory.InventoryRepository
	publisher     *memory.Publisher
	provider      *stubProvider
	initiate      *apppayment.InitiatePaymentUseCase
	handleEvent   *apppayment.HandleEventUseCase
	refund        *apppayment.RefundUseCase
	createOrder   *apporder.CreateOrderUseCase
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	f := &paymentFixture{
		orderRepo:     memory.NewOrderRepository(),
		paymentRepo:   memory.NewPaymentRepository(),
		inventoryRepo: memory.NewInventoryRepository(),
		publisher:     memory.NewPublisher(),
		provider:      &stubProvider{},
	}
	txManager := memory.NewTxManager()
	notifier := notification.NewNotifier(f.publisher, "test.events")
	variantRepo := memory.NewVariantRepository()
	variantRepo.Seed(&catalog.Variant{ID: 1, SKU: "SKU-001", SellerID: 10, Title: "蓝色T恤 M码", Price: 5900})
	require.NoError(t, f.inventoryRepo.Create(context.Background(), &inventory.Record{VariantID: 1, QuantityAvailable: 10}))

	f.createOrder = apporder.NewCreateOrderUseCase(f.orderRepo, variantRepo, f.inventoryRepo, txManager, notifier)
	fulfiller := apporder.NewFulfillOrderUseCase(f.orderRepo, f.inventoryRepo, txManager, notifier)

	f.initiate = apppayment.NewInitiatePaymentUseCase(f.paymentRepo, f.orderRepo, f.provider, txManager)
	f.handleEvent = apppayment.NewHandleEventUseCase(f.paymentRepo, fulfiller, txManager, notifier)
	f.refund = apppayment.NewRefundUseCase(f.paymentRepo, f.orderRepo, txManager, notifier)
	return f
}

// initiatePayment 下单并发起一笔在线支付，返回订单ID与流水Reference
func initiatePayment(t *testing.T, f *paymentFixture) (uint, string) {
	t.Helper()
	ctx := context.Background()

	placed, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
		BuyerID:           100,
		DeliveryAddressID: 1,
		Items:             []apporder.CreateOrderItem{{VariantID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	resp, err := f.initiate.Execute(ctx, apppayment.InitiatePaymentRequest{
		OrderID:  placed.OrderID,
		BuyerID:  100,
		Provider: payment.ProviderMobileMoney,
	})
	require.NoError(t, err)
	return placed.OrderID, resp.Reference
}

func TestHandleEventUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("成功回调推进订单并提交库存", func(t *testing.T) {
		f := newPaymentFixture(t)
		orderID, reference := initiatePayment(t, f)

		err := f.handleEvent.Execute(ctx, apppayment.ExternalEvent{
			Provider:      payment.ProviderMobileMoney,
			Reference:     reference,
			Outcome:       apppayment.OutcomeSuccess,
			TransactionID: "MM-0001",
			Raw:           `{"status":"success"}`,
		})
		require.NoError(t, err)

		p, err := f.paymentRepo.FindByReference(ctx, reference)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusCompleted, p.Status)
		assert.Equal(t, "MM-0001", p.TransactionID)
		assert.NotEmpty(t, p.RawCallback)

		o, err := f.orderRepo.FindByID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, o.Status)

		rec, err := f.inventoryRepo.GetByVariantID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, rec.SoldQuantity)

		assert.Contains(t, f.publisher.RoutingKeys(), notification.RoutePaymentSucceeded)
	})

	t.Run("重复回调幂等", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, reference := initiatePayment(t, f)

		event := apppayment.ExternalEvent{
			Provider:      payment.ProviderMobileMoney,
			Reference:     reference,
			Outcome:       apppayment.OutcomeSuccess,
			TransactionID: "MM-0001",
		}
		require.NoError(t, f.handleEvent.Execute(ctx, event))
		require.NoError(t, f.handleEvent.Execute(ctx, event))
		require.NoError(t, f.handleEvent.Execute(ctx, event))

		// 库存只提交一次
		rec, err := f.inventoryRepo.GetByVariantID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, rec.SoldQuantity)
	})

	t.Run("失败回调记录原因且订单不动", func(t *testing.T) {
		f := newPaymentFixture(t)
		orderID, reference := initiatePayment(t, f)

		err := f.handleEvent.Execute(ctx, apppayment.ExternalEvent{
			Provider:  payment.ProviderMobileMoney,
			Reference: reference,
			Outcome:   apppayment.OutcomeFailure,
			Reason:    "insufficient balance",
		})
		require.NoError(t, err)

		p, err := f.paymentRepo.FindByReference(ctx, reference)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, p.Status)
		assert.Equal(t, "insufficient balance", p.FailureReason)

		o, err := f.orderRepo.FindByID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPendingPayment, o.Status)
	})

	t.Run("成功后再收失败回调不覆盖终态", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, reference := initiatePayment(t, f)

		require.NoError(t, f.handleEvent.Execute(ctx, apppayment.ExternalEvent{
			Provider:  payment.ProviderMobileMoney,
			Reference: reference,
			Outcome:   apppayment.OutcomeSuccess,
		}))
		require.NoError(t, f.handleEvent.Execute(ctx, apppayment.ExternalEvent{
			Provider:  payment.ProviderMobileMoney,
			Reference: reference,
			Outcome:   apppayment.OutcomeFailure,
			Reason:    "late failure",
		}))

		p, err := f.paymentRepo.FindByReference(ctx, reference)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusCompleted, p.Status)
	})

	t.Run("未知Reference返回流水不存在", func(t *testing.T) {
		f := newPaymentFixture(t)

		err := f.handleEvent.Execute(ctx, apppayment.ExternalEvent{
			Provider:  payment.ProviderMobileMoney,
			Reference: "PAY-UNKNOWN",
			Outcome:   apppayment.OutcomeSuccess,
		})
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	})

	t.Run("无法识别的结果拒绝", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, reference := initiatePayment(t, f)

		err := f.handleEvent.Execute(ctx, apppayment.ExternalEvent{
			Provider:  payment.ProviderMobileMoney,
			Reference: reference,
			Outcome:   "maybe",
		})
		assert.ErrorIs(t, err, payment.ErrUnknownOutcome)
	})
}

func TestInitiatePaymentUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("在线支付调用网关", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, reference := initiatePayment(t, f)

		assert.Equal(t, 1, f.provider.calls)
		p, err := f.paymentRepo.FindByReference(ctx, reference)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusInitiated, p.Status)
	})

	t.Run("货到付款不调用网关", func(t *testing.T) {
		f := newPaymentFixture(t)

		placed, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
			BuyerID:           100,
			DeliveryAddressID: 1,
			Items:             []apporder.CreateOrderItem{{VariantID: 1, Quantity: 1}},
		})
		require.NoError(t, err)

		resp, err := f.initiate.Execute(ctx, apppayment.InitiatePaymentRequest{
			OrderID:  placed.OrderID,
			BuyerID:  100,
			Provider: payment.ProviderCOD,
		})
		require.NoError(t, err)
		assert.Zero(t, f.provider.calls)

		p, err := f.paymentRepo.FindByReference(ctx, resp.Reference)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusInitiated, p.Status)
	})

	t.Run("网关失败时流水标记失败", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.provider.fail = true

		placed, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
			BuyerID:           100,
			DeliveryAddressID: 1,
			Items:             []apporder.CreateOrderItem{{VariantID: 1, Quantity: 1}},
		})
		require.NoError(t, err)

		_, err = f.initiate.Execute(ctx, apppayment.InitiatePaymentRequest{
			OrderID:  placed.OrderID,
			BuyerID:  100,
			Provider: payment.ProviderCard,
		})
		assert.Error(t, err)
	})

	t.Run("非本人订单拒绝", func(t *testing.T) {
		f := newPaymentFixture(t)

		placed, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
			BuyerID:           100,
			DeliveryAddressID: 1,
			Items:             []apporder.CreateOrderItem{{VariantID: 1, Quantity: 1}},
		})
		require.NoError(t, err)

		_, err = f.initiate.Execute(ctx, apppayment.InitiatePaymentRequest{
			OrderID:  placed.OrderID,
			BuyerID:  200,
			Provider: payment.ProviderCOD,
		})
		assert.Error(t, err)
	})
}
