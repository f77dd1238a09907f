package dispute_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdispute "github.com/liuwen/marketplace/internal/application/dispute"
	"github.com/liuwen/marketplace/internal/application/notification"
	apporder "github.com/liuwen/marketplace/internal/application/order"
	apppayment "github.com/liuwen/marketplace/internal/application/payment"
	"github.com/liuwen/marketplace/internal/domain/catalog"
	"github.com/liuwen/marketplace/internal/domain/dispute"
	"github.com/liuwen/marketplace/internal/domain/inventory"
	"github.com/liuwen/marketplace/internal/domain/payment"
	"github.com/liuwen/marketplace/internal/infrastructure/persistence/memory"
)

type disputeFixture struct {
	disputeRepo *memory.DisputeRepository
	orderRepo   *memory.OrderRepository
	paymentRepo *memory.PaymentRepository
	publisher   *memory.Publisher
	open        *appdispute.OpenDisputeUseCase
	resolve     *appdispute.ResolveDisputeUseCase
	manage      *appdispute.ManageDisputeUseCase
	createOrder *apporder.CreateOrderUseCase
	initiate    *apppayment.InitiatePaymentUseCase
	handleEvent *apppayment.HandleEventUseCase
}

type passProvider struct{}

func (passProvider) CreateCharge(ctx context.Context, provider, reference string, amount int64) error {
	return nil
}

func newDisputeFixture(t *testing.T) *disputeFixture {
	t.Helper()

	f := &disputeFixture{
		disputeRepo: memory.NewDisputeRepository(),
		orderRepo:   memory.NewOrderRepository(),
		paymentRepo: memory.NewPaymentRepository(),
		publisher:   memory.NewPublisher(),
	}
	txManager := memory.NewTxManager()
	notifier := notification.NewNotifier(f.publisher, "test.events")

	variantRepo := memory.NewVariantRepository()
	variantRepo.Seed(&catalog.Variant{ID: 1, SKU: "SKU-001", SellerID: 10, Title: "蓝色T恤 M码", Price: 5900})
	inventoryRepo := memory.NewInventoryRepository()
	require.NoError(t, inventoryRepo.Create(context.Background(), &inventory.Record{VariantID: 1, QuantityAvailable: 10}))

	f.createOrder = apporder.NewCreateOrderUseCase(f.orderRepo, variantRepo, inventoryRepo, txManager, notifier)
	fulfiller := apporder.NewFulfillOrderUseCase(f.orderRepo, inventoryRepo, txManager, notifier)

	f.initiate = apppayment.NewInitiatePaymentUseCase(f.paymentRepo, f.orderRepo, passProvider{}, txManager)
	f.handleEvent = apppayment.NewHandleEventUseCase(f.paymentRepo, fulfiller, txManager, notifier)
	refund := apppayment.NewRefundUseCase(f.paymentRepo, f.orderRepo, txManager, notifier)

	f.open = appdispute.NewOpenDisputeUseCase(f.disputeRepo, f.orderRepo, txManager, notifier)
	f.resolve = appdispute.NewResolveDisputeUseCase(f.disputeRepo, f.paymentRepo, refund, txManager, notifier)
	f.manage = appdispute.NewManageDisputeUseCase(f.disputeRepo, txManager)
	return f
}

// placePaidOrder 下单并完成支付
func placePaidOrder(t *testing.T, f *disputeFixture, buyerID uint) uint {
	t.Helper()
	ctx := context.Background()

	placed, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
		BuyerID:           buyerID,
		DeliveryAddressID: 1,
		Items:             []apporder.CreateOrderItem{{VariantID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	resp, err := f.initiate.Execute(ctx, apppayment.InitiatePaymentRequest{
		OrderID:  placed.OrderID,
		BuyerID:  buyerID,
		Provider: payment.ProviderMobileMoney,
	})
	require.NoError(t, err)

	require.NoError(t, f.handleEvent.Execute(ctx, apppayment.ExternalEvent{
		Provider:  payment.ProviderMobileMoney,
		Reference: resp.Reference,
		Outcome:   apppayment.OutcomeSuccess,
	}))
	return placed.OrderID
}

func TestOpenDisputeUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("正常发起纠纷", func(t *testing.T) {
		f := newDisputeFixture(t)
		orderID := placePaidOrder(t, f, 100)

		resp, err := f.open.Execute(ctx, appdispute.OpenDisputeRequest{
			OrderID:     orderID,
			BuyerID:     100,
			Reason:      "商品与描述不符",
			Description: "颜色不对",
		})
		require.NoError(t, err)
		assert.NotZero(t, resp.DisputeID)
		assert.Equal(t, "open", resp.Status)
		assert.Contains(t, f.publisher.RoutingKeys(), notification.RouteDisputeOpened)
	})

	t.Run("同一订单不能有两个活跃纠纷", func(t *testing.T) {
		f := newDisputeFixture(t)
		orderID := placePaidOrder(t, f, 100)

		_, err := f.open.Execute(ctx, appdispute.OpenDisputeRequest{
			OrderID: orderID, BuyerID: 100, Reason: "商品与描述不符",
		})
		require.NoError(t, err)

		_, err = f.open.Execute(ctx, appdispute.OpenDisputeRequest{
			OrderID: orderID, BuyerID: 100, Reason: "再开一个",
		})
		assert.ErrorIs(t, err, dispute.ErrDuplicateDispute)
	})

	t.Run("原纠纷关闭后可再次发起", func(t *testing.T) {
		f := newDisputeFixture(t)
		orderID := placePaidOrder(t, f, 100)

		first, err := f.open.Execute(ctx, appdispute.OpenDisputeRequest{
			OrderID: orderID, BuyerID: 100, Reason: "商品与描述不符",
		})
		require.NoError(t, err)

		require.NoError(t, f.resolve.Execute(ctx, appdispute.ResolveDisputeRequest{
			DisputeID:  first.DisputeID,
			AdminID:    1,
			Resolution: string(dispute.ResolutionSellerFavored),
		}))
		require.NoError(t, f.manage.Close(ctx, first.DisputeID))

		_, err = f.open.Execute(ctx, appdispute.OpenDisputeRequest{
			OrderID: orderID, BuyerID: 100, Reason: "新问题",
		})
		assert.NoError(t, err)
	})

	t.Run("非本人订单拒绝", func(t *testing.T) {
		f := newDisputeFixture(t)
		orderID := placePaidOrder(t, f, 100)

		_, err := f.open.Execute(ctx, appdispute.OpenDisputeRequest{
			OrderID: orderID, BuyerID: 200, Reason: "不是我的订单",
		})
		assert.Error(t, err)
	})

	t.Run("原因必填", func(t *testing.T) {
		f := newDisputeFixture(t)
		orderID := placePaidOrder(t, f, 100)

		_, err := f.open.Execute(ctx, appdispute.OpenDisputeRequest{
			OrderID: orderID, BuyerID: 100,
		})
		assert.Error(t, err)
	})
}
