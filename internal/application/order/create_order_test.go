package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuwen/marketplace/internal/application/notification"
	apporder "github.com/liuwen/marketplace/internal/application/order"
	"github.com/liuwen/marketplace/internal/domain/catalog"
	"github.com/liuwen/marketplace/internal/domain/inventory"
	"github.com/liuwen/marketplace/internal/infrastructure/persistence/memory"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

type orderFixture struct {
	orderRepo     *memory.OrderRepository
	variantRepo   *memory.VariantRepository
	inventoryRepo *memory.InventoryRepository
	publisher     *memory.Publisher
	createOrder   *apporder.CreateOrderUseCase
	cancelOrder   *apporder.CancelOrderUseCase
	fulfillOrder  *apporder.FulfillOrderUseCase
	updateStatus  *apporder.UpdateStatusUseCase
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		orderRepo:     memory.NewOrderRepository(),
		variantRepo:   memory.NewVariantRepository(),
		inventoryRepo: memory.NewInventoryRepository(),
		publisher:     memory.NewPublisher(),
	}
	txManager := memory.NewTxManager()
	notifier := notification.NewNotifier(f.publisher, "test.events")

	f.createOrder = apporder.NewCreateOrderUseCase(f.orderRepo, f.variantRepo, f.inventoryRepo, txManager, notifier)
	f.cancelOrder = apporder.NewCancelOrderUseCase(f.orderRepo, f.inventoryRepo, txManager, notifier)
	f.fulfillOrder = apporder.NewFulfillOrderUseCase(f.orderRepo, f.inventoryRepo, txManager, notifier)
	f.updateStatus = apporder.NewUpdateStatusUseCase(f.orderRepo, txManager, notifier)

	f.variantRepo.Seed(
		&catalog.Variant{ID: 1, SKU: "SKU-001", SellerID: 10, Title: "蓝色T恤 M码", Price: 5900},
		&catalog.Variant{ID: 2, SKU: "SKU-002", SellerID: 10, Title: "黑色牛仔裤 L码", Price: 12900},
	)
	require.NoError(t, f.inventoryRepo.Create(context.Background(), &inventory.Record{VariantID: 1, QuantityAvailable: 10}))
	require.NoError(t, f.inventoryRepo.Create(context.Background(), &inventory.Record{VariantID: 2, QuantityAvailable: 3}))
	return f
}

func TestCreateOrderUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("正常下单", func(t *testing.T) {
		f := newOrderFixture(t)

		resp, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
			BuyerID:           100,
			DeliveryAddressID: 1,
			Items: []apporder.CreateOrderItem{
				{VariantID: 1, Quantity: 2},
				{VariantID: 2, Quantity: 1},
			},
		})
		require.NoError(t, err)
		assert.NotZero(t, resp.OrderID)
		assert.NotEmpty(t, resp.OrderNo)
		assert.Equal(t, int64(5900*2+12900), resp.Total)
		assert.Equal(t, "247.00", resp.TotalYuan)
		assert.Equal(t, "pending_payment", resp.Status)

		// 两个规格的库存都应进入预占
		rec1, err := f.inventoryRepo.GetByVariantID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, rec1.ReservedQuantity)
		rec2, err := f.inventoryRepo.GetByVariantID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, rec2.ReservedQuantity)

		// 下单事件已发布
		assert.Contains(t, f.publisher.RoutingKeys(), notification.RouteOrderPlaced)
	})

	t.Run("第二个商品库存不足时整单回滚", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
			BuyerID:           100,
			DeliveryAddressID: 1,
			Items: []apporder.CreateOrderItem{
				{VariantID: 1, Quantity: 2},
				{VariantID: 2, Quantity: 5}, // 只有3件
			},
		})
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, appErr.Code)

		// 第一个商品的预占必须被释放，库存恢复原样
		rec1, err := f.inventoryRepo.GetByVariantID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, rec1.ReservedQuantity)
		assert.Equal(t, 10, rec1.QuantityAvailable)

		// 订单不落库
		orders, total, listErr := f.orderRepo.ListByBuyerID(ctx, 100, 1, 10)
		require.NoError(t, listErr)
		assert.Zero(t, total)
		assert.Empty(t, orders)
	})

	t.Run("商品不存在", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
			BuyerID:           100,
			DeliveryAddressID: 1,
			Items:             []apporder.CreateOrderItem{{VariantID: 999, Quantity: 1}},
		})
		assert.ErrorIs(t, err, catalog.ErrVariantNotFound)
	})

	t.Run("明细为空", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
			BuyerID:           100,
			DeliveryAddressID: 1,
		})
		assert.Error(t, err)
	})

	t.Run("重复规格拒绝", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.createOrder.Execute(ctx, apporder.CreateOrderRequest{
			BuyerID:           100,
			DeliveryAddressID: 1,
			Items: []apporder.CreateOrderItem{
				{VariantID: 1, Quantity: 1},
				{VariantID: 1, Quantity: 2},
			},
		})
		assert.Error(t, err)
	})
}
