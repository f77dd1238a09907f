package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apporder "github.com/liuwen/marketplace/internal/application/order"
	"github.com/liuwen/marketplace/internal/domain/order"
)

func placeOrder(t *testing.T, f *orderFixture, buyerID uint) *apporder.CreateOrderResponse {
	t.Helper()

	resp, err := f.createOrder.Execute(context.Background(), apporder.CreateOrderRequest{
		BuyerID:           buyerID,
		DeliveryAddressID: 1,
		Items: []apporder.CreateOrderItem{
			{VariantID: 1, Quantity: 2},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestCancelOrderUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("待支付订单可取消且释放预占", func(t *testing.T) {
		f := newOrderFixture(t)
		placed := placeOrder(t, f, 100)

		err := f.cancelOrder.Execute(ctx, apporder.CancelOrderRequest{OrderID: placed.OrderID, BuyerID: 100})
		require.NoError(t, err)

		o, err := f.orderRepo.FindByID(ctx, placed.OrderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status)
		for _, item := range o.Items {
			assert.Equal(t, order.ItemStatusCancelled, item.Status)
		}

		rec, err := f.inventoryRepo.GetByVariantID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.ReservedQuantity)
		assert.Equal(t, 10, rec.QuantityAvailable)
	})

	t.Run("非本人订单拒绝", func(t *testing.T) {
		f := newOrderFixture(t)
		placed := placeOrder(t, f, 100)

		err := f.cancelOrder.Execute(ctx, apporder.CancelOrderRequest{OrderID: placed.OrderID, BuyerID: 200})
		assert.Error(t, err)

		o, findErr := f.orderRepo.FindByID(ctx, placed.OrderID)
		require.NoError(t, findErr)
		assert.Equal(t, order.StatusPendingPayment, o.Status)
	})

	t.Run("已发货订单不可取消", func(t *testing.T) {
		f := newOrderFixture(t)
		placed := placeOrder(t, f, 100)

		// 推进到已发货
		require.NoError(t, f.fulfillOrder.AdvanceOnPaymentSuccess(ctx, placed.OrderID))
		o, err := f.orderRepo.FindByID(ctx, placed.OrderID)
		require.NoError(t, err)
		require.NoError(t, o.TransitionTo(order.StatusConfirmed))
		require.NoError(t, o.TransitionTo(order.StatusPacked))
		require.NoError(t, o.TransitionTo(order.StatusShipped))
		require.NoError(t, f.orderRepo.Update(ctx, o))

		err = f.cancelOrder.Execute(ctx, apporder.CancelOrderRequest{OrderID: placed.OrderID, BuyerID: 100})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})
}

func TestFulfillOrderUseCase_AdvanceOnPaymentSuccess(t *testing.T) {
	ctx := context.Background()

	t.Run("支付成功后预占转售出", func(t *testing.T) {
		f := newOrderFixture(t)
		placed := placeOrder(t, f, 100)

		require.NoError(t, f.fulfillOrder.AdvanceOnPaymentSuccess(ctx, placed.OrderID))

		o, err := f.orderRepo.FindByID(ctx, placed.OrderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, o.Status)

		rec, err := f.inventoryRepo.GetByVariantID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.ReservedQuantity)
		assert.Equal(t, 8, rec.QuantityAvailable)
		assert.Equal(t, 2, rec.SoldQuantity)
	})

	t.Run("重复推进幂等跳过", func(t *testing.T) {
		f := newOrderFixture(t)
		placed := placeOrder(t, f, 100)

		require.NoError(t, f.fulfillOrder.AdvanceOnPaymentSuccess(ctx, placed.OrderID))
		require.NoError(t, f.fulfillOrder.AdvanceOnPaymentSuccess(ctx, placed.OrderID))

		// 售出量不翻倍
		rec, err := f.inventoryRepo.GetByVariantID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, rec.SoldQuantity)
	})

	t.Run("已支付订单取消时释放已无预占", func(t *testing.T) {
		f := newOrderFixture(t)
		placed := placeOrder(t, f, 100)

		require.NoError(t, f.fulfillOrder.AdvanceOnPaymentSuccess(ctx, placed.OrderID))
		require.NoError(t, f.cancelOrder.Execute(ctx, apporder.CancelOrderRequest{OrderID: placed.OrderID, BuyerID: 100}))

		// 预占已在支付时转售出，取消的释放对预占计数钳位到0
		rec, err := f.inventoryRepo.GetByVariantID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.ReservedQuantity)
		assert.NoError(t, rec.Validate())
	})
}
