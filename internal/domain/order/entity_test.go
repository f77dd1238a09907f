package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	t.Run("正向履约链路", func(t *testing.T) {
		o := NewOrder("ORD1", 1, nil, 0, 0)
		require.Equal(t, StatusPendingPayment, o.Status)

		chain := []Status{
			StatusPlaced, StatusPaid, StatusConfirmed, StatusPacked,
			StatusShipped, StatusOutForDelivery, StatusDelivered,
		}
		for _, next := range chain {
			require.NoError(t, o.TransitionTo(next), "应允许转换到%s", next)
		}
		assert.Equal(t, StatusDelivered, o.Status)
	})

	t.Run("待支付可直达已支付", func(t *testing.T) {
		o := NewOrder("ORD2", 1, nil, 0, 0)
		assert.NoError(t, o.TransitionTo(StatusPaid))
	})

	t.Run("已送达不能回退到已打包", func(t *testing.T) {
		o := &Order{Status: StatusDelivered}
		err := o.TransitionTo(StatusPacked)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.Equal(t, StatusDelivered, o.Status, "失败的转换不应修改订单")
	})

	t.Run("终态无后继", func(t *testing.T) {
		for _, terminal := range []Status{StatusCancelled, StatusRefunded} {
			o := &Order{Status: terminal}
			for next := StatusDraft; next <= StatusDisputed; next++ {
				assert.False(t, o.CanTransitionTo(next), "%s不应有后继%s", terminal, next)
			}
		}
	})

	t.Run("退货链路", func(t *testing.T) {
		o := &Order{Status: StatusDelivered}
		require.NoError(t, o.TransitionTo(StatusReturnRequested))
		require.NoError(t, o.TransitionTo(StatusReturned))
		require.NoError(t, o.TransitionTo(StatusRefunded))
	})

	t.Run("纠纷链路", func(t *testing.T) {
		o := &Order{Status: StatusDelivered}
		require.NoError(t, o.TransitionTo(StatusDisputed))
		require.NoError(t, o.TransitionTo(StatusRefunded))
	})
}

func TestCancel(t *testing.T) {
	t.Run("允许取消的状态", func(t *testing.T) {
		for _, s := range []Status{StatusPendingPayment, StatusPlaced, StatusPaid} {
			o := &Order{Status: s}
			require.NoError(t, o.Cancel(), "%s应允许取消", s)
			assert.Equal(t, StatusCancelled, o.Status)
		}
	})

	t.Run("已取消订单再次取消应失败", func(t *testing.T) {
		o := &Order{Status: StatusCancelled}
		assert.ErrorIs(t, o.Cancel(), ErrInvalidStatusTransition)
	})

	t.Run("已发货订单不允许取消", func(t *testing.T) {
		o := &Order{Status: StatusShipped}
		assert.ErrorIs(t, o.Cancel(), ErrInvalidStatusTransition)
	})
}

func TestCalculateTotal(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{VariantID: 1, Quantity: 3, UnitPrice: 8900},
		{VariantID: 2, Quantity: 1, UnitPrice: 15000},
	}}
	assert.Equal(t, int64(3*8900+15000), o.CalculateTotal())
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("out_for_delivery")
	require.True(t, ok)
	assert.Equal(t, StatusOutForDelivery, s)

	_, ok = ParseStatus("nonsense")
	assert.False(t, ok)
}
