package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment_StatusTransitions(t *testing.T) {
	t.Run("正常流转 pending→initiated→completed", func(t *testing.T) {
		p := NewPayment(1, ProviderMobileMoney, 5900, "PAY-001")
		assert.Equal(t, StatusPending, p.Status)
		assert.False(t, p.IsTerminal())

		require.NoError(t, p.MarkInitiated())
		require.NoError(t, p.MarkCompleted("MM-123"))
		assert.Equal(t, StatusCompleted, p.Status)
		assert.Equal(t, "MM-123", p.TransactionID)
		assert.True(t, p.IsTerminal())
		assert.True(t, p.CanRefund())
	})

	t.Run("失败记录原因且为终态", func(t *testing.T) {
		p := NewPayment(1, ProviderCard, 5900, "PAY-002")
		require.NoError(t, p.MarkInitiated())
		require.NoError(t, p.MarkFailed("insufficient_funds"))
		assert.Equal(t, "insufficient_funds", p.FailureReason)
		assert.True(t, p.IsTerminal())
		assert.False(t, p.CanRefund())
	})

	t.Run("终态后不可再标记", func(t *testing.T) {
		p := NewPayment(1, ProviderMobileMoney, 5900, "PAY-003")
		require.NoError(t, p.MarkInitiated())
		require.NoError(t, p.MarkCompleted("MM-456"))

		assert.ErrorIs(t, p.MarkFailed("late failure"), ErrInvalidPaymentStatus)
		assert.ErrorIs(t, p.MarkCompleted("MM-789"), ErrInvalidPaymentStatus)
		assert.ErrorIs(t, p.MarkCancelled(), ErrInvalidPaymentStatus)
		assert.Equal(t, "MM-456", p.TransactionID)
	})

	t.Run("未发起即可取消", func(t *testing.T) {
		p := NewPayment(1, ProviderCOD, 5900, "PAY-004")
		require.NoError(t, p.MarkCancelled())
		assert.Equal(t, StatusCancelled, p.Status)
		assert.False(t, p.IsTerminal())
	})
}

func TestNewRefund(t *testing.T) {
	source := NewPayment(9, ProviderMobileMoney, 24700, "PAY-100")
	require.NoError(t, source.MarkInitiated())
	require.NoError(t, source.MarkCompleted("MM-100"))

	refund := NewRefund(source, 10000, "REF-100")
	assert.Equal(t, source.OrderID, refund.OrderID)
	assert.Equal(t, source.Provider, refund.Provider)
	assert.Equal(t, int64(10000), refund.Amount)
	assert.Equal(t, StatusRefunded, refund.Status)
	assert.NotEqual(t, source.Reference, refund.Reference)

	// 原流水不受影响
	assert.Equal(t, StatusCompleted, source.Status)
	assert.Equal(t, int64(24700), source.Amount)
}

func TestIsOfflineProvider(t *testing.T) {
	assert.True(t, IsOfflineProvider(ProviderCOD))
	assert.False(t, IsOfflineProvider(ProviderMobileMoney))
	assert.False(t, IsOfflineProvider(ProviderCard))
}
