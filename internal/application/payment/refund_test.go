package payment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppayment "github.com/liuwen/marketplace/internal/application/payment"
	"github.com/liuwen/marketplace/internal/domain/order"
	"github.com/liuwen/marketplace/internal/domain/payment"
)

// completedPayment 走完整链路拿到一笔已完成的支付
func completedPayment(t *testing.T, f *paymentFixture) (uint, *payment.Payment) {
	t.Helper()
	ctx := context.Background()

	orderID, reference := initiatePayment(t, f)
	require.NoError(t, f.handleEvent.Execute(ctx, apppayment.ExternalEvent{
		Provider:  payment.ProviderMobileMoney,
		Reference: reference,
		Outcome:   apppayment.OutcomeSuccess,
	}))

	p, err := f.paymentRepo.FindByReference(ctx, reference)
	require.NoError(t, err)
	return orderID, p
}

func TestRefundUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("部分退款生成退款流水", func(t *testing.T) {
		f := newPaymentFixture(t)
		orderID, p := completedPayment(t, f)

		resp, err := f.refund.Execute(ctx, apppayment.RefundRequest{
			PaymentID: p.ID,
			Amount:    3000,
			Source:    "manual",
		})
		require.NoError(t, err)
		assert.NotZero(t, resp.RefundPaymentID)
		assert.NotEqual(t, p.Reference, resp.Reference)
		assert.Equal(t, int64(3000), resp.Amount)

		list, err := f.paymentRepo.ListByOrderID(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, list, 2)

		// 部分退款不推进订单状态
		o, err := f.orderRepo.FindByID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, o.Status)
	})

	t.Run("全额退款推进订单到已退款", func(t *testing.T) {
		f := newPaymentFixture(t)
		orderID, p := completedPayment(t, f)

		_, err := f.refund.Execute(ctx, apppayment.RefundRequest{
			PaymentID: p.ID,
			Amount:    p.Amount,
			Source:    "manual",
		})
		require.NoError(t, err)

		o, err := f.orderRepo.FindByID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusRefunded, o.Status)
	})

	t.Run("退款金额超额拒绝", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, p := completedPayment(t, f)

		_, err := f.refund.Execute(ctx, apppayment.RefundRequest{
			PaymentID: p.ID,
			Amount:    p.Amount + 1,
			Source:    "manual",
		})
		assert.ErrorIs(t, err, payment.ErrInvalidRefundAmount)
	})

	t.Run("未完成的流水不可退款", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, reference := initiatePayment(t, f)

		p, err := f.paymentRepo.FindByReference(ctx, reference)
		require.NoError(t, err)

		_, err = f.refund.Execute(ctx, apppayment.RefundRequest{
			PaymentID: p.ID,
			Amount:    1000,
			Source:    "manual",
		})
		assert.ErrorIs(t, err, payment.ErrPaymentNotRefundable)
	})
}
