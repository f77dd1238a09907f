package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordReserve(t *testing.T) {
	t.Run("正常预占", func(t *testing.T) {
		rec := &Record{VariantID: 1, QuantityAvailable: 5}

		require.NoError(t, rec.Reserve(3))
		assert.Equal(t, 3, rec.ReservedQuantity)
		assert.Equal(t, 5, rec.QuantityAvailable, "预占不应减少可售库存")
		assert.Equal(t, 2, rec.Available())
	})

	t.Run("可预占量不足应失败且不产生变更", func(t *testing.T) {
		rec := &Record{VariantID: 1, QuantityAvailable: 5, ReservedQuantity: 4}

		err := rec.Reserve(2)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 4, rec.ReservedQuantity)
		assert.Equal(t, 5, rec.QuantityAvailable)
	})

	t.Run("数量非法", func(t *testing.T) {
		rec := &Record{VariantID: 1, QuantityAvailable: 5}
		assert.ErrorIs(t, rec.Reserve(0), ErrInvalidQuantity)
		assert.ErrorIs(t, rec.Reserve(-1), ErrInvalidQuantity)
	})
}

func TestRecordRelease(t *testing.T) {
	t.Run("正常释放", func(t *testing.T) {
		rec := &Record{VariantID: 1, QuantityAvailable: 5, ReservedQuantity: 3}
		assert.Equal(t, 3, rec.Release(3))
		assert.Equal(t, 0, rec.ReservedQuantity)
	})

	t.Run("释放量夹取到当前预占量", func(t *testing.T) {
		rec := &Record{VariantID: 1, QuantityAvailable: 5, ReservedQuantity: 2}
		assert.Equal(t, 2, rec.Release(10), "只能释放已预占的部分")
		assert.Equal(t, 0, rec.ReservedQuantity)

		// 重复释放不会把预占减成负数
		assert.Equal(t, 0, rec.Release(10))
		assert.Equal(t, 0, rec.ReservedQuantity)
		assert.NoError(t, rec.Validate())
	})
}

func TestRecordCommit(t *testing.T) {
	t.Run("预占转售出", func(t *testing.T) {
		rec := &Record{VariantID: 1, QuantityAvailable: 5, ReservedQuantity: 3}
		rec.Commit(3)

		assert.Equal(t, 0, rec.ReservedQuantity)
		assert.Equal(t, 2, rec.QuantityAvailable)
		assert.Equal(t, 3, rec.SoldQuantity)
		assert.NoError(t, rec.Validate())
	})

	t.Run("超出部分夹取", func(t *testing.T) {
		rec := &Record{VariantID: 1, QuantityAvailable: 2, ReservedQuantity: 1}
		rec.Commit(5)

		assert.Equal(t, 0, rec.ReservedQuantity)
		assert.Equal(t, 0, rec.QuantityAvailable)
		assert.Equal(t, 5, rec.SoldQuantity)
	})
}

func TestRecordValidate(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		err  error
	}{
		{"合法记录", Record{VariantID: 1, QuantityAvailable: 5, ReservedQuantity: 2}, nil},
		{"可售为负", Record{VariantID: 1, QuantityAvailable: -1}, ErrNegativeStock},
		{"预占为负", Record{VariantID: 1, QuantityAvailable: 5, ReservedQuantity: -1}, ErrNegativeReserved},
		{"预占超过可售", Record{VariantID: 1, QuantityAvailable: 2, ReservedQuantity: 3}, ErrReservedExceedsStock},
		{"缺少VariantID", Record{}, ErrInvalidVariantID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}
