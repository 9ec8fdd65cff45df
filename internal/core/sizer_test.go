package core

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binance-futures-testnet-bot/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderSizer_AdjustQuantity(t *testing.T) {
	sizer := NewOrderSizer()

	tests := []struct {
		name      string
		requested string
		step      string
		precision int32
		want      string
		wantKind  Kind
	}{
		{name: "rounds down to step", requested: "0.0034", step: "0.001", precision: 3, want: "0.003"},
		{name: "exact multiple unchanged", requested: "0.003", step: "0.001", precision: 3, want: "0.003"},
		{name: "never rounds up", requested: "0.0039999", step: "0.001", precision: 3, want: "0.003"},
		{name: "non decimal step", requested: "1.74", step: "0.25", precision: 2, want: "1.5"},
		{name: "integer step", requested: "57.9", step: "1", precision: 0, want: "57"},
		{name: "precision truncates", requested: "1.23456", step: "0.00001", precision: 2, want: "1.23"},
		{name: "below one step", requested: "0.0001", step: "0.001", precision: 3, wantKind: KindInvalidQuantity},
		{name: "zero", requested: "0", step: "0.001", precision: 3, wantKind: KindInvalidQuantity},
		{name: "negative", requested: "-1", step: "0.001", precision: 3, wantKind: KindInvalidQuantity},
		{name: "zero step", requested: "1", step: "0", precision: 3, wantKind: KindInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sizer.AdjustQuantity(d(tt.requested), d(tt.step), tt.precision)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestOrderSizer_AdjustQuantityProperties(t *testing.T) {
	sizer := NewOrderSizer()
	rng := rand.New(rand.NewSource(7))

	steps := []struct {
		step      string
		precision int32
	}{
		{"0.001", 3},
		{"0.1", 1},
		{"1", 0},
		{"0.5", 1},
		{"0.025", 3},
		{"0.00001", 5},
	}

	for i := 0; i < 2000; i++ {
		s := steps[i%len(steps)]
		step := d(s.step)
		q := decimal.New(rng.Int63n(1_000_000_000), -int32(rng.Intn(9)))

		adjusted, err := sizer.AdjustQuantity(q, step, s.precision)
		if err != nil {
			assert.True(t, q.LessThan(step), "only sub-step quantities may fail: q=%s step=%s", q, step)
			assert.Equal(t, KindInvalidQuantity, KindOf(err))
			continue
		}

		assert.True(t, adjusted.LessThanOrEqual(q), "adjusted %s > requested %s", adjusted, q)
		assert.True(t, adjusted.Mod(step).IsZero(), "%s is not a multiple of %s", adjusted, step)
		assert.True(t, q.Sub(adjusted).LessThan(step), "%s lost more than one step of %s", adjusted, q)
		assert.True(t, adjusted.Equal(adjusted.Truncate(s.precision)), "%s exceeds precision %d", adjusted, s.precision)

		again, err := sizer.AdjustQuantity(adjusted, step, s.precision)
		require.NoError(t, err)
		assert.True(t, again.Equal(adjusted), "not idempotent: %s -> %s", adjusted, again)
	}
}

func TestOrderSizer_CheckMinNotional(t *testing.T) {
	sizer := NewOrderSizer()

	notional, err := sizer.CheckMinNotional(d("0.003"), d("87106.17"), d("100"))
	require.NoError(t, err)
	assert.True(t, notional.Equal(d("261.31851")))

	t.Run("exactly minimum is accepted", func(t *testing.T) {
		_, err := sizer.CheckMinNotional(d("0.002"), d("50000"), d("100"))
		assert.NoError(t, err)
	})

	t.Run("one unit below is rejected", func(t *testing.T) {
		_, err := sizer.CheckMinNotional(d("0.002"), d("49999.99"), d("100"))
		require.Error(t, err)
		var r *Rejection
		require.ErrorAs(t, err, &r)
		assert.Equal(t, KindMinNotional, r.Kind)
		assert.Equal(t, "100", r.Threshold)
		assert.Equal(t, "99.99998", r.Observed)
	})

	t.Run("zero minimum accepts anything positive", func(t *testing.T) {
		_, err := sizer.CheckMinNotional(d("0.001"), d("0.01"), decimal.Zero)
		assert.NoError(t, err)
	})
}

func TestOrderSizer_CheckLotBounds(t *testing.T) {
	sizer := NewOrderSizer()
	rules := model.SymbolRules{MinQty: d("0.01"), MaxQty: d("100")}

	assert.NoError(t, sizer.CheckLotBounds(d("0.01"), rules))
	assert.NoError(t, sizer.CheckLotBounds(d("100"), rules))
	assert.Equal(t, KindInvalidQuantity, KindOf(sizer.CheckLotBounds(d("0.009"), rules)))
	assert.Equal(t, KindInvalidQuantity, KindOf(sizer.CheckLotBounds(d("100.1"), rules)))
	assert.NoError(t, sizer.CheckLotBounds(d("1000000"), model.SymbolRules{}))
}
