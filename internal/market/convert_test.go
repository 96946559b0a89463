package market

import (
	"math"
	"testing"
)

func TestCrossRate(t *testing.T) {
	t.Run("INR to EUR", func(t *testing.T) {
		// 1 INR = 0.012 USD, 1 EUR = 1.08 USD
		got := CrossRate(0.012, 1.08)
		want := 0.012 / 1.08
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("CrossRate(0.012, 1.08) = %v, want %v", got, want)
		}
	})

	t.Run("identity through USD", func(t *testing.T) {
		if got := CrossRate(1, 1); got != 1 {
			t.Errorf("CrossRate(1, 1) = %v, want 1", got)
		}
	})

	t.Run("missing rates collapse to zero", func(t *testing.T) {
		if got := CrossRate(0, 1.08); got != 0 {
			t.Errorf("CrossRate with zero base = %v, want 0", got)
		}
		if got := CrossRate(0.012, 0); got != 0 {
			t.Errorf("CrossRate with zero quote = %v, want 0", got)
		}
		if got := CrossRate(-1, 1); got != 0 {
			t.Errorf("CrossRate with negative base = %v, want 0", got)
		}
	})
}

func TestUSDToLocal(t *testing.T) {
	t.Run("INR", func(t *testing.T) {
		got := USDToLocal(0.012)
		want := 1.0 / 0.012
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("USDToLocal(0.012) = %v, want %v", got, want)
		}
	})

	t.Run("unknown rate leaves values unchanged", func(t *testing.T) {
		if got := USDToLocal(0); got != 1 {
			t.Errorf("USDToLocal(0) = %v, want 1", got)
		}
	})
}
