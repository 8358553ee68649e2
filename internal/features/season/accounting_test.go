package season

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrizeForPosition(t *testing.T) {
	pcts := []float64{0.10, 0.06, 0.04}

	// Доли считаются от пула на момент награждения: 70 → 7.0/4.2/2.8
	assert.InDelta(t, 7.0, PrizeForPosition(70, pcts, 1), 1e-9)
	assert.InDelta(t, 4.2, PrizeForPosition(70, pcts, 2), 1e-9)
	assert.InDelta(t, 2.8, PrizeForPosition(70, pcts, 3), 1e-9)
}

func TestPrizeForPosition_OutOfRange(t *testing.T) {
	pcts := []float64{0.10, 0.06, 0.04}

	assert.Zero(t, PrizeForPosition(70, pcts, 0))
	assert.Zero(t, PrizeForPosition(70, pcts, 4))
	assert.Zero(t, PrizeForPosition(70, nil, 1))
}

func TestCarryOver(t *testing.T) {
	// Остаток пула после призов уходит в новый сезон
	assert.InDelta(t, 56.0, CarryOver(70, 14.0), 1e-9)
	assert.Zero(t, CarryOver(70, 70))
}

func TestCarryOver_NeverNegative(t *testing.T) {
	assert.Zero(t, CarryOver(10, 15))
}
