package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2349))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -1.5, Round2(-1.499999))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 10.0, Lerp(10, 20, 0))
	assert.Equal(t, 20.0, Lerp(10, 20, 1))
	assert.Equal(t, 15.0, Lerp(10, 20, 0.5))

	// t зажимается в [0, 1]
	assert.Equal(t, 10.0, Lerp(10, 20, -5))
	assert.Equal(t, 20.0, Lerp(10, 20, 5))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(99, 0, 10))
}

func TestFormatSOL(t *testing.T) {
	assert.Equal(t, "1.2346 SOL", FormatSOL(1.23456))
	assert.Equal(t, "0.0000 SOL", FormatSOL(0))
}
