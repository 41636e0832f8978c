package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wisperwind/internal/game/dice"
)

// scriptedSource replays fixed values; Float64 and Intn have separate tapes.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func TestCryptoSource_IntnInRange(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		v := src.Intn(n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
	})
}

func TestCryptoSource_Float64InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestCryptoSource_IntnPanicsOnNonPositive(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.PanicsWithValue(t, "dice: Intn called with n <= 0", func() { src.Intn(0) })
}

func TestChance_Thresholds(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.09, 0.1, 0.99, 0.0}}
	assert.True(t, dice.Chance(src, 0.1), "0.09 < 0.1")
	assert.False(t, dice.Chance(src, 0.1), "0.1 is not below 0.1")
	assert.True(t, dice.Chance(src, 1.0), "chance 1.0 always hits")
	assert.False(t, dice.Chance(src, 0.0), "chance 0.0 never hits")
}

func TestChance_Property_ConsumesExactlyOneDraw(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := rapid.Float64Range(0, 1).Draw(rt, "p")
		src := &scriptedSource{floats: []float64{0.5, 0.25}}
		dice.Chance(src, p)
		assert.Len(rt, src.floats, 1)
	})
}

func TestRoller_ForwardsDraws(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.42}, ints: []int{3}}
	r := dice.NewLoggedRoller(src, zaptest.NewLogger(t))
	assert.Equal(t, 0.42, r.Float64())
	assert.Equal(t, 3, r.Intn(5))
}
