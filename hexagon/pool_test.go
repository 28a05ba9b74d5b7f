package hexagon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberPoolDrawsEveryNumberOnce(t *testing.T) {
	p := NewSeededPool(12, 7)

	seen := make(map[int]bool)
	for i := 0; i < 12; i++ {
		n, err := p.Draw()
		require.NoError(t, err)
		require.False(t, seen[n], "number %d drawn twice", n)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 12)
		seen[n] = true
	}
	assert.Equal(t, 0, p.Remaining())

	_, err := p.Draw()
	assert.ErrorIs(t, err, ErrPoolExhausted)

	p.Reset()
	assert.Equal(t, 12, p.Remaining())
}

func TestPairingIsPerfectMatching(t *testing.T) {
	p := NewSeededPool(12, 42)

	for trial := 0; trial < 10000; trial++ {
		pairs, err := Pairing(p)
		require.NoError(t, err)

		var seen [12]int
		for _, pair := range pairs {
			require.NotEqual(t, pair[0], pair[1], "trial %d: self pair %v", trial, pair)
			seen[pair[0]]++
			seen[pair[1]]++
		}
		for point, count := range seen {
			require.Equal(t, 1, count, "trial %d: point %d covered %d times", trial, point, count)
		}
	}
}

func TestPairingReproducibleWithSeed(t *testing.T) {
	a, err := Pairing(NewSeededPool(12, 99))
	require.NoError(t, err)
	b, err := Pairing(NewSeededPool(12, 99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPairingFromShortPoolFails(t *testing.T) {
	_, err := Pairing(NewSeededPool(10, 1))
	assert.ErrorIs(t, err, ErrPoolExhausted)
}
