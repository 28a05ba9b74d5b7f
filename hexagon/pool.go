package hexagon

import (
	"errors"
	"math/rand/v2"

	"github.com/lixenwraith/entangled/geometry"
)

// ErrPoolExhausted is returned when drawing from an empty pool
var ErrPoolExhausted = errors.New("number pool exhausted")

// LineCount is the number of lines in a hexagon, one per pair of connection points
const LineCount = geometry.ConnectionPointCount / 2

// NumberPool hands out the integers [0, size) in uniformly random order without repetition
type NumberPool struct {
	size int
	pool []int
	rng  *rand.Rand
}

// NewNumberPool creates a full pool drawing from rng
func NewNumberPool(size int, rng *rand.Rand) *NumberPool {
	p := &NumberPool{
		size: size,
		pool: make([]int, 0, size),
		rng:  rng,
	}
	p.Reset()
	return p
}

// NewSeededPool creates a pool of the given size backed by a PCG source
func NewSeededPool(size int, seed uint64) *NumberPool {
	return NewNumberPool(size, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Draw removes and returns a uniformly chosen remaining number
func (p *NumberPool) Draw() (int, error) {
	n := len(p.pool)
	if n == 0 {
		return 0, ErrPoolExhausted
	}

	idx := p.rng.IntN(n)
	v := p.pool[idx]
	// Preserve order of the remainder so seeded draws stay reproducible
	p.pool = append(p.pool[:idx], p.pool[idx+1:]...)
	return v, nil
}

// Remaining returns the count of numbers left
func (p *NumberPool) Remaining() int {
	return len(p.pool)
}

// Reset refills the pool with [0, size)
func (p *NumberPool) Reset() {
	p.pool = p.pool[:0]
	for i := 0; i < p.size; i++ {
		p.pool = append(p.pool, i)
	}
}

// Pairing resets the pool and draws a perfect matching of the connection points
func Pairing(p *NumberPool) ([LineCount][2]int, error) {
	var pairs [LineCount][2]int

	p.Reset()
	for i := 0; i < LineCount; i++ {
		start, err := p.Draw()
		if err != nil {
			return pairs, err
		}
		end, err := p.Draw()
		if err != nil {
			return pairs, err
		}
		pairs[i] = [2]int{start, end}
	}
	return pairs, nil
}
