// Package generator draws random operands for equations.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces uniformly distributed operands.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Operands returns count integers drawn uniformly from [lower, upper].
func (g *Generator) Operands(count, lower, upper int) []int {
	if count <= 0 {
		return nil
	}
	if upper < lower {
		lower, upper = upper, lower
	}
	span := upper - lower + 1
	result := make([]int, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, lower+g.rnd.Intn(span))
	}
	return result
}
