// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
)

// Operator is the arithmetic operation applied between all operands.
type Operator int

// Supported operators, in the order they are offered to the user.
const (
	Add Operator = iota
	Subtract
	Multiply
)

var operatorGlyphs = []string{"+", "-", "·"}

// Operators returns every supported operator in display order.
func Operators() []Operator {
	return []Operator{Add, Subtract, Multiply}
}

// Glyph returns the display symbol of the operator.
func (o Operator) Glyph() string {
	if o < 0 || int(o) >= len(operatorGlyphs) {
		return "?"
	}
	return operatorGlyphs[o]
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	default:
		return fmt.Sprintf("operator(%d)", int(o))
	}
}

// Valid reports whether o is one of the supported operators.
func (o Operator) Valid() bool {
	return o >= 0 && int(o) < len(operatorGlyphs)
}

// ParseOperator maps a display glyph back to its operator.
func ParseOperator(glyph string) (Operator, bool) {
	for i, g := range operatorGlyphs {
		if g == glyph {
			return Operator(i), true
		}
	}
	return 0, false
}

// OperatorGlyphs lists the glyphs of all supported operators.
func OperatorGlyphs() []string {
	return append([]string(nil), operatorGlyphs...)
}

// Limits bounds the values a user may choose for a drill.
type Limits struct {
	MaxNumbers   int
	RangeLimit   int
	MaxTimeLimit int
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{
		MaxNumbers:   5,
		RangeLimit:   1000,
		MaxTimeLimit: 900,
	}
}

// Validate checks that the limits are usable and that the largest possible
// product still fits in an int64.
func (l Limits) Validate() error {
	if l.MaxNumbers < 2 {
		return fmt.Errorf("max numbers must be >= 2")
	}
	if l.RangeLimit < 1 {
		return fmt.Errorf("range limit must be >= 1")
	}
	if l.MaxTimeLimit < 1 {
		return fmt.Errorf("max time limit must be >= 1")
	}
	product := int64(1)
	for i := 0; i < l.MaxNumbers; i++ {
		if product > math.MaxInt64/int64(l.RangeLimit) {
			return fmt.Errorf("range limit %d with %d numbers overflows 64-bit results", l.RangeLimit, l.MaxNumbers)
		}
		product *= int64(l.RangeLimit)
	}
	return nil
}

// Equation is one generated calculation with its cached answer.
type Equation struct {
	Operands []int
	Operator Operator
	Answer   int
}

// Clone returns a copy that does not share the operand slice.
func (e Equation) Clone() Equation {
	e.Operands = append([]int(nil), e.Operands...)
	return e
}
