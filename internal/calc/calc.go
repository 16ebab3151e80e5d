// Package calc computes the correct answer of an equation.
package calc

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/tuimath/internal/model"
)

// Contract errors. None of them can be caused by user input that passed
// settings validation.
var (
	ErrNoOperands      = errors.New("equation has no operands")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrOverflow        = errors.New("result overflows int")
)

// IsContractError reports whether err is one of the calc contract errors.
func IsContractError(err error) bool {
	return errors.Is(err, ErrNoOperands) || errors.Is(err, ErrUnknownOperator) || errors.Is(err, ErrOverflow)
}

// Evaluate folds operands left to right with op.
func Evaluate(operands []int, op model.Operator) (int, error) {
	if len(operands) == 0 {
		return 0, ErrNoOperands
	}
	var step func(acc, v int) (int, bool)
	switch op {
	case model.Add:
		step = addChecked
	case model.Subtract:
		step = subChecked
	case model.Multiply:
		step = mulChecked
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownOperator, op)
	}
	acc := operands[0]
	for _, v := range operands[1:] {
		next, ok := step(acc, v)
		if !ok {
			return 0, fmt.Errorf("%w: %v %s %d", ErrOverflow, acc, op.Glyph(), v)
		}
		acc = next
	}
	return acc, nil
}

func addChecked(a, b int) (int, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}
	return c, true
}

func subChecked(a, b int) (int, bool) {
	c := a - b
	if (c < a) != (b > 0) {
		return 0, false
	}
	return c, true
}

func mulChecked(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}
