// Package settings validates raw drill settings.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/tuimath/internal/model"
)

// Fields holds the raw, unvalidated values as typed by the user or read from disk.
type Fields struct {
	NumberCount string
	RangeLower  string
	RangeUpper  string
	Operator    string
	TimeLimit   string
}

// Settings is a validated drill configuration. The zero value is not valid;
// obtain one from Validate or Defaults.
type Settings struct {
	numberCount int
	rangeLower  int
	rangeUpper  int
	operator    model.Operator
	timeLimit   int
}

// Defaults returns the built-in settings used when nothing else is available.
func Defaults() Settings {
	return Settings{
		numberCount: 2,
		rangeLower:  0,
		rangeUpper:  20,
		operator:    model.Operators()[0],
		timeLimit:   120,
	}
}

// NumberCount returns how many operands each equation has.
func (s Settings) NumberCount() int { return s.numberCount }

// RangeLower returns the smallest operand value.
func (s Settings) RangeLower() int { return s.rangeLower }

// RangeUpper returns the largest operand value.
func (s Settings) RangeUpper() int { return s.rangeUpper }

// Operator returns the operator applied between operands.
func (s Settings) Operator() model.Operator { return s.operator }

// TimeLimit returns the session length in seconds; 0 disables the timer.
func (s Settings) TimeLimit() int { return s.timeLimit }

// Fields renders the settings back into raw form.
func (s Settings) Fields() Fields {
	return Fields{
		NumberCount: strconv.Itoa(s.numberCount),
		RangeLower:  strconv.Itoa(s.rangeLower),
		RangeUpper:  strconv.Itoa(s.rangeUpper),
		Operator:    s.operator.Glyph(),
		TimeLimit:   strconv.Itoa(s.timeLimit),
	}
}

// ValidationError lists every problem found in a set of fields.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

const notIntegerMsg = "All input fields except operator must only contain integers."

// Validate checks raw fields against the limits. On failure it returns a
// *ValidationError with all problems found. A non-integer numeric field
// short-circuits with a single problem.
func Validate(f Fields, limits model.Limits) (Settings, error) {
	numberCount, okCount := parseInt(f.NumberCount)
	lower, okLower := parseInt(f.RangeLower)
	upper, okUpper := parseInt(f.RangeUpper)
	timeLimit, okTime := parseInt(f.TimeLimit)
	if !okCount || !okLower || !okUpper || !okTime {
		return Settings{}, &ValidationError{Problems: []string{notIntegerMsg}}
	}

	var problems []string
	if numberCount <= 1 || numberCount > limits.MaxNumbers {
		problems = append(problems, fmt.Sprintf("Number settings: the calculation uses between 2 and %d numbers.", limits.MaxNumbers))
	}
	if !inRange(lower, 0, limits.RangeLimit) || !inRange(upper, 0, limits.RangeLimit) {
		problems = append(problems, fmt.Sprintf("Range settings: allowed range for the numbers is from 0 to %d.", limits.RangeLimit))
	}
	if lower >= upper {
		problems = append(problems, "Range settings: lower range must be smaller than upper range.")
	}
	op, okOp := model.ParseOperator(f.Operator)
	if !okOp {
		problems = append(problems, fmt.Sprintf("Operator: unsupported operator, choose one of %s.", strings.Join(model.OperatorGlyphs(), " ")))
	}
	if timeLimit < 0 || timeLimit >= limits.MaxTimeLimit {
		problems = append(problems, fmt.Sprintf("Time limit: must be at least 0 and below %d.", limits.MaxTimeLimit))
	}
	if len(problems) > 0 {
		return Settings{}, &ValidationError{Problems: problems}
	}

	return Settings{
		numberCount: numberCount,
		rangeLower:  lower,
		rangeUpper:  upper,
		operator:    op,
		timeLimit:   timeLimit,
	}, nil
}

func parseInt(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
