// Package session drives a drill: the Stopped/Running state machine, the
// countdown and answer scoring.
//
// The controller is not safe for concurrent use. Every method, including the
// callbacks handed to Timer.Schedule, must be called from the host's single
// event loop.
package session

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/tuimath/internal/calc"
	"github.com/verte-zerg/tuimath/internal/generator"
	"github.com/verte-zerg/tuimath/internal/model"
	"github.com/verte-zerg/tuimath/internal/settings"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Mode is the controller state.
type Mode int

// Controller modes.
const (
	Stopped Mode = iota
	Running
)

func (m Mode) String() string {
	if m == Running {
		return "running"
	}
	return "stopped"
}

// Display is the presentation surface the controller draws on.
type Display interface {
	RawFields() settings.Fields
	DisplayEquation(operands []int, op model.Operator)
	DisplayScore(current, previous string)
	DisplayTimeRemaining(seconds int)
	SetInputEnabled(enabled bool)
	ClearAnswer()
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(title, message string)
	Error(title, message string)
}

// Timer schedules fn to run once on the host event loop after delay.
// Scheduled callbacks cannot be cancelled.
type Timer interface {
	Schedule(delay time.Duration, fn func())
}

// State is a snapshot of the controller state.
type State struct {
	Mode          Mode
	Settings      settings.Settings
	Equation      *model.Equation
	Correct       int
	Total         int
	TimeRemaining int
	CurrentScore  string
	PreviousScore string
}

// Controller owns the session state.
type Controller struct {
	display  Display
	notifier Notifier
	timer    Timer
	gen      *generator.Generator
	limits   model.Limits

	state State
	// generation changes on every stop so ticks scheduled for an earlier
	// session are ignored.
	generation uint64
}

// NewController returns a stopped controller using initial as its settings.
func NewController(display Display, notifier Notifier, timer Timer, gen *generator.Generator, limits model.Limits, initial settings.Settings) *Controller {
	return &Controller{
		display:  display,
		notifier: notifier,
		timer:    timer,
		gen:      gen,
		limits:   limits,
		state: State{
			Mode:     Stopped,
			Settings: initial,
		},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	st := c.state
	if st.Equation != nil {
		eq := st.Equation.Clone()
		st.Equation = &eq
	}
	return st
}

// Running reports whether a session is in progress.
func (c *Controller) Running() bool {
	return c.state.Mode == Running
}

// Settings returns the last successfully validated settings.
func (c *Controller) Settings() settings.Settings {
	return c.state.Settings
}

// Start validates the display fields and begins a session. Validation
// problems are reported through the notifier and leave the controller stopped.
// Start is a no-op while running.
func (c *Controller) Start() {
	if c.state.Mode == Running {
		return
	}
	s, err := settings.Validate(c.display.RawFields(), c.limits)
	if err != nil {
		c.notifier.Error("Input error", validationMessage(err))
		return
	}

	c.state.Settings = s
	c.state.Correct = 0
	c.state.Total = 0
	if c.state.CurrentScore != "" {
		c.state.PreviousScore = c.state.CurrentScore
		c.state.CurrentScore = ""
	}
	c.state.Mode = Running
	c.display.SetInputEnabled(true)
	c.display.DisplayScore(c.state.CurrentScore, c.state.PreviousScore)
	if !c.nextEquation() {
		return
	}

	c.state.TimeRemaining = s.TimeLimit()
	c.display.DisplayTimeRemaining(c.state.TimeRemaining)
	if s.TimeLimit() > 0 {
		c.scheduleTick()
	}
}

// AdoptFields validates the display fields without reporting problems and
// adopts them when valid. It reports whether the settings were adopted.
func (c *Controller) AdoptFields() bool {
	s, err := settings.Validate(c.display.RawFields(), c.limits)
	if err != nil {
		return false
	}
	c.state.Settings = s
	return true
}

// Stop ends the running session. The score text stays visible until the
// next Start. Stop is a no-op while stopped.
func (c *Controller) Stop() {
	if c.state.Mode == Stopped {
		return
	}
	c.generation++
	c.state.Mode = Stopped
	c.state.Correct = 0
	c.state.Total = 0
	c.state.Equation = nil
	c.state.TimeRemaining = 0
	c.display.ClearAnswer()
	c.display.SetInputEnabled(false)
	c.display.DisplayTimeRemaining(0)
}

// SubmitAnswer scores text against the current equation. Empty text skips
// the equation; text that is not an integer is rejected without scoring.
func (c *Controller) SubmitAnswer(text string) {
	if c.state.Mode != Running || c.state.Equation == nil {
		return
	}
	text = strings.TrimSpace(text)
	correct := false
	if text != "" {
		v, err := strconv.Atoi(text)
		if err != nil {
			c.display.ClearAnswer()
			c.notifier.Error("Bad input", "Input can only be an integer or empty.")
			return
		}
		correct = v == c.state.Equation.Answer
	}

	c.state.Total++
	if correct {
		c.state.Correct++
	}
	c.state.CurrentScore = fmt.Sprintf("%d / %d", c.state.Correct, c.state.Total)
	c.display.DisplayScore(c.state.CurrentScore, c.state.PreviousScore)
	c.nextEquation()
}

func (c *Controller) nextEquation() bool {
	s := c.state.Settings
	operands := c.gen.Operands(s.NumberCount(), s.RangeLower(), s.RangeUpper())
	answer, err := calc.Evaluate(operands, s.Operator())
	if err != nil {
		logErrf("equation evaluation failed: %v\n", err)
		c.notifier.Error("Internal error", fmt.Sprintf("Could not compute the answer (%v). The session was stopped; please report this as a bug.", err))
		c.Stop()
		return false
	}
	c.state.Equation = &model.Equation{
		Operands: operands,
		Operator: s.Operator(),
		Answer:   answer,
	}
	c.display.DisplayEquation(append([]int(nil), operands...), s.Operator())
	c.display.ClearAnswer()
	return true
}

func (c *Controller) scheduleTick() {
	gen := c.generation
	c.timer.Schedule(TickInterval, func() {
		c.tick(gen)
	})
}

func (c *Controller) tick(gen uint64) {
	if c.state.Mode != Running || gen != c.generation {
		return
	}
	c.state.TimeRemaining--
	if c.state.TimeRemaining <= 0 {
		c.state.TimeRemaining = 0
		c.Stop()
		score := c.state.CurrentScore
		if score == "" {
			score = "0 / 0"
		}
		c.notifier.Info("Time's up", "Final score: "+score)
		return
	}
	c.display.DisplayTimeRemaining(c.state.TimeRemaining)
	c.scheduleTick()
}

func validationMessage(err error) string {
	var verr *settings.ValidationError
	if errors.As(err, &verr) {
		return "The following errors were found:\n\n" + strings.Join(verr.Problems, "\n\n")
	}
	return err.Error()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
