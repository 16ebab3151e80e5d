package session

import (
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuimath/internal/generator"
	"github.com/verte-zerg/tuimath/internal/model"
	"github.com/verte-zerg/tuimath/internal/settings"
)

type fakeDisplay struct {
	fields       settings.Fields
	operands     []int
	op           model.Operator
	current      string
	previous     string
	timeLeft     int
	inputEnabled bool
	clears       int
	equations    int
}

func (d *fakeDisplay) RawFields() settings.Fields { return d.fields }

func (d *fakeDisplay) DisplayEquation(operands []int, op model.Operator) {
	d.operands = operands
	d.op = op
	d.equations++
}

func (d *fakeDisplay) DisplayScore(current, previous string) {
	d.current = current
	d.previous = previous
}

func (d *fakeDisplay) DisplayTimeRemaining(seconds int) { d.timeLeft = seconds }
func (d *fakeDisplay) SetInputEnabled(enabled bool)     { d.inputEnabled = enabled }
func (d *fakeDisplay) ClearAnswer()                     { d.clears++ }

type note struct {
	title   string
	message string
}

type fakeNotifier struct {
	infos  []note
	errors []note
}

func (n *fakeNotifier) Info(title, message string) {
	n.infos = append(n.infos, note{title: title, message: message})
}

func (n *fakeNotifier) Error(title, message string) {
	n.errors = append(n.errors, note{title: title, message: message})
}

type fakeTimer struct {
	pending []func()
	delays  []time.Duration
}

func (t *fakeTimer) Schedule(delay time.Duration, fn func()) {
	t.delays = append(t.delays, delay)
	t.pending = append(t.pending, fn)
}

// fire runs every callback scheduled so far, in order.
func (t *fakeTimer) fire() {
	pending := t.pending
	t.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

type harness struct {
	ctrl     *Controller
	display  *fakeDisplay
	notifier *fakeNotifier
	timer    *fakeTimer
}

func newHarness(fields settings.Fields, src rand.Source) *harness {
	h := &harness{
		display:  &fakeDisplay{fields: fields},
		notifier: &fakeNotifier{},
		timer:    &fakeTimer{},
	}
	h.ctrl = NewController(h.display, h.notifier, h.timer, generator.NewWithSource(src), model.DefaultLimits(), settings.Defaults())
	return h
}

func fields(count, lower, upper int, op string, timeLimit int) settings.Fields {
	return settings.Fields{
		NumberCount: strconv.Itoa(count),
		RangeLower:  strconv.Itoa(lower),
		RangeUpper:  strconv.Itoa(upper),
		Operator:    op,
		TimeLimit:   strconv.Itoa(timeLimit),
	}
}

func TestStartGeneratesEquationWithinSettings(t *testing.T) {
	for count := 2; count <= 5; count++ {
		h := newHarness(fields(count, 10, 30, "-", 0), rand.NewSource(int64(count)))
		h.ctrl.Start()
		st := h.ctrl.State()
		if st.Mode != Running {
			t.Fatalf("expected running, got %v", st.Mode)
		}
		if st.Equation == nil || len(st.Equation.Operands) != count {
			t.Fatalf("expected %d operands, got %+v", count, st.Equation)
		}
		for _, v := range st.Equation.Operands {
			if v < 10 || v > 30 {
				t.Fatalf("operand %d outside range", v)
			}
		}
		if !reflect.DeepEqual(h.display.operands, st.Equation.Operands) {
			t.Fatalf("display shows %v, state has %v", h.display.operands, st.Equation.Operands)
		}
		if !h.display.inputEnabled {
			t.Fatalf("expected answer input enabled")
		}
	}
}

func TestZeroEquationScoresCorrectAnswer(t *testing.T) {
	h := newHarness(fields(2, 0, 1, "+", 0), zeroSource{})
	h.ctrl.Start()
	for i := 0; i < 3; i++ {
		st := h.ctrl.State()
		if !reflect.DeepEqual(st.Equation.Operands, []int{0, 0}) || st.Equation.Answer != 0 {
			t.Fatalf("expected 0 + 0 = 0, got %+v", st.Equation)
		}
		h.ctrl.SubmitAnswer("0")
	}
	st := h.ctrl.State()
	if st.Correct != 3 || st.Total != 3 {
		t.Fatalf("expected 3/3, got %d/%d", st.Correct, st.Total)
	}
	if h.display.current != "3 / 3" {
		t.Fatalf("unexpected score text %q", h.display.current)
	}
}

func TestSingleAnswerScoreText(t *testing.T) {
	h := newHarness(fields(2, 0, 1, "+", 0), zeroSource{})
	h.ctrl.Start()
	h.ctrl.SubmitAnswer(" 0 ")
	if h.ctrl.State().CurrentScore != "1 / 1" {
		t.Fatalf("expected 1 / 1, got %q", h.ctrl.State().CurrentScore)
	}
}

func TestStartRejectsSingleNumber(t *testing.T) {
	h := newHarness(fields(1, 0, 20, "+", 0), rand.NewSource(1))
	h.ctrl.Start()
	st := h.ctrl.State()
	if st.Mode != Stopped {
		t.Fatalf("expected stopped after invalid start")
	}
	if len(h.notifier.errors) != 1 {
		t.Fatalf("expected one notification, got %d", len(h.notifier.errors))
	}
	if !strings.Contains(h.notifier.errors[0].message, "Number settings") {
		t.Fatalf("unexpected message %q", h.notifier.errors[0].message)
	}
	if st.Settings != settings.Defaults() {
		t.Fatalf("settings changed after invalid start")
	}
	if h.display.equations != 0 {
		t.Fatalf("no equation should be shown")
	}
}

func TestStartReportsAllProblemsAtOnce(t *testing.T) {
	h := newHarness(fields(9, 50, 10, "/", 0), rand.NewSource(1))
	h.ctrl.Start()
	if len(h.notifier.errors) != 1 {
		t.Fatalf("expected a single notification")
	}
	msg := h.notifier.errors[0].message
	for _, want := range []string{"Number settings", "lower range must be smaller", "Operator"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q: %s", want, msg)
		}
	}
}

func TestEmptyAnswerSkips(t *testing.T) {
	h := newHarness(fields(3, 0, 100, "+", 0), rand.NewSource(3))
	h.ctrl.Start()
	before := h.display.equations
	h.ctrl.SubmitAnswer("")
	st := h.ctrl.State()
	if st.Total != 1 || st.Correct != 0 {
		t.Fatalf("expected 0/1, got %d/%d", st.Correct, st.Total)
	}
	if h.display.equations != before+1 {
		t.Fatalf("expected a new equation after skip")
	}
	if len(h.notifier.errors) != 0 {
		t.Fatalf("skip must not notify")
	}
}

func TestWrongAnswerCountsAttempt(t *testing.T) {
	h := newHarness(fields(2, 0, 1, "+", 0), zeroSource{})
	h.ctrl.Start()
	h.ctrl.SubmitAnswer("5")
	st := h.ctrl.State()
	if st.Total != 1 || st.Correct != 0 {
		t.Fatalf("expected 0/1, got %d/%d", st.Correct, st.Total)
	}
}

func TestMalformedAnswerKeepsEquation(t *testing.T) {
	h := newHarness(fields(3, 0, 100, "·", 0), rand.NewSource(5))
	h.ctrl.Start()
	before := h.ctrl.State()
	clears := h.display.clears
	h.ctrl.SubmitAnswer("abc")
	after := h.ctrl.State()
	if after.Total != 0 || after.Correct != 0 {
		t.Fatalf("counters changed on malformed input")
	}
	if !reflect.DeepEqual(before.Equation, after.Equation) {
		t.Fatalf("equation advanced on malformed input")
	}
	if len(h.notifier.errors) != 1 || h.notifier.errors[0].title != "Bad input" {
		t.Fatalf("expected bad input notification, got %+v", h.notifier.errors)
	}
	if h.display.clears != clears+1 {
		t.Fatalf("expected answer input to be cleared")
	}
}

func TestSubmitWhileStoppedIgnored(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 0), rand.NewSource(1))
	h.ctrl.SubmitAnswer("3")
	if st := h.ctrl.State(); st.Total != 0 || st.CurrentScore != "" {
		t.Fatalf("submit while stopped changed state: %+v", st)
	}
}

func TestCountdownStopsSession(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 1), rand.NewSource(1))
	h.ctrl.Start()
	if h.ctrl.State().TimeRemaining != 1 {
		t.Fatalf("expected 1 second remaining")
	}
	if len(h.timer.delays) != 1 || h.timer.delays[0] != TickInterval {
		t.Fatalf("expected one tick scheduled at %v, got %v", TickInterval, h.timer.delays)
	}
	h.timer.fire()
	st := h.ctrl.State()
	if st.Mode != Stopped {
		t.Fatalf("expected stopped after timeout")
	}
	if st.TimeRemaining != 0 || h.display.timeLeft != 0 {
		t.Fatalf("expected 0 seconds remaining, got %d", st.TimeRemaining)
	}
	if len(h.timer.pending) != 0 {
		t.Fatalf("no tick should be scheduled after timeout")
	}
	if len(h.notifier.infos) != 1 || h.notifier.infos[0].message != "Final score: 0 / 0" {
		t.Fatalf("expected time's up notification, got %+v", h.notifier.infos)
	}
}

func TestCountdownTicksDown(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 3), rand.NewSource(1))
	h.ctrl.Start()
	h.timer.fire()
	if h.ctrl.State().TimeRemaining != 2 || h.display.timeLeft != 2 {
		t.Fatalf("expected 2 seconds remaining")
	}
	h.timer.fire()
	if h.ctrl.State().TimeRemaining != 1 {
		t.Fatalf("expected 1 second remaining")
	}
	h.timer.fire()
	if h.ctrl.Running() {
		t.Fatalf("expected session to end after 3 ticks")
	}
}

func TestNoTimerWhenLimitZero(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 0), rand.NewSource(1))
	h.ctrl.Start()
	if len(h.timer.pending) != 0 {
		t.Fatalf("no countdown expected without time limit")
	}
}

func TestManualStopSuppressesPendingTick(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 5), rand.NewSource(1))
	h.ctrl.Start()
	h.ctrl.SubmitAnswer("")
	h.ctrl.Stop()
	h.timer.fire()
	st := h.ctrl.State()
	if st.Mode != Stopped || st.TimeRemaining != 0 {
		t.Fatalf("stale tick changed state: %+v", st)
	}
	if st.CurrentScore != "0 / 1" {
		t.Fatalf("score should stay visible after stop, got %q", st.CurrentScore)
	}
	if len(h.notifier.infos) != 0 {
		t.Fatalf("manual stop must not report a timeout")
	}
}

func TestStaleTickIgnoredAfterRestart(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 5), rand.NewSource(1))
	h.ctrl.Start()
	stale := h.timer.pending
	h.timer.pending = nil
	h.ctrl.Stop()
	h.ctrl.Start()
	for _, fn := range stale {
		fn()
	}
	if st := h.ctrl.State(); st.TimeRemaining != 5 || st.Mode != Running {
		t.Fatalf("stale tick affected new session: %+v", st)
	}
	h.timer.fire()
	if h.ctrl.State().TimeRemaining != 4 {
		t.Fatalf("live tick should still count down")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 0), rand.NewSource(1))
	before := h.ctrl.State()
	h.ctrl.Stop()
	if !reflect.DeepEqual(before, h.ctrl.State()) {
		t.Fatalf("stop while stopped changed state")
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 30), rand.NewSource(1))
	h.ctrl.Start()
	h.ctrl.SubmitAnswer("")
	before := h.ctrl.State()
	scheduled := len(h.timer.delays)
	h.ctrl.Start()
	if !reflect.DeepEqual(before, h.ctrl.State()) {
		t.Fatalf("start while running changed state")
	}
	if len(h.timer.delays) != scheduled {
		t.Fatalf("start while running scheduled another tick")
	}
}

func TestPreviousScoreSnapshot(t *testing.T) {
	h := newHarness(fields(2, 0, 1, "+", 0), zeroSource{})
	h.ctrl.Start()
	h.ctrl.SubmitAnswer("0")
	h.ctrl.SubmitAnswer("")
	h.ctrl.Stop()
	st := h.ctrl.State()
	if st.Correct != 0 || st.Total != 0 {
		t.Fatalf("counters should reset on stop")
	}
	if st.CurrentScore != "1 / 2" || st.PreviousScore != "" {
		t.Fatalf("unexpected scores after stop: %+v", st)
	}

	h.ctrl.Start()
	st = h.ctrl.State()
	if st.PreviousScore != "1 / 2" || st.CurrentScore != "" {
		t.Fatalf("expected snapshot on start, got %+v", st)
	}
	if h.display.previous != "1 / 2" || h.display.current != "" {
		t.Fatalf("display not updated with snapshot")
	}

	// A session without answers keeps the earlier snapshot.
	h.ctrl.Stop()
	h.ctrl.Start()
	if st := h.ctrl.State(); st.PreviousScore != "1 / 2" {
		t.Fatalf("empty session overwrote previous score: %q", st.PreviousScore)
	}
}

func TestStopDisablesInput(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "+", 0), rand.NewSource(1))
	h.ctrl.Start()
	h.ctrl.Stop()
	if h.display.inputEnabled {
		t.Fatalf("expected input disabled after stop")
	}
	if h.ctrl.State().Equation != nil {
		t.Fatalf("equation should be discarded on stop")
	}
}

func TestAdoptFields(t *testing.T) {
	h := newHarness(fields(4, 5, 9, "·", 45), rand.NewSource(1))
	if !h.ctrl.AdoptFields() {
		t.Fatalf("expected valid fields to be adopted")
	}
	if h.ctrl.Settings().NumberCount() != 4 {
		t.Fatalf("settings not adopted")
	}
	h.display.fields.RangeUpper = "x"
	if h.ctrl.AdoptFields() {
		t.Fatalf("invalid fields must not be adopted")
	}
	if len(h.notifier.errors) != 0 {
		t.Fatalf("adopt must not notify")
	}
	if h.ctrl.Settings().RangeUpper() != 9 {
		t.Fatalf("previous settings should be kept")
	}
}

func TestOverflowStopsWithInternalError(t *testing.T) {
	h := newHarness(fields(2, 0, 10, "·", 10), rand.NewSource(1))
	h.ctrl.limits = model.Limits{MaxNumbers: 40, RangeLimit: 1000000, MaxTimeLimit: 900}
	h.display.fields = fields(40, 999999, 1000000, "·", 10)
	h.ctrl.Start()
	if h.ctrl.Running() {
		t.Fatalf("expected session to stop on contract error")
	}
	if len(h.notifier.errors) != 1 || h.notifier.errors[0].title != "Internal error" {
		t.Fatalf("expected internal error notification, got %+v", h.notifier.errors)
	}
	if len(h.timer.pending) != 0 {
		t.Fatalf("no countdown expected after failed start")
	}
}
