// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimath/internal/generator"
	"github.com/verte-zerg/tuimath/internal/model"
	"github.com/verte-zerg/tuimath/internal/session"
	"github.com/verte-zerg/tuimath/internal/settings"
	"github.com/verte-zerg/tuimath/internal/store"
)

const (
	fieldNumbers = iota
	fieldRangeLower
	fieldRangeUpper
	fieldOperator
	fieldTimeLimit
	fieldCount
)

type tickMsg struct {
	fire func()
}

type notice struct {
	title   string
	message string
	isError bool
}

// Model implements the Bubble Tea drill UI. It is also the display, notifier
// and timer of the session controller it owns.
type Model struct {
	ctrl   *session.Controller
	store  *store.Store
	limits model.Limits
	keys   keyMap
	help   help.Model

	// writeClipboard is swapped in tests.
	writeClipboard func(string) error

	width  int
	height int

	fields       []textinput.Model
	fieldIndex   int
	answer       textinput.Model
	inputEnabled bool

	operands []int
	operator model.Operator
	current  string
	previous string
	timeLeft int

	notices  []notice
	showHelp bool
	status   string

	pending []tea.Cmd
}

// NewModel constructs a drill model. fields pre-fill the settings form and
// initial is the validated fallback used until the first successful start.
// A non-empty startupNotice is shown before anything else.
func NewModel(st *store.Store, gen *generator.Generator, limits model.Limits, fields settings.Fields, initial settings.Settings, startupNotice string) *Model {
	m := &Model{
		store:          st,
		limits:         limits,
		keys:           defaultKeyMap(),
		help:           help.New(),
		writeClipboard: clipboard.WriteAll,
		operator:       initial.Operator(),
	}
	m.initFields(fields)
	m.initAnswer()
	m.ctrl = session.NewController(m, m, m, gen, limits, initial)
	m.setFieldIndex(0)
	if startupNotice != "" {
		m.Error("File error", startupNotice)
	}
	return m
}

// Controller exposes the session controller driven by the UI.
func (m *Model) Controller() *session.Controller {
	return m.ctrl
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if msg.fire != nil {
			msg.fire()
		}
		return m, m.flush(nil)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, m.quit()
		}
		if len(m.notices) > 0 {
			if key.Matches(msg, m.keys.Dismiss) {
				m.notices = m.notices[1:]
			}
			return m, m.flush(nil)
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.ctrl.Running() {
			return m, m.flush(m.updateRunning(msg))
		}
		return m.updateStopped(msg)
	default:
		var cmd tea.Cmd
		if m.ctrl.Running() {
			m.answer, cmd = m.answer.Update(msg)
		} else {
			m.fields[m.fieldIndex], cmd = m.fields[m.fieldIndex].Update(msg)
		}
		return m, cmd
	}
}

func (m *Model) updateRunning(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.ctrl.SubmitAnswer(m.answer.Value())
		return nil
	case key.Matches(msg, m.keys.Clear):
		m.answer.Reset()
		return nil
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.Stop()
		return nil
	}
	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	return cmd
}

func (m *Model) updateStopped(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Start):
		m.ctrl.Start()
		return m, m.flush(nil)
	case key.Matches(msg, m.keys.NextField):
		return m, m.setFieldIndex(m.fieldIndex + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFieldIndex(m.fieldIndex - 1)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copyScore()
		return m, nil
	case m.fieldIndex == fieldOperator && key.Matches(msg, m.keys.CycleUp):
		m.fields[fieldOperator].SetValue(cycleOperator(m.fields[fieldOperator].Value(), -1))
		return m, nil
	case m.fieldIndex == fieldOperator && key.Matches(msg, m.keys.CycleDown):
		m.fields[fieldOperator].SetValue(cycleOperator(m.fields[fieldOperator].Value(), 1))
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.fieldIndex], cmd = m.fields[m.fieldIndex].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.notices) > 0 {
		return m.place(m.renderNotice(m.notices[0]))
	}
	if m.showHelp {
		return m.place(m.renderHelpModal())
	}
	sections := []string{
		m.renderSettings(),
		m.renderTimer(),
		m.renderCalculation(),
		m.renderResults(),
		m.renderFooter(),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.place(content)
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) initFields(f settings.Fields) {
	m.fields = make([]textinput.Model, fieldCount)
	m.fields[fieldNumbers] = newFieldInput(3, f.NumberCount)
	m.fields[fieldRangeLower] = newFieldInput(6, f.RangeLower)
	m.fields[fieldRangeUpper] = newFieldInput(6, f.RangeUpper)
	m.fields[fieldOperator] = newFieldInput(3, f.Operator)
	m.fields[fieldTimeLimit] = newFieldInput(4, f.TimeLimit)
}

func (m *Model) initAnswer() {
	m.answer = textinput.New()
	m.answer.Prompt = ""
	m.answer.Placeholder = "answer"
	m.answer.CharLimit = 24
	m.answer.Width = 12
	m.answer.Cursor.SetMode(cursor.CursorBlink)
}

func newFieldInput(width int, value string) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 12
	input.Width = width
	input.Cursor.SetMode(cursor.CursorBlink)
	input.SetValue(value)
	return input
}

func (m *Model) setFieldIndex(idx int) tea.Cmd {
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	m.fieldIndex = idx
	var cmd tea.Cmd
	for i := range m.fields {
		if i == m.fieldIndex {
			cmd = m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
	return cmd
}

func (m *Model) blurFields() {
	for i := range m.fields {
		m.fields[i].Blur()
	}
}

// flush batches cmd with the commands queued by controller callbacks.
func (m *Model) flush(cmd tea.Cmd) tea.Cmd {
	cmds := m.pending
	m.pending = nil
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) quit() tea.Cmd {
	m.ctrl.AdoptFields()
	if m.store != nil {
		if err := m.store.Save(m.ctrl.Settings()); err != nil {
			logErrf("failed to save settings: %v\n", err)
		}
	}
	return tea.Quit
}

func (m *Model) copyScore() {
	summary := scoreSummary(m.current, m.previous)
	if summary == "" {
		m.status = "No score to copy yet."
		return
	}
	if err := m.writeClipboard(summary); err != nil {
		m.Error("Clipboard", fmt.Sprintf("Could not copy the score: %v", err))
		return
	}
	m.status = "Score copied to clipboard."
}

func scoreSummary(current, previous string) string {
	var parts []string
	if current != "" {
		parts = append(parts, "Current: "+current)
	}
	if previous != "" {
		parts = append(parts, "Previous: "+previous)
	}
	return strings.Join(parts, "  ")
}

func cycleOperator(current string, delta int) string {
	glyphs := model.OperatorGlyphs()
	idx := -1
	for i, g := range glyphs {
		if g == strings.TrimSpace(current) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return glyphs[0]
	}
	idx = (idx + delta + len(glyphs)) % len(glyphs)
	return glyphs[idx]
}

// RawFields implements session.Display.
func (m *Model) RawFields() settings.Fields {
	return settings.Fields{
		NumberCount: m.fields[fieldNumbers].Value(),
		RangeLower:  m.fields[fieldRangeLower].Value(),
		RangeUpper:  m.fields[fieldRangeUpper].Value(),
		Operator:    m.fields[fieldOperator].Value(),
		TimeLimit:   m.fields[fieldTimeLimit].Value(),
	}
}

// DisplayEquation implements session.Display.
func (m *Model) DisplayEquation(operands []int, op model.Operator) {
	m.operands = operands
	m.operator = op
}

// DisplayScore implements session.Display.
func (m *Model) DisplayScore(current, previous string) {
	m.current = current
	m.previous = previous
}

// DisplayTimeRemaining implements session.Display.
func (m *Model) DisplayTimeRemaining(seconds int) {
	m.timeLeft = seconds
}

// SetInputEnabled implements session.Display. Enabling moves focus from the
// settings form to the answer input.
func (m *Model) SetInputEnabled(enabled bool) {
	m.inputEnabled = enabled
	if enabled {
		m.blurFields()
		m.pending = append(m.pending, m.answer.Focus())
		return
	}
	m.answer.Blur()
	m.operands = nil
	m.pending = append(m.pending, m.setFieldIndex(m.fieldIndex))
}

// ClearAnswer implements session.Display.
func (m *Model) ClearAnswer() {
	m.answer.Reset()
}

// Info implements session.Notifier.
func (m *Model) Info(title, message string) {
	m.notices = append(m.notices, notice{title: title, message: message})
}

// Error implements session.Notifier.
func (m *Model) Error(title, message string) {
	m.notices = append(m.notices, notice{title: title, message: message, isError: true})
}

// Schedule implements session.Timer on top of tea.Tick. The callback runs
// inside Update when the tick message arrives.
func (m *Model) Schedule(delay time.Duration, fn func()) {
	m.pending = append(m.pending, tea.Tick(delay, func(time.Time) tea.Msg {
		return tickMsg{fire: fn}
	}))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
