package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuimath/internal/model"
)

var (
	frameStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	activeFrameStyle = frameStyle.Copy().BorderForeground(lipgloss.Color("#C89A3A"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	equationStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	modalStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
)

const modalWidth = 56

func (m *Model) renderSettings() string {
	label := func(idx int, text string) string {
		if !m.inputEnabled && idx == m.fieldIndex {
			return valueStyle.Render(text)
		}
		if m.inputEnabled {
			return mutedStyle.Render(text)
		}
		return labelStyle.Render(text)
	}
	column := func(idx int, text string) string {
		return lipgloss.JoinVertical(lipgloss.Left, label(idx, text), m.fields[idx].View())
	}
	rangeCol := lipgloss.JoinVertical(lipgloss.Left,
		label(m.rangeLabelIndex(), "Range"),
		lipgloss.JoinHorizontal(lipgloss.Top, m.fields[fieldRangeLower].View(), " - ", m.fields[fieldRangeUpper].View()),
	)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		column(fieldNumbers, "Numbers"), "   ",
		rangeCol, "   ",
		column(fieldOperator, "Operator"), "   ",
		column(fieldTimeLimit, "Time limit"),
	)
	style := frameStyle
	if !m.inputEnabled {
		style = activeFrameStyle
	}
	return style.Render(titleStyle.Render("Settings") + "\n" + row)
}

func (m *Model) rangeLabelIndex() int {
	if m.fieldIndex == fieldRangeUpper {
		return fieldRangeUpper
	}
	return fieldRangeLower
}

func (m *Model) renderTimer() string {
	if !m.inputEnabled {
		return footerStyle.Render("Time left: -")
	}
	if m.ctrl.Settings().TimeLimit() == 0 {
		return footerStyle.Render("Time left: no limit")
	}
	return labelStyle.Render("Time left: ") + valueStyle.Render(strconv.Itoa(m.timeLeft))
}

func (m *Model) renderCalculation() string {
	body := footerStyle.Render("Press enter to start.")
	if m.inputEnabled && len(m.operands) > 0 {
		s := m.ctrl.Settings()
		width := operandWidth(s.RangeLower(), s.RangeUpper())
		body = equationStyle.Render(renderEquation(m.operands, m.operator, width)) + " " + m.answer.View()
	}
	style := frameStyle
	if m.inputEnabled {
		style = activeFrameStyle
	}
	return style.Render(titleStyle.Render("Calculation") + "\n" + body)
}

func (m *Model) renderResults() string {
	current := m.current
	if current == "" {
		current = "-"
	}
	previous := m.previous
	if previous == "" {
		previous = "-"
	}
	line := labelStyle.Render("Current ") + valueStyle.Render(current) +
		"    " + labelStyle.Render("Previous ") + valueStyle.Render(previous)
	return frameStyle.Render(titleStyle.Render("Results") + "\n" + line)
}

func (m *Model) renderFooter() string {
	bindings := m.keys.stoppedHelp()
	if m.inputEnabled {
		bindings = m.keys.runningHelp()
	}
	footer := m.help.ShortHelpView(bindings)
	if m.status != "" {
		footer = footerStyle.Render(m.status) + "\n" + footer
	}
	return footer
}

func (m *Model) renderNotice(n notice) string {
	title := valueStyle.Render(n.title)
	if n.isError {
		title = errorStyle.Render(n.title)
	}
	body := []string{
		title,
		"",
		n.message,
		"",
		footerStyle.Render(m.help.ShortHelpView([]key.Binding{m.keys.Dismiss})),
	}
	return modalStyle.Width(modalWidth).Render(strings.Join(body, "\n"))
}

func (m *Model) renderHelpModal() string {
	body := []string{
		valueStyle.Render("Help"),
		"",
		helpText(m.limits),
		"",
		footerStyle.Render("Press any key to return."),
	}
	return modalStyle.Width(modalWidth + 10).Render(strings.Join(body, "\n"))
}

func helpText(limits model.Limits) string {
	return fmt.Sprintf(`This program is for training mental arithmetic.

Numbers: how many numbers are in the calculation (2-%d).

Range: the numbers are drawn at random from this range (0-%d).

Operator: the calculation method, one of %s. Use up/down on the field to switch.

Time limit: session length in seconds. 0 disables the timer (0-%d).

When the session is running, type the answer and press enter to submit it and move on to the next one. Pressing enter with an empty answer skips. The session runs until you press esc or the timer runs out.

Your current and previous scores are shown at the bottom.`,
		limits.MaxNumbers,
		limits.RangeLimit,
		strings.Join(model.OperatorGlyphs(), " "),
		limits.MaxTimeLimit-1,
	)
}

// renderEquation lays out "a op b op c =" with every operand right-aligned
// to width cells.
func renderEquation(operands []int, op model.Operator, width int) string {
	var b strings.Builder
	for i, v := range operands {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(op.Glyph())
			b.WriteByte(' ')
		}
		b.WriteString(runewidth.FillLeft(strconv.Itoa(v), width))
	}
	b.WriteString(" =")
	return b.String()
}

func operandWidth(lower, upper int) int {
	w := runewidth.StringWidth(strconv.Itoa(upper))
	if lw := runewidth.StringWidth(strconv.Itoa(lower)); lw > w {
		w = lw
	}
	return w
}
