package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuimath/internal/model"
	"github.com/verte-zerg/tuimath/internal/settings"
	"github.com/verte-zerg/tuimath/internal/store"
)

func writeSettings(w io.Writer, path string, fields settings.Fields, limits model.Limits) error {
	rows := [][]string{
		{store.KeyNumberCount, fields.NumberCount, fmt.Sprintf("2-%d", limits.MaxNumbers)},
		{store.KeyRangeLower, fields.RangeLower, fmt.Sprintf("0-%d", limits.RangeLimit)},
		{store.KeyRangeUpper, fields.RangeUpper, fmt.Sprintf("0-%d", limits.RangeLimit)},
		{store.KeyOperator, fields.Operator, strings.Join(model.OperatorGlyphs(), " ")},
		{store.KeyTimeLimit, fields.TimeLimit, fmt.Sprintf("0-%d", limits.MaxTimeLimit-1)},
	}
	lines := []string{fmt.Sprintf("Settings (%s)", path)}
	lines = append(lines, formatTable([]string{"Key", "Value", "Allowed"}, rows, map[int]bool{1: true})...)

	_, err := settings.Validate(fields, limits)
	var verr *settings.ValidationError
	switch {
	case err == nil:
		lines = append(lines, "", "Status: valid")
	case errors.As(err, &verr):
		lines = append(lines, "", "Status: invalid")
		for _, p := range verr.Problems {
			lines = append(lines, "  "+p)
		}
	default:
		return err
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		if rightAlignCols[i] {
			b.WriteString(runewidth.FillLeft(cell, widths[i]))
		} else {
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
	}
	return strings.TrimRight(b.String(), " ")
}
