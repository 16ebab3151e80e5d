// Package store persists the drill settings record.
//
// The record is a text file of `name;value` lines:
//
//	numbercount;2
//	range_lower;0
//	range_upper;20
//	operator;+
//	time_limit;120
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/tuimath/internal/settings"
)

// Record keys, in the order they are written.
const (
	KeyNumberCount = "numbercount"
	KeyRangeLower  = "range_lower"
	KeyRangeUpper  = "range_upper"
	KeyOperator    = "operator"
	KeyTimeLimit   = "time_limit"
)

var (
	// ErrNotFound is returned when the record file is missing or unreadable.
	ErrNotFound = errors.New("settings file not found")
	// ErrFaulty is returned when the record file cannot be parsed.
	ErrFaulty = errors.New("settings file is faulty")
)

const (
	notFoundNotice = "The configuration file was not found or could not be accessed. A new one will be created.\nIf this is the first time you're launching the program, this is supposed to happen."
	faultyNotice   = "The configuration file is faulty.\nCreating a new default file."
)

// Store reads and writes the settings record at a fixed path.
type Store struct {
	path string
}

// New returns a Store for the record at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the record location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the record. Values are returned unvalidated; only the numeric
// keys are required to parse as integers.
func (s *Store) Load() (settings.Fields, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return settings.Fields{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only record.
			_ = cerr
		}
	}()

	values := map[string]string{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ";")
		if !ok {
			return settings.Fields{}, fmt.Errorf("%w: line %d has no separator", ErrFaulty, lineNo)
		}
		values[name] = value
	}
	if err := scanner.Err(); err != nil {
		return settings.Fields{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	for _, key := range []string{KeyNumberCount, KeyRangeLower, KeyRangeUpper, KeyOperator, KeyTimeLimit} {
		v, ok := values[key]
		if !ok {
			return settings.Fields{}, fmt.Errorf("%w: missing %s", ErrFaulty, key)
		}
		if key == KeyOperator {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return settings.Fields{}, fmt.Errorf("%w: %s is not an integer", ErrFaulty, key)
		}
	}

	return settings.Fields{
		NumberCount: strings.TrimSpace(values[KeyNumberCount]),
		RangeLower:  strings.TrimSpace(values[KeyRangeLower]),
		RangeUpper:  strings.TrimSpace(values[KeyRangeUpper]),
		Operator:    values[KeyOperator],
		TimeLimit:   strings.TrimSpace(values[KeyTimeLimit]),
	}, nil
}

// LoadOrReset loads the record, falling back to the defaults when it is
// missing or faulty. In that case the file is rewritten with the defaults and
// notice holds the text to show the user. err is only set when the rewrite
// fails; the returned fields are usable either way.
func (s *Store) LoadOrReset() (fields settings.Fields, notice string, err error) {
	fields, loadErr := s.Load()
	if loadErr == nil {
		return fields, "", nil
	}
	notice = faultyNotice
	if errors.Is(loadErr, ErrNotFound) {
		notice = notFoundNotice
	}
	if err := s.Reset(); err != nil {
		return settings.Defaults().Fields(), notice, err
	}
	return settings.Defaults().Fields(), notice, nil
}

// Reset overwrites the record with the default settings.
func (s *Store) Reset() error {
	return s.Save(settings.Defaults())
}

// Save overwrites the record with st.
func (s *Store) Save(st settings.Settings) error {
	return s.writeFields(st.Fields())
}

func (s *Store) writeFields(f settings.Fields) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "settings-*.cfg")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	lines := [][2]string{
		{KeyNumberCount, f.NumberCount},
		{KeyRangeLower, f.RangeLower},
		{KeyRangeUpper, f.RangeUpper},
		{KeyOperator, f.Operator},
		{KeyTimeLimit, f.TimeLimit},
	}
	writer := bufio.NewWriter(tmpFile)
	for _, kv := range lines {
		if _, err := fmt.Fprintf(writer, "%s;%s\n", kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush settings: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close settings: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
