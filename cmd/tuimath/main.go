// Package main provides the CLI entrypoint for tuimath.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuimath/internal/config"
	"github.com/verte-zerg/tuimath/internal/generator"
	"github.com/verte-zerg/tuimath/internal/model"
	"github.com/verte-zerg/tuimath/internal/settings"
	"github.com/verte-zerg/tuimath/internal/store"
	"github.com/verte-zerg/tuimath/internal/tui"
)

var (
	settingsFile string
	maxNumbers   int
	rangeLimit   int
	maxTimeLimit int

	settingsReset bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultLimits()
	rootCmd := &cobra.Command{
		Use:           "tuimath",
		Short:         "TUI mental arithmetic trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings-file", "", "settings record path (default: XDG config dir)")
	rootCmd.PersistentFlags().IntVar(&maxNumbers, "max-numbers", defaults.MaxNumbers, "maximum numbers per calculation")
	rootCmd.PersistentFlags().IntVar(&rangeLimit, "range-limit", defaults.RangeLimit, "largest allowed number")
	rootCmd.PersistentFlags().IntVar(&maxTimeLimit, "max-time-limit", defaults.MaxTimeLimit, "time limit upper bound (exclusive, seconds)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSettingsCmd())

	return rootCmd
}

type runtimeConfig struct {
	limits       model.Limits
	settingsPath string
}

func loadRuntimeConfig(cmd *cobra.Command) (runtimeConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return runtimeConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "max-numbers", &maxNumbers, fileCfg.Limits.MaxNumbers)
	applyIntConfig(cmd, "range-limit", &rangeLimit, fileCfg.Limits.RangeLimit)
	applyIntConfig(cmd, "max-time-limit", &maxTimeLimit, fileCfg.Limits.MaxTimeLimit)
	applyStringConfig(cmd, "settings-file", &settingsFile, fileCfg.Files.Settings)

	limits := model.Limits{
		MaxNumbers:   maxNumbers,
		RangeLimit:   rangeLimit,
		MaxTimeLimit: maxTimeLimit,
	}
	if err := limits.Validate(); err != nil {
		return runtimeConfig{}, fmt.Errorf("invalid limits: %w", err)
	}
	path := strings.TrimSpace(settingsFile)
	if path == "" {
		path = config.DefaultSettingsPath()
	}
	return runtimeConfig{limits: limits, settingsPath: path}, nil
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	rc, err := loadRuntimeConfig(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tuimath needs an interactive terminal")
	}

	st := store.New(rc.settingsPath)
	fields, notice, err := st.LoadOrReset()
	if err != nil {
		logErrf("failed to write default settings: %v\n", err)
	}
	initial, err := settings.Validate(fields, rc.limits)
	if err != nil {
		initial = settings.Defaults()
	}

	m := tui.NewModel(st, generator.New(), rc.limits, fields, initial, notice)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or reset the stored drill settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.Flags().BoolVar(&settingsReset, "reset", false, "overwrite the stored settings with the defaults")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	rc, err := loadRuntimeConfig(cmd)
	if err != nil {
		return err
	}
	st := store.New(rc.settingsPath)
	out := cmd.OutOrStdout()
	if settingsReset {
		if err := st.Reset(); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		if _, err := fmt.Fprintf(out, "Wrote default settings to %s\n", st.Path()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	fields, err := st.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logErrf("No settings stored yet at %s. Run tuimath once or use --reset.\n", st.Path())
		}
		return fmt.Errorf("failed to load settings: %w", err)
	}
	return writeSettings(out, st.Path(), fields, rc.limits)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := model.DefaultLimits()
	return fmt.Sprintf(`# tuimath configuration
# Uncomment a value to enable it. CLI flags override config values.

[limits]
# max-numbers = %d        # Maximum numbers per calculation
# range-limit = %d     # Largest number that may be drawn
# max-time-limit = %d   # Time limit upper bound in seconds (exclusive)

[files]
# settings = %q
`,
		defaults.MaxNumbers,
		defaults.RangeLimit,
		defaults.MaxTimeLimit,
		config.DefaultSettingsPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
