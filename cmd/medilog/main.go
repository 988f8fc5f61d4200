// Package main provides the CLI entrypoint for medilog.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/medilog/internal/config"
	"github.com/verte-zerg/medilog/internal/model"
	"github.com/verte-zerg/medilog/internal/record"
	"github.com/verte-zerg/medilog/internal/recordstore"
	"github.com/verte-zerg/medilog/internal/stats"
	"github.com/verte-zerg/medilog/internal/statsui"
	"github.com/verte-zerg/medilog/internal/tui"
	"github.com/verte-zerg/medilog/internal/watch"
)

const (
	defaultHistoryLast = 4
	defaultActivity    = 14
	atLayout           = "2006-01-02 15:04"
)

var (
	configPath string
	storeFlags storeOptions
	logLevel   string

	sessionCategory string
	sessionSpeaker  string
	sessionMinutes  int

	addDuration time.Duration
	addAt       string

	statsSince    string
	statsLast     int
	statsCategory string
	statsSpeaker  string
	statsDays     int
	statsPlain    bool

	historyLast int

	resetYes bool
)

// now is replaced in tests.
var now = time.Now

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "medilog",
		Short:         "Terminal meditation timer and journal",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTimerCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/medilog/config.toml)")
	pf.StringVar(&storeFlags.backend, "store", "", "store backend: sqlite, badger, redis, file, memory (default: sqlite)")
	pf.StringVar(&storeFlags.path, "store-path", "", "database file or directory for the store backend")
	pf.StringVar(&storeFlags.key, "store-key", recordstore.DefaultKey, "key the history is stored under")
	pf.StringVar(&storeFlags.redisAddr, "redis-addr", "", "redis address (host:port)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")

	rootCmd.Flags().StringVar(&sessionCategory, "category", "", "session category")
	rootCmd.Flags().StringVar(&sessionSpeaker, "speaker", "", "session speaker or guide")
	rootCmd.Flags().IntVar(&sessionMinutes, "minutes", 0, "target length in minutes, 0 for open-ended")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "category", &sessionCategory, fileCfg.Session.Category)
	applyStringConfig(cmd, "speaker", &sessionSpeaker, fileCfg.Session.Speaker)
	applyIntConfig(cmd, "minutes", &sessionMinutes, fileCfg.Session.Minutes)
	if sessionMinutes < 0 {
		return fmt.Errorf("--minutes must not be negative")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the timer needs an interactive terminal; use `medilog add` to log a session")
	}

	app, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	cfg := model.SessionConfig{
		Category: sessionCategory,
		Speaker:  sessionSpeaker,
		Target:   time.Duration(sessionMinutes) * time.Minute,
	}
	timer := tui.NewModel(cfg, app.records, now)
	timer.SetLogger(app.component("timer"))
	program := tea.NewProgram(timer, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run timer: %w", err)
	}
	if n := timer.Saved(); n > 0 {
		app.logger.Info().Int("sessions", n).Msg("timer sessions saved")
	}
	return nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a finished session",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	cmd.Flags().DurationVar(&addDuration, "duration", 0, "session length, e.g. 20m or 1h5m")
	cmd.Flags().StringVar(&sessionCategory, "category", "", "session category")
	cmd.Flags().StringVar(&sessionSpeaker, "speaker", "", "session speaker or guide")
	cmd.Flags().StringVar(&addAt, "at", "", "start time in local time (YYYY-MM-DD HH:MM, default: now minus duration)")
	return cmd
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "category", &sessionCategory, fileCfg.Session.Category)
	applyStringConfig(cmd, "speaker", &sessionSpeaker, fileCfg.Session.Speaker)

	startedAt := now().Add(-addDuration)
	if addAt != "" {
		parsed, err := time.ParseInLocation(atLayout, addAt, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at value (expected %q): %w", atLayout, err)
		}
		startedAt = parsed
	}

	b := record.NewBuilder().
		DatetimeAt(startedAt).
		Category(sessionCategory).
		Speaker(sessionSpeaker)
	if cmd.Flags().Changed("duration") {
		b.Duration(int64(addDuration / time.Second))
	}
	rec, err := b.Build()
	if err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	app, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	app.records.Append(commandContext(cmd), rec)
	if app.failure != nil {
		return fmt.Errorf("failed to save session: %w", app.failure)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s of %s with %s\n",
		stats.FormatSeconds(float64(rec.Duration())), rec.Category(), rec.Speaker())
	return err
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().StringVar(&statsCategory, "category", "", "category filter, glob patterns allowed")
	cmd.Flags().StringVar(&statsSpeaker, "speaker", "", "speaker filter, glob patterns allowed")
	cmd.Flags().IntVar(&statsDays, "days", defaultActivity, "days shown in the activity sparkline")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	app, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	if statsPlain || !isTerminal(cmd) {
		return renderPlainStats(cmd, app.records, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(app.records, cfg, now), tea.WithAltScreen())
	if dir := app.watchDir(); dir != "" {
		w, err := watch.Start(commandContext(cmd), dir, watch.DefaultDebounce, func() {
			program.Send(statsui.RefreshMsg{})
		}, app.component("watch"))
		if err != nil {
			app.logger.Warn().Err(err).Msg("live refresh disabled")
		} else {
			defer func() {
				_ = w.Close()
			}()
		}
	}
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must not be negative")
	}
	if statsDays < 1 {
		return model.StatsConfig{}, fmt.Errorf("--days must be at least 1")
	}
	return model.StatsConfig{
		Since:    sinceTime,
		Last:     statsLast,
		Category: statsCategory,
		Speaker:  statsSpeaker,
		Days:     statsDays,
	}, nil
}

func renderPlainStats(cmd *cobra.Command, src stats.Source, cfg model.StatsConfig) error {
	report := stats.BuildReport(commandContext(cmd), src, cfg, now())
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRanking(out, "Categories", report.Categories); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRanking(out, "Speakers", report.Speakers); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sessions, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "number of sessions to show, 0 for all")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must not be negative")
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	app, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	records := app.records.ReadAll(commandContext(cmd))
	if err := stats.RenderHistory(cmd.OutOrStdout(), records, historyLast, time.Local); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the whole meditation history",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to delete history without --yes")
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	app, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.records.Clear(commandContext(cmd)); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted history under %q\n", app.records.Key())
	return err
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
	path := resolvedConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
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

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadFileConfig() (config.FileConfig, error) {
	cfg, err := config.LoadConfig(resolvedConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
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
