package cli

import (
	"fmt"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/localstore"
	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "TaskDeck - terminal project-management dashboard",
	Long: `TaskDeck is a terminal dashboard for managing projects and their
tasks, backed by a simulated data service.

Run 'taskdeck' without arguments to launch the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.Config{
			Level:    logger.ParseLevel(cfg.LogLevel),
			FilePath: cfg.LogFile,
			MaxSize:  10 * 1024 * 1024, // 10MB
			Console:  cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("TaskDeck started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage()
		if err != nil {
			logger.Error("Failed to open local storage", logger.F("error", err))
			return fmt.Errorf("failed to open local storage: %w", err)
		}
		defer func() {
			_ = storage.Close()
		}()

		st := store.New(newService(), storage)

		logger.Info("Launching dashboard")
		m := tui.NewModel(st, storage)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run dashboard: %w", err)
		}

		logger.Info("Dashboard exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("TaskDeck exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// openStorage opens the configured local storage database
func openStorage() (*localstore.Store, error) {
	if cfg != nil && cfg.DataFile != "" {
		return localstore.Open(cfg.DataFile)
	}
	return localstore.OpenDefault()
}

// newService builds the data service with the configured latency scale
// and toggle failure rate
func newService() *api.Mock {
	opts := []api.Option{
		api.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	if cfg != nil {
		opts = append(opts, api.WithToggleFailRate(cfg.MockFailRate))
		l := api.DefaultLatency()
		l.List = scale(l.List, cfg.MockLatencyScale)
		l.Save = scale(l.Save, cfg.MockLatencyScale)
		l.Task = scale(l.Task, cfg.MockLatencyScale)
		l.Toggle = scale(l.Toggle, cfg.MockLatencyScale)
		l.Login = scale(l.Login, cfg.MockLatencyScale)
		opts = append(opts, api.WithLatency(l))
	}
	return api.NewMock(opts...)
}

func scale(d time.Duration, factor float64) time.Duration {
	if factor < 0 {
		return d
	}
	return time.Duration(float64(d) * factor)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(listCmd)
}
