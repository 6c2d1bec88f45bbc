package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/turnip-editor/turnip/internal/config"
	"github.com/turnip-editor/turnip/internal/event"
	"github.com/turnip-editor/turnip/internal/fileio"
	"github.com/turnip-editor/turnip/internal/logging"
	"github.com/turnip-editor/turnip/internal/session"
	"github.com/turnip-editor/turnip/internal/tabs"
	"github.com/turnip-editor/turnip/internal/tui"
	"github.com/turnip-editor/turnip/internal/watcher"
)

var rootCmd = &cobra.Command{
	Use:   "turnip [file|group.tabs]",
	Short: "Terminal text editor with pinned tabs and tab groups",
	Long: `Turnip is a terminal text editor organized around tabs.
Tabs can be pinned to keep them at the front of the tab strip, and the
whole set can be saved to a .tabs group file and restored later.

With no argument the previous auto-session is restored. A .tabs argument
loads that group; any other argument is opened as a file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEditor,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/turnip/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/turnip")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TURNIP")
	// TURNIP_LIMITS_SOFT_LIMIT_MB for limits.soft_limit_mb, and so on
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	sessionDir := cfg.Session.ResolveSessionDir()

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(sessionDir, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
	}
	defer func() { _ = logger.Close() }()

	startupPath := ""
	if len(args) > 0 {
		startupPath = args[0]
	}

	// A group on an unreachable network mount should fail fast here, not
	// hang the TUI on its first read.
	if startupPath != "" {
		probe := fileio.NewMountProbe()
		if probe.IsNetworkPath(startupPath) {
			ctx, cancel := context.WithTimeout(cmd.Context(), fileio.DefaultReachTimeout)
			err := probe.CheckReachable(ctx, startupPath)
			cancel()
			if err != nil {
				return err
			}
		}
	}

	bus := event.NewBus()
	store := tabs.NewStore(bus)
	manager := session.NewManager(store, bus)
	loader := &fileio.Loader{
		SoftLimit: cfg.Limits.SoftLimit(),
		HardLimit: cfg.Limits.HardLimit(),
	}

	w, err := watcher.New(bus, cfg.Watcher.Debounce())
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	states, err := session.NewStateStore(config.ConfigDir())
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	state, err := states.Load()
	if err != nil {
		logger.Warn("could not load state, starting fresh", "error", err.Error())
		state = session.DefaultState()
	}
	state.PruneRecentGroups()

	// Track recently used groups as the editor loads and saves them
	bus.Subscribe("session.loaded", func(e event.Event) {
		if ev, ok := e.(event.SessionLoadedEvent); ok && ev.File != "" {
			state.AddRecentGroup(ev.File)
		}
	})
	bus.Subscribe("session.saved", func(e event.Event) {
		if ev, ok := e.(event.SessionSavedEvent); ok && ev.File != "" {
			state.AddRecentGroup(ev.File)
		}
	})
	bus.Subscribe("tab.opened", func(e event.Event) {
		if ev, ok := e.(event.TabOpenedEvent); ok && ev.Path != "" {
			state.LastFolder = filepath.Dir(ev.Path)
		}
	})

	app := tui.New(store, manager, loader, w, cfg, logger, bus, startupPath)
	runErr := app.Run()

	if cfg.Session.AutoSession {
		if err := manager.AutoSave(sessionDir); err != nil {
			logger.Error("auto-session save failed", "error", err.Error())
		}
	}
	if err := states.Save(state); err != nil {
		logger.Error("state save failed", "error", err.Error())
	}

	if runErr != nil {
		return fmt.Errorf("editor error: %w", runErr)
	}
	return nil
}
