// Package main is the entry point for the oficina console, a terminal client
// for the workshop's mechanics, clients and vehicle checklist records.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/normanking/oficina/internal/config"
	"github.com/normanking/oficina/internal/logging"
	"github.com/normanking/oficina/internal/pointer"
	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/session"
	"github.com/normanking/oficina/internal/storage"
	"github.com/normanking/oficina/internal/tui"
	"github.com/normanking/oficina/internal/tui/styles"
)

var (
	version = "0.1.0"
	cfgPath string
	dbPath  string
	verbose bool
	noColor bool
	cfg     *config.Config
	log     *logging.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oficina",
		Short: "Oficina - console for the workshop records",
		Long: `Oficina lists the workshop's mechanics, clients and checklist parts.

Start interactive mode:  oficina
Sign in:                 oficina session login <token>
Load records:            oficina seed fixtures.json
Configuration:           oficina config show`,
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
		RunE:              runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.oficina/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default ~/.oficina/oficina.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Oficina v%s\n", version)
		},
	})

	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(findCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogging(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	var logCfg *logging.Config
	if verbose {
		logCfg = logging.VerboseConfig()
	} else {
		logCfg = logging.DefaultConfig()
		logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	}
	logCfg.FilePath = cfg.Logging.File
	logCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
	logCfg.MaxBackups = cfg.Logging.MaxBackups
	logCfg.Colored = !noColor

	log = logging.New(logCfg)
	logging.SetGlobal(log)

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	log.Debug("config path: %s", configPath())
	log.Debug("database: %s", cfg.Store.DBPath)
	return nil
}

func configPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultPath()
}

func loadConfig() (*config.Config, error) {
	c, err := config.LoadFromPath(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		c.Store.DBPath = dbPath
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.EnsureDirectories(); err != nil {
		return nil, err
	}
	return c, nil
}

func openStore() (*storage.Store, error) {
	store, err := storage.NewStoreWithPath(cfg.Store.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func newSession() *session.Manager {
	return session.NewManager(
		session.NewKeyringStore(cfg.Session.KeyringService, cfg.Session.KeyringAccount),
		session.WithClockSkew(cfg.Session.ClockSkew),
	)
}

func runTUI(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	mgr := newSession()
	if err := mgr.Restore(); err != nil {
		log.Warn("restore session: %v", err)
	}

	styles.ApplyTheme(cfg.TUI.Theme)

	app := tui.NewApp(tui.Options{
		Session:     mgr,
		Catalog:     service.NewCatalog(store),
		Hub:         pointer.Default(),
		Theme:       cfg.TUI.Theme,
		Placeholder: cfg.TUI.Placeholder,
		PopupHeight: cfg.TUI.PopupHeight,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.TUI.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}

	// the alt screen owns the terminal; keep logs in the file only
	logging.DisableConsoleOutput()
	defer logging.EnableConsoleOutput()

	log.Info("console started")
	final, err := tea.NewProgram(app, opts...).Run()
	if a, ok := final.(tui.App); ok {
		a.Close()
	}
	if err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}
