// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/config"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/container"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/store"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile  string
	LogLevel    string
	StoreDriver string
	StorePath   string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for the running command
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "txrecon",
		Short: "A CLI tool to reconcile provider transaction batches against stored transactions.",
		Long: `txrecon reconciles the transactions a bank or provider reports for an account
against the transactions stored by previous runs. Every account yields an
instruction listing what to insert, update and delete.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to txrecon!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Shutdown()
		},
	}

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}
)

var defaultStorePaths = map[string]string{
	store.DriverCSV:    "transactions.csv",
	store.DriverSQLite: "transactions.db",
}

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	if flags.Lookup("config") != nil {
		return
	}
	flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default is config.yaml in $HOME/.txrecon, .txrecon or .)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	flags.StringVar(&SharedFlags.StoreDriver, "driver", "", "Store driver: memory, csv or sqlite")
	flags.StringVar(&SharedFlags.StorePath, "store", "", "Store file path")
}

// Initialize loads .env and configuration, then wires the container.
func Initialize() error {
	if _, err := config.LoadEnv(Log); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	ApplyOverrides(cfg, SharedFlags)

	logrusLogger := config.ConfigureLoggingFromConfig(cfg)
	logging.SetDefaultLogger(logrusLogger)
	Log = logging.NewLogrusAdapterFromLogger(logrusLogger)

	c, err := container.NewContainerWithLogger(cfg, Log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

// ApplyOverrides lets command line flags win over the loaded configuration.
// Switching driver without a path picks that driver's default file.
func ApplyOverrides(cfg *config.Config, flags CommonFlags) {
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.StoreDriver != "" && flags.StoreDriver != cfg.Store.Driver {
		cfg.Store.Driver = flags.StoreDriver
		cfg.Store.Path = defaultStorePaths[flags.StoreDriver]
	}
	if flags.StorePath != "" {
		cfg.Store.Path = flags.StorePath
	}
}

// Shutdown closes the container opened by Initialize.
func Shutdown() {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.Close(); err != nil {
		Log.Warn("Failed to close store", logging.F(logging.FieldError, err.Error()))
	}
	AppContainer = nil
}

// GetLogger returns the shared command logger.
func GetLogger() logging.Logger {
	return Log
}

// GetContainer returns the application container, nil before Initialize.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, nil before Initialize.
func GetConfig() *config.Config {
	return AppConfig
}
