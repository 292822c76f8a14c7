// Package container provides dependency injection for the reconciliation
// engine. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/batch"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/camtparser"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/common"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/config"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconciler"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/store"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/store/sqlite"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      store.Store
	registry   *reconciler.Registry
	camtParser *camtparser.Parser
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	if cfg.CSV.Delimiter != "" {
		common.SetDelimiter(cfg.DelimiterRune())
	}

	st, err := newStore(cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	deps := reconciler.Dependencies{
		Loader:                st,
		IDs:                   reconciler.UUIDGenerator{},
		Logger:                logger,
		BackfillThresholdDays: cfg.Reconciliation.BackfillThresholdDays,
	}
	registry, err := reconciler.BuildRegistry(deps, cfg.Reconciliation.DefaultAlgorithm, cfg.ProviderSpecs())
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to build strategy registry: %w", err)
	}

	camtParser, err := camtparser.NewParser(logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldStore, cfg.Store.Driver),
		logging.F("providers_count", len(registry.Providers())),
		logging.F("default_strategy", registry.Default().Name()))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      st,
		registry:   registry,
		camtParser: camtParser,
	}, nil
}

func newStore(cfg config.StoreConfig, logger logging.Logger) (store.Store, error) {
	switch cfg.Driver {
	case store.DriverMemory:
		return store.NewMemoryStore(), nil
	case store.DriverCSV:
		return store.NewCSVStore(cfg.Path, logger), nil
	case store.DriverSQLite:
		st, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

// NewProcessor returns a batch processor applying to the configured store,
// or only computing instructions when dryRun is set.
func (c *Container) NewProcessor(dryRun bool) *batch.Processor {
	return batch.NewProcessor(c.registry, c.store, c.logger, dryRun)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the transaction store.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetRegistry returns the provider strategy registry.
func (c *Container) GetRegistry() *reconciler.Registry {
	return c.registry
}

// GetCAMTParser returns the CAMT.053 parser.
func (c *Container) GetCAMTParser() *camtparser.Parser {
	return c.camtParser
}

// Close releases the store.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return c.store.Close()
}
