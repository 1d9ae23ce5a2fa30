// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"fmt"

	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/config"
	"github.com/deeparb/deeparb/internal/di"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/managerstore"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	AssetRegistry() *asset.Registry
	ManagerStore() managerstore.Repository
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config        *config.Config
	logger        logger.LoggerInterface
	assetRegistry *asset.Registry
	managerStore  managerstore.Repository
	container     di.Container
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	var assetRegistry *asset.Registry
	switch cfg.Network.Network() {
	case asset.NetworkMainnet:
		assetRegistry = asset.MainnetRegistry()
	case asset.NetworkTestnet:
		assetRegistry = asset.TestnetRegistry()
	default:
		return nil, fmt.Errorf("no asset registry for network %q", cfg.Network.Name)
	}

	store, err := newManagerStore(cfg)
	if err != nil {
		return nil, err
	}

	container := di.NewContainer()

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("assetRegistry", assetRegistry)
	container.Register("managerStore", store)

	return &app{
		config:        cfg,
		logger:        log,
		assetRegistry: assetRegistry,
		managerStore:  store,
		container:     container,
	}, nil
}

func newManagerStore(cfg *config.Config) (managerstore.Repository, error) {
	switch cfg.Store.Driver {
	case "memory":
		return managerstore.NewMemoryStore(), nil
	case "sqlite":
		return managerstore.NewSQLiteStore(cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) AssetRegistry() *asset.Registry {
	return a.assetRegistry
}

func (a *app) ManagerStore() managerstore.Repository {
	return a.managerStore
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	if a.managerStore != nil {
		return a.managerStore.Close()
	}
	return nil
}
