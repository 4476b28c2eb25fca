package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-component-cache/internal/cache"
	"go-component-cache/internal/cache/service"
	"go-component-cache/internal/cache/ttl"
	"go-component-cache/internal/config"
	"go-component-cache/internal/httpserver"
	"go-component-cache/internal/interfaces"
	"go-component-cache/internal/limiter"
	"go-component-cache/internal/metrics"
	"go-component-cache/internal/models"
	"go-component-cache/internal/periodictask"
	"go-component-cache/internal/renderer"
)

// CompositionRoot holds all application dependencies and wires them together
// in one place.
type CompositionRoot struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger

	// Cache components
	ComponentCache *ttl.Cache[models.CacheKey, models.Component]
	KeyBuilder     interfaces.KeyBuilder
	Limiter        *limiter.Limiter
	Generator      *renderer.Renderer

	// Services
	ComponentService *service.ComponentService
	Sweeper          *periodictask.PeriodicTask
	HTTPServer       *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Environment file and configuration
// 3. Cache components (TTL cache, KeyBuilder, Limiter)
// 4. Generator
// 5. Services (ComponentService, expired entry sweeper)
// 6. HTTP Server
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	root.loadEnv()

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initCacheComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	if err := root.initGenerator(); err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	root.initServices()
	root.initHTTPServer()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadEnv reads an optional dotenv file into the process environment
func (r *CompositionRoot) loadEnv() {
	envPath := os.Getenv("COMPONENT_CACHE_ENV_FILE")
	if envPath == "" {
		envPath = ".env"
	}

	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		r.Logger.Warn("Failed to load env file", zap.String("path", envPath), zap.Error(err))
		return
	}
	r.Logger.Info("Loaded env file", zap.String("path", envPath))
}

// loadConfig loads the application configuration. A missing file falls back to defaults.
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("CACHE_CONFIG_FILE")
	if configPath == "" {
		configPath = "/app/component_cache.yaml"
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		r.Logger.Warn("Config file not found, using defaults", zap.String("path", configPath))
		cfg = config.Default()
	}

	applyEnvOverrides(cfg, r.Logger)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	r.Config = cfg
	return nil
}

// initCacheComponents initializes the TTL cache, key builder and generation limiter
func (r *CompositionRoot) initCacheComponents() error {
	componentCache, err := ttl.New[models.CacheKey, models.Component](
		r.Config.Cache.MaxSize,
		r.Config.Cache.TTL(),
		ttl.WithRemovalListener(func(reason ttl.Reason) {
			metrics.RecordCacheRemoval(reason.String())
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create component cache: %w", err)
	}
	r.ComponentCache = componentCache
	metrics.UpdateCacheSize(0, r.Config.Cache.MaxSize)

	r.KeyBuilder = cache.NewKeyBuilder(r.Config.Catalog.Components, r.Config.Catalog.Languages)

	lim, err := limiter.New(
		int64(r.Config.Limiter.MaxConcurrentGenerations),
		r.Config.Limiter.AdmissionTimeout(),
		r.Logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create generation limiter: %w", err)
	}
	r.Limiter = lim

	r.Logger.Info("Component cache initialized",
		zap.Int("max_size", r.Config.Cache.MaxSize),
		zap.Duration("ttl", r.Config.Cache.TTL()),
		zap.Int("max_concurrent_generations", r.Config.Limiter.MaxConcurrentGenerations),
		zap.Duration("admission_timeout", r.Config.Limiter.AdmissionTimeout()))
	return nil
}

// initGenerator creates the template renderer and checks it covers the catalog
func (r *CompositionRoot) initGenerator() error {
	r.Generator = renderer.New(r.Config.Catalog.FallbackLanguage, r.Logger)

	for _, componentType := range r.Config.Catalog.Components {
		if !r.Generator.Supports(componentType) {
			return fmt.Errorf("no template for catalog component %q", componentType)
		}
	}
	return nil
}

// initServices initializes the component service and the expired entry sweeper
func (r *CompositionRoot) initServices() {
	r.ComponentService = service.NewComponentService(
		r.KeyBuilder,
		r.ComponentCache,
		r.Limiter,
		r.Generator,
		r.Logger,
	)

	r.Sweeper = periodictask.New("expired-component-sweeper", r.Config.Cache.SweepInterval(), func(ctx context.Context) {
		if purged := r.ComponentCache.Purge(); purged > 0 {
			r.Logger.Debug("Purged expired components", zap.Int("count", purged))
		}
		r.ComponentService.UpdateCacheMetrics()
	}, r.Logger, periodictask.WithRunOnStart())
}

// initHTTPServer initializes the HTTP server
func (r *CompositionRoot) initHTTPServer() {
	r.HTTPServer = httpserver.NewServer(
		r.ComponentService,
		r.Config.Catalog.FallbackLanguage,
		r.Logger,
	)
}

// GetListenAddr returns the address the HTTP server binds to
func (r *CompositionRoot) GetListenAddr() string {
	return r.Config.Server.ListenAddr
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	if r.Sweeper != nil {
		r.Sweeper.Stop()
	}

	if r.Logger != nil {
		// Sync returns EINVAL/ENOTTY on stderr in most terminals
		_ = r.Logger.Sync()
	}
	return nil
}
