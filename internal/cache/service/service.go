package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"go-component-cache/internal/coalescer"
	"go-component-cache/internal/interfaces"
	"go-component-cache/internal/metrics"
	"go-component-cache/internal/models"
)

// ComponentService serves localized components through the cache, the coalescer and
// the generation limiter
type ComponentService struct {
	keyBuilder interfaces.KeyBuilder
	cache      interfaces.Cache[models.CacheKey, models.Component]
	limiter    interfaces.Limiter
	coalescer  *coalescer.Coalescer[models.Component]
	generator  interfaces.Generator
	logger     *zap.Logger
}

// NewComponentService creates a new component service instance
func NewComponentService(
	keyBuilder interfaces.KeyBuilder,
	cache interfaces.Cache[models.CacheKey, models.Component],
	limiter interfaces.Limiter,
	generator interfaces.Generator,
	logger *zap.Logger,
) *ComponentService {
	return &ComponentService{
		keyBuilder: keyBuilder,
		cache:      cache,
		limiter:    limiter,
		coalescer:  coalescer.New[models.Component](cache, limiter, logger),
		generator:  generator,
		logger:     logger,
	}
}

// GetComponent returns the localized component, generating it on a cache miss.
// Result.Cached is true only when the value was found in the cache.
func (s *ComponentService) GetComponent(ctx context.Context, componentType, language string) (*models.ComponentResult, error) {
	key, err := s.keyBuilder.Build(componentType, language)
	if err != nil {
		metrics.RecordComponentError("invalid_input")
		s.logger.Debug("Rejected component request",
			zap.String("component_type", componentType),
			zap.String("language", language),
			zap.Error(err))
		return nil, err
	}

	metrics.RecordComponentRequest(componentType, language)

	component, cached, err := s.coalescer.GetOrGenerate(ctx, key, func(ctx context.Context, _ models.CacheKey) (models.Component, error) {
		done := metrics.TimeGeneration(componentType)
		c, err := s.generator.Generate(ctx, componentType, language)
		done(err)
		return c, err
	})
	if err != nil {
		kind := errorKind(err)
		metrics.RecordComponentError(kind)
		s.logger.Warn("Component request failed",
			zap.String("key", string(key)),
			zap.String("kind", kind),
			zap.Error(err))
		return nil, err
	}

	if cached {
		metrics.RecordCacheHit(componentType)
	} else {
		metrics.RecordCacheMiss(componentType)
	}

	return &models.ComponentResult{
		Component: component.Clone(),
		Cached:    cached,
	}, nil
}

// Invalidate drops the cached component for the given type and language
func (s *ComponentService) Invalidate(componentType, language string) error {
	key, err := s.keyBuilder.Build(componentType, language)
	if err != nil {
		return err
	}

	s.cache.Invalidate(key)
	s.logger.Info("Invalidated cached component", zap.String("key", string(key)))
	return nil
}

// Stats returns cache, coalescer and limiter state
func (s *ComponentService) Stats() models.ServiceStats {
	return models.ServiceStats{
		Cache:              s.cache.Stats(),
		PendingGenerations: s.coalescer.Pending(),
		GenerationsInUse:   s.limiter.InFlight(),
		GenerationsLimit:   s.limiter.Capacity(),
	}
}

// Catalog returns the recognized component types and languages
func (s *ComponentService) Catalog() (components []string, languages []string) {
	return s.keyBuilder.Catalog()
}

// UpdateCacheMetrics refreshes the cache size gauges
func (s *ComponentService) UpdateCacheMetrics() {
	stats := s.cache.Stats()
	metrics.UpdateCacheSize(stats.Size, stats.Capacity)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrAdmissionTimeout):
		return "admission_timeout"
	case errors.Is(err, models.ErrGeneration):
		return "generation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "unknown"
	}
}
