package main

import (
	"os"
	"strconv"

	"go.uber.org/zap"

	"go-component-cache/internal/config"
)

// applyEnvOverrides lets deployment environments override selected config keys.
// Malformed numeric values are logged and ignored.
func applyEnvOverrides(cfg *config.Config, logger *zap.Logger) {
	if addr := os.Getenv("COMPONENT_CACHE_LISTEN_ADDR"); addr != "" {
		logger.Debug("Using listen address from environment variable")
		cfg.Server.ListenAddr = addr
	}

	overrideInt(&cfg.Cache.MaxSize, "COMPONENT_CACHE_MAX_SIZE", logger)
	overrideInt(&cfg.Cache.TTLSeconds, "COMPONENT_CACHE_TTL_SECONDS", logger)
	overrideInt(&cfg.Limiter.MaxConcurrentGenerations, "COMPONENT_CACHE_MAX_CONCURRENT_GENERATIONS", logger)
	overrideInt(&cfg.Limiter.AdmissionTimeoutMs, "COMPONENT_CACHE_ADMISSION_TIMEOUT_MS", logger)
}

func overrideInt(target *int, name string, logger *zap.Logger) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("Ignoring malformed environment override", zap.String("name", name), zap.String("value", raw))
		return
	}
	*target = value
}
