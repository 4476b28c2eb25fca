package interfaces

import "go-component-cache/internal/models"

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes component requests into deterministic cache keys
type KeyBuilder interface {
	// Build validates the pair against the catalog and returns its cache key
	Build(componentType, language string) (models.CacheKey, error)
	// Catalog returns the recognized component types and language codes
	Catalog() (components []string, languages []string)
}
