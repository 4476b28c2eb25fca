package cache

import (
	"fmt"
	"sort"

	"go-component-cache/internal/interfaces"
	"go-component-cache/internal/models"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

const keyPrefix = "component"

// KeyBuilderImpl implements the KeyBuilder interface over a fixed catalog
type KeyBuilderImpl struct {
	components map[string]struct{}
	languages  map[string]struct{}
}

// NewKeyBuilder creates a new KeyBuilder for the recognized component types and languages
func NewKeyBuilder(components, languages []string) interfaces.KeyBuilder {
	kb := &KeyBuilderImpl{
		components: make(map[string]struct{}, len(components)),
		languages:  make(map[string]struct{}, len(languages)),
	}
	for _, c := range components {
		kb.components[c] = struct{}{}
	}
	for _, l := range languages {
		kb.languages[l] = struct{}{}
	}
	return kb
}

// Build creates the cache key for a component type and language.
// Only these two attributes take part in the key.
func (kb *KeyBuilderImpl) Build(componentType, language string) (models.CacheKey, error) {
	if componentType == "" {
		return "", &models.InvalidInputError{Field: "component type", Reason: "cannot be empty"}
	}

	if language == "" {
		return "", &models.InvalidInputError{Field: "language", Reason: "cannot be empty"}
	}

	if _, ok := kb.components[componentType]; !ok {
		return "", &models.InvalidInputError{Field: "component type", Value: componentType, Reason: "not recognized"}
	}

	if _, ok := kb.languages[language]; !ok {
		return "", &models.InvalidInputError{Field: "language", Value: language, Reason: "not recognized"}
	}

	// Create final cache key: component:type:language
	return models.CacheKey(fmt.Sprintf("%s:%s:%s", keyPrefix, componentType, language)), nil
}

// Catalog returns the recognized component types and languages in sorted order
func (kb *KeyBuilderImpl) Catalog() ([]string, []string) {
	return sortedKeys(kb.components), sortedKeys(kb.languages)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
