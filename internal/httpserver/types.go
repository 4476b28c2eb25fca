package httpserver

import (
	"time"

	"go-component-cache/internal/models"
)

// ComponentResponse is the payload of a component lookup
type ComponentResponse struct {
	ComponentID   string                   `json:"component_id"`
	ComponentName string                   `json:"component_name"`
	ComponentType string                   `json:"component_type"`
	Language      string                   `json:"language"`
	Template      string                   `json:"template"`
	LocalizedData map[string]string        `json:"localized_data"`
	Metadata      models.ComponentMetadata `json:"metadata"`
	Cached        bool                     `json:"cached"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Success             bool     `json:"success"`
	Error               string   `json:"error"`
	AvailableComponents []string `json:"available_components,omitempty"`
	AvailableLanguages  []string `json:"available_languages,omitempty"`
}

// HealthResponse reports service liveness and a few cache figures
type HealthResponse struct {
	Status           string    `json:"status"`
	Service          string    `json:"service"`
	Version          string    `json:"version"`
	Time             time.Time `json:"time"`
	CacheSize        int       `json:"cache_size"`
	ConcurrencyLimit int64     `json:"concurrency_limit"`
}

func newComponentResponse(result *models.ComponentResult) *ComponentResponse {
	c := result.Component
	return &ComponentResponse{
		ComponentID:   c.ComponentID,
		ComponentName: c.ComponentName,
		ComponentType: c.ComponentType,
		Language:      c.Language,
		Template:      c.Template,
		LocalizedData: c.LocalizedStrings,
		Metadata:      c.Metadata,
		Cached:        result.Cached,
	}
}
