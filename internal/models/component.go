package models

import "time"

// CacheKey identifies a cached component. It is derived only from the component type
// and the language code.
type CacheKey string

// Component is the rendered, localized content for one component type and language
type Component struct {
	ComponentID      string            `json:"component_id"`
	ComponentName    string            `json:"component_name"`
	ComponentType    string            `json:"component_type"`
	Language         string            `json:"language"`
	Template         string            `json:"template"`
	LocalizedStrings map[string]string `json:"localized_data"`
	Metadata         ComponentMetadata `json:"metadata"`
}

// ComponentMetadata describes how a component was produced
type ComponentMetadata struct {
	LastUpdated  string    `json:"last_updated"`
	RequiredKeys []string  `json:"required_keys"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Clone returns a deep copy so callers never share maps or slices with the cache
func (c Component) Clone() Component {
	out := c
	if c.LocalizedStrings != nil {
		out.LocalizedStrings = make(map[string]string, len(c.LocalizedStrings))
		for k, v := range c.LocalizedStrings {
			out.LocalizedStrings[k] = v
		}
	}
	if c.Metadata.RequiredKeys != nil {
		out.Metadata.RequiredKeys = append([]string(nil), c.Metadata.RequiredKeys...)
	}
	return out
}

// ComponentResult is a component together with whether it was served from cache
type ComponentResult struct {
	Component Component
	Cached    bool
}
