package renderer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-component-cache/internal/interfaces"
	"go-component-cache/internal/models"
)

// Ensure Renderer implements interfaces.Generator
var _ interfaces.Generator = (*Renderer)(nil)

const templatesLastUpdated = "2024-01-15T10:30:00Z"

// Renderer fills the built-in component templates with localized strings
type Renderer struct {
	templates        map[string]componentTemplate
	strings          map[string]map[string]string
	fallbackLanguage string
	logger           *zap.Logger
}

// New creates a renderer over the built-in templates. Languages without a string
// table are rendered with fallbackLanguage strings.
func New(fallbackLanguage string, logger *zap.Logger) *Renderer {
	return &Renderer{
		templates:        builtinTemplates,
		strings:          builtinStrings,
		fallbackLanguage: fallbackLanguage,
		logger:           logger,
	}
}

// Supports reports whether a template exists for componentType
func (r *Renderer) Supports(componentType string) bool {
	_, ok := r.templates[componentType]
	return ok
}

// Generate renders componentType in language
func (r *Renderer) Generate(ctx context.Context, componentType, language string) (models.Component, error) {
	if err := ctx.Err(); err != nil {
		return models.Component{}, err
	}

	tmpl, ok := r.templates[componentType]
	if !ok {
		return models.Component{}, fmt.Errorf("component type %q has no template", componentType)
	}

	table, ok := r.strings[language]
	if !ok {
		r.logger.Debug("No strings for language, using fallback",
			zap.String("language", language),
			zap.String("fallback", r.fallbackLanguage))
		table = r.strings[r.fallbackLanguage]
	}

	localized := make(map[string]string, len(tmpl.requiredKeys))
	replacements := make([]string, 0, 2*len(tmpl.requiredKeys))
	for _, key := range tmpl.requiredKeys {
		value, ok := table[key]
		if !ok {
			value = "[" + key + "]"
		}
		localized[key] = value
		replacements = append(replacements, "{l10n."+key+"}", strconv.Quote(value))
	}

	return models.Component{
		ComponentID:      uuid.NewString(),
		ComponentName:    tmpl.name,
		ComponentType:    tmpl.kind,
		Language:         language,
		Template:         strings.NewReplacer(replacements...).Replace(tmpl.source),
		LocalizedStrings: localized,
		Metadata: models.ComponentMetadata{
			LastUpdated:  templatesLastUpdated,
			RequiredKeys: append([]string(nil), tmpl.requiredKeys...),
			GeneratedAt:  time.Now().UTC(),
		},
	}, nil
}
