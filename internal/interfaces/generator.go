package interfaces

import (
	"context"

	"go-component-cache/internal/models"
)

//go:generate mockgen -package=mock -source=generator.go -destination=mock/generator.go

// Generator renders a localized component. Implementations must be safe for
// concurrent calls with different inputs.
//
// ctx may be cancelled by direct callers and implementations should stop early when it is.
// Calls made through the coalescer receive a context detached from request cancellation.
type Generator interface {
	Generate(ctx context.Context, componentType, language string) (models.Component, error)
}
