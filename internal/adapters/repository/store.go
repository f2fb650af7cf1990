// Package repository defines the scorecard store interface and errors.
package repository

import (
	"context"

	"github.com/dinneroo/zonescore/internal/domain/model"
	"github.com/dinneroo/zonescore/internal/domain/types"
)

// Store provides read/write access to computed scorecards. Scorecards are
// replaced wholesale by each run; there is no incremental update.
type Store interface {
	// Put stores or replaces the scorecard for an entity.
	Put(ctx context.Context, card types.Scorecard) error

	// Get returns the scorecard for an entity, with its rank filled in.
	// Returns ErrNotFound if the entity is unknown.
	Get(ctx context.Context, entityID string) (types.Scorecard, error)

	// TopN returns the top-N scorecards of a kind ordered by composite
	// desc, ranks filled in.
	TopN(ctx context.Context, kind model.EntityKind, n int) ([]types.Scorecard, error)

	// Count returns the number of entities tracked.
	Count(ctx context.Context) int

	// Reset clears the store ahead of a fresh run.
	Reset(ctx context.Context)
}
