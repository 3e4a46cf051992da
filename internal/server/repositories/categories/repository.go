// Package categories persists user-owned record categories.
package categories

import (
	"context"

	"github.com/dmitrijs2005/datavault/internal/server/models"
)

type Repository interface {
	// Create assigns an ID to c, inserts it and fills the timestamps.
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	// ListByUser returns the user's categories ordered by name, with
	// RecordsCount set.
	ListByUser(ctx context.Context, userID string) ([]models.Category, error)
	// FindByName returns the user's oldest category with exactly this name.
	FindByName(ctx context.Context, userID, name string) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
	CountRecords(ctx context.Context, id string) (int64, error)
}
