// Package records persists vault records. Payloads arrive already sealed;
// nothing in this package sees plaintext.
package records

import (
	"context"

	"github.com/dmitrijs2005/datavault/internal/server/models"
)

type Repository interface {
	// Create assigns an ID to rec, inserts it and fills the timestamps.
	Create(ctx context.Context, rec *models.Record) error
	// GetByID returns the record joined with its category, if any.
	GetByID(ctx context.Context, id string) (*models.Record, error)
	Update(ctx context.Context, rec *models.Record) error
	Delete(ctx context.Context, id string) error
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	// Find returns one page of the user's records matching f, newest first,
	// together with the total number of matches.
	Find(ctx context.Context, userID string, f models.RecordFilter) ([]models.Record, int64, error)
	// ListByUser returns every record of the user with its category, oldest first.
	ListByUser(ctx context.Context, userID string) ([]models.Record, error)
	// ListByCategory returns the records of one category, newest first.
	ListByCategory(ctx context.Context, categoryID string) ([]models.Record, error)
}
