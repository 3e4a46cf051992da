// Package httpapi is the REST transport of the DataVault server: routing,
// authentication, request decoding and the mapping of service errors onto
// HTTP statuses.
package httpapi

import (
	"context"

	"github.com/dmitrijs2005/datavault/internal/server/models"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	UserIDFromAccessToken(token string) (string, error)
}

type CategoryService interface {
	List(ctx context.Context, owner string) ([]models.Category, error)
	Create(ctx context.Context, owner string, in models.CategoryInput) (*models.Category, error)
	Get(ctx context.Context, owner, id string) (*models.Category, error)
	Update(ctx context.Context, owner, id string, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, owner, id string) error
}

type RecordService interface {
	Create(ctx context.Context, owner string, in models.RecordInput) (*models.Record, error)
	Get(ctx context.Context, owner, id string) (*models.Record, error)
	Update(ctx context.Context, owner, id string, patch models.RecordPatch) (*models.Record, error)
	Delete(ctx context.Context, owner, id string) error
	ResetAll(ctx context.Context, owner string) (int64, error)
	List(ctx context.Context, owner string, f models.RecordFilter) (models.Page[models.Record], error)
	Search(ctx context.Context, owner, query string, page, perPage int) (models.Page[models.Record], error)
	ListByCategoryName(ctx context.Context, owner, name string, page, perPage int) (models.Page[models.Record], error)
}

type TransferService interface {
	Export(ctx context.Context, owner string) (*models.ExportBundle, error)
	Import(ctx context.Context, owner string, rows []models.ImportRow) (*models.ImportResult, error)
	Snapshot(ctx context.Context, owner string) (*models.Snapshot, error)
}

// Pinger reports whether the database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}
