package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/dbx"
	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/categories"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/repomanager"
)

// ErrCategoryNotEmpty is returned when deleting a category that still has records.
var ErrCategoryNotEmpty = common.NewConflictError(
	"Cannot delete category with associated data. Please move or delete the data first.")

// CategoryService manages user-owned categories.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *CategoryService {
	return &CategoryService{db: db, repomanager: m, logger: logger.With("module", "categories")}
}

// List returns the owner's categories ordered by name, each with its record count.
func (s *CategoryService) List(ctx context.Context, owner string) ([]models.Category, error) {
	return s.repomanager.Categories(s.db).ListByUser(ctx, owner)
}

// Create validates in, applies the default color and icon and stores the category.
func (s *CategoryService) Create(ctx context.Context, owner string, in models.CategoryInput) (*models.Category, error) {
	verr := common.NewValidationError()
	validateName(verr, in.Name)
	validateColor(verr, in.Color)
	validateIcon(verr, in.Icon)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	c := &models.Category{
		UserID:      owner,
		Name:        in.Name,
		Description: in.Description,
		Color:       valueOr(in.Color, models.DefaultCategoryColor),
		Icon:        valueOr(in.Icon, models.DefaultCategoryIcon),
	}
	if err := s.repomanager.Categories(s.db).Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the category with its records, newest first. Payloads stay sealed.
func (s *CategoryService) Get(ctx context.Context, owner, id string) (*models.Category, error) {
	c, err := s.getOwned(ctx, s.repomanager.Categories(s.db), owner, id)
	if err != nil {
		return nil, err
	}

	recs, err := s.repomanager.Records(s.db).ListByCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Records = recs
	return c, nil
}

// Update merges the fields present in patch. A null color or icon restores
// the default.
func (s *CategoryService) Update(ctx context.Context, owner, id string, patch models.CategoryPatch) (*models.Category, error) {
	repo := s.repomanager.Categories(s.db)

	c, err := s.getOwned(ctx, repo, owner, id)
	if err != nil {
		return nil, err
	}

	verr := common.NewValidationError()
	if patch.Name.Set {
		validateName(verr, patch.Name.Value)
	}
	if patch.Color.Set {
		validateColor(verr, patch.Color.Value)
	}
	if patch.Icon.Set {
		validateIcon(verr, patch.Icon.Value)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if patch.Name.Set {
		c.Name = patch.Name.Value
	}
	if patch.Description.Set {
		c.Description = patch.Description.Value
	}
	if patch.Color.Set {
		c.Color = valueOr(patch.Color.Value, models.DefaultCategoryColor)
	}
	if patch.Icon.Set {
		c.Icon = valueOr(patch.Icon.Value, models.DefaultCategoryIcon)
	}

	if err := repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes an empty category. Categories that still hold records yield
// ErrCategoryNotEmpty and are left untouched.
func (s *CategoryService) Delete(ctx context.Context, owner, id string) error {
	repo := s.repomanager.Categories(s.db)

	c, err := s.getOwned(ctx, repo, owner, id)
	if err != nil {
		return err
	}

	n, err := repo.CountRecords(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryNotEmpty
	}

	return repo.Delete(ctx, c.ID)
}

// SeedDefaults creates the standard category set for owner in one transaction.
func (s *CategoryService) SeedDefaults(ctx context.Context, owner string) ([]models.Category, error) {
	var created []models.Category
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = seedDefaultCategories(ctx, s.repomanager.Categories(tx), owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "default categories created", "user_id", owner, "count", len(created))
	return created, nil
}

func (s *CategoryService) getOwned(ctx context.Context, repo categories.Repository, owner, id string) (*models.Category, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(owner, c.UserID); err != nil {
		return nil, err
	}
	return c, nil
}

func seedDefaultCategories(ctx context.Context, repo categories.Repository, owner string) ([]models.Category, error) {
	created := make([]models.Category, 0, len(models.DefaultCategories))
	for _, d := range models.DefaultCategories {
		desc := d.Description
		c := &models.Category{UserID: owner, Name: d.Name, Description: &desc, Color: d.Color, Icon: d.Icon}
		if err := repo.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("seed category %q: %w", d.Name, err)
		}
		created = append(created, *c)
	}
	return created, nil
}

// isNotFound reports whether err is a missing-row error.
func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}

func valueOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}
