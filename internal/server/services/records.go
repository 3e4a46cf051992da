package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/cryptox"
	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/records"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/repomanager"
)

const invalidCategory = "The selected category is invalid."

// RecordService manages vault records. Payloads are sealed with sealer before
// they reach a repository and opened only for the owner's reads.
type RecordService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	sealer         cryptox.Sealer
	defaultPerPage int
	logger         logging.Logger
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, sealer cryptox.Sealer, defaultPerPage int, logger logging.Logger) *RecordService {
	return &RecordService{
		db:             db,
		repomanager:    m,
		sealer:         sealer,
		defaultPerPage: defaultPerPage,
		logger:         logger.With("module", "records"),
	}
}

// Create validates in, seals its payload and stores the record. The result
// carries its category but not the plaintext.
func (s *RecordService) Create(ctx context.Context, owner string, in models.RecordInput) (*models.Record, error) {
	verr := common.NewValidationError()
	validateTitle(verr, in.Title)
	validateDataType(verr, in.DataType)
	validateData(verr, in.Data)
	validateTags(verr, in.Tags)

	var category *models.Category
	if in.CategoryID != nil {
		var err error
		if category, err = s.resolveCategory(ctx, owner, *in.CategoryID, verr); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	sealed, err := s.sealer.Seal([]byte(in.Data))
	if err != nil {
		return nil, err
	}

	rec := &models.Record{
		UserID:        owner,
		CategoryID:    in.CategoryID,
		Title:         in.Title,
		Description:   in.Description,
		DataType:      in.DataType,
		EncryptedData: sealed,
		Tags:          normalizeTags(in.Tags),
		IsFavorite:    in.IsFavorite != nil && *in.IsFavorite,
	}
	if err := s.repomanager.Records(s.db).Create(ctx, rec); err != nil {
		return nil, err
	}
	rec.Category = category
	return rec, nil
}

// Get returns the record with its payload opened into Plaintext.
func (s *RecordService) Get(ctx context.Context, owner, id string) (*models.Record, error) {
	rec, err := s.getOwned(ctx, s.repomanager.Records(s.db), owner, id)
	if err != nil {
		return nil, err
	}

	plain, err := s.sealer.Open(rec.EncryptedData)
	if err != nil {
		s.logger.Error(ctx, "payload cannot be opened", "record_id", rec.ID, "error", err)
		return nil, err
	}
	text := string(plain)
	rec.Plaintext = &text
	return rec, nil
}

// Update applies the fields present in patch. The payload is re-sealed only
// when patch carries new data; a null category detaches the record.
func (s *RecordService) Update(ctx context.Context, owner, id string, patch models.RecordPatch) (*models.Record, error) {
	repo := s.repomanager.Records(s.db)

	rec, err := s.getOwned(ctx, repo, owner, id)
	if err != nil {
		return nil, err
	}

	verr := common.NewValidationError()
	if patch.Title.Set {
		validateTitle(verr, patch.Title.Value)
	}
	if patch.DataType.Set {
		validateDataType(verr, patch.DataType.Value)
	}
	if patch.Data.Set {
		validateData(verr, patch.Data.Value)
	}
	if patch.Tags.Set {
		validateTags(verr, patch.Tags.Value)
	}
	category := rec.Category
	if patch.CategoryID.Set {
		category = nil
		if patch.CategoryID.Value != nil {
			if category, err = s.resolveCategory(ctx, owner, *patch.CategoryID.Value, verr); err != nil {
				return nil, err
			}
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if patch.Data.Set {
		sealed, err := s.sealer.Seal([]byte(patch.Data.Value))
		if err != nil {
			return nil, err
		}
		rec.EncryptedData = sealed
	}
	if patch.Title.Set {
		rec.Title = patch.Title.Value
	}
	if patch.Description.Set {
		rec.Description = patch.Description.Value
	}
	if patch.DataType.Set {
		rec.DataType = patch.DataType.Value
	}
	if patch.Tags.Set {
		rec.Tags = normalizeTags(patch.Tags.Value)
	}
	if patch.IsFavorite.Set {
		rec.IsFavorite = patch.IsFavorite.Value
	}
	if patch.CategoryID.Set {
		rec.CategoryID = patch.CategoryID.Value
	}

	if err := repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	rec.Category = category
	return rec, nil
}

func (s *RecordService) Delete(ctx context.Context, owner, id string) error {
	repo := s.repomanager.Records(s.db)

	rec, err := s.getOwned(ctx, repo, owner, id)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, rec.ID)
}

// ResetAll deletes every record of owner and reports how many went.
func (s *RecordService) ResetAll(ctx context.Context, owner string) (int64, error) {
	n, err := s.repomanager.Records(s.db).DeleteAllByUser(ctx, owner)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "vault reset", "user_id", owner, "deleted", n)
	return n, nil
}

// List returns one page of the owner's records matching f, newest first.
func (s *RecordService) List(ctx context.Context, owner string, f models.RecordFilter) (models.Page[models.Record], error) {
	f.Page, f.PerPage = normalizePage(f.Page, f.PerPage, s.defaultPerPage)
	if f.CategoryID != nil && !validID(*f.CategoryID) {
		return models.NewPage[models.Record](nil, f.Page, f.PerPage, 0), nil
	}

	items, total, err := s.repomanager.Records(s.db).Find(ctx, owner, f)
	if err != nil {
		return models.Page[models.Record]{}, err
	}
	return models.NewPage(items, f.Page, f.PerPage, total), nil
}

// Search matches query against title, description and tags.
func (s *RecordService) Search(ctx context.Context, owner, query string, page, perPage int) (models.Page[models.Record], error) {
	return s.List(ctx, owner, models.RecordFilter{Search: query, Page: page, PerPage: perPage})
}

// ListByCategoryName returns records whose category name contains name.
func (s *RecordService) ListByCategoryName(ctx context.Context, owner, name string, page, perPage int) (models.Page[models.Record], error) {
	return s.List(ctx, owner, models.RecordFilter{CategoryName: name, Page: page, PerPage: perPage})
}

func (s *RecordService) getOwned(ctx context.Context, repo records.Repository, owner, id string) (*models.Record, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(owner, rec.UserID); err != nil {
		return nil, err
	}
	return rec, nil
}

// resolveCategory looks up a category the owner may attach records to. A
// missing or foreign category is reported on verr as category_id; only
// storage failures are returned.
func (s *RecordService) resolveCategory(ctx context.Context, owner, id string, verr *common.ValidationError) (*models.Category, error) {
	if !validID(id) {
		verr.Add("category_id", invalidCategory)
		return nil, nil
	}
	c, err := s.repomanager.Categories(s.db).GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			verr.Add("category_id", invalidCategory)
			return nil, nil
		}
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	if c.UserID != owner {
		verr.Add("category_id", invalidCategory)
		return nil, nil
	}
	return c, nil
}
