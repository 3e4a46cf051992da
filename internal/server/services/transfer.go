package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/google/uuid"
)

const snapshotTTL = 15 * time.Minute

// ObjectStore is where export snapshots are uploaded.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// TransferService moves whole vaults in and out as plaintext bundles.
type TransferService struct {
	records *RecordService
	store   ObjectStore
	logger  logging.Logger
	now     func() time.Time
}

// NewTransferService wires export and import on top of records. store may be
// nil, in which case Snapshot reports common.ErrorSnapshotsDisabled.
func NewTransferService(records *RecordService, store ObjectStore, logger logging.Logger) *TransferService {
	return &TransferService{
		records: records,
		store:   store,
		logger:  logger.With("module", "transfer"),
		now:     time.Now,
	}
}

// Export opens every record of owner. One unreadable payload fails the
// whole export.
func (s *TransferService) Export(ctx context.Context, owner string) (*models.ExportBundle, error) {
	r := s.records
	items, err := r.repomanager.Records(r.db).ListByUser(ctx, owner)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ExportRow, 0, len(items))
	for _, rec := range items {
		plain, err := r.sealer.Open(rec.EncryptedData)
		if err != nil {
			s.logger.Error(ctx, "export aborted", "user_id", owner, "record_id", rec.ID, "error", err)
			return nil, fmt.Errorf("export record %s: %w", rec.ID, err)
		}

		row := models.ExportRow{
			Title:       rec.Title,
			Description: rec.Description,
			DataType:    rec.DataType,
			Data:        string(plain),
			Tags:        rec.Tags,
			IsFavorite:  rec.IsFavorite,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		}
		if row.Tags == nil {
			row.Tags = []string{}
		}
		if rec.Category != nil {
			name := rec.Category.Name
			row.Category = &name
		}
		rows = append(rows, row)
	}

	return &models.ExportBundle{Data: rows, ExportedAt: s.now().UTC()}, nil
}

// Import creates one record per row. A failing row is reported as
// "Row <i>: <message>" and the rest are still imported.
func (s *TransferService) Import(ctx context.Context, owner string, rows []models.ImportRow) (*models.ImportResult, error) {
	if len(rows) == 0 {
		verr := common.NewValidationError()
		verr.Add("data", "The data field is required.")
		return nil, verr
	}

	res := &models.ImportResult{Errors: []string{}}
	for i, row := range rows {
		if err := s.importRow(ctx, owner, row); err != nil {
			if !isRowError(err) {
				return nil, err
			}
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", i, rowMessage(err)))
			continue
		}
		res.ImportedCount++
	}
	res.Message = fmt.Sprintf("Imported %d items successfully", res.ImportedCount)

	s.logger.Info(ctx, "import finished", "user_id", owner, "imported", res.ImportedCount, "failed", len(res.Errors))
	return res, nil
}

func (s *TransferService) importRow(ctx context.Context, owner string, row models.ImportRow) error {
	in := models.RecordInput{
		Title:       row.Title,
		Description: row.Description,
		DataType:    row.DataType,
		Data:        row.Data,
		Tags:        row.Tags,
		IsFavorite:  row.IsFavorite,
		CategoryID:  row.CategoryID,
	}

	if in.CategoryID == nil && row.Category != nil && strings.TrimSpace(*row.Category) != "" {
		r := s.records
		c, err := r.repomanager.Categories(r.db).FindByName(ctx, owner, *row.Category)
		if err != nil {
			if isNotFound(err) {
				verr := common.NewValidationError()
				verr.Add("category", fmt.Sprintf("Category %q does not exist.", *row.Category))
				return verr
			}
			return err
		}
		in.CategoryID = &c.ID
	}

	_, err := s.records.Create(ctx, owner, in)
	return err
}

// Snapshot uploads the export bundle to object storage and returns a
// short-lived download link.
func (s *TransferService) Snapshot(ctx context.Context, owner string) (*models.Snapshot, error) {
	if s.store == nil {
		return nil, common.ErrorSnapshotsDisabled
	}

	bundle, err := s.Export(ctx, owner)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	now := s.now().UTC()
	key := path.Join("exports", owner, now.Format("2006/01/02"), uuid.NewString()+".json")

	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, key, snapshotTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "snapshot uploaded", "user_id", owner, "key", key, "records", len(bundle.Data))
	return &models.Snapshot{
		Key:       key,
		URL:       url,
		Records:   len(bundle.Data),
		ExpiresAt: now.Add(snapshotTTL),
	}, nil
}

// isRowError reports whether err is the row's fault rather than the
// server's, so the import can go on.
func isRowError(err error) bool {
	return errors.Is(err, common.ErrorValidation) || errors.Is(err, common.ErrorEncryption)
}

func rowMessage(err error) string {
	var verr *common.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) == 0 {
		return err.Error()
	}

	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = verr.Fields[f]
	}
	return strings.Join(msgs, " ")
}
