package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/dbx"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/google/uuid"
)

const (
	recordColumns   = `p.id, p.user_id, p.category_id, p.title, p.description, p.data_type, p.encrypted_data, p.tags, p.is_favorite, p.created_at, p.updated_at`
	categoryColumns = `c.id, c.user_id, c.name, c.description, c.color, c.icon, c.created_at, c.updated_at`
	joined          = ` FROM personal_data p LEFT JOIN data_categories c ON c.id = p.category_id`
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Record) error {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO personal_data (id, user_id, category_id, title, description, data_type, encrypted_data, tags, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	id := uuid.NewString()
	err = r.db.QueryRowContext(ctx, query, id, rec.UserID, rec.CategoryID, rec.Title, rec.Description,
		string(rec.DataType), rec.EncryptedData, tags, rec.IsFavorite).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	rec.ID = id
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + `, ` + categoryColumns + joined + ` WHERE p.id = $1`

	rec, err := scanJoined(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *models.Record) error {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE personal_data
		SET category_id = $2, title = $3, description = $4, data_type = $5,
			encrypted_data = $6, tags = $7, is_favorite = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query, rec.ID, rec.CategoryID, rec.Title, rec.Description,
		string(rec.DataType), rec.EncryptedData, tags, rec.IsFavorite).Scan(&rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return mapWriteError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_data WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_data WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID string, f models.RecordFilter) ([]models.Record, int64, error) {
	where, args := buildWhere(userID, f)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+joined+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	if total == 0 {
		return []models.Record{}, 0, nil
	}

	args = append(args, f.PerPage, f.Offset())
	query := `SELECT ` + recordColumns + `, ` + categoryColumns + joined + where +
		fmt.Sprintf(` ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	items, err := r.queryJoined(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + `, ` + categoryColumns + joined +
		` WHERE p.user_id = $1 ORDER BY p.created_at, p.id`
	return r.queryJoined(ctx, query, userID)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM personal_data p
		WHERE p.category_id = $1
		ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Record{}
	for rows.Next() {
		var (
			rec  models.Record
			tags []byte
		)
		if err := rows.Scan(recordDest(&rec, &tags)...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := decodeTags(tags, &rec); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// buildWhere renders the filter as a WHERE clause with positional
// parameters, starting at $1 for the owner.
func buildWhere(userID string, f models.RecordFilter) (string, []any) {
	var sb strings.Builder
	args := []any{userID}
	sb.WriteString(` WHERE p.user_id = $1`)

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		fmt.Fprintf(&sb, ` AND p.category_id = $%d`, len(args))
	}
	if f.FavoritesOnly {
		sb.WriteString(` AND p.is_favorite = true`)
	}
	if f.Search != "" {
		args = append(args, dbx.ContainsPattern(f.Search))
		n := len(args)
		fmt.Fprintf(&sb, ` AND (p.title ILIKE $%d OR p.description ILIKE $%d OR p.tags::text ILIKE $%d)`, n, n, n)
	}
	if f.CategoryName != "" {
		args = append(args, dbx.ContainsPattern(f.CategoryName))
		fmt.Fprintf(&sb, ` AND c.name ILIKE $%d`, len(args))
	}
	return sb.String(), args
}

func (r *PostgresRepository) queryJoined(ctx context.Context, query string, args ...any) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Record{}
	for rows.Next() {
		rec, err := scanJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func recordDest(rec *models.Record, tags *[]byte) []any {
	return []any{&rec.ID, &rec.UserID, &rec.CategoryID, &rec.Title, &rec.Description, &rec.DataType,
		&rec.EncryptedData, tags, &rec.IsFavorite, &rec.CreatedAt, &rec.UpdatedAt}
}

// scanJoined reads a record row followed by the nullable columns of its
// LEFT JOINed category.
func scanJoined(s scanner) (*models.Record, error) {
	var (
		rec  models.Record
		tags []byte

		catID, catUserID, catName, catColor, catIcon *string
		catDescription                               *string
		catCreated, catUpdated                       *time.Time
	)
	dest := append(recordDest(&rec, &tags),
		&catID, &catUserID, &catName, &catDescription, &catColor, &catIcon, &catCreated, &catUpdated)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if err := decodeTags(tags, &rec); err != nil {
		return nil, err
	}
	if catID != nil {
		rec.Category = &models.Category{
			ID:          *catID,
			UserID:      deref(catUserID),
			Name:        deref(catName),
			Description: catDescription,
			Color:       deref(catColor),
			Icon:        deref(catIcon),
		}
		if catCreated != nil {
			rec.Category.CreatedAt = *catCreated
		}
		if catUpdated != nil {
			rec.Category.UpdatedAt = *catUpdated
		}
	}
	return &rec, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

func decodeTags(b []byte, rec *models.Record) error {
	rec.Tags = []string{}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, &rec.Tags); err != nil {
		return fmt.Errorf("decode tags of record %s: %w", rec.ID, err)
	}
	return nil
}

// mapWriteError turns a dangling category reference into a validation error
// on category_id.
func mapWriteError(err error) error {
	if dbx.IsForeignKeyViolation(err) {
		verr := common.NewValidationError()
		verr.Add("category_id", "The selected category is invalid.")
		return verr
	}
	if dbx.IsCheckViolation(err) {
		verr := common.NewValidationError()
		verr.Add("data_type", "The selected data type is invalid.")
		return verr
	}
	return fmt.Errorf("db error: %w", err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
