package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/dbx"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, user_id, name, description, color, icon, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO data_categories (id, user_id, name, description, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	id := uuid.NewString()
	err := r.db.QueryRowContext(ctx, query, id, c.UserID, c.Name, c.Description, c.Color, c.Icon).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	c.ID = id
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	query := `SELECT ` + columns + ` FROM data_categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.description, c.color, c.icon, c.created_at, c.updated_at,
			(SELECT count(*) FROM personal_data p WHERE p.category_id = c.id) AS records_count
		FROM data_categories c
		WHERE c.user_id = $1
		ORDER BY c.name, c.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Category{}
	for rows.Next() {
		var (
			c     models.Category
			count int64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon,
			&c.CreatedAt, &c.UpdatedAt, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		c.RecordsCount = &count
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) FindByName(ctx context.Context, userID, name string) (*models.Category, error) {
	query := `SELECT ` + columns + ` FROM data_categories
		WHERE user_id = $1 AND name = $2
		ORDER BY created_at
		LIMIT 1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, userID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Category) error {
	query := `
		UPDATE data_categories
		SET name = $2, description = $3, color = $4, icon = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.Description, c.Color, c.Icon).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes the category. Records still pointing at it are detached by
// the foreign key, so callers check CountRecords first.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_categories WHERE id = $1`, id)
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

func (r *PostgresRepository) CountRecords(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM personal_data WHERE category_id = $1`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func scanCategory(row *sql.Row) (*models.Category, error) {
	c := &models.Category{}
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}
