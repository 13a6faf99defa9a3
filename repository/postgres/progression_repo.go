package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/repository"
)

type progressionRepository struct {
	pool *pgxpool.Pool
}

// NewProgressionRepository creates a Postgres-backed ProgressionRepository
// that keeps each record as a JSONB document.
func NewProgressionRepository(pool *pgxpool.Pool) repository.ProgressionRepository {
	return &progressionRepository{pool: pool}
}

func (r *progressionRepository) ExistsForCustomer(ctx context.Context, customerID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM employment_progressions WHERE customer_id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, customerID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *progressionRepository) GetByID(ctx context.Context, customerID, id string) (*domain.EmploymentProgression, error) {
	raw, err := r.GetRaw(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}

func (r *progressionRepository) List(ctx context.Context, filter repository.ProgressionFilter) ([]domain.EmploymentProgression, error) {
	const query = `
	SELECT document
	FROM employment_progressions
	WHERE customer_id = $1
	ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, filter.CustomerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progressions []domain.EmploymentProgression
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		entity, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		progressions = append(progressions, *entity)
	}
	return progressions, rows.Err()
}

func (r *progressionRepository) GetRaw(ctx context.Context, customerID, id string) ([]byte, error) {
	const query = `
	SELECT document
	FROM employment_progressions
	WHERE customer_id = $1 AND id = $2
	`
	var raw []byte
	if err := r.pool.QueryRow(ctx, query, customerID, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProgressionNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (r *progressionRepository) Create(ctx context.Context, progression *domain.EmploymentProgression) (bool, error) {
	if progression == nil || progression.ID == "" || progression.CustomerID == "" {
		return false, domain.ErrInvalidPayload
	}

	document, err := json.Marshal(progression)
	if err != nil {
		return false, err
	}

	const query = `
	INSERT INTO employment_progressions (id, customer_id, document)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, progression.ID, progression.CustomerID, document)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *progressionRepository) Replace(ctx context.Context, id string, document []byte) (bool, error) {
	if id == "" || len(document) == 0 {
		return false, domain.ErrInvalidPayload
	}

	const query = `
	UPDATE employment_progressions
	SET document = $2,
		updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, document)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func decodeDocument(raw []byte) (*domain.EmploymentProgression, error) {
	var entity domain.EmploymentProgression
	if err := json.Unmarshal(raw, &entity); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "stored employment progression is corrupt", fmt.Errorf("decode document: %w", err))
	}
	return &entity, nil
}
