package reference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by PostgreSQL.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const valueCols = `id, organ_name, measurement_type, species, size, min_value, max_value, unit, created_at, updated_at`

func scanValue(row pgx.Row) (*Value, error) {
	var v Value
	err := row.Scan(&v.ID, &v.SectionName, &v.MeasurementType, &v.Species, &v.Size,
		&v.MinValue, &v.MaxValue, &v.Unit, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &v, err
}

func (r *repoPG) Create(ctx context.Context, v *Value) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reference_values (id, organ_name, measurement_type, species, size, min_value, max_value, unit)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		v.ID, v.SectionName, v.MeasurementType, v.Species, v.Size, v.MinValue, v.MaxValue, v.Unit)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Value, error) {
	return scanValue(r.pool.QueryRow(ctx, `SELECT `+valueCols+` FROM reference_values WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter) ([]*Value, error) {
	query := `SELECT ` + valueCols + ` FROM reference_values WHERE 1=1`
	var args []any
	if f.Organ != "" {
		args = append(args, f.Organ)
		query += fmt.Sprintf(` AND organ_name = $%d`, len(args))
	}
	if f.Species != "" {
		args = append(args, f.Species)
		query += fmt.Sprintf(` AND species = $%d`, len(args))
	}
	if f.Size != "" {
		args = append(args, f.Size)
		query += fmt.Sprintf(` AND size = $%d`, len(args))
	}
	query += ` ORDER BY organ_name, measurement_type, size`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Value
	for rows.Next() {
		v, err := scanValue(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, v *Value) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reference_values SET organ_name=$2, measurement_type=$3, species=$4, size=$5,
			min_value=$6, max_value=$7, unit=$8, updated_at=NOW()
		WHERE id = $1`,
		v.ID, v.SectionName, v.MeasurementType, v.Species, v.Size, v.MinValue, v.MaxValue, v.Unit)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reference_values WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reference_values`).Scan(&n)
	return n, err
}

func (r *repoPG) ReplaceAll(ctx context.Context, values []*Value) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reference_values`); err != nil {
		return err
	}
	for _, v := range values {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO reference_values (id, organ_name, measurement_type, species, size, min_value, max_value, unit, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,COALESCE($9, NOW()))`,
			v.ID, v.SectionName, v.MeasurementType, v.Species, v.Size, v.MinValue, v.MaxValue, v.Unit, nilTime(v.CreatedAt)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func nilTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
