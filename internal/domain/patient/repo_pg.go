package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by PostgreSQL.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientCols = `id, name, species, breed, weight_kg, size, sex, is_neutered, owner_name, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Species, &p.Breed, &p.WeightKg, &p.Size, &p.Sex,
		&p.IsNeutered, &p.OwnerName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, name, species, breed, weight_kg, size, sex, is_neutered, owner_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Species, p.Breed, p.WeightKg, p.Size, p.Sex, p.IsNeutered, p.OwnerName)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients SET name=$2, species=$3, breed=$4, weight_kg=$5, size=$6, sex=$7,
			is_neutered=$8, owner_name=$9, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Species, p.Breed, p.WeightKg, p.Size, p.Sex, p.IsNeutered, p.OwnerName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ReplaceAll(ctx context.Context, patients []*Patient) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM patients`); err != nil {
		return err
	}
	for _, p := range patients {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO patients (id, name, species, breed, weight_kg, size, sex, is_neutered, owner_name, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,COALESCE($10, NOW()))`,
			p.ID, p.Name, p.Species, p.Breed, p.WeightKg, p.Size, p.Sex, p.IsNeutered, p.OwnerName, nilTime(p.CreatedAt)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
