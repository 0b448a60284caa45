package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by PostgreSQL. Title and body are
// JSONB so the legacy plain-string form and the bilingual object form share a
// column.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const templateCols = `id, organ_name, category, title, body, sort_order, created_at, updated_at`

func scanTemplate(row pgx.Row) (*Template, error) {
	var (
		t         Template
		titleJSON []byte
		bodyJSON  []byte
	)
	err := row.Scan(&t.ID, &t.SectionName, &t.Category, &titleJSON, &bodyJSON,
		&t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(titleJSON, &t.Title); err != nil {
		return nil, fmt.Errorf("decode title: %w", err)
	}
	if err := json.Unmarshal(bodyJSON, &t.Text); err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}
	return &t, nil
}

func marshalTemplate(t *Template) (titleJSON, bodyJSON []byte, err error) {
	titleJSON, err = json.Marshal(t.Title)
	if err != nil {
		return nil, nil, fmt.Errorf("encode title: %w", err)
	}
	bodyJSON, err = json.Marshal(t.Text)
	if err != nil {
		return nil, nil, fmt.Errorf("encode text: %w", err)
	}
	return titleJSON, bodyJSON, nil
}

func (r *repoPG) Create(ctx context.Context, t *Template) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	titleJSON, bodyJSON, err := marshalTemplate(t)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO templates (id, organ_name, category, title, body, sort_order)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.SectionName, t.Category, titleJSON, bodyJSON, t.SortOrder)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	return scanTemplate(r.pool.QueryRow(ctx, `SELECT `+templateCols+` FROM templates WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context) ([]*Template, error) {
	return r.query(ctx, `SELECT `+templateCols+` FROM templates ORDER BY sort_order ASC, created_at ASC`)
}

func (r *repoPG) ListBySection(ctx context.Context, sectionName string) ([]*Template, error) {
	return r.query(ctx, `SELECT `+templateCols+` FROM templates WHERE organ_name = $1 ORDER BY sort_order ASC, created_at ASC`, sectionName)
}

func (r *repoPG) query(ctx context.Context, sql string, args ...any) ([]*Template, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, t *Template) error {
	titleJSON, bodyJSON, err := marshalTemplate(t)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE templates SET organ_name=$2, category=$3, title=$4, body=$5, sort_order=$6, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.SectionName, t.Category, titleJSON, bodyJSON, t.SortOrder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
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
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM templates`).Scan(&n)
	return n, err
}

func (r *repoPG) ReplaceAll(ctx context.Context, templates []*Template) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM templates`); err != nil {
		return err
	}
	for _, t := range templates {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		titleJSON, bodyJSON, err := marshalTemplate(t)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO templates (id, organ_name, category, title, body, sort_order, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,COALESCE($7, NOW()))`,
			t.ID, t.SectionName, t.Category, titleJSON, bodyJSON, t.SortOrder, nilTime(t.CreatedAt)); err != nil {
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
