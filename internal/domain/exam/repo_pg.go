package exam

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

// NewRepoPG returns a Repository backed by PostgreSQL.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const examCols = `id, patient_id, exam_type, exam_date, weight_kg, organs_data, images, created_at, updated_at`

func scanExam(row pgx.Row) (*Exam, error) {
	var (
		x           Exam
		entriesJSON []byte
		imagesJSON  []byte
	)
	err := row.Scan(&x.ID, &x.PatientID, &x.ExamType, &x.ExamDate, &x.WeightKg,
		&entriesJSON, &imagesJSON, &x.CreatedAt, &x.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(entriesJSON) > 0 {
		if err := json.Unmarshal(entriesJSON, &x.Entries); err != nil {
			return nil, fmt.Errorf("decode organs_data: %w", err)
		}
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &x.Images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	return &x, nil
}

func marshalExam(x *Exam) (entriesJSON, imagesJSON []byte, err error) {
	if x.Entries == nil {
		x.Entries = []SectionEntry{}
	}
	if x.Images == nil {
		x.Images = []Image{}
	}
	entriesJSON, err = json.Marshal(x.Entries)
	if err != nil {
		return nil, nil, fmt.Errorf("encode organs_data: %w", err)
	}
	imagesJSON, err = json.Marshal(x.Images)
	if err != nil {
		return nil, nil, fmt.Errorf("encode images: %w", err)
	}
	return entriesJSON, imagesJSON, nil
}

func (r *repoPG) Create(ctx context.Context, x *Exam) error {
	if x.ID == uuid.Nil {
		x.ID = uuid.New()
	}
	if x.ExamDate.IsZero() {
		x.ExamDate = time.Now()
	}
	entriesJSON, imagesJSON, err := marshalExam(x)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO exams (id, patient_id, exam_type, exam_date, weight_kg, organs_data, images)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		x.ID, x.PatientID, x.ExamType, x.ExamDate, x.WeightKg, entriesJSON, imagesJSON)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return scanExam(r.pool.QueryRow(ctx, `SELECT `+examCols+` FROM exams WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, patientID *uuid.UUID) ([]*Exam, error) {
	query := `SELECT ` + examCols + ` FROM exams`
	args := []any{}
	if patientID != nil {
		query += ` WHERE patient_id = $1`
		args = append(args, *patientID)
	}
	query += ` ORDER BY exam_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Exam
	for rows.Next() {
		x, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, x)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, x *Exam) error {
	entriesJSON, imagesJSON, err := marshalExam(x)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE exams SET exam_date=$2, weight_kg=$3, organs_data=$4, images=$5, updated_at=NOW()
		WHERE id = $1`,
		x.ID, x.ExamDate, x.WeightKg, entriesJSON, imagesJSON)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE patient_id = $1`, patientID)
	return err
}

func (r *repoPG) ReplaceAll(ctx context.Context, exams []*Exam) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM exams`); err != nil {
		return err
	}
	for _, x := range exams {
		if x.ID == uuid.Nil {
			x.ID = uuid.New()
		}
		entriesJSON, imagesJSON, err := marshalExam(x)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO exams (id, patient_id, exam_type, exam_date, weight_kg, organs_data, images, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,COALESCE($8, NOW()))`,
			x.ID, x.PatientID, x.ExamType, x.ExamDate, x.WeightKg, entriesJSON, imagesJSON, nilTime(x.CreatedAt)); err != nil {
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
