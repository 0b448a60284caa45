package exam

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for exams. List returns exams for
// one patient when patientID is non-nil, otherwise every exam, newest exam
// date first.
type Repository interface {
	Create(ctx context.Context, x *Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*Exam, error)
	List(ctx context.Context, patientID *uuid.UUID) ([]*Exam, error)
	Update(ctx context.Context, x *Exam) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
	ReplaceAll(ctx context.Context, exams []*Exam) error
}
