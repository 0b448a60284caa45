package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceAll(ctx context.Context, patients []*Patient) error
}

// ExamCascade removes the exams owned by a patient. Implemented by the exam
// repository; declared here so deleting a patient can cascade without this
// package importing the exam package.
type ExamCascade interface {
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
