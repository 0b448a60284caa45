package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sentinel errors shared by the patient service and its handlers.
var (
	ErrNotFound   = errors.New("patient not found")
	ErrValidation = errors.New("validation failed")
)

// Service holds patient business logic.
type Service struct {
	repo  Repository
	exams ExamCascade
}

func NewService(repo Repository, exams ExamCascade) *Service {
	return &Service{repo: repo, exams: exams}
}

func (s *Service) validate(p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !validSpecies[p.Species] {
		return fmt.Errorf("%w: invalid species %q", ErrValidation, p.Species)
	}
	if !validSizes[p.Size] {
		return fmt.Errorf("%w: invalid size %q", ErrValidation, p.Size)
	}
	if !validSexes[p.Sex] {
		return fmt.Errorf("%w: invalid sex %q", ErrValidation, p.Sex)
	}
	if p.WeightKg <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) (*Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := s.validate(p); err != nil {
		return nil, err
	}
	p.ID = uuid.New()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return s.repo.GetByID(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}

// Update replaces the mutable fields of an existing patient. The record
// identity (id, created_at) is preserved.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p *Patient) (*Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := s.validate(p); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a patient and every exam that references it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.exams.DeleteByPatient(ctx, id); err != nil {
		return fmt.Errorf("cascade exams: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	log.Info().Str("patient_id", id.String()).Msg("patient deleted with exams")
	return nil
}

func nilTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
