package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sentinel errors shared by the reference service and its handlers.
var (
	ErrNotFound   = errors.New("reference value not found")
	ErrValidation = errors.New("validation failed")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(v *Value) error {
	if strings.TrimSpace(v.SectionName) == "" {
		return fmt.Errorf("%w: organ is required", ErrValidation)
	}
	if strings.TrimSpace(v.MeasurementType) == "" {
		return fmt.Errorf("%w: measurement_type is required", ErrValidation)
	}
	if v.MinValue > v.MaxValue {
		return fmt.Errorf("%w: min_value exceeds max_value", ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, v *Value) (*Value, error) {
	if err := s.validate(v); err != nil {
		return nil, err
	}
	v.ID = uuid.New()
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create reference value: %w", err)
	}
	return s.repo.GetByID(ctx, v.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Value, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Value, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, v *Value) (*Value, error) {
	if err := s.validate(v); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.ID = current.ID
	v.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update reference value: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// SeedDefaults loads the canine starter ranges when the table is empty.
func (s *Service) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count reference values: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, v := range defaultValues {
		v := v
		if err := s.repo.Create(ctx, &v); err != nil {
			return fmt.Errorf("seed reference value %s/%s/%s: %w", v.SectionName, v.MeasurementType, v.Size, err)
		}
	}
	log.Info().Int("count", len(defaultValues)).Msg("seeded default reference values")
	return nil
}

var defaultValues = []Value{
	{SectionName: "Rim Esquerdo", MeasurementType: "comprimento", Species: "dog", Size: "small", MinValue: 3.5, MaxValue: 5.5, Unit: "cm"},
	{SectionName: "Rim Esquerdo", MeasurementType: "comprimento", Species: "dog", Size: "medium", MinValue: 5.0, MaxValue: 7.0, Unit: "cm"},
	{SectionName: "Rim Esquerdo", MeasurementType: "comprimento", Species: "dog", Size: "large", MinValue: 6.5, MaxValue: 9.0, Unit: "cm"},
	{SectionName: "Rim Direito", MeasurementType: "comprimento", Species: "dog", Size: "small", MinValue: 3.5, MaxValue: 5.5, Unit: "cm"},
	{SectionName: "Rim Direito", MeasurementType: "comprimento", Species: "dog", Size: "medium", MinValue: 5.0, MaxValue: 7.0, Unit: "cm"},
	{SectionName: "Rim Direito", MeasurementType: "comprimento", Species: "dog", Size: "large", MinValue: 6.5, MaxValue: 9.0, Unit: "cm"},
	{SectionName: "Fígado", MeasurementType: "espessura", Species: "dog", Size: "small", MinValue: 2.0, MaxValue: 4.0, Unit: "cm"},
	{SectionName: "Fígado", MeasurementType: "espessura", Species: "dog", Size: "medium", MinValue: 3.0, MaxValue: 5.5, Unit: "cm"},
	{SectionName: "Fígado", MeasurementType: "espessura", Species: "dog", Size: "large", MinValue: 4.0, MaxValue: 7.0, Unit: "cm"},
	{SectionName: "Baço", MeasurementType: "espessura", Species: "dog", Size: "small", MinValue: 0.5, MaxValue: 1.5, Unit: "cm"},
	{SectionName: "Baço", MeasurementType: "espessura", Species: "dog", Size: "medium", MinValue: 1.0, MaxValue: 2.0, Unit: "cm"},
	{SectionName: "Baço", MeasurementType: "espessura", Species: "dog", Size: "large", MinValue: 1.5, MaxValue: 2.5, Unit: "cm"},
}
