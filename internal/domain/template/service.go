package template

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sentinel errors shared by the template service and its handlers.
var (
	ErrNotFound   = errors.New("template not found")
	ErrValidation = errors.New("validation failed")
	// ErrNoContent means the template resolves to empty text for every
	// language and must not be inserted.
	ErrNoContent = errors.New("template has no usable content")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(t *Template) error {
	if strings.TrimSpace(t.SectionName) == "" {
		return fmt.Errorf("%w: organ is required", ErrValidation)
	}
	if t.Text.Empty() {
		return fmt.Errorf("%w: text is required", ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, t *Template) (*Template, error) {
	if err := s.validate(t); err != nil {
		return nil, err
	}
	t.ID = uuid.New()
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return s.repo.GetByID(ctx, t.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every template, or only those for one section when
// sectionName is non-empty.
func (s *Service) List(ctx context.Context, sectionName string) ([]*Template, error) {
	if sectionName != "" {
		return s.repo.ListBySection(ctx, sectionName)
	}
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, t *Template) (*Template, error) {
	if err := s.validate(t); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.ID = current.ID
	t.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ResolveForInsertion resolves a template's text for lang. ErrNoContent
// signals the caller to surface a notice instead of inserting empty text.
func (s *Service) ResolveForInsertion(ctx context.Context, id uuid.UUID, lang string) (string, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	text := t.Text.Resolve(lang)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoContent, t.DisplayTitle(lang))
	}
	return text, nil
}

// SeedDefaults populates the default template set when the table is empty:
// three bilingual templates per ultrasound organ and one "normal" template
// per echo and ECG section.
func (s *Service) SeedDefaults(ctx context.Context, ultrasound, echo, ecg []string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if n > 0 {
		return nil
	}

	var seeds []*Template
	for i, organ := range ultrasound {
		seeds = append(seeds,
			&Template{
				SectionName: organ,
				Category:    "normal",
				Title:       NewLocalized("Normal", "Normal"),
				Text: NewLocalized(
					organ+" com dimensões, contornos, ecogenicidade e ecotextura preservados.",
					organ+" with preserved dimensions, contours, echogenicity, and echotexture.",
				),
				SortOrder: i * 10,
			},
			&Template{
				SectionName: organ,
				Category:    "finding",
				Title:       NewLocalized("Alteração de ecogenicidade", "Altered echogenicity"),
				Text: NewLocalized(
					organ+" apresenta alteração de ecogenicidade.",
					organ+" presents altered echogenicity.",
				),
				SortOrder: i*10 + 1,
			},
			&Template{
				SectionName: organ,
				Category:    "finding",
				Title:       NewLocalized("Aumento de dimensões", "Increased dimensions"),
				Text: NewLocalized(
					organ+" com aumento de dimensões.",
					organ+" with increased dimensions.",
				),
				SortOrder: i*10 + 2,
			},
		)
	}
	echoBase := len(ultrasound) * 10
	for i, section := range echo {
		seeds = append(seeds, &Template{
			SectionName: section,
			Category:    "normal",
			Title:       NewLocalized("Normal", "Normal"),
			Text: NewLocalized(
				"Avaliação de "+section+" dentro dos padrões de normalidade.",
				section+" assessment within normal limits.",
			),
			SortOrder: echoBase + i*10,
		})
	}
	ecgBase := (len(ultrasound) + len(echo)) * 10
	for i, section := range ecg {
		seeds = append(seeds, &Template{
			SectionName: section,
			Category:    "normal",
			Title:       NewLocalized("Normal", "Normal"),
			Text: NewLocalized(
				section+": Dentro dos limites da normalidade.",
				section+": Within normal limits.",
			),
			SortOrder: ecgBase + i*10,
		})
	}

	for _, t := range seeds {
		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("seed template %s/%s: %w", t.SectionName, t.Category, err)
		}
	}
	log.Info().Int("count", len(seeds)).Msg("seeded default templates")
	return nil
}
