package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tvusvet/tvusvet/internal/platform/imaging"
)

// ErrValidation is shared by the settings service and its handlers.
var ErrValidation = errors.New("validation failed")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, in *Settings) (*Settings, error) {
	if err := s.repo.Upsert(ctx, in); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return s.repo.Get(ctx)
}

// SetLetterhead validates and stores the letterhead image. The payload must
// be a recognized raster in a format the report export can embed.
func (s *Service) SetLetterhead(ctx context.Context, filename, data string) (*Settings, error) {
	dec, err := imaging.DecodeDataURL(data)
	if err != nil {
		return nil, fmt.Errorf("%w: letterhead is not a readable image", ErrValidation)
	}
	if !dec.Embeddable() {
		return nil, fmt.Errorf("%w: %s letterheads cannot be embedded in reports", ErrValidation, dec.Format)
	}
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	current.LetterheadPath = &data
	current.LetterheadFilename = &filename
	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, fmt.Errorf("save letterhead: %w", err)
	}
	log.Info().Str("filename", filename).Str("format", dec.Format).Msg("letterhead updated")
	return s.repo.Get(ctx)
}

func (s *Service) ClearLetterhead(ctx context.Context) (*Settings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	current.LetterheadPath = nil
	current.LetterheadFilename = nil
	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, fmt.Errorf("clear letterhead: %w", err)
	}
	return s.repo.Get(ctx)
}
