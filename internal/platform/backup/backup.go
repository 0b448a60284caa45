// Package backup exports and imports the whole clinic dataset as a single
// JSON document, optionally sealed with a passphrase.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tvusvet/tvusvet/internal/domain/exam"
	"github.com/tvusvet/tvusvet/internal/domain/patient"
	"github.com/tvusvet/tvusvet/internal/domain/reference"
	"github.com/tvusvet/tvusvet/internal/domain/settings"
	"github.com/tvusvet/tvusvet/internal/domain/template"
)

// Version stamps newly exported backups.
const Version = "1.0.0"

// Backup is the interchange document. Import treats every collection as
// optional: only the keys present replace stored data.
type Backup struct {
	Patients        []*patient.Patient   `json:"patients,omitempty"`
	Exams           []*exam.Exam         `json:"exams,omitempty"`
	Templates       []*template.Template `json:"templates,omitempty"`
	ReferenceValues []*reference.Value   `json:"reference_values,omitempty"`
	Settings        *settings.Settings   `json:"settings,omitempty"`
	ExportedAt      time.Time            `json:"exported_at"`
	Version         string               `json:"version"`
}

// Service moves whole collections between the store and backup files.
type Service struct {
	patients   patient.Repository
	exams      exam.Repository
	templates  template.Repository
	references reference.Repository
	settings   settings.Repository
}

func NewService(patients patient.Repository, exams exam.Repository, templates template.Repository, references reference.Repository, settingsRepo settings.Repository) *Service {
	return &Service{
		patients:   patients,
		exams:      exams,
		templates:  templates,
		references: references,
		settings:   settingsRepo,
	}
}

// Export snapshots every collection into one document.
func (s *Service) Export(ctx context.Context) (*Backup, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export patients: %w", err)
	}
	exams, err := s.exams.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("export exams: %w", err)
	}
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export templates: %w", err)
	}
	references, err := s.references.List(ctx, reference.Filter{})
	if err != nil {
		return nil, fmt.Errorf("export reference values: %w", err)
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}
	return &Backup{
		Patients:        patients,
		Exams:           exams,
		Templates:       templates,
		ReferenceValues: references,
		Settings:        st,
		ExportedAt:      time.Now().UTC(),
		Version:         Version,
	}, nil
}

// ExportJSON renders the snapshot as indented JSON.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	b, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(b, "", "  ")
}

// ExportEncrypted renders the snapshot sealed with passphrase.
func (s *Service) ExportEncrypted(ctx context.Context, passphrase string) ([]byte, error) {
	plain, err := s.ExportJSON(ctx)
	if err != nil {
		return nil, err
	}
	return Encrypt(plain, passphrase)
}

// Import replaces the collections present in b. Absent collections keep
// their stored data.
func (s *Service) Import(ctx context.Context, b *Backup) error {
	if b.Patients != nil {
		if err := s.patients.ReplaceAll(ctx, b.Patients); err != nil {
			return fmt.Errorf("import patients: %w", err)
		}
	}
	if b.Exams != nil {
		if err := s.exams.ReplaceAll(ctx, b.Exams); err != nil {
			return fmt.Errorf("import exams: %w", err)
		}
	}
	if b.Templates != nil {
		if err := s.templates.ReplaceAll(ctx, b.Templates); err != nil {
			return fmt.Errorf("import templates: %w", err)
		}
	}
	if b.ReferenceValues != nil {
		if err := s.references.ReplaceAll(ctx, b.ReferenceValues); err != nil {
			return fmt.Errorf("import reference values: %w", err)
		}
	}
	if b.Settings != nil {
		if err := s.settings.Upsert(ctx, b.Settings); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}
	log.Info().
		Int("patients", len(b.Patients)).
		Int("exams", len(b.Exams)).
		Int("templates", len(b.Templates)).
		Int("reference_values", len(b.ReferenceValues)).
		Str("version", b.Version).
		Msg("backup imported")
	return nil
}

// ImportJSON parses and imports a plaintext backup file.
func (s *Service) ImportJSON(ctx context.Context, data []byte) error {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}
	return s.Import(ctx, &b)
}

// ImportEncrypted decrypts and imports a sealed backup file.
func (s *Service) ImportEncrypted(ctx context.Context, data []byte, passphrase string) error {
	plain, err := Decrypt(data, passphrase)
	if err != nil {
		return err
	}
	return s.ImportJSON(ctx, plain)
}
