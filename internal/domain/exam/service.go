package exam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tvusvet/tvusvet/internal/domain/patient"
	"github.com/tvusvet/tvusvet/internal/domain/reference"
	"github.com/tvusvet/tvusvet/internal/domain/template"
	"github.com/tvusvet/tvusvet/internal/platform/imaging"
)

// Sentinel errors shared by the exam service and its handlers.
var (
	ErrNotFound   = errors.New("exam not found")
	ErrValidation = errors.New("validation failed")
)

// Service orchestrates the exam record lifecycle: create, load, edit, save.
type Service struct {
	repo          Repository
	patients      patient.Repository
	templates     template.Repository
	references    reference.Repository
	maxImageBytes int64
}

func NewService(repo Repository, patients patient.Repository, templates template.Repository, references reference.Repository, maxImageBytes int64) *Service {
	return &Service{
		repo:          repo,
		patients:      patients,
		templates:     templates,
		references:    references,
		maxImageBytes: maxImageBytes,
	}
}

// CreateRequest starts a new exam for a patient. ExamType defaults to
// ultrasound and is immutable afterwards. CopyWeight seeds the exam-time
// weight from the patient record.
type CreateRequest struct {
	PatientID  uuid.UUID `json:"patient_id"`
	ExamType   string    `json:"exam_type"`
	CopyWeight bool      `json:"copy_weight"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Exam, error) {
	if req.ExamType == "" {
		req.ExamType = TypeUltrasound
	}
	if !validTypes[req.ExamType] {
		return nil, fmt.Errorf("%w: invalid exam type %q", ErrValidation, req.ExamType)
	}
	p, err := s.patients.GetByID(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	x := &Exam{
		PatientID: p.ID,
		ExamType:  req.ExamType,
		ExamDate:  time.Now(),
		Entries:   Reconcile(SectionsFor(req.ExamType, p.Sex, p.IsNeutered), nil),
		Images:    []Image{},
	}
	if req.CopyWeight {
		w := p.WeightKg
		x.WeightKg = &w
	}
	if err := s.repo.Create(ctx, x); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	return s.repo.GetByID(ctx, x.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, patientID *uuid.UUID) ([]*Exam, error) {
	return s.repo.List(ctx, patientID)
}

// Workspace is everything the editing screen needs in one load: the exam with
// its sections reconciled against the current catalog, the owning patient,
// and the template and reference catalogs.
type Workspace struct {
	Exam       *Exam                `json:"exam"`
	Patient    *patient.Patient     `json:"patient"`
	Templates  []*template.Template `json:"templates"`
	References []*reference.Value   `json:"reference_values"`
}

// Load fails closed: a missing exam or patient is an error, never a partial
// view with fabricated defaults.
func (s *Service) Load(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	x, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, x.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	x.Entries = Reconcile(SectionsFor(x.ExamType, p.Sex, p.IsNeutered), x.Entries)

	tpls, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	refs, err := s.references.List(ctx, reference.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load reference values: %w", err)
	}
	return &Workspace{Exam: x, Patient: p, Templates: tpls, References: refs}, nil
}

// SaveRequest replaces the mutable exam state in one write. Weight accepts a
// JSON number, a numeric string (comma decimals included), empty string, or
// null.
type SaveRequest struct {
	Weight   json.RawMessage `json:"weight"`
	ExamDate *time.Time      `json:"exam_date"`
	Entries  []SectionEntry  `json:"organs_data"`
	Images   []Image         `json:"images"`
}

func (s *Service) Save(ctx context.Context, id uuid.UUID, req SaveRequest) (*Exam, error) {
	weight, err := parseWeight(req.Weight)
	if err != nil {
		return nil, err
	}
	x, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, x.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	x.WeightKg = weight
	if req.ExamDate != nil {
		x.ExamDate = *req.ExamDate
	}
	x.Entries = Reconcile(SectionsFor(x.ExamType, p.Sex, p.IsNeutered), req.Entries)
	if req.Images != nil {
		x.Images = req.Images
	}
	if err := s.repo.Update(ctx, x); err != nil {
		return nil, fmt.Errorf("save exam: %w", err)
	}
	return x, nil
}

// ImageUpload is one item of a batch upload. Data is a base64 data URL.
type ImageUpload struct {
	Filename string  `json:"filename"`
	Data     string  `json:"data"`
	Section  *string `json:"organ,omitempty"`
}

// AddImages validates and attaches a batch of images. Bad items are skipped
// with a warning; the batch never aborts for one bad item.
func (s *Service) AddImages(ctx context.Context, examID uuid.UUID, uploads []ImageUpload) (*Exam, []string, error) {
	x, err := s.repo.GetByID(ctx, examID)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	for _, up := range uploads {
		if s.maxImageBytes > 0 && int64(len(up.Data)) > s.maxImageBytes {
			warnings = append(warnings, fmt.Sprintf("%s: exceeds size limit", up.Filename))
			continue
		}
		dec, err := imaging.DecodeDataURL(up.Data)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", up.Filename, err))
			continue
		}
		if !dec.Embeddable() {
			warnings = append(warnings, fmt.Sprintf("%s: %s images cannot be embedded in the report", up.Filename, dec.Format))
			continue
		}
		x.Images = append(x.Images, Image{
			ID:       uuid.New(),
			Filename: up.Filename,
			Data:     up.Data,
			Section:  up.Section,
		})
	}

	if err := s.repo.Update(ctx, x); err != nil {
		return nil, nil, fmt.Errorf("save images: %w", err)
	}
	if len(warnings) > 0 {
		log.Warn().Int("rejected", len(warnings)).Str("exam_id", examID.String()).Msg("image batch partially rejected")
	}
	return x, warnings, nil
}

func (s *Service) RemoveImage(ctx context.Context, examID, imageID uuid.UUID) (*Exam, error) {
	x, err := s.repo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	kept := x.Images[:0]
	found := false
	for _, img := range x.Images {
		if img.ID == imageID {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, fmt.Errorf("%w: image %s", ErrNotFound, imageID)
	}
	x.Images = kept
	if err := s.repo.Update(ctx, x); err != nil {
		return nil, fmt.Errorf("save exam: %w", err)
	}
	return x, nil
}

// AddMeasurement stores one measurement in a section and returns the
// generated key.
func (s *Service) AddMeasurement(ctx context.Context, examID uuid.UUID, section, label string, m Measurement) (string, *Exam, error) {
	if !validUnits[m.Unit] {
		return "", nil, fmt.Errorf("%w: invalid unit %q", ErrValidation, m.Unit)
	}
	x, entry, err := s.loadEntry(ctx, examID, section)
	if err != nil {
		return "", nil, err
	}
	key := entry.AddMeasurement(label, m)
	if err := s.repo.Update(ctx, x); err != nil {
		return "", nil, fmt.Errorf("save exam: %w", err)
	}
	return key, x, nil
}

func (s *Service) RemoveMeasurement(ctx context.Context, examID uuid.UUID, section, key string) (*Exam, error) {
	x, entry, err := s.loadEntry(ctx, examID, section)
	if err != nil {
		return nil, err
	}
	entry.RemoveMeasurement(key)
	if err := s.repo.Update(ctx, x); err != nil {
		return nil, fmt.Errorf("save exam: %w", err)
	}
	return x, nil
}

// InsertText splices text into a section's report text at cursor, or appends
// with a newline when cursor is nil.
func (s *Service) InsertText(ctx context.Context, examID uuid.UUID, section, text string, cursor *int) (*Exam, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: nothing to insert", ErrValidation)
	}
	x, entry, err := s.loadEntry(ctx, examID, section)
	if err != nil {
		return nil, err
	}
	entry.ReportText = SpliceText(entry.ReportText, text, cursor)
	if err := s.repo.Update(ctx, x); err != nil {
		return nil, fmt.Errorf("save exam: %w", err)
	}
	return x, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// loadEntry fetches an exam with its entries reconciled against the current
// catalog and returns the named entry. Mutations through the returned pointer
// land in the exam's entry slice.
func (s *Service) loadEntry(ctx context.Context, examID uuid.UUID, section string) (*Exam, *SectionEntry, error) {
	x, err := s.repo.GetByID(ctx, examID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.patients.GetByID(ctx, x.PatientID)
	if err != nil {
		return nil, nil, fmt.Errorf("load patient: %w", err)
	}
	x.Entries = Reconcile(SectionsFor(x.ExamType, p.Sex, p.IsNeutered), x.Entries)
	entry := x.Entry(section)
	if entry == nil {
		return nil, nil, fmt.Errorf("%w: unknown section %q", ErrValidation, section)
	}
	return x, entry, nil
}

func parseWeight(raw json.RawMessage) (*float64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num <= 0 {
			return nil, fmt.Errorf("%w: weight must be positive", ErrValidation)
		}
		return &num, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil, fmt.Errorf("%w: weight must be numeric or empty", ErrValidation)
	}
	str = strings.TrimSpace(strings.ReplaceAll(str, ",", "."))
	if str == "" {
		return nil, nil
	}
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: weight must be numeric or empty", ErrValidation)
	}
	if num <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrValidation)
	}
	return &num, nil
}
