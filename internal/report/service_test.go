package report

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tvusvet/tvusvet/internal/domain/exam"
	"github.com/tvusvet/tvusvet/internal/domain/patient"
	"github.com/tvusvet/tvusvet/internal/domain/reference"
	"github.com/tvusvet/tvusvet/internal/domain/settings"
	"github.com/tvusvet/tvusvet/internal/domain/template"
)

type memExamRepo struct{ exams map[uuid.UUID]*exam.Exam }

func (m *memExamRepo) Create(_ context.Context, x *exam.Exam) error {
	if x.ID == uuid.Nil {
		x.ID = uuid.New()
	}
	m.exams[x.ID] = x
	return nil
}
func (m *memExamRepo) GetByID(_ context.Context, id uuid.UUID) (*exam.Exam, error) {
	x, ok := m.exams[id]
	if !ok {
		return nil, exam.ErrNotFound
	}
	return x, nil
}
func (m *memExamRepo) List(_ context.Context, _ *uuid.UUID) ([]*exam.Exam, error) { return nil, nil }
func (m *memExamRepo) Update(_ context.Context, x *exam.Exam) error {
	m.exams[x.ID] = x
	return nil
}
func (m *memExamRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (m *memExamRepo) DeleteByPatient(_ context.Context, _ uuid.UUID) error { return nil }
func (m *memExamRepo) ReplaceAll(_ context.Context, _ []*exam.Exam) error { return nil }

type memPatientRepo struct{ patients map[uuid.UUID]*patient.Patient }

func (m *memPatientRepo) Create(_ context.Context, _ *patient.Patient) error { return nil }
func (m *memPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}
func (m *memPatientRepo) List(_ context.Context) ([]*patient.Patient, error) { return nil, nil }
func (m *memPatientRepo) Update(_ context.Context, _ *patient.Patient) error { return nil }
func (m *memPatientRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (m *memPatientRepo) ReplaceAll(_ context.Context, _ []*patient.Patient) error { return nil }

type memTemplateRepo struct{}

func (memTemplateRepo) Create(_ context.Context, _ *template.Template) error { return nil }
func (memTemplateRepo) GetByID(_ context.Context, _ uuid.UUID) (*template.Template, error) {
	return nil, template.ErrNotFound
}
func (memTemplateRepo) List(_ context.Context) ([]*template.Template, error) { return nil, nil }
func (memTemplateRepo) ListBySection(_ context.Context, _ string) ([]*template.Template, error) {
	return nil, nil
}
func (memTemplateRepo) Update(_ context.Context, _ *template.Template) error { return nil }
func (memTemplateRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (memTemplateRepo) Count(_ context.Context) (int, error) { return 0, nil }
func (memTemplateRepo) ReplaceAll(_ context.Context, _ []*template.Template) error { return nil }

type memReferenceRepo struct{}

func (memReferenceRepo) Create(_ context.Context, _ *reference.Value) error { return nil }
func (memReferenceRepo) GetByID(_ context.Context, _ uuid.UUID) (*reference.Value, error) {
	return nil, reference.ErrNotFound
}
func (memReferenceRepo) List(_ context.Context, _ reference.Filter) ([]*reference.Value, error) {
	return nil, nil
}
func (memReferenceRepo) Update(_ context.Context, _ *reference.Value) error { return nil }
func (memReferenceRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (memReferenceRepo) Count(_ context.Context) (int, error) { return 0, nil }
func (memReferenceRepo) ReplaceAll(_ context.Context, _ []*reference.Value) error { return nil }

type memSettingsRepo struct{}

func (memSettingsRepo) Get(_ context.Context) (*settings.Settings, error) {
	return settings.Defaults(), nil
}
func (memSettingsRepo) Upsert(_ context.Context, _ *settings.Settings) error { return nil }

func newExportFixture(t *testing.T) (*Service, *exam.Exam) {
	t.Helper()
	examRepo := &memExamRepo{exams: make(map[uuid.UUID]*exam.Exam)}
	p := testPatient()
	patientRepo := &memPatientRepo{patients: map[uuid.UUID]*patient.Patient{p.ID: p}}
	examSvc := exam.NewService(examRepo, patientRepo, memTemplateRepo{}, memReferenceRepo{}, 0)

	x, err := examSvc.Create(context.Background(), exam.CreateRequest{PatientID: p.ID})
	if err != nil {
		t.Fatalf("create exam: %v", err)
	}
	return NewService(examSvc, memSettingsRepo{}), x
}

func TestExportProducesDocxPackage(t *testing.T) {
	svc, x := newExportFixture(t)

	res, err := svc.Export(context.Background(), x.ID, ExportRequest{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if res.Filename == "" || len(res.Data) == 0 {
		t.Fatal("empty result")
	}
	if _, err := zip.NewReader(bytes.NewReader(res.Data), int64(len(res.Data))); err != nil {
		t.Errorf("export is not a zip package: %v", err)
	}
}

func TestExportRejectsUnsupportedLanguage(t *testing.T) {
	svc, x := newExportFixture(t)

	if _, err := svc.Export(context.Background(), x.ID, ExportRequest{Language: "fr-FR"}); !errors.Is(err, exam.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestExportSavesBeforeAssembling(t *testing.T) {
	svc, x := newExportFixture(t)

	if _, err := svc.Export(context.Background(), x.ID, ExportRequest{
		Language: "pt-BR",
		Save: &exam.SaveRequest{
			Weight:  json.RawMessage(`"7,5"`),
			Entries: []exam.SectionEntry{{SectionName: "Fígado", ReportText: "Hepatomegalia discreta."}},
		},
	}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	ws, err := svc.exams.Load(context.Background(), x.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ws.Exam.WeightKg == nil || *ws.Exam.WeightKg != 7.5 {
		t.Error("embedded save must persist the weight")
	}
	if ws.Exam.Entry("Fígado").ReportText != "Hepatomegalia discreta." {
		t.Error("embedded save must persist the findings")
	}
}

func TestExportUnknownExam(t *testing.T) {
	svc, _ := newExportFixture(t)

	if _, err := svc.Export(context.Background(), uuid.New(), ExportRequest{}); !errors.Is(err, exam.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
