package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) List(_ context.Context) ([]*Patient, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) ReplaceAll(_ context.Context, patients []*Patient) error {
	m.patients = make(map[uuid.UUID]*Patient)
	for _, p := range patients {
		m.patients[p.ID] = p
	}
	return nil
}

type mockCascade struct {
	deleted []uuid.UUID
}

func (m *mockCascade) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	m.deleted = append(m.deleted, patientID)
	return nil
}

func validPatient() *Patient {
	return &Patient{
		Name:     "Rex",
		Species:  SpeciesDog,
		Breed:    "SRD",
		WeightKg: 12.5,
		Size:     SizeMedium,
		Sex:      SexMale,
	}
}

// -- Tests --

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo(), &mockCascade{})

	created, err := svc.Create(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if created.Name != "Rex" {
		t.Errorf("expected name Rex, got %s", created.Name)
	}
}

func TestCreatePatientValidation(t *testing.T) {
	svc := NewService(newMockRepo(), &mockCascade{})

	tests := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"empty name", func(p *Patient) { p.Name = "  " }},
		{"bad species", func(p *Patient) { p.Species = "bird" }},
		{"bad size", func(p *Patient) { p.Size = "giant" }},
		{"bad sex", func(p *Patient) { p.Sex = "unknown" }},
		{"zero weight", func(p *Patient) { p.WeightKg = 0 }},
		{"negative weight", func(p *Patient) { p.WeightKg = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatient()
			tt.mutate(p)
			if _, err := svc.Create(context.Background(), p); !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdatePatientPreservesIdentity(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockCascade{})

	created, err := svc.Create(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	origID := created.ID
	origCreatedAt := created.CreatedAt

	upd := validPatient()
	upd.ID = uuid.New() // a client-sent id must not win
	upd.Name = "Rex II"
	upd.IsNeutered = true

	got, err := svc.Update(context.Background(), origID, upd)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.ID != origID {
		t.Errorf("expected id %s preserved, got %s", origID, got.ID)
	}
	if !got.CreatedAt.Equal(origCreatedAt) {
		t.Error("expected created_at preserved")
	}
	if got.Name != "Rex II" || !got.IsNeutered {
		t.Error("expected mutable fields updated")
	}
}

func TestUpdatePatientNotFound(t *testing.T) {
	svc := NewService(newMockRepo(), &mockCascade{})

	if _, err := svc.Update(context.Background(), uuid.New(), validPatient()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePatientCascadesExams(t *testing.T) {
	repo := newMockRepo()
	cascade := &mockCascade{}
	svc := NewService(repo, cascade)

	created, err := svc.Create(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(cascade.deleted) != 1 || cascade.deleted[0] != created.ID {
		t.Errorf("expected exam cascade for %s, got %v", created.ID, cascade.deleted)
	}
	if _, err := repo.GetByID(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Error("expected patient removed")
	}
}

func TestDeletePatientNotFound(t *testing.T) {
	svc := NewService(newMockRepo(), &mockCascade{})

	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
