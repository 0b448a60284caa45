package template

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	templates []*Template
}

func (m *mockRepo) Create(_ context.Context, t *Template) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.templates = append(m.templates, t)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Template, error) {
	for _, t := range m.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) List(_ context.Context) ([]*Template, error) {
	return m.templates, nil
}

func (m *mockRepo) ListBySection(_ context.Context, sectionName string) ([]*Template, error) {
	var result []*Template
	for _, t := range m.templates {
		if t.SectionName == sectionName {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockRepo) Update(_ context.Context, t *Template) error {
	for i, existing := range m.templates {
		if existing.ID == t.ID {
			m.templates[i] = t
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, t := range m.templates {
		if t.ID == id {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.templates), nil
}

func (m *mockRepo) ReplaceAll(_ context.Context, templates []*Template) error {
	m.templates = templates
	return nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&mockRepo{})

	tests := []struct {
		name string
		tpl  *Template
	}{
		{"missing organ", &Template{Text: NewLocalized("texto", "")}},
		{"blank organ", &Template{SectionName: "  ", Text: NewLocalized("texto", "")}},
		{"empty text", &Template{SectionName: "Fígado", Text: NewLocalized("", "  ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.tpl); !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	created, err := svc.Create(context.Background(), &Template{
		SectionName: "Fígado",
		Title:       NewLocalized("Normal", "Normal"),
		Text:        NewLocalized("Fígado normal.", "Liver normal."),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("created template must get an id")
	}
}

func TestListBySection(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	for _, organ := range []string{"Fígado", "Baço", "Fígado"} {
		if _, err := svc.Create(context.Background(), &Template{
			SectionName: organ,
			Text:        NewLocalized("texto", ""),
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 templates, got %d", len(all))
	}
	liver, err := svc.List(context.Background(), "Fígado")
	if err != nil {
		t.Fatalf("List filtered failed: %v", err)
	}
	if len(liver) != 2 {
		t.Errorf("expected 2 liver templates, got %d", len(liver))
	}
}

func TestResolveForInsertion(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &Template{
		SectionName: "Fígado",
		Text:        NewLocalized("Fígado normal.", ""),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	text, err := svc.ResolveForInsertion(context.Background(), created.ID, "en-US")
	if err != nil {
		t.Fatalf("ResolveForInsertion failed: %v", err)
	}
	if text != "Fígado normal." {
		t.Errorf("expected pt-BR fallback, got %q", text)
	}

	if _, err := svc.ResolveForInsertion(context.Background(), uuid.New(), "pt-BR"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// content emptied after creation, e.g. by a raw import
	created.Text = LocalizedText{ByLang: map[string]string{}}
	if _, err := svc.ResolveForInsertion(context.Background(), created.ID, "pt-BR"); !errors.Is(err, ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}

func TestSeedDefaults(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	ultrasound := []string{"Estômago", "Fígado", "Baço"}
	echo := []string{"Átrio Direito", "Valva Mitral"}
	ecg := []string{"Ritmo e Frequência"}

	if err := svc.SeedDefaults(context.Background(), ultrasound, echo, ecg); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if len(repo.templates) != 3*3+2+1 {
		t.Fatalf("expected 12 seeded templates, got %d", len(repo.templates))
	}

	liver, _ := repo.ListBySection(context.Background(), "Fígado")
	if len(liver) != 3 {
		t.Fatalf("expected 3 templates per ultrasound organ, got %d", len(liver))
	}
	normal := liver[0]
	if normal.Category != "normal" {
		t.Errorf("first seed per organ must be the normal template, got %s", normal.Category)
	}
	wantPT := "Fígado com dimensões, contornos, ecogenicidade e ecotextura preservados."
	if got := normal.Text.Resolve("pt-BR"); got != wantPT {
		t.Errorf("got %q, want %q", got, wantPT)
	}

	mitral, _ := repo.ListBySection(context.Background(), "Valva Mitral")
	if len(mitral) != 1 {
		t.Fatalf("expected 1 echo seed, got %d", len(mitral))
	}
	if got := mitral[0].Text.Resolve("pt-BR"); got != "Avaliação de Valva Mitral dentro dos padrões de normalidade." {
		t.Errorf("echo seed text: got %q", got)
	}

	rhythm, _ := repo.ListBySection(context.Background(), "Ritmo e Frequência")
	if got := rhythm[0].Text.Resolve("en-US"); got != "Ritmo e Frequência: Within normal limits." {
		t.Errorf("ecg seed text: got %q", got)
	}
}

func TestSeedDefaultsSkipsWhenPopulated(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	if _, err := svc.Create(context.Background(), &Template{
		SectionName: "Fígado",
		Text:        NewLocalized("texto", ""),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.SeedDefaults(context.Background(), []string{"Fígado"}, nil, nil); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if len(repo.templates) != 1 {
		t.Errorf("seeding must be a no-op on a populated table, got %d templates", len(repo.templates))
	}
}
