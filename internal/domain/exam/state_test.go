package exam

import (
	"reflect"
	"testing"
)

func TestReconcileSynthesizesMissingEntries(t *testing.T) {
	catalog := []string{"Fígado", "Baço"}
	got := Reconcile(catalog, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	for i, name := range catalog {
		if got[i].SectionName != name {
			t.Errorf("entry %d: expected %s, got %s", i, name, got[i].SectionName)
		}
		if got[i].ReportText != "" || len(got[i].Measurements) != 0 {
			t.Errorf("entry %s must be empty", name)
		}
		if got[i].Measurements == nil {
			t.Errorf("entry %s must have a non-nil measurements map", name)
		}
	}
}

func TestReconcileCarriesPersistedByName(t *testing.T) {
	persisted := []SectionEntry{
		{SectionName: "Baço", ReportText: "baço ok"},
		{SectionName: "Fígado", ReportText: "fígado ok"},
	}
	got := Reconcile([]string{"Fígado", "Baço"}, persisted)
	if got[0].SectionName != "Fígado" || got[0].ReportText != "fígado ok" {
		t.Errorf("catalog order must win over storage order, got %+v", got[0])
	}
	if got[1].ReportText != "baço ok" {
		t.Errorf("expected carried entry, got %+v", got[1])
	}
}

func TestReconcilePreservesStaleEntriesWithContent(t *testing.T) {
	// Neuter status changed: testes left the catalog but carry findings.
	persisted := []SectionEntry{
		{SectionName: "Fígado", ReportText: ""},
		{SectionName: "Testículo Direito", ReportText: "nódulo hipoecogênico"},
		{SectionName: "Testículo Esquerdo"},
	}
	got := Reconcile([]string{"Fígado", "Próstata"}, persisted)

	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.SectionName
	}
	want := []string{"Fígado", "Próstata", "Testículo Direito"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}
	if got[2].ReportText != "nódulo hipoecogênico" {
		t.Error("stale entry text must survive")
	}
}

func TestReconcileDropsEmptyStaleEntries(t *testing.T) {
	persisted := []SectionEntry{
		{SectionName: "Ovário Direito", Measurements: map[string]Measurement{}},
	}
	got := Reconcile([]string{"Fígado"}, persisted)
	if len(got) != 1 {
		t.Errorf("empty stale entry must be dropped, got %v", got)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	catalog := []string{"Fígado", "Baço", "Próstata"}
	persisted := []SectionEntry{
		{SectionName: "Baço", ReportText: "achado"},
		{SectionName: "Testículo Direito", ReportText: "stale"},
	}
	once := Reconcile(catalog, persisted)
	twice := Reconcile(catalog, once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("reconcile must be a fixed point:\n once %+v\ntwice %+v", once, twice)
	}
}

func TestSpliceTextAtCursor(t *testing.T) {
	// cursor offsets count runes, not bytes
	cursor := 2
	got := SpliceText("Fígado", "X", &cursor)
	if got != "FíXgado" {
		t.Errorf("got %q", got)
	}
}

func TestSpliceTextAppendsWithNewline(t *testing.T) {
	got := SpliceText("linha um", "linha dois", nil)
	if got != "linha um\nlinha dois" {
		t.Errorf("got %q", got)
	}
	if SpliceText("", "texto", nil) != "texto" {
		t.Error("append into empty text must not add a newline")
	}
}

func TestSpliceTextOutOfRangeCursorAppends(t *testing.T) {
	cursor := 99
	got := SpliceText("abc", "x", &cursor)
	if got != "abc\nx" {
		t.Errorf("got %q", got)
	}
}

func TestSpliceTextRepeatedInsertionDuplicates(t *testing.T) {
	once := SpliceText("base", "frase", nil)
	twice := SpliceText(once, "frase", nil)
	if twice != "base\nfrase\nfrase" {
		t.Errorf("got %q", twice)
	}
}
