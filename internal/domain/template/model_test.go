package template

import (
	"encoding/json"
	"testing"
)

func TestResolveBilingualFallback(t *testing.T) {
	tests := []struct {
		name string
		text LocalizedText
		lang string
		want string
	}{
		{"exact match", NewLocalized("Fígado normal.", "Liver normal."), "en-US", "Liver normal."},
		{"missing en falls back to pt", NewLocalized("Fígado normal.", ""), "en-US", "Fígado normal."},
		{"blank en falls back to pt", NewLocalized("Fígado normal.", "   "), "en-US", "Fígado normal."},
		{"empty lang uses pt", NewLocalized("Fígado normal.", "Liver normal."), "", "Fígado normal."},
		{"unknown lang uses pt", NewLocalized("Fígado normal.", "Liver normal."), "es-ES", "Fígado normal."},
		{"both empty", NewLocalized("", ""), "pt-BR", ""},
		{"legacy for any lang", NewLegacy("Texto antigo."), "en-US", "Texto antigo."},
		{"legacy empty lang", NewLegacy("Texto antigo."), "", "Texto antigo."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.text.Resolve(tt.lang); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.lang, got, tt.want)
			}
		})
	}
}

func TestLocalizedTextEmpty(t *testing.T) {
	if !NewLocalized("", "  ").Empty() {
		t.Error("blank bilingual must be empty")
	}
	if NewLocalized("", "text").Empty() {
		t.Error("any non-blank language means not empty")
	}
	if !NewLegacy("   ").Empty() {
		t.Error("blank legacy must be empty")
	}
	if NewLegacy("x").Empty() {
		t.Error("non-blank legacy must not be empty")
	}
	var zero LocalizedText
	if !zero.Empty() {
		t.Error("zero value must be empty")
	}
}

func TestLocalizedTextJSONPreservesForm(t *testing.T) {
	legacy, err := json.Marshal(NewLegacy("Texto antigo."))
	if err != nil {
		t.Fatalf("marshal legacy: %v", err)
	}
	if string(legacy) != `"Texto antigo."` {
		t.Errorf("legacy must marshal as a plain string, got %s", legacy)
	}

	bilingual, err := json.Marshal(NewLocalized("pt", "en"))
	if err != nil {
		t.Fatalf("marshal bilingual: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal(bilingual, &m); err != nil {
		t.Fatalf("bilingual must marshal as an object: %v", err)
	}
	if m["pt-BR"] != "pt" || m["en-US"] != "en" {
		t.Errorf("unexpected bilingual payload: %v", m)
	}

	var fromString LocalizedText
	if err := json.Unmarshal([]byte(`"antigo"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if !fromString.IsLegacy || fromString.Legacy != "antigo" {
		t.Errorf("string payload must decode as legacy, got %+v", fromString)
	}

	var fromNull LocalizedText
	if err := json.Unmarshal([]byte(`null`), &fromNull); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if fromNull.IsLegacy || !fromNull.Empty() {
		t.Errorf("null payload must decode as empty bilingual, got %+v", fromNull)
	}

	var roundTrip LocalizedText
	if err := json.Unmarshal(bilingual, &roundTrip); err != nil {
		t.Fatalf("unmarshal bilingual: %v", err)
	}
	if roundTrip.IsLegacy || roundTrip.ByLang["en-US"] != "en" {
		t.Errorf("bilingual round trip lost data: %+v", roundTrip)
	}
}

func TestDisplayTitleUntitledPlaceholder(t *testing.T) {
	titled := &Template{Title: NewLocalized("Normal", "Normal")}
	if got := titled.DisplayTitle("en-US"); got != "Normal" {
		t.Errorf("got %q", got)
	}

	untitled := &Template{Title: NewLocalized("", "")}
	if got := untitled.DisplayTitle("pt-BR"); got != "Sem título" {
		t.Errorf("pt-BR placeholder: got %q", got)
	}
	if got := untitled.DisplayTitle("en-US"); got != "Untitled" {
		t.Errorf("en-US placeholder: got %q", got)
	}
}
