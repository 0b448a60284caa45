package template

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tvusvet/tvusvet/internal/platform/i18n"
)

// LocalizedText is a bilingual value that also accepts the legacy storage
// form, a plain string in one implicit language. JSON round-trips preserve
// whichever form the record was stored in.
type LocalizedText struct {
	IsLegacy bool              `json:"-"`
	Legacy   string            `json:"-"`
	ByLang   map[string]string `json:"-"`
}

// NewLocalized builds the bilingual form.
func NewLocalized(ptBR, enUS string) LocalizedText {
	return LocalizedText{ByLang: map[string]string{i18n.LangPTBR: ptBR, i18n.LangENUS: enUS}}
}

// NewLegacy builds the plain-string form.
func NewLegacy(s string) LocalizedText {
	return LocalizedText{IsLegacy: true, Legacy: s}
}

// Resolve returns the text for lang. The bilingual form falls back to pt-BR
// when lang is empty or absent and may return ""; the legacy form returns its
// string for any language.
func (t LocalizedText) Resolve(lang string) string {
	if t.IsLegacy {
		return t.Legacy
	}
	if s := strings.TrimSpace(t.ByLang[lang]); s != "" {
		return t.ByLang[lang]
	}
	if s := strings.TrimSpace(t.ByLang[i18n.LangPTBR]); s != "" {
		return t.ByLang[i18n.LangPTBR]
	}
	return ""
}

// Empty reports whether no language resolves to usable content.
func (t LocalizedText) Empty() bool {
	if t.IsLegacy {
		return strings.TrimSpace(t.Legacy) == ""
	}
	for _, s := range t.ByLang {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.IsLegacy {
		return json.Marshal(t.Legacy)
	}
	if t.ByLang == nil {
		return json.Marshal(map[string]string{})
	}
	return json.Marshal(t.ByLang)
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		t.IsLegacy = true
		t.ByLang = nil
		return json.Unmarshal(data, &t.Legacy)
	}
	if trimmed == "null" {
		*t = LocalizedText{ByLang: map[string]string{}}
		return nil
	}
	t.IsLegacy = false
	t.Legacy = ""
	return json.Unmarshal(data, &t.ByLang)
}

// Template is a reusable text block for one catalog section. Insertion copies
// the resolved text into the exam; records are matched by section name, never
// by foreign key, so deleting a template never alters past exams.
type Template struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	SectionName string        `db:"organ_name" json:"organ"`
	Category    string        `db:"category" json:"category"`
	Title       LocalizedText `db:"title" json:"title"`
	Text        LocalizedText `db:"body" json:"text"`
	SortOrder   int           `db:"sort_order" json:"order"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// DisplayTitle resolves the title for lang, substituting the localized
// "untitled" placeholder when every form is empty.
func (t *Template) DisplayTitle(lang string) string {
	if s := t.Title.Resolve(lang); strings.TrimSpace(s) != "" {
		return s
	}
	return i18n.Get(lang).Untitled
}
