package exam

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Measurement units accepted for section measurements.
const (
	UnitCm = "cm"
	UnitMm = "mm"
)

var validUnits = map[string]bool{UnitCm: true, UnitMm: true}

// Measurement is a single measured value inside a section.
type Measurement struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	IsAbnormal bool    `json:"is_abnormal,omitempty"`
}

// SectionEntry holds the operator's findings for one catalog section. Entries
// are identified by section name within an exam, so the name must match the
// catalog exactly.
type SectionEntry struct {
	SectionName  string                 `json:"organ_name"`
	Measurements map[string]Measurement `json:"measurements"`
	ReportText   string                 `json:"report_text"`
}

// HasContent reports whether the entry carries operator input worth keeping.
func (e *SectionEntry) HasContent() bool {
	return strings.TrimSpace(e.ReportText) != "" || len(e.Measurements) > 0
}

// AddMeasurement stores a measurement under a key derived from label and
// returns the key. An empty label becomes medida_N with the first free N; an
// explicit label that collides gets a _2, _3, ... suffix. Existing
// measurements are never overwritten.
func (e *SectionEntry) AddMeasurement(label string, m Measurement) string {
	if e.Measurements == nil {
		e.Measurements = make(map[string]Measurement)
	}
	key := measurementKey(label)
	if key == "" {
		for i := 1; ; i++ {
			candidate := fmt.Sprintf("medida_%d", i)
			if _, exists := e.Measurements[candidate]; !exists {
				key = candidate
				break
			}
		}
	} else if _, exists := e.Measurements[key]; exists {
		base := key
		for i := 2; ; i++ {
			candidate := fmt.Sprintf("%s_%d", base, i)
			if _, exists := e.Measurements[candidate]; !exists {
				key = candidate
				break
			}
		}
	}
	e.Measurements[key] = m
	return key
}

// RemoveMeasurement deletes one key; unknown keys are a no-op.
func (e *SectionEntry) RemoveMeasurement(key string) {
	delete(e.Measurements, key)
}

func measurementKey(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '-':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}

// Image is an attachment owned by its exam. Data is an inline data URL as
// uploaded by the client.
type Image struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Data     string    `json:"data"`
	Section  *string   `json:"organ,omitempty"`
}

// Exam maps to the exams table. Section entries and images live in JSONB
// columns; WeightKg overrides the patient's registered weight for this visit
// when set.
type Exam struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	PatientID uuid.UUID      `db:"patient_id" json:"patient_id"`
	ExamType  string         `db:"exam_type" json:"exam_type"`
	ExamDate  time.Time      `db:"exam_date" json:"exam_date"`
	WeightKg  *float64       `db:"weight_kg" json:"weight,omitempty"`
	Entries   []SectionEntry `db:"organs_data" json:"organs_data"`
	Images    []Image        `db:"images" json:"images"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// Entry returns the entry named name, or nil.
func (x *Exam) Entry(name string) *SectionEntry {
	for i := range x.Entries {
		if x.Entries[i].SectionName == name {
			return &x.Entries[i]
		}
	}
	return nil
}
