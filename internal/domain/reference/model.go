package reference

import (
	"time"

	"github.com/google/uuid"
)

// Value is an advisory normal range for one measurement of one organ,
// qualified by species and size class. Display data only; nothing validates
// against it.
type Value struct {
	ID              uuid.UUID `db:"id" json:"id"`
	SectionName     string    `db:"organ_name" json:"organ"`
	MeasurementType string    `db:"measurement_type" json:"measurement_type"`
	Species         string    `db:"species" json:"species"`
	Size            string    `db:"size" json:"size"`
	MinValue        float64   `db:"min_value" json:"min_value"`
	MaxValue        float64   `db:"max_value" json:"max_value"`
	Unit            string    `db:"unit" json:"unit"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Filter narrows a listing; zero-value fields match everything.
type Filter struct {
	Organ   string
	Species string
	Size    string
}
