package patient

import (
	"time"

	"github.com/google/uuid"
)

// Species values accepted for a patient.
const (
	SpeciesDog = "dog"
	SpeciesCat = "cat"
)

// Size classes used by reference value lookups.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Sex values accepted for a patient.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Patient maps to the patients table. Identity is immutable once created;
// every other field may change between exams.
type Patient struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Species    string    `db:"species" json:"species"`
	Breed      string    `db:"breed" json:"breed"`
	WeightKg   float64   `db:"weight_kg" json:"weight"`
	Size       string    `db:"size" json:"size"`
	Sex        string    `db:"sex" json:"sex"`
	IsNeutered bool      `db:"is_neutered" json:"is_neutered"`
	OwnerName  *string   `db:"owner_name" json:"owner_name,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

var validSpecies = map[string]bool{SpeciesDog: true, SpeciesCat: true}

var validSizes = map[string]bool{SizeSmall: true, SizeMedium: true, SizeLarge: true}

var validSexes = map[string]bool{SexMale: true, SexFemale: true}
