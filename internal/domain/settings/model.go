package settings

import "time"

// SingletonID is the fixed key of the one settings row.
const SingletonID = "global_settings"

// Margins are the letterhead print margins in millimeters. Informational;
// the export applies its own fixed page geometry.
type Margins struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Settings is the clinic-wide singleton: identification printed on reports,
// the optional letterhead image (inline data URL), and the optional saved
// backup passphrase.
type Settings struct {
	ID                    string    `db:"id" json:"id"`
	ClinicName            string    `db:"clinic_name" json:"clinic_name"`
	ClinicAddress         string    `db:"clinic_address" json:"clinic_address"`
	VeterinarianName      string    `db:"veterinarian_name" json:"veterinarian_name"`
	CRMV                  string    `db:"crmv" json:"crmv"`
	LetterheadPath        *string   `db:"letterhead_path" json:"letterhead_path"`
	LetterheadFilename    *string   `db:"letterhead_filename" json:"letterhead_filename"`
	LetterheadMarginsMM   Margins   `db:"letterhead_margins_mm" json:"letterhead_margins_mm"`
	SavedBackupPassphrase *string   `db:"saved_backup_passphrase" json:"saved_backup_passphrase"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// Defaults is the settings row before the clinic fills anything in.
func Defaults() *Settings {
	return &Settings{
		ID:                  SingletonID,
		LetterheadMarginsMM: Margins{Top: 30, Left: 15, Right: 15, Bottom: 20},
	}
}
