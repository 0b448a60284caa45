package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by PostgreSQL.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const settingsCols = `id, clinic_name, clinic_address, veterinarian_name, crmv, letterhead_path, letterhead_filename, letterhead_margins_mm, saved_backup_passphrase, updated_at`

func (r *repoPG) Get(ctx context.Context) (*Settings, error) {
	var (
		s           Settings
		marginsJSON []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT `+settingsCols+` FROM settings WHERE id = $1`, SingletonID).
		Scan(&s.ID, &s.ClinicName, &s.ClinicAddress, &s.VeterinarianName, &s.CRMV,
			&s.LetterheadPath, &s.LetterheadFilename, &marginsJSON, &s.SavedBackupPassphrase, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	if len(marginsJSON) > 0 {
		if err := json.Unmarshal(marginsJSON, &s.LetterheadMarginsMM); err != nil {
			return nil, fmt.Errorf("decode letterhead margins: %w", err)
		}
	}
	return &s, nil
}

func (r *repoPG) Upsert(ctx context.Context, s *Settings) error {
	s.ID = SingletonID
	marginsJSON, err := json.Marshal(s.LetterheadMarginsMM)
	if err != nil {
		return fmt.Errorf("encode letterhead margins: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO settings (id, clinic_name, clinic_address, veterinarian_name, crmv,
			letterhead_path, letterhead_filename, letterhead_margins_mm, saved_backup_passphrase)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			clinic_name = EXCLUDED.clinic_name,
			clinic_address = EXCLUDED.clinic_address,
			veterinarian_name = EXCLUDED.veterinarian_name,
			crmv = EXCLUDED.crmv,
			letterhead_path = EXCLUDED.letterhead_path,
			letterhead_filename = EXCLUDED.letterhead_filename,
			letterhead_margins_mm = EXCLUDED.letterhead_margins_mm,
			saved_backup_passphrase = EXCLUDED.saved_backup_passphrase,
			updated_at = NOW()`,
		s.ID, s.ClinicName, s.ClinicAddress, s.VeterinarianName, s.CRMV,
		s.LetterheadPath, s.LetterheadFilename, marginsJSON, s.SavedBackupPassphrase)
	return err
}
