package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tvusvet/tvusvet/internal/domain/exam"
	"github.com/tvusvet/tvusvet/internal/domain/settings"
	"github.com/tvusvet/tvusvet/internal/platform/docx"
	"github.com/tvusvet/tvusvet/internal/platform/i18n"
)

// Service turns a saved exam into a downloadable .docx report.
type Service struct {
	exams    *exam.Service
	settings settings.Repository
}

func NewService(exams *exam.Service, settingsRepo settings.Repository) *Service {
	return &Service{exams: exams, settings: settingsRepo}
}

// ExportRequest carries the language plus, optionally, the editor's current
// state. When Save is present it is persisted first so the document always
// reflects the latest edits.
type ExportRequest struct {
	Language string            `json:"language"`
	Save     *exam.SaveRequest `json:"save,omitempty"`
}

// Result is a rendered report ready to stream to the client.
type Result struct {
	Filename string
	Data     []byte
	Warnings []string
}

func (s *Service) Export(ctx context.Context, examID uuid.UUID, req ExportRequest) (*Result, error) {
	lang := req.Language
	if lang == "" {
		lang = i18n.LangPTBR
	}
	if !i18n.Supported(lang) {
		return nil, fmt.Errorf("%w: unsupported language %q", exam.ErrValidation, lang)
	}

	if req.Save != nil {
		if _, err := s.exams.Save(ctx, examID, *req.Save); err != nil {
			return nil, err
		}
	}

	ws, err := s.exams.Load(ctx, examID)
	if err != nil {
		return nil, err
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	doc, filename, warnings := Assemble(ws.Patient, ws.Exam, st, lang)

	var buf bytes.Buffer
	if err := docx.Write(&buf, doc); err != nil {
		return nil, fmt.Errorf("serialize report: %w", err)
	}
	log.Info().
		Str("exam_id", examID.String()).
		Str("filename", filename).
		Int("bytes", buf.Len()).
		Int("warnings", len(warnings)).
		Msg("report exported")
	return &Result{Filename: filename, Data: buf.Bytes(), Warnings: warnings}, nil
}
