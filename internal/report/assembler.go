// Package report assembles the exported exam document: header, title,
// patient block, findings in catalog order, and image plates.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tvusvet/tvusvet/internal/domain/exam"
	"github.com/tvusvet/tvusvet/internal/domain/patient"
	"github.com/tvusvet/tvusvet/internal/domain/settings"
	"github.com/tvusvet/tvusvet/internal/platform/docx"
	"github.com/tvusvet/tvusvet/internal/platform/i18n"
	"github.com/tvusvet/tvusvet/internal/platform/imaging"
)

// Plate geometry: six thumbnails per plate, rows of three.
const (
	plateSize = 6
	plateCols = 3

	thumbWidth  = 180
	thumbHeight = 140

	letterheadWidth = 595
)

// Assemble builds the export document model. Entries must already be
// reconciled against the catalog; sections render in that order. Unreadable
// images become placeholder cells and are reported as warnings, never
// failures.
func Assemble(p *patient.Patient, x *exam.Exam, st *settings.Settings, lang string) (*docx.Document, string, []string) {
	labels := i18n.Get(lang)
	doc := &docx.Document{}
	var warnings []string

	assembleHeader(doc, st, &warnings)

	doc.AddText(docx.StyleTitle, reportTitle(x.ExamType, labels))

	assemblePatientBlock(doc, p, x, labels)
	assembleFindings(doc, x, labels)
	warnings = append(warnings, assemblePlates(doc, x, labels)...)

	filename := fmt.Sprintf("laudo_%s_%s.docx",
		strings.ReplaceAll(strings.TrimSpace(p.Name), " ", "_"),
		x.ExamDate.Format("2006-01-02"))
	return doc, filename, warnings
}

func reportTitle(examType string, labels i18n.Labels) string {
	switch examType {
	case exam.TypeEcho:
		return labels.ReportTitleEcho
	case exam.TypeECG:
		return labels.ReportTitleECG
	default:
		return labels.ReportTitleUS
	}
}

// assembleHeader prefers the letterhead image; anything unreadable falls back
// to the text header built from the clinic settings, empty lines omitted.
func assembleHeader(doc *docx.Document, st *settings.Settings, warnings *[]string) {
	if st.LetterheadPath != nil && *st.LetterheadPath != "" {
		dec, err := imaging.DecodeDataURL(*st.LetterheadPath)
		if err == nil && dec.Embeddable() && dec.Width > 0 {
			doc.HeaderImage = &docx.Image{
				Bytes:  dec.Bytes,
				Format: dec.Format,
				Width:  letterheadWidth,
				Height: dec.Height * letterheadWidth / dec.Width,
			}
			return
		}
		*warnings = append(*warnings, "letterhead is not a usable image; using text header")
	}
	vet := strings.TrimSpace(st.VeterinarianName)
	if crmv := strings.TrimSpace(st.CRMV); crmv != "" {
		if vet != "" {
			vet += " - "
		}
		vet += "CRMV: " + crmv
	}
	for _, line := range []string{st.ClinicName, vet, st.ClinicAddress} {
		if strings.TrimSpace(line) != "" {
			doc.HeaderLines = append(doc.HeaderLines, line)
		}
	}
}

func assemblePatientBlock(doc *docx.Document, p *patient.Patient, x *exam.Exam, labels i18n.Labels) {
	doc.AddText(docx.StyleHeading1, labels.PatientData)

	weight := p.WeightKg
	if x.WeightKg != nil {
		weight = *x.WeightKg
	}

	fields := []struct {
		label string
		value string
	}{
		{labels.PatientName, p.Name},
		{labels.Species, speciesLabel(p.Species, labels)},
		{labels.Breed, p.Breed},
		{labels.Weight, formatWeight(weight)},
		{labels.Size, sizeLabel(p.Size, labels)},
		{labels.Sex, sexLabel(p.Sex, labels)},
	}
	for _, f := range fields {
		addField(doc, f.label, f.value)
	}
	if p.IsNeutered {
		addField(doc, labels.Neutered, labels.Yes)
	}
	if p.OwnerName != nil {
		addField(doc, labels.Owner, *p.OwnerName)
	}
	addField(doc, labels.ExamDate, x.ExamDate.Format(labels.DateLayout))
}

// addField emits one "Label: value" line, skipping empty values entirely.
func addField(doc *docx.Document, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	doc.AddParagraph(docx.Paragraph{Runs: []docx.Run{
		{Text: label + ": ", Bold: true},
		{Text: value},
	}})
}

func formatWeight(w float64) string {
	if w <= 0 {
		return ""
	}
	return strconv.FormatFloat(w, 'f', -1, 64) + " kg"
}

func speciesLabel(species string, labels i18n.Labels) string {
	switch species {
	case patient.SpeciesDog:
		return labels.Dog
	case patient.SpeciesCat:
		return labels.Cat
	}
	return species
}

func sizeLabel(size string, labels i18n.Labels) string {
	switch size {
	case patient.SizeSmall:
		return labels.Small
	case patient.SizeMedium:
		return labels.Medium
	case patient.SizeLarge:
		return labels.Large
	}
	return size
}

func sexLabel(sex string, labels i18n.Labels) string {
	switch sex {
	case patient.SexMale:
		return labels.Male
	case patient.SexFemale:
		return labels.Female
	}
	return sex
}

// assembleFindings emits one subheading per section with non-blank report
// text, one paragraph per non-blank line, in the entry order (catalog order
// with stale carried entries last). Empty sections are omitted, not rendered
// as placeholders.
func assembleFindings(doc *docx.Document, x *exam.Exam, labels i18n.Labels) {
	any := false
	for _, entry := range x.Entries {
		if strings.TrimSpace(entry.ReportText) == "" {
			continue
		}
		if !any {
			doc.AddText(docx.StyleHeading1, labels.Findings)
			any = true
		}
		doc.AddText(docx.StyleHeading2, entry.SectionName)
		for _, line := range strings.Split(entry.ReportText, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			doc.AddText(docx.StyleNormal, line)
		}
	}
}

// assemblePlates lays the attachments out six to a plate, three per row, with
// a page break before the first plate and between consecutive plates. A
// corrupt image becomes a placeholder cell with an error caption.
func assemblePlates(doc *docx.Document, x *exam.Exam, labels i18n.Labels) []string {
	if len(x.Images) == 0 {
		return nil
	}
	var warnings []string

	doc.AddPageBreak()
	doc.AddText(docx.StyleHeading1, labels.Images)

	for start := 0; start < len(x.Images); start += plateSize {
		if start > 0 {
			doc.AddPageBreak()
		}
		end := start + plateSize
		if end > len(x.Images) {
			end = len(x.Images)
		}
		doc.AddTable(buildPlate(x.Images[start:end], labels, &warnings))
	}
	return warnings
}

func buildPlate(images []exam.Image, labels i18n.Labels, warnings *[]string) docx.Table {
	var table docx.Table
	for rowStart := 0; rowStart < len(images); rowStart += plateCols {
		rowEnd := rowStart + plateCols
		if rowEnd > len(images) {
			rowEnd = len(images)
		}
		var row []docx.Cell
		for _, img := range images[rowStart:rowEnd] {
			row = append(row, imageCell(img, labels, warnings))
		}
		// pad to full width so thumbnails keep the same column size on
		// every plate
		for len(row) < plateCols {
			row = append(row, docx.Cell{})
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func imageCell(img exam.Image, labels i18n.Labels, warnings *[]string) docx.Cell {
	caption := ""
	if img.Section != nil {
		caption = *img.Section
	}

	dec, err := imaging.DecodeDataURL(img.Data)
	if err != nil || !dec.Embeddable() {
		*warnings = append(*warnings, fmt.Sprintf("%s: unreadable image skipped", img.Filename))
		return docx.Cell{Paragraphs: []docx.Paragraph{
			{Align: docx.AlignCenter, Runs: []docx.Run{{Text: "[ X ]", Bold: true}}},
			{Align: docx.AlignCenter, Runs: []docx.Run{{Text: labels.ImageError, Italic: true}}},
		}}
	}

	cell := docx.Cell{Paragraphs: []docx.Paragraph{
		{Align: docx.AlignCenter, Runs: []docx.Run{{Image: &docx.Image{
			Bytes:  dec.Bytes,
			Format: dec.Format,
			Width:  thumbWidth,
			Height: thumbHeight,
		}}}},
	}}
	cell.Paragraphs = append(cell.Paragraphs, docx.Paragraph{
		Align: docx.AlignCenter,
		Runs:  []docx.Run{{Text: caption, Italic: true}},
	})
	return cell
}
