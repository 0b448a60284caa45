package report

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tvusvet/tvusvet/internal/domain/exam"
	"github.com/tvusvet/tvusvet/internal/domain/patient"
	"github.com/tvusvet/tvusvet/internal/domain/settings"
	"github.com/tvusvet/tvusvet/internal/platform/docx"
	"github.com/tvusvet/tvusvet/internal/platform/i18n"
)

func testPatient() *patient.Patient {
	return &patient.Patient{
		ID:       uuid.New(),
		Name:     "Luna Maria",
		Species:  patient.SpeciesDog,
		Breed:    "SRD",
		WeightKg: 8.3,
		Size:     patient.SizeSmall,
		Sex:      patient.SexFemale,
	}
}

func testExam(p *patient.Patient) *exam.Exam {
	return &exam.Exam{
		ID:        uuid.New(),
		PatientID: p.ID,
		ExamType:  exam.TypeUltrasound,
		ExamDate:  time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		Entries:   exam.Reconcile(exam.SectionsFor(exam.TypeUltrasound, p.Sex, p.IsNeutered), nil),
	}
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// paragraphTexts flattens every paragraph block into its concatenated run text.
func paragraphTexts(doc *docx.Document) []string {
	var out []string
	for _, b := range doc.Blocks {
		if b.Paragraph == nil {
			continue
		}
		var sb strings.Builder
		for _, r := range b.Paragraph.Runs {
			sb.WriteString(r.Text)
		}
		out = append(out, sb.String())
	}
	return out
}

func countTables(doc *docx.Document) int {
	n := 0
	for _, b := range doc.Blocks {
		if b.Table != nil {
			n++
		}
	}
	return n
}

func TestAssembleFilename(t *testing.T) {
	p := testPatient()
	x := testExam(p)

	_, filename, _ := Assemble(p, x, settings.Defaults(), i18n.LangPTBR)
	if filename != "laudo_Luna_Maria_2026-03-05.docx" {
		t.Errorf("got %q", filename)
	}
}

func TestAssembleFindingsOmitEmptySections(t *testing.T) {
	labels := i18n.Get(i18n.LangPTBR)
	p := testPatient()
	x := testExam(p)
	x.Entry("Fígado").ReportText = "Fígado normal.\n\nSem nódulos."
	x.Entry("Baço").ReportText = "   "
	x.Entry("Cólon").ReportText = "Parede preservada."

	doc, _, warnings := Assemble(p, x, settings.Defaults(), i18n.LangPTBR)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	texts := paragraphTexts(doc)
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, labels.Findings) {
		t.Error("findings heading missing")
	}
	if strings.Contains(joined, "Baço") {
		t.Error("blank section must be omitted")
	}
	if strings.Contains(joined, "Estômago") {
		t.Error("empty section must be omitted")
	}

	// liver precedes colon, matching catalog order
	liver := strings.Index(joined, "Fígado normal.")
	colon := strings.Index(joined, "Parede preservada.")
	if liver == -1 || colon == -1 || liver > colon {
		t.Errorf("findings out of order: %q", joined)
	}
	if !strings.Contains(joined, "Sem nódulos.") {
		t.Error("second line missing")
	}
}

func TestAssembleNoFindingsHeadingWhenAllEmpty(t *testing.T) {
	labels := i18n.Get(i18n.LangPTBR)
	p := testPatient()
	x := testExam(p)

	doc, _, _ := Assemble(p, x, settings.Defaults(), i18n.LangPTBR)
	for _, text := range paragraphTexts(doc) {
		if text == labels.Findings {
			t.Fatal("findings heading must not render without content")
		}
	}
}

func TestAssemblePlatesSplitAtSix(t *testing.T) {
	p := testPatient()
	x := testExam(p)
	data := pngDataURL(t, 4, 3)
	for i := 0; i < 7; i++ {
		section := "Fígado"
		x.Images = append(x.Images, exam.Image{
			ID: uuid.New(), Filename: "img.png", Data: data, Section: &section,
		})
	}

	doc, _, warnings := Assemble(p, x, settings.Defaults(), i18n.LangPTBR)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if got := countTables(doc); got != 2 {
		t.Fatalf("expected 2 plates, got %d", got)
	}

	var plates []*docx.Table
	for _, b := range doc.Blocks {
		if b.Table != nil {
			plates = append(plates, b.Table)
		}
	}
	if len(plates[0].Rows) != 2 {
		t.Errorf("full plate must hold 2 rows, got %d", len(plates[0].Rows))
	}
	if len(plates[1].Rows) != 1 || len(plates[1].Rows[0]) != 3 {
		t.Fatal("remainder plate must hold one padded row")
	}
	if len(plates[1].Rows[0][0].Paragraphs) == 0 {
		t.Error("leftover image missing from remainder plate")
	}
	if len(plates[1].Rows[0][1].Paragraphs) != 0 || len(plates[1].Rows[0][2].Paragraphs) != 0 {
		t.Error("padding cells must stay empty")
	}
}

func TestAssembleCorruptImagePlaceholder(t *testing.T) {
	labels := i18n.Get(i18n.LangPTBR)
	p := testPatient()
	x := testExam(p)
	x.Images = []exam.Image{{
		ID:       uuid.New(),
		Filename: "quebrada.png",
		Data:     "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("lixo")),
	}}

	doc, _, warnings := Assemble(p, x, settings.Defaults(), i18n.LangPTBR)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "quebrada.png") {
		t.Fatalf("expected one warning naming the file, got %v", warnings)
	}

	var plate *docx.Table
	for _, b := range doc.Blocks {
		if b.Table != nil {
			plate = b.Table
		}
	}
	if plate == nil {
		t.Fatal("plate missing")
	}
	cell := plate.Rows[0][0]
	var cellText strings.Builder
	for _, para := range cell.Paragraphs {
		for _, r := range para.Runs {
			cellText.WriteString(r.Text)
		}
	}
	if !strings.Contains(cellText.String(), "[ X ]") || !strings.Contains(cellText.String(), labels.ImageError) {
		t.Errorf("placeholder cell wrong: %q", cellText.String())
	}
}

func TestAssembleLetterhead(t *testing.T) {
	p := testPatient()
	x := testExam(p)

	st := settings.Defaults()
	good := pngDataURL(t, 1190, 200)
	st.LetterheadPath = &good

	doc, _, warnings := Assemble(p, x, st, i18n.LangPTBR)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if doc.HeaderImage == nil {
		t.Fatal("letterhead must become the header image")
	}
	if doc.HeaderImage.Width != 595 || doc.HeaderImage.Height != 100 {
		t.Errorf("letterhead must scale to page width, got %dx%d", doc.HeaderImage.Width, doc.HeaderImage.Height)
	}
}

func TestAssembleLetterheadFallback(t *testing.T) {
	p := testPatient()
	x := testExam(p)

	st := settings.Defaults()
	bad := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("lixo"))
	st.LetterheadPath = &bad
	st.ClinicName = "Clínica TVUS Vet"
	st.VeterinarianName = "Dra. Ana"
	st.CRMV = "SP-12345"

	doc, _, warnings := Assemble(p, x, st, i18n.LangPTBR)
	if len(warnings) != 1 {
		t.Fatalf("expected a letterhead warning, got %v", warnings)
	}
	if doc.HeaderImage != nil {
		t.Error("unreadable letterhead must not become the header image")
	}
	if len(doc.HeaderLines) != 2 {
		t.Fatalf("expected clinic and vet lines, got %v", doc.HeaderLines)
	}
	if doc.HeaderLines[1] != "Dra. Ana - CRMV: SP-12345" {
		t.Errorf("vet line wrong: %q", doc.HeaderLines[1])
	}
}

func TestAssemblePatientBlock(t *testing.T) {
	labels := i18n.Get(i18n.LangENUS)
	p := testPatient()
	p.IsNeutered = true
	owner := "Maria"
	p.OwnerName = &owner
	x := testExam(p)
	override := 9.1
	x.WeightKg = &override

	doc, _, _ := Assemble(p, x, settings.Defaults(), i18n.LangENUS)
	joined := strings.Join(paragraphTexts(doc), "|")

	if !strings.Contains(joined, labels.Weight+": 9.1 kg") {
		t.Error("exam weight must override the patient weight")
	}
	if !strings.Contains(joined, labels.Neutered+": "+labels.Yes) {
		t.Error("neutered line missing")
	}
	if !strings.Contains(joined, labels.Owner+": Maria") {
		t.Error("owner line missing")
	}
	if !strings.Contains(joined, labels.ExamDate+": 3/5/2026") {
		t.Error("exam date must use the locale layout")
	}
	if !strings.Contains(joined, labels.ReportTitleUS) {
		t.Error("report title missing")
	}
}

func TestAssembleOmitsEmptyPatientFields(t *testing.T) {
	labels := i18n.Get(i18n.LangPTBR)
	p := testPatient()
	p.Breed = ""
	x := testExam(p)

	doc, _, _ := Assemble(p, x, settings.Defaults(), i18n.LangPTBR)
	for _, text := range paragraphTexts(doc) {
		if strings.HasPrefix(text, labels.Breed+": ") {
			t.Fatal("empty breed must be skipped")
		}
	}
}
