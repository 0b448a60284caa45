// Package i18n holds the report label sets for the two supported report
// languages. Labels cover the exported document only; the service API itself
// is language-neutral.
package i18n

// Language codes accepted throughout the service.
const (
	LangPTBR = "pt-BR"
	LangENUS = "en-US"
)

// Labels is the fixed set of strings a report rendered in one language needs.
type Labels struct {
	ReportTitleUS   string
	ReportTitleEcho string
	ReportTitleECG  string

	PatientData string
	PatientName string
	Species     string
	Breed       string
	Weight      string
	Size        string
	Sex         string
	Neutered    string
	Owner       string
	ExamDate    string
	Findings    string
	Images      string

	Dog    string
	Cat    string
	Male   string
	Female string
	Small  string
	Medium string
	Large  string

	Yes        string
	Untitled   string
	ImageError string

	// DateLayout is the time.Format layout matching the language's locale
	// convention for short dates.
	DateLayout string
}

var labelSets = map[string]Labels{
	LangPTBR: {
		ReportTitleUS:   "LAUDO DE ULTRASSONOGRAFIA ABDOMINAL",
		ReportTitleEcho: "LAUDO DE ECOCARDIOGRAFIA",
		ReportTitleECG:  "LAUDO DE ELETROCARDIOGRAFIA",

		PatientData: "Dados do Paciente",
		PatientName: "Nome",
		Species:     "Espécie",
		Breed:       "Raça",
		Weight:      "Peso",
		Size:        "Porte",
		Sex:         "Sexo",
		Neutered:    "Castrado(a)",
		Owner:       "Tutor(a)",
		ExamDate:    "Data do Exame",
		Findings:    "Achados Ultrassonográficos",
		Images:      "Imagens do Exame",

		Dog:    "Canina",
		Cat:    "Felina",
		Male:   "Macho",
		Female: "Fêmea",
		Small:  "Pequeno",
		Medium: "Médio",
		Large:  "Grande",

		Yes:        "Sim",
		Untitled:   "Sem título",
		ImageError: "Erro ao carregar imagem",

		DateLayout: "02/01/2006",
	},
	LangENUS: {
		ReportTitleUS:   "ABDOMINAL ULTRASOUND REPORT",
		ReportTitleEcho: "ECHOCARDIOGRAPHY REPORT",
		ReportTitleECG:  "ELECTROCARDIOGRAPHY REPORT",

		PatientData: "Patient Data",
		PatientName: "Name",
		Species:     "Species",
		Breed:       "Breed",
		Weight:      "Weight",
		Size:        "Size",
		Sex:         "Sex",
		Neutered:    "Neutered",
		Owner:       "Owner",
		ExamDate:    "Exam Date",
		Findings:    "Ultrasound Findings",
		Images:      "Exam Images",

		Dog:    "Canine",
		Cat:    "Feline",
		Male:   "Male",
		Female: "Female",
		Small:  "Small",
		Medium: "Medium",
		Large:  "Large",

		Yes:        "Yes",
		Untitled:   "Untitled",
		ImageError: "Failed to load image",

		DateLayout: "1/2/2006",
	},
}

// Get returns the label set for lang, falling back to pt-BR for unknown codes.
func Get(lang string) Labels {
	if l, ok := labelSets[lang]; ok {
		return l
	}
	return labelSets[LangPTBR]
}

// Supported reports whether lang is one of the shipped label sets.
func Supported(lang string) bool {
	_, ok := labelSets[lang]
	return ok
}
