package exam

import "github.com/tvusvet/tvusvet/internal/domain/patient"

// Exam types. The type is fixed at creation.
const (
	TypeUltrasound = "ultrasound"
	TypeEcho       = "echo"
	TypeECG        = "ecg"
)

var validTypes = map[string]bool{TypeUltrasound: true, TypeEcho: true, TypeECG: true}

// Abdominal organs in clinical scanning order. Reproductive organs are
// appended per sex and neuter status, never interleaved.
var ultrasoundBase = []string{
	"Estômago",
	"Fígado",
	"Baço",
	"Rim Esquerdo",
	"Rim Direito",
	"Vesícula Urinária",
	"Adrenal Esquerda",
	"Adrenal Direita",
	"Duodeno",
	"Jejuno",
	"Cólon",
	"Ceco",
	"Íleo",
	"Linfonodos",
}

var ultrasoundMaleIntact = []string{"Próstata", "Testículo Direito", "Testículo Esquerdo"}

var ultrasoundMaleNeutered = []string{"Próstata"}

var ultrasoundFemaleIntact = []string{
	"Corpo Uterino",
	"Corno Uterino Direito",
	"Corno Uterino Esquerdo",
	"Ovário Direito",
	"Ovário Esquerdo",
}

// Cardiac structures alphabetized (Á collates as A); Doppler analysis and the
// two measurement summaries always close the exam.
var echoSections = []string{
	"Átrio Direito",
	"Átrio Esquerdo",
	"Pericárdio",
	"Saepto Interventricular",
	"Valva Aórtica",
	"Valva Mitral",
	"Valva Pulmonar",
	"Valva Tricúspide",
	"Ventrículo Direito",
	"Ventrículo Esquerdo",
	"Análise Doppler",
	"Medidas (Modo-B)",
	"Medidas (Modo-M)",
}

var ecgSections = []string{
	"Complexo QRS",
	"Conclusão ECG",
	"Eixo Elétrico",
	"Intervalos (PR, QT)",
	"Onda P",
	"Onda T",
	"Ritmo e Frequência",
	"Segmento ST",
}

// SeedSections lists the sections that receive default templates: the
// abdominal base list and every echo and ECG section.
func SeedSections() (ultrasound, echo, ecg []string) {
	return append([]string(nil), ultrasoundBase...),
		append([]string(nil), echoSections...),
		append([]string(nil), ecgSections...)
}

// SectionsFor returns the ordered section names for one exam. Pure: identical
// inputs always yield an identical, identically ordered list. Callers own the
// returned slice.
func SectionsFor(examType, sex string, isNeutered bool) []string {
	switch examType {
	case TypeEcho:
		return append([]string(nil), echoSections...)
	case TypeECG:
		return append([]string(nil), ecgSections...)
	}

	sections := append([]string(nil), ultrasoundBase...)
	switch {
	case sex == patient.SexMale && !isNeutered:
		sections = append(sections, ultrasoundMaleIntact...)
	case sex == patient.SexMale && isNeutered:
		sections = append(sections, ultrasoundMaleNeutered...)
	case sex == patient.SexFemale && !isNeutered:
		sections = append(sections, ultrasoundFemaleIntact...)
	}
	return sections
}
