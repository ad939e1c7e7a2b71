// Package synth implements the response synthesis pipeline: it turns parsed
// header rows into QuestionnaireResponse resources under one of several
// interchangeable answer-generation strategies, and packages the result
// into size-capped batch bundles.
package synth

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/fhir"
)

// Mode selects which built-in questionnaire a run synthesizes against.
type Mode string

const (
	// ModeNREQ is the closed-choice 17-item Likert questionnaire.
	ModeNREQ Mode = "nreq"
	// ModePPNQ is the open-ended PREM questionnaire with an NPS item.
	ModePPNQ Mode = "ppnq"
)

// Coding systems and Likert value maps for the built-in questionnaires.
const (
	LikertSystem = "http://example.org/fhir/CodeSystem/nreq-likert-3"
	NPSSystem    = "http://example.org/fhir/CodeSystem/nps-scale"
)

var (
	likertCodes    = [3]string{"disagree", "neutral", "agree"}
	likertDisplays = [3]string{"Mostly disagree", "Not sure", "Mostly agree"}
)

const nreqItemCount = 17

// BuiltinNREQ returns the built-in closed-choice questionnaire definition.
func BuiltinNREQ() *fhir.Questionnaire {
	items := make([]fhir.QuestionnaireItem, 0, nreqItemCount)
	for i := 1; i <= nreqItemCount; i++ {
		items = append(items, fhir.QuestionnaireItem{
			LinkID: fmt.Sprintf("nreq-q%d", i),
			Type:   "choice",
		})
	}
	return &fhir.Questionnaire{
		ResourceType: "Questionnaire",
		URL:          "http://example.org/fhir/Questionnaire/NREQ",
		Version:      "1.0",
		Name:         "NREQ",
		Title:        "Neurorehabilitation Experience Questionnaire (NREQ)",
		Status:       "active",
		Item:         items,
	}
}

// BuiltinPPNQ returns the built-in open-ended questionnaire definition.
func BuiltinPPNQ() *fhir.Questionnaire {
	return &fhir.Questionnaire{
		ResourceType: "Questionnaire",
		URL:          "http://example.org/fhir/Questionnaire/NeuroRehabPREM",
		Version:      "1.0",
		Name:         "NeuroRehabPREM",
		Title:        "Patient Reported Experience Measure – Neurorehabilitation",
		Status:       "active",
		Item: []fhir.QuestionnaireItem{
			{LinkID: "ppnq-q1", Type: "string"},
			{LinkID: "ppnq-q2", Type: "string"},
			{LinkID: "ppnq-q3a", Type: "string"},
			{LinkID: "ppnq-q3b", Type: "string"},
			{LinkID: "ppnq-q4", Type: "string"},
			{LinkID: "ppnq-q5", Type: "string"},
			{LinkID: "ppnq-q6", Type: "string"},
			{LinkID: "ppnq-q7", Type: "string"},
			{LinkID: "ppnq-q8", Type: "string"},
			{LinkID: "ppnq-q9", Type: "choice"},
			{LinkID: "ppnq-q9-text", Type: "string"},
		},
	}
}

// BuiltinQuestionnaire returns the built-in definition for the given mode.
func BuiltinQuestionnaire(mode Mode) (*fhir.Questionnaire, error) {
	switch mode {
	case ModeNREQ:
		return BuiltinNREQ(), nil
	case ModePPNQ:
		return BuiltinPPNQ(), nil
	default:
		return nil, errors.Newf("unknown mode %q (expected %q or %q)", mode, ModeNREQ, ModePPNQ)
	}
}

// LoadQuestionnaire resolves the questionnaire definition for a run: an
// external JSON file when given, otherwise the built-in for the mode. A
// non-empty urlOverride replaces the definition's canonical URL.
func LoadQuestionnaire(mode Mode, file, urlOverride string) (*fhir.Questionnaire, error) {
	var q *fhir.Questionnaire
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read questionnaire file %s", file)
		}
		q = &fhir.Questionnaire{}
		if err := json.Unmarshal(data, q); err != nil {
			return nil, errors.Wrapf(err, "failed to parse questionnaire file %s", file)
		}
	} else {
		var err error
		q, err = BuiltinQuestionnaire(mode)
		if err != nil {
			return nil, err
		}
	}
	if urlOverride != "" {
		q.URL = urlOverride
	}
	return q, nil
}
