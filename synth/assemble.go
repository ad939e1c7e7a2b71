package synth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/synthfhir/qrforge/fhir"
	"github.com/synthfhir/qrforge/header"
	"github.com/synthfhir/qrforge/logger"
)

// narrativeExcerptLen caps free-text excerpts in the narrative so it stays
// scannable.
const narrativeExcerptLen = 80

// Assemble combines one header row, the questionnaire definition, and a
// generated answer set into a QuestionnaireResponse.
//
// Cross-references are resolved through the alias table; an empty resolved
// value omits the field rather than emitting a null placeholder. The record
// id reuses the row's identity when supplied, otherwise a fresh one is
// minted. Answers are grouped by linkId in the definition's item order;
// items with no answer are omitted; absence is not an error.
func Assemble(mode Mode, row header.Row, q *fhir.Questionnaire, questionnaireURL string, answers AnswerSet) *fhir.QuestionnaireResponse {
	patientID := row.Resolve(header.FieldPatient)
	encounterID := row.Resolve(header.FieldEncounter)
	authorID := row.Resolve(header.FieldAuthor)
	sourceID := row.Resolve(header.FieldSource)
	if sourceID == "" {
		sourceID = patientID
	}

	rawAuthored := row.Resolve(header.FieldAuthored)
	authored, preserved := fhir.NormalizeDateTime(rawAuthored)
	if !preserved && rawAuthored != "" {
		// Data-quality signal: the source value is being discarded.
		logger.Warnw("Unparseable authored timestamp, falling back to now",
			"raw", rawAuthored,
			"patient", patientID,
		)
	}

	recordID := row.Resolve(header.FieldRecordID)
	if recordID == "" {
		recordID = uuid.NewString()
	}

	if questionnaireURL == "" {
		questionnaireURL = q.URL
	}

	qr := &fhir.QuestionnaireResponse{
		ResourceType:  "QuestionnaireResponse",
		ID:            recordID,
		Status:        "completed",
		Questionnaire: questionnaireURL,
		Authored:      authored,
		Text: &fhir.Narrative{
			Status: "generated",
			Div:    narrativeDiv(mode, answers),
		},
		Item: groupByLinkID(q, answers),
	}

	if patientID != "" {
		qr.Subject = &fhir.Reference{Reference: fhir.RelativeRef("Patient", patientID)}
	}
	if encounterID != "" {
		qr.Encounter = &fhir.Reference{Reference: fhir.RelativeRef("Encounter", encounterID)}
	}
	if authorID != "" {
		qr.Author = &fhir.Reference{Reference: fhir.RelativeRef("Practitioner", authorID)}
	}
	if sourceID != "" {
		qr.Source = &fhir.Reference{Reference: fhir.RelativeRef("Patient", sourceID)}
	}

	return qr
}

// groupByLinkID groups answers under response items in the questionnaire
// definition's item order.
func groupByLinkID(q *fhir.Questionnaire, answers AnswerSet) []fhir.ResponseItem {
	byLink := make(map[string][]fhir.ResponseAnswer, len(answers))
	for _, a := range answers {
		byLink[a.LinkID] = append(byLink[a.LinkID], fhir.ResponseAnswer{
			ValueString: a.ValueString,
			ValueCoding: a.ValueCoding,
		})
	}

	items := make([]fhir.ResponseItem, 0, len(byLink))
	for _, item := range q.Item {
		if grouped, ok := byLink[item.LinkID]; ok {
			items = append(items, fhir.ResponseItem{LinkID: item.LinkID, Answer: grouped})
		}
	}
	return items
}

// narrativeDiv renders a short human-readable summary: the display label
// for coded answers, a truncated excerpt for free text.
func narrativeDiv(mode Mode, answers AnswerSet) string {
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		if a.ValueCoding != nil {
			display := a.ValueCoding.Display
			if display == "" {
				display = a.ValueCoding.Code
			}
			lines = append(lines, fmt.Sprintf("%s: %s", a.LinkID, display))
			continue
		}
		excerpt := a.ValueString
		if len(excerpt) > narrativeExcerptLen {
			excerpt = excerpt[:narrativeExcerptLen]
		}
		lines = append(lines, fmt.Sprintf("%s: %s", a.LinkID, excerpt))
	}
	return fmt.Sprintf("<div xmlns='http://www.w3.org/1999/xhtml'><p><b>%s QR</b></p><p>%s</p></div>",
		strings.ToUpper(string(mode)), strings.Join(lines, "<br/>"))
}
