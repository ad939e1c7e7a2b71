package synth

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/fhir"
)

// npsLinkID is the one numeric-scale item in the open-ended questionnaire.
const npsLinkID = "ppnq-q9"

// generatedAnswerSet is the structured object the generation service must
// return: a mapping with an answers collection.
type generatedAnswerSet struct {
	Answers []generatedAnswer `json:"answers"`
}

type generatedAnswer struct {
	LinkID      string       `json:"linkId"`
	ValueString *string      `json:"valueString"`
	ValueCoding *fhir.Coding `json:"valueCoding"`
}

// RequiredLinkIDs returns the full linkId set a generated answer set must
// cover for the given questionnaire.
func RequiredLinkIDs(q *fhir.Questionnaire) []string {
	ids := make([]string, 0, len(q.Item))
	for _, item := range q.Item {
		ids = append(ids, item.LinkID)
	}
	return ids
}

// ParseGeneratedAnswers parses and validates one service response body.
//
// Validation is enforced identically regardless of backend:
//   - the body must be a JSON object with an "answers" array;
//   - answers without a linkId are dropped;
//   - duplicate linkIds are deduplicated keeping the first occurrence;
//   - answers carrying neither a string value nor a coded value are dropped;
//   - after filtering, every required linkId must be present;
//   - the numeric-scale answer's code is clamped into [0,10] and its coding
//     system forced to the canonical scale identifier, guarding against
//     out-of-range or mislabeled service output.
func ParseGeneratedAnswers(body []byte, required []string) (AnswerSet, error) {
	var parsed generatedAnswerSet
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedResponse, err.Error())
	}
	if parsed.Answers == nil {
		return nil, errors.Wrap(errors.ErrMalformedResponse, "missing 'answers' array")
	}

	out := make(AnswerSet, 0, len(parsed.Answers))
	seen := make(map[string]bool, len(parsed.Answers))
	for _, a := range parsed.Answers {
		if a.LinkID == "" || seen[a.LinkID] {
			continue
		}
		switch {
		case a.ValueString != nil:
			out = append(out, Answer{LinkID: a.LinkID, ValueString: *a.ValueString})
		case a.ValueCoding != nil:
			coding := *a.ValueCoding
			if coding.System == "" {
				coding.System = NPSSystem
			}
			if coding.Display == "" {
				coding.Display = coding.Code
			}
			out = append(out, Answer{LinkID: a.LinkID, ValueCoding: &coding})
		default:
			// No usable value; drop the answer.
			continue
		}
		seen[a.LinkID] = true
	}

	var missing []string
	for _, id := range required {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Wrapf(errors.ErrIncompleteAnswers,
			"missing required answers: %s", strings.Join(missing, ", "))
	}

	for i := range out {
		if out[i].LinkID == npsLinkID && out[i].ValueCoding != nil {
			out[i].ValueCoding = clampNPS(out[i].ValueCoding)
		}
	}

	return out, nil
}

// clampNPS forces a coded NPS answer into the canonical 0..10 scale. An
// unparseable code falls back to the scale midpoint rather than failing the
// whole set, since the remaining answers are already validated.
func clampNPS(coding *fhir.Coding) *fhir.Coding {
	nps, err := strconv.Atoi(strings.TrimSpace(coding.Code))
	if err != nil {
		return &fhir.Coding{System: NPSSystem, Code: "7", Display: "7"}
	}
	if nps < 0 {
		nps = 0
	}
	if nps > 10 {
		nps = 10
	}
	code := strconv.Itoa(nps)
	return &fhir.Coding{System: NPSSystem, Code: code, Display: code}
}
