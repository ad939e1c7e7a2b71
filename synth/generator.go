package synth

import (
	"context"
	"math/rand"

	"github.com/synthfhir/qrforge/fhir"
	"github.com/synthfhir/qrforge/header"
)

// Answer is one generated (linkId, typed value) pair. Exactly one of
// ValueString and ValueCoding is set.
type Answer struct {
	LinkID      string
	ValueString string
	ValueCoding *fhir.Coding
}

// AnswerSet is the ordered answer sequence generated for one header row.
type AnswerSet []Answer

// LinkIDs returns the linkIds present in the set, in order.
func (s AnswerSet) LinkIDs() []string {
	ids := make([]string, len(s))
	for i, a := range s {
		ids[i] = a.LinkID
	}
	return ids
}

// Generator produces an answer set for one header row against a
// questionnaire definition. Strategies are interchangeable and selected
// once for the whole run; none may mutate the definition.
//
// The rng is the run's single seeded random source, shared sequentially by
// every row: for a fixed seed and a fixed row order the generated sequence
// is reproducible across runs.
type Generator interface {
	Generate(ctx context.Context, q *fhir.Questionnaire, row header.Row, rng *rand.Rand) (AnswerSet, error)
}
