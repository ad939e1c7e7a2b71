package synth

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/synthfhir/qrforge/fhir"
	"github.com/synthfhir/qrforge/header"
)

// Fixed clause pools for placeholder sentences.
var (
	placeholderStems = []string{
		"Overall, I felt that",
		"From my perspective,",
		"In general,",
		"My experience was that",
		"I noticed that",
		"It seemed to me that",
	}
	placeholderPhrases = []string{
		" the team communicated clearly",
		" the care was well coordinated",
		" I was listened to and involved",
		" safety was taken seriously",
		" my goals were understood",
		" follow-up plans were consistent",
		" access was straightforward",
	}
)

// freeTextTopics pairs each free-text linkId with its known topic. Kept as
// an ordered slice so generation order, and therefore the RNG stream, is
// stable across runs.
var freeTextTopics = []struct {
	LinkID string
	Topic  string
}{
	{"ppnq-q1", "access to services"},
	{"ppnq-q2", "meeting my needs"},
	{"ppnq-q3a", "seeing the same clinicians"},
	{"ppnq-q3b", "information sharing across professionals"},
	{"ppnq-q4", "coordination between specialists"},
	{"ppnq-q5", "feeling safe during therapies"},
	{"ppnq-q6", "listening to my preferences"},
	{"ppnq-q7", "self-management support"},
	{"ppnq-q8", "trust in the team"},
}

// PlaceholderGenerator synthesizes templated free-text answers and a random
// NPS score from fixed pools. It never performs network I/O and is fully
// deterministic under a fixed seed.
type PlaceholderGenerator struct{}

// Generate implements Generator.
func (g *PlaceholderGenerator) Generate(_ context.Context, _ *fhir.Questionnaire, _ header.Row, rng *rand.Rand) (AnswerSet, error) {
	answers := make(AnswerSet, 0, len(freeTextTopics)+2)

	for _, ft := range freeTextTopics {
		answers = append(answers, Answer{
			LinkID:      ft.LinkID,
			ValueString: placeholderSentence(ft.Topic, rng),
		})
	}

	nps := rng.Intn(11)
	code := strconv.Itoa(nps)
	answers = append(answers, Answer{
		LinkID:      "ppnq-q9",
		ValueCoding: &fhir.Coding{System: NPSSystem, Code: code, Display: code},
	})
	answers = append(answers, Answer{
		LinkID:      "ppnq-q9-text",
		ValueString: scoreReason(nps),
	})

	return answers, nil
}

// placeholderSentence composes a random opening clause with a random
// topic-specific clause.
func placeholderSentence(topic string, rng *rand.Rand) string {
	stem := placeholderStems[rng.Intn(len(placeholderStems))]
	phrase := placeholderPhrases[rng.Intn(len(placeholderPhrases))]
	return fmt.Sprintf("%s%s regarding %s.", stem, phrase, topic)
}

// scoreReason derives a one-line justification from fixed score thresholds.
func scoreReason(nps int) string {
	switch {
	case nps >= 9:
		return "Excellent teamwork and clear goals."
	case nps >= 7:
		return "Good care overall but some waits."
	default:
		return "Several issues affected my experience."
	}
}
