package synth

import (
	"context"
	"math/rand"
	"strconv"
	"strings"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/fhir"
	"github.com/synthfhir/qrforge/header"
)

// LikertDistribution holds the probabilities for the three Likert ordinals
// (disagree, neutral, agree). Values are re-normalized to sum to 1.
type LikertDistribution [3]float64

// UniformLikert is the default three-way uniform distribution.
func UniformLikert() LikertDistribution {
	return LikertDistribution{1.0 / 3, 1.0 / 3, 1.0 / 3}
}

// ParseLikertDistribution parses "a,b,c" into a normalized distribution.
func ParseLikertDistribution(s string) (LikertDistribution, error) {
	var dist LikertDistribution
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return dist, errors.Newf("likert distribution must be three comma-separated numbers, got %q", s)
	}
	total := 0.0
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return dist, errors.Wrapf(err, "invalid likert probability %q", part)
		}
		dist[i] = v
		total += v
	}
	if total <= 0 {
		return dist, errors.New("likert distribution must sum to > 0")
	}
	for i := range dist {
		dist[i] /= total
	}
	return dist, nil
}

// LikertSampler generates coded answers for every choice-type item by
// drawing from a three-way categorical distribution with the run's seeded
// random source. Fully offline and deterministic under a fixed seed.
type LikertSampler struct {
	Dist LikertDistribution
}

// NewLikertSampler creates a sampler; a zero distribution means uniform.
func NewLikertSampler(dist LikertDistribution) *LikertSampler {
	if dist[0] == 0 && dist[1] == 0 && dist[2] == 0 {
		dist = UniformLikert()
	}
	return &LikertSampler{Dist: dist}
}

// Generate implements Generator.
func (g *LikertSampler) Generate(_ context.Context, q *fhir.Questionnaire, _ header.Row, rng *rand.Rand) (AnswerSet, error) {
	answers := make(AnswerSet, 0, len(q.Item))
	for _, item := range q.Item {
		if item.Type != "choice" {
			continue
		}
		ordinal := g.draw(rng)
		answers = append(answers, Answer{
			LinkID: item.LinkID,
			ValueCoding: &fhir.Coding{
				System:  LikertSystem,
				Code:    likertCodes[ordinal],
				Display: likertDisplays[ordinal],
			},
		})
	}
	return answers, nil
}

// draw maps one uniform variate onto the categorical distribution.
func (g *LikertSampler) draw(rng *rand.Rand) int {
	r := rng.Float64()
	if r < g.Dist[0] {
		return 0
	}
	if r < g.Dist[0]+g.Dist[1] {
		return 1
	}
	return 2
}
