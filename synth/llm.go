package synth

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/fhir"
	"github.com/synthfhir/qrforge/header"
)

const scribeSystemPrompt = "You are a careful medical scribe that follows JSON schemas exactly."

// TextCompleter is the boundary to the external text-generation service.
// *openai.Client satisfies it.
type TextCompleter interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMGenerator produces answer sets by instructing an external service and
// validating each response against the required linkId set.
//
// Any failure (transport error, non-JSON body, validation error) is
// retried up to MaxRetries with a fixed backoff, each attempt a fresh
// service call. Exhausting retries propagates; there is no silent
// downgrade to placeholder text.
type LLMGenerator struct {
	client     TextCompleter
	maxRetries int
	backoff    time.Duration
	logger     *zap.SugaredLogger
}

// NewLLMGenerator creates a generator with the given retry bound.
func NewLLMGenerator(client TextCompleter, maxRetries int, backoff time.Duration, logger *zap.SugaredLogger) *LLMGenerator {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LLMGenerator{
		client:     client,
		maxRetries: maxRetries,
		backoff:    backoff,
		logger:     logger,
	}
}

// Generate implements Generator. The rng is unused: content comes from the
// service, whose determinism is governed by the temperature parameter.
func (g *LLMGenerator) Generate(ctx context.Context, q *fhir.Questionnaire, row header.Row, _ *rand.Rand) (AnswerSet, error) {
	required := RequiredLinkIDs(q)
	userPrompt := schemaPrompt(required) + "\n\n" + rowContext(row)

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warnw("Retrying answer generation",
				"attempt", attempt+1, "max_retries", g.maxRetries, "error", lastErr)
			select {
			case <-time.After(g.backoff):
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "generation cancelled")
			}
		}

		content, err := g.client.CompleteJSON(ctx, scribeSystemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			continue
		}

		answers, err := ParseGeneratedAnswers([]byte(stripCodeFences(content)), required)
		if err != nil {
			lastErr = err
			continue
		}
		return answers, nil
	}

	return nil, errors.Wrapf(errors.ErrRetryExhausted,
		"after %d attempts: %v", g.maxRetries, lastErr)
}

// schemaPrompt builds the instruction block describing the exact JSON shape
// required, enumerating every required linkId.
func schemaPrompt(required []string) string {
	lines := []string{
		"You write realistic, succinct patient feedback for a neurorehabilitation PREM.",
		"Return a SINGLE JSON object with this shape:",
		"{",
		`  "answers": [`,
		`    {"linkId": "<id>", "valueString": "<short paragraph>"},`,
		`    ...`,
		`    {"linkId": "ppnq-q9", "valueCoding": {"system": "` + NPSSystem + `", "code": "<0-10 string>", "display": "<same as code>"}},`,
		`    {"linkId": "ppnq-q9-text", "valueString": "<one-sentence reason for the score>"}`,
		"  ]",
		"}",
		"",
		"Rules:",
		"- Include EVERY required linkId exactly once: " + strings.Join(required, ", "),
		"- Keep responses specific, first-person, and plausible. Avoid PHI; no names, dates, phone numbers.",
		"- For ppnq-q1..q8: one concise sentence each (max ~25 words).",
		"- For ppnq-q9: choose an integer 0..10 that matches the sentiment you wrote; encode as valueCoding (system/code/display).",
		"- For ppnq-q9-text: one short reason consistent with the score.",
		"- Output ONLY the JSON. No markdown fences, no comments.",
	}
	return strings.Join(lines, "\n")
}

// rowContext summarizes the row so generated text can stay situationally
// plausible without leaking synthetic identifiers into the answers.
func rowContext(row header.Row) string {
	patient := row.Resolve(header.FieldPatient)
	if patient == "" {
		patient = "unknown"
	}
	encounter := row.Resolve(header.FieldEncounter)
	if encounter == "" {
		encounter = "unknown"
	}
	authored, _ := fhir.NormalizeDateTime(row.Resolve(header.FieldAuthored))
	return fmt.Sprintf("Patient=%s Encounter=%s Authored=%s", patient, encounter, authored)
}

// stripCodeFences removes a surrounding markdown code fence when a service
// ignores the no-fences instruction. Plain JSON passes through unchanged.
func stripCodeFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
