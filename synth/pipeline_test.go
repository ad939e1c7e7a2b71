package synth

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/fhir"
	"github.com/synthfhir/qrforge/header"
)

func makeRows(n int) []header.Row {
	rows := make([]header.Row, n)
	for i := range rows {
		rows[i] = header.Row{
			"patient":   "p-" + string(rune('a'+i%26)),
			"encounter": "e-1",
			"authored":  "2024-05-01 10:00",
		}
	}
	return rows
}

func TestRun(t *testing.T) {
	t.Run("produces one record per row across chunked files", func(t *testing.T) {
		dir := t.TempDir()
		result, err := Run(context.Background(), makeRows(5), Options{
			Mode:      ModeNREQ,
			OutDir:    dir,
			ChunkSize: 2,
			Generator: NewLikertSampler(UniformLikert()),
			RNG:       rand.New(rand.NewSource(42)),
		})
		require.NoError(t, err)
		assert.Equal(t, 5, result.Records)
		require.Len(t, result.Files, 3)

		total := 0
		for _, path := range result.Files {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			var bundle fhir.Bundle
			require.NoError(t, json.Unmarshal(data, &bundle))
			assert.Equal(t, "batch", bundle.Type)
			total += len(bundle.Entry)
		}
		assert.Equal(t, 5, total)
	})

	t.Run("identical seeds produce identical bundle content", func(t *testing.T) {
		render := func(dir string) []byte {
			result, err := Run(context.Background(), makeRows(3), Options{
				Mode:      ModeNREQ,
				OutDir:    dir,
				Generator: NewLikertSampler(UniformLikert()),
				RNG:       rand.New(rand.NewSource(42)),
			})
			require.NoError(t, err)
			require.Len(t, result.Files, 1)
			data, err := os.ReadFile(result.Files[0])
			require.NoError(t, err)
			return data
		}

		first := render(t.TempDir())
		second := render(t.TempDir())

		// Strip the per-record uuids so only the synthesized content is
		// compared.
		normalize := func(data []byte) []fhir.ResponseItem {
			var bundle fhir.Bundle
			require.NoError(t, json.Unmarshal(data, &bundle))
			var items []fhir.ResponseItem
			for _, entry := range bundle.Entry {
				raw, err := json.Marshal(entry.Resource)
				require.NoError(t, err)
				var qr fhir.QuestionnaireResponse
				require.NoError(t, json.Unmarshal(raw, &qr))
				items = append(items, qr.Item...)
			}
			return items
		}
		assert.Equal(t, normalize(first), normalize(second))
	})

	t.Run("empty row set is fatal", func(t *testing.T) {
		_, err := Run(context.Background(), nil, Options{
			Mode:      ModeNREQ,
			OutDir:    t.TempDir(),
			Generator: NewLikertSampler(UniformLikert()),
			RNG:       rand.New(rand.NewSource(1)),
		})
		assert.ErrorIs(t, err, errors.ErrEmptyHeaderTable)
	})

	t.Run("missing generator is fatal", func(t *testing.T) {
		_, err := Run(context.Background(), makeRows(1), Options{
			Mode:   ModeNREQ,
			OutDir: t.TempDir(),
			RNG:    rand.New(rand.NewSource(1)),
		})
		assert.Error(t, err)
	})

	t.Run("generation failure names the row", func(t *testing.T) {
		_, err := Run(context.Background(), makeRows(3), Options{
			Mode:      ModeNREQ,
			OutDir:    t.TempDir(),
			Generator: &failingGenerator{failAt: 2},
			RNG:       rand.New(rand.NewSource(1)),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})
}

// failingGenerator succeeds until its failAt'th call, then errors.
type failingGenerator struct {
	calls  int
	failAt int
}

func (g *failingGenerator) Generate(_ context.Context, _ *fhir.Questionnaire, _ header.Row, _ *rand.Rand) (AnswerSet, error) {
	g.calls++
	if g.calls == g.failAt {
		return nil, errors.New("synthetic failure")
	}
	return AnswerSet{{LinkID: "nreq-q1", ValueString: "x"}}, nil
}
