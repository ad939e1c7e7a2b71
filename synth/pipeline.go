package synth

import (
	"context"
	"math/rand"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/fhir"
	"github.com/synthfhir/qrforge/header"
	"github.com/synthfhir/qrforge/logger"
)

// DefaultChunkSize caps records per bundle file. Chunking avoids
// server-side memory churn when the bundles are later POSTed.
const DefaultChunkSize = 250

// Options configures one synthesis run. The generator strategy is fixed
// for the whole run; there is no per-row strategy switching.
type Options struct {
	Mode              Mode
	QuestionnaireFile string // optional external definition
	QuestionnaireURL  string // optional canonical URL override
	OutDir            string
	ChunkSize         int // <=0 = DefaultChunkSize
	Generator         Generator
	RNG               *rand.Rand
}

// Result summarizes a completed run.
type Result struct {
	Records int
	Files   []string
}

// Run executes the pipeline over already-parsed header rows: generate
// answers, assemble a record per row, then partition into bundle files.
//
// Rows are processed strictly sequentially, so output record order equals
// input row order and the seeded RNG stream is consumed in a stable order.
// A row whose generation fails aborts the whole run: partial synthetic
// datasets are worse than a hard failure for this tool.
func Run(ctx context.Context, rows []header.Row, opts Options) (*Result, error) {
	if len(rows) == 0 {
		return nil, errors.ErrEmptyHeaderTable
	}
	if opts.Generator == nil {
		return nil, errors.New("no answer generator configured")
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	q, err := LoadQuestionnaire(opts.Mode, opts.QuestionnaireFile, opts.QuestionnaireURL)
	if err != nil {
		return nil, err
	}
	questionnaireURL := opts.QuestionnaireURL
	if questionnaireURL == "" {
		questionnaireURL = q.URL
	}

	records := make([]*fhir.QuestionnaireResponse, 0, len(rows))
	for i, row := range rows {
		answers, err := opts.Generator.Generate(ctx, q, row, opts.RNG)
		if err != nil {
			return nil, errors.Wrapf(err, "answer generation failed at row %d", i+1)
		}
		records = append(records, Assemble(opts.Mode, row, q, questionnaireURL, answers))
	}

	paths, err := WriteBundles(records, opts.OutDir, string(opts.Mode), opts.ChunkSize)
	if err != nil {
		return nil, err
	}

	logger.Infow("Synthesis run complete",
		"mode", opts.Mode,
		"records", len(records),
		"bundles", len(paths),
		"chunk_size", opts.ChunkSize,
	)

	return &Result{Records: len(records), Files: paths}, nil
}
