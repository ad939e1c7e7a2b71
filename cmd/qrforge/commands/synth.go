package commands

import (
	"math/rand"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	openai "github.com/synthfhir/qrforge/ai/openai"
	"github.com/synthfhir/qrforge/config"
	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/header"
	"github.com/synthfhir/qrforge/logger"
	"github.com/synthfhir/qrforge/synth"
)

// SynthCmd runs the synthesis pipeline
var SynthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize QuestionnaireResponse batch bundles from a header CSV",
	Long: `Synthesize FHIR QuestionnaireResponse bundles from a header table.

Each row of the header CSV becomes one QuestionnaireResponse; the full set
is partitioned into batch bundle files of at most --chunk-size records.

Modes:
  nreq - 17-item Likert questionnaire, answers drawn from a seeded
         categorical distribution (fully offline, reproducible)
  ppnq - open-ended PREM + NPS; placeholder text by default (--dry-run
         behavior), or text from the configured service with --llm

Examples:
  qrforge synth --mode nreq --csv input/header.csv --out output --seed 42
  qrforge synth --mode nreq --csv input/header.csv --out output --likert-dist 0.2,0.5,0.3
  qrforge synth --mode ppnq --csv input/header.csv --out output --dry-run --seed 7
  qrforge synth --mode ppnq --csv input/header.csv --out output --llm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		csvPath, _ := cmd.Flags().GetString("csv")
		outDir, _ := cmd.Flags().GetString("out")
		chunkSize, _ := cmd.Flags().GetInt("chunk-size")
		questionnaireFile, _ := cmd.Flags().GetString("questionnaire-file")
		questionnaireURL, _ := cmd.Flags().GetString("questionnaire-url")
		likertDist, _ := cmd.Flags().GetString("likert-dist")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		useLLM, _ := cmd.Flags().GetBool("llm")

		var seed int64
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetInt64("seed")
		} else {
			seed = time.Now().UnixNano()
		}

		return runSynth(cmd, synthParams{
			mode:              synth.Mode(mode),
			csvPath:           csvPath,
			outDir:            outDir,
			chunkSize:         chunkSize,
			questionnaireFile: questionnaireFile,
			questionnaireURL:  questionnaireURL,
			likertDist:        likertDist,
			dryRun:            dryRun,
			useLLM:            useLLM,
			seed:              seed,
		})
	},
}

type synthParams struct {
	mode              synth.Mode
	csvPath           string
	outDir            string
	chunkSize         int
	questionnaireFile string
	questionnaireURL  string
	likertDist        string
	dryRun            bool
	useLLM            bool
	seed              int64
}

func runSynth(cmd *cobra.Command, p synthParams) error {
	file, err := os.Open(p.csvPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open header CSV %s", p.csvPath)
	}
	defer file.Close()

	rows, err := header.ReadTable(file)
	if err != nil {
		return errors.Wrap(err, "header table ingestion failed")
	}

	generator, err := selectGenerator(p)
	if err != nil {
		return err
	}

	logger.Infow("Starting synthesis run",
		"mode", p.mode,
		"rows", len(rows),
		"seed", p.seed,
	)

	result, err := synth.Run(cmd.Context(), rows, synth.Options{
		Mode:              p.mode,
		QuestionnaireFile: p.questionnaireFile,
		QuestionnaireURL:  p.questionnaireURL,
		OutDir:            p.outDir,
		ChunkSize:         p.chunkSize,
		Generator:         generator,
		RNG:               rand.New(rand.NewSource(p.seed)),
	})
	if err != nil {
		return err
	}

	pterm.Success.Printf("Created %d QuestionnaireResponses in %d bundle file(s)\n",
		result.Records, len(result.Files))
	for _, path := range result.Files {
		pterm.Printf("  %s %s\n", pterm.Gray("→"), path)
	}
	return nil
}

// selectGenerator picks the answer strategy once for the whole run.
func selectGenerator(p synthParams) (synth.Generator, error) {
	switch p.mode {
	case synth.ModeNREQ:
		dist := synth.UniformLikert()
		if p.likertDist != "" {
			var err error
			dist, err = synth.ParseLikertDistribution(p.likertDist)
			if err != nil {
				return nil, err
			}
		}
		return synth.NewLikertSampler(dist), nil

	case synth.ModePPNQ:
		if !p.useLLM || p.dryRun {
			return &synth.PlaceholderGenerator{}, nil
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		client := openai.NewClient(openai.Config{
			APIKey:            cfg.OpenAI.APIKey,
			BaseURL:           cfg.OpenAI.BaseURL,
			Model:             cfg.OpenAI.Model,
			Temperature:       &cfg.OpenAI.Temperature,
			RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
			Logger:            logger.Logger,
		})
		if !client.IsConfigured() {
			return nil, errors.New("--llm requires an API key (set OPENAI_API_KEY or openai.api_key)")
		}
		backoff := time.Duration(cfg.OpenAI.RetryBackoffMs) * time.Millisecond
		return synth.NewLLMGenerator(client, cfg.OpenAI.MaxRetries, backoff, logger.Logger), nil

	default:
		return nil, errors.Newf("unknown mode %q (expected nreq or ppnq)", p.mode)
	}
}

func init() {
	SynthCmd.Flags().String("mode", "", "Which questionnaire to synthesize (nreq or ppnq)")
	SynthCmd.Flags().String("csv", "", "Path to the header CSV")
	SynthCmd.Flags().String("out", "output", "Output directory for bundle files")
	SynthCmd.Flags().Int("chunk-size", synth.DefaultChunkSize, "Maximum QuestionnaireResponses per bundle file")
	SynthCmd.Flags().Int64("seed", 0, "Seed for the random source (omit for time-based)")
	SynthCmd.Flags().String("likert-dist", "", "Comma-separated probabilities for ordinals 1,2,3 (e.g. 0.2,0.5,0.3)")
	SynthCmd.Flags().Bool("dry-run", false, "Generate placeholder text answers for ppnq")
	SynthCmd.Flags().Bool("llm", false, "Generate open text answers for ppnq via the configured service")
	SynthCmd.Flags().String("questionnaire-file", "", "Optional path to a Questionnaire JSON to use")
	SynthCmd.Flags().String("questionnaire-url", "", "Override the Questionnaire canonical URL")

	SynthCmd.MarkFlagRequired("mode")
	SynthCmd.MarkFlagRequired("csv")
}
