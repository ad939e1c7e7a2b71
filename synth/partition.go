package synth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/fhir"
)

// Partition splits records into consecutive groups of at most capacity,
// preserving order. The final group holds the remainder; an empty input
// yields no groups. Concatenating the groups in order reconstructs the
// input exactly.
func Partition(records []*fhir.QuestionnaireResponse, capacity int) [][]*fhir.QuestionnaireResponse {
	if capacity < 1 {
		capacity = 1
	}
	var batches [][]*fhir.QuestionnaireResponse
	for start := 0; start < len(records); start += capacity {
		end := start + capacity
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

// NewEntry wraps one record as a bundle entry with a fresh correlation id
// and a create directive.
func NewEntry(record *fhir.QuestionnaireResponse) fhir.BundleEntry {
	return fhir.BundleEntry{
		FullURL:  "urn:uuid:" + uuid.NewString(),
		Resource: record,
		Request:  &fhir.BundleRequest{Method: "POST", URL: record.ResourceType},
	}
}

// NewBatchBundle packages one partition as an independently deliverable
// batch bundle: partial delivery of one bundle never blocks or rolls back
// any other.
func NewBatchBundle(records []*fhir.QuestionnaireResponse) *fhir.Bundle {
	entries := make([]fhir.BundleEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, NewEntry(record))
	}
	return &fhir.Bundle{
		ResourceType: "Bundle",
		Type:         "batch",
		Entry:        entries,
	}
}

// WriteBundles partitions the record stream and writes one bundle file per
// batch under outDir. File names carry a zero-padded 1-based batch index so
// emission order is preserved on disk.
func WriteBundles(records []*fhir.QuestionnaireResponse, outDir, prefix string, capacity int) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", outDir)
	}

	var paths []string
	for i, batch := range Partition(records, capacity) {
		bundle := NewBatchBundle(batch)
		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return nil, errors.Wrapf(err, "failed to serialize bundle %d", i+1)
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s_batch_bundle_%03d.json", prefix, i+1))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "failed to write bundle file %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
