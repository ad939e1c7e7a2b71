// Package definitions builds the transaction bundle that provisions a FHIR
// server with the terminology a synthesis run answers against: CodeSystem,
// ValueSet, and Questionnaire resources, ordered so each resource's
// dependencies are created before it.
package definitions

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/fhir"
	"github.com/synthfhir/qrforge/logger"
)

// Method selects how Bundle.entry.request.method is chosen.
type Method string

const (
	// MethodAuto uses PUT when the resource carries an id, POST otherwise.
	MethodAuto Method = "auto"
	MethodPut  Method = "put"
	MethodPost Method = "post"
)

// creationOrder is the dependency-safe emission order. A lookup table is
// all that is needed: the dependency graph over these three types is fixed.
var creationOrder = map[string]int{
	"CodeSystem":    0,
	"ValueSet":      1,
	"Questionnaire": 2,
}

// Resource is one raw definition resource. Content is kept opaque so any
// valid resource body round-trips untouched.
type Resource map[string]interface{}

// Type returns the resourceType field, or "".
func (r Resource) Type() string {
	t, _ := r["resourceType"].(string)
	return t
}

// ID returns the id field, or "".
func (r Resource) ID() string {
	id, _ := r["id"].(string)
	return id
}

// LoadDir reads every .json file in dir and keeps the single-resource
// documents whose type participates in the creation order. Invalid JSON
// and foreign resource types are skipped with a warning, not fatal: the
// input folder commonly holds unrelated artifacts.
func LoadDir(dir string) ([]Resource, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}
	sort.Strings(paths)

	var resources []Resource
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		var r Resource
		if err := json.Unmarshal(data, &r); err != nil {
			logger.Warnw("Skipping file: not valid JSON", "file", filepath.Base(path), "error", err)
			continue
		}
		if _, ok := creationOrder[r.Type()]; !ok {
			logger.Warnw("Skipping file: not a CodeSystem/ValueSet/Questionnaire resource",
				"file", filepath.Base(path), "resource_type", r.Type())
			continue
		}
		resources = append(resources, r)
	}
	return resources, nil
}

// Sort orders resources dependency-first (CodeSystem, ValueSet,
// Questionnaire), with id as tiebreaker for stable output.
func Sort(resources []Resource) {
	sort.SliceStable(resources, func(i, j int) bool {
		oi, oj := creationOrder[resources[i].Type()], creationOrder[resources[j].Type()]
		if oi != oj {
			return oi < oj
		}
		return resources[i].ID() < resources[j].ID()
	})
}

// requestMethod resolves the delivery method for one resource.
func requestMethod(r Resource, mode Method) string {
	switch mode {
	case MethodPut:
		return "PUT"
	case MethodPost:
		return "POST"
	default:
		if r.ID() != "" {
			return "PUT"
		}
		return "POST"
	}
}

// requestURL is "Type/id" for identified resources, bare "Type" otherwise.
func requestURL(r Resource) string {
	if id := r.ID(); id != "" {
		return r.Type() + "/" + id
	}
	return r.Type()
}

// BuildBundle assembles the ordered transaction bundle. Unlike the batch
// bundles the synthesis pipeline emits, a transaction is all-or-nothing:
// definitions must land together or not at all.
func BuildBundle(resources []Resource, mode Method) *fhir.Bundle {
	Sort(resources)
	entries := make([]fhir.BundleEntry, 0, len(resources))
	for _, r := range resources {
		entries = append(entries, fhir.BundleEntry{
			FullURL:  "urn:uuid:" + uuid.NewString(),
			Resource: r,
			Request: &fhir.BundleRequest{
				Method: requestMethod(r, mode),
				URL:    requestURL(r),
			},
		})
	}
	return &fhir.Bundle{
		ResourceType: "Bundle",
		Type:         "transaction",
		Entry:        entries,
	}
}

// Write builds the bundle from dir and writes it to outFile.
// Returns the number of bundled resources.
func Write(dir, outFile string, mode Method) (int, error) {
	resources, err := LoadDir(dir)
	if err != nil {
		return 0, err
	}
	if len(resources) == 0 {
		return 0, errors.Newf("no CodeSystem/ValueSet/Questionnaire resources found in %s", dir)
	}

	bundle := BuildBundle(resources, mode)
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "failed to serialize transaction bundle")
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return 0, errors.Wrapf(err, "failed to create output directory for %s", outFile)
	}
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return 0, errors.Wrapf(err, "failed to write %s", outFile)
	}

	return len(resources), nil
}
