package definitions

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthfhir/qrforge/fhir"
)

func writeJSON(t *testing.T, dir, name string, doc interface{}) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "questionnaire.json", Resource{"resourceType": "Questionnaire", "id": "nreq"})
	writeJSON(t, dir, "codesystem.json", Resource{"resourceType": "CodeSystem", "id": "likert"})
	writeJSON(t, dir, "patient.json", Resource{"resourceType": "Patient", "id": "p-1"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	resources, err := LoadDir(dir)
	require.NoError(t, err)

	// The Patient, the broken file, and the non-JSON file are all skipped.
	require.Len(t, resources, 2)
	types := []string{resources[0].Type(), resources[1].Type()}
	assert.ElementsMatch(t, []string{"Questionnaire", "CodeSystem"}, types)
}

func TestSort(t *testing.T) {
	resources := []Resource{
		{"resourceType": "Questionnaire", "id": "q-b"},
		{"resourceType": "ValueSet", "id": "vs-1"},
		{"resourceType": "Questionnaire", "id": "q-a"},
		{"resourceType": "CodeSystem", "id": "cs-1"},
	}
	Sort(resources)

	assert.Equal(t, "CodeSystem", resources[0].Type())
	assert.Equal(t, "ValueSet", resources[1].Type())
	assert.Equal(t, "q-a", resources[2].ID())
	assert.Equal(t, "q-b", resources[3].ID())
}

func TestBuildBundle(t *testing.T) {
	resources := []Resource{
		{"resourceType": "Questionnaire", "id": "nreq"},
		{"resourceType": "CodeSystem"},
	}

	t.Run("auto picks PUT for identified resources", func(t *testing.T) {
		bundle := BuildBundle(resources, MethodAuto)
		assert.Equal(t, "transaction", bundle.Type)
		require.Len(t, bundle.Entry, 2)

		// CodeSystem sorts first; it carries no id so auto falls to POST.
		assert.Equal(t, "POST", bundle.Entry[0].Request.Method)
		assert.Equal(t, "CodeSystem", bundle.Entry[0].Request.URL)
		assert.Equal(t, "PUT", bundle.Entry[1].Request.Method)
		assert.Equal(t, "Questionnaire/nreq", bundle.Entry[1].Request.URL)
	})

	t.Run("forced methods apply regardless of id", func(t *testing.T) {
		bundle := BuildBundle(resources, MethodPost)
		for _, entry := range bundle.Entry {
			assert.Equal(t, "POST", entry.Request.Method)
		}
		bundle = BuildBundle(resources, MethodPut)
		for _, entry := range bundle.Entry {
			assert.Equal(t, "PUT", entry.Request.Method)
		}
	})

	t.Run("entries carry correlation ids", func(t *testing.T) {
		bundle := BuildBundle(resources, MethodAuto)
		for _, entry := range bundle.Entry {
			assert.Contains(t, entry.FullURL, "urn:uuid:")
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("round-trips to an ordered bundle file", func(t *testing.T) {
		inDir := t.TempDir()
		writeJSON(t, inDir, "q.json", Resource{"resourceType": "Questionnaire", "id": "nreq"})
		writeJSON(t, inDir, "cs.json", Resource{"resourceType": "CodeSystem", "id": "likert"})

		outFile := filepath.Join(t.TempDir(), "out", "definitions_bundle.json")
		count, err := Write(inDir, outFile, MethodAuto)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		data, err := os.ReadFile(outFile)
		require.NoError(t, err)
		var bundle fhir.Bundle
		require.NoError(t, json.Unmarshal(data, &bundle))
		require.Len(t, bundle.Entry, 2)
		assert.Equal(t, "CodeSystem/likert", bundle.Entry[0].Request.URL)
	})

	t.Run("empty input directory is an error", func(t *testing.T) {
		_, err := Write(t.TempDir(), filepath.Join(t.TempDir(), "out.json"), MethodAuto)
		assert.Error(t, err)
	})
}
