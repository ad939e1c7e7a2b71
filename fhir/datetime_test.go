package fhir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateTime(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		preserved bool
	}{
		{"german local format", "24.07.2012 08:24", "2012-07-24T08:24:00Z", true},
		{"date only stays date only", "2012-07-24", "2012-07-24", true},
		{"slash format", "24/07/2012 08:24", "2012-07-24T08:24:00Z", true},
		{"space separated", "2012-07-24 08:24", "2012-07-24T08:24:00Z", true},
		{"space separated with seconds", "2012-07-24 08:24:31", "2012-07-24T08:24:31Z", true},
		{"iso without zone", "2012-07-24T08:24", "2012-07-24T08:24:00Z", true},
		{"zoned iso passes through unchanged", "2012-07-24T08:24:00+02:00", "2012-07-24T08:24:00+02:00", true},
		{"utc iso passes through unchanged", "2012-07-24T08:24:00Z", "2012-07-24T08:24:00Z", true},
		{"surrounding whitespace", "  2012-07-24  ", "2012-07-24", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, preserved := NormalizeDateTime(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.preserved, preserved)
		})
	}

	t.Run("unparseable falls back to a current UTC timestamp", func(t *testing.T) {
		before := time.Now().UTC().Add(-time.Minute)
		got, preserved := NormalizeDateTime("not a date")
		assert.False(t, preserved)
		parsed, err := time.Parse(time.RFC3339, got)
		require.NoError(t, err)
		assert.True(t, parsed.After(before))
	})

	t.Run("empty input falls back without panicking", func(t *testing.T) {
		got, preserved := NormalizeDateTime("")
		assert.False(t, preserved)
		_, err := time.Parse(time.RFC3339, got)
		assert.NoError(t, err)
	})
}

func TestRelativeRef(t *testing.T) {
	tests := []struct {
		name         string
		resourceType string
		identifier   string
		want         string
	}{
		{"bare id gets prefixed", "Patient", "123", "Patient/123"},
		{"existing relative ref untouched", "Patient", "Patient/123", "Patient/123"},
		{"urn untouched", "Patient", "urn:uuid:abc", "urn:uuid:abc"},
		{"absolute url untouched", "Encounter", "http://fhir.example.org/Encounter/9", "http://fhir.example.org/Encounter/9"},
		{"empty stays empty", "Patient", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeRef(tt.resourceType, tt.identifier))
		})
	}
}
