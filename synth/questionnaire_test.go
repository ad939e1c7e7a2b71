package synth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinQuestionnaires(t *testing.T) {
	t.Run("nreq has seventeen choice items", func(t *testing.T) {
		q := BuiltinNREQ()
		require.Len(t, q.Item, 17)
		assert.Equal(t, "nreq-q1", q.Item[0].LinkID)
		assert.Equal(t, "nreq-q17", q.Item[16].LinkID)
		for _, item := range q.Item {
			assert.Equal(t, "choice", item.Type)
		}
	})

	t.Run("ppnq carries the split items and the scale", func(t *testing.T) {
		q := BuiltinPPNQ()
		ids := RequiredLinkIDs(q)
		assert.Contains(t, ids, "ppnq-q3a")
		assert.Contains(t, ids, "ppnq-q3b")
		assert.Contains(t, ids, "ppnq-q9")
		assert.Contains(t, ids, "ppnq-q9-text")
		assert.Len(t, ids, 11)
	})

	t.Run("unknown mode is an error", func(t *testing.T) {
		_, err := BuiltinQuestionnaire(Mode("bogus"))
		assert.Error(t, err)
	})
}

func TestLoadQuestionnaire(t *testing.T) {
	t.Run("built-in when no file given", func(t *testing.T) {
		q, err := LoadQuestionnaire(ModeNREQ, "", "")
		require.NoError(t, err)
		assert.Equal(t, "NREQ", q.Name)
	})

	t.Run("url override replaces the canonical url", func(t *testing.T) {
		q, err := LoadQuestionnaire(ModePPNQ, "", "http://local.example/Questionnaire/Q")
		require.NoError(t, err)
		assert.Equal(t, "http://local.example/Questionnaire/Q", q.URL)
	})

	t.Run("external file wins over the built-in", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "q.json")
		doc := map[string]interface{}{
			"resourceType": "Questionnaire",
			"url":          "http://file.example/Questionnaire/F",
			"item":         []map[string]string{{"linkId": "f-1", "type": "string"}},
		}
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		q, err := LoadQuestionnaire(ModeNREQ, path, "")
		require.NoError(t, err)
		assert.Equal(t, "http://file.example/Questionnaire/F", q.URL)
		require.Len(t, q.Item, 1)
		assert.Equal(t, "f-1", q.Item[0].LinkID)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadQuestionnaire(ModeNREQ, "/nonexistent/q.json", "")
		assert.Error(t, err)
	})
}
