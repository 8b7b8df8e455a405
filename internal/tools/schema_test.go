package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpecFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSpecifications(t *testing.T) {
	path := writeSpecFile(t, `[
		{
			"type": "function",
			"name": "locate_book",
			"description": "Locate a book.",
			"parameters": {
				"type": "object",
				"properties": {
					"book_title": {"type": "string", "description": "The title."}
				},
				"additionalProperties": false
			},
			"required": ["book_title"]
		},
		{
			"type": "function",
			"name": "renew_book",
			"description": "Renew a loan.",
			"parameters": {"type": "object", "properties": {"title": {"type": "string"}}},
			"required": ["title"]
		}
	]`)

	specs, err := LoadSpecifications(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "locate_book", specs[0].Name)
	assert.Equal(t, []string{"book_title"}, specs[0].Required)
	assert.Equal(t, "string", specs[0].Parameters.Properties["book_title"].Type)
	assert.Equal(t, "renew_book", specs[1].Name, "file order is registration order")
}

func TestLoadSpecificationsRejectsUnknownType(t *testing.T) {
	path := writeSpecFile(t, `[{"type": "web_search", "name": "search"}]`)
	_, err := LoadSpecifications(path)
	assert.ErrorContains(t, err, "unsupported type")
}

func TestLoadSpecificationsRejectsMissingName(t *testing.T) {
	path := writeSpecFile(t, `[{"type": "function", "description": "nameless"}]`)
	_, err := LoadSpecifications(path)
	assert.ErrorContains(t, err, "missing name")
}

func TestLoadSpecificationsMissingFile(t *testing.T) {
	_, err := LoadSpecifications(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
