package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"parameters"`
}

var testSample = sample{
	Name: "a.png",
	Params: map[string]any{
		"seed":  json.Number("18446744073709551615"),
		"steps": json.Number("20"),
		"cfg":   json.Number("7.5"),
	},
}

func TestMarshalJSON(t *testing.T) {
	data, err := Marshal("json", testSample)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a.png","parameters":{"seed":18446744073709551615,"steps":20,"cfg":7.5}}`,
		string(data))
}

func TestMarshalYAML(t *testing.T) {
	data, err := Marshal("yaml", testSample)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: a.png\n")
	assert.Contains(t, string(data), "steps: 20\n")
	assert.Contains(t, string(data), "cfg: 7.5\n")
	assert.Contains(t, string(data), `seed: "18446744073709551615"`)
}

func TestMarshalTOML(t *testing.T) {
	data, err := Marshal("application/toml", testSample)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a.png")
	assert.Contains(t, string(data), "steps = 20")
	assert.Contains(t, string(data), "[parameters]")
}

func TestMarshalUnsupported(t *testing.T) {
	_, err := Marshal("xml", testSample)
	assert.Error(t, err)
}

func TestUniqueSlice(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, UniqueSlice([]string{"b", "a", "b", "c", "a"}))
	assert.Equal(t, []int{}, UniqueSlice[int](nil))
}

func TestFileExists(t *testing.T) {
	exists, err := FileExists(t.TempDir())
	assert.NoError(t, err)
	assert.True(t, exists)
	exists, err = FileExists(t.TempDir() + "/missing")
	assert.NoError(t, err)
	assert.False(t, exists)
}
