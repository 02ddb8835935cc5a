package aimeta

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAutomatic1111Golden(t *testing.T) {
	files, err := filepath.Glob("testdata/a1111/*.txt")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			input, err := os.ReadFile(file)
			require.NoError(t, err)
			want, err := os.ReadFile(strings.TrimSuffix(file, ".txt") + ".json")
			require.NoError(t, err)
			got, err := json.Marshal(ParseAutomatic1111(string(input)))
			require.NoError(t, err)
			assert.JSONEq(t, string(want), string(got))
		})
	}
}

func TestParseAutomatic1111KeepsSeedLiteral(t *testing.T) {
	meta := ParseAutomatic1111("a\nSteps: 20, Seed: 18446744073709551615")
	assert.Equal(t, json.Number("18446744073709551615"), meta.Parameters["seed"])
	assert.Equal(t, json.Number("20"), meta.Parameters["steps"])
}

func TestParseParameters(t *testing.T) {
	cases := []struct {
		input string
		want  Params
	}{
		{"", Params{}},
		{"Steps: 20", Params{"steps": json.Number("20")}},
		{"Size: 512x512, Denoising strength: 0.45", Params{
			"size":              "512x512",
			"denoisingstrength": json.Number("0.45"),
		}},
		{"Sampler: DPM++ SDE, Karras, Seed: 7", Params{
			"sampler": "DPM++ SDE, Karras",
			"seed":    json.Number("7"),
		}},
		{"Model: , Steps: 1", Params{"steps": json.Number("1")}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseParameters(c.input), "input %q", c.input)
	}
}
