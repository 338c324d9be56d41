package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/skos-go/rdf"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, int64(rdf.DefaultMaxInputBytes), cfg.Parse.MaxInputBytes)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skosvocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
parse:
  max_depth: 32
output:
  language: sv
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 32, cfg.Parse.MaxDepth)
	assert.Equal(t, int64(rdf.DefaultMaxInputBytes), cfg.Parse.MaxInputBytes, "unset keys keep defaults")
	assert.Equal(t, "sv", cfg.Output.Language)

	opts := cfg.DecodeOptions()
	assert.Equal(t, 32, opts.MaxDepth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse(t *testing.T) {
	t.Setenv("SKOSVOCAB_TEST_LANG", "fi")

	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:  "empty document",
			input: "",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, Default(), cfg) },
		},
		{
			name:  "env expansion",
			input: "output:\n  language: ${SKOSVOCAB_TEST_LANG}\n",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "fi", cfg.Output.Language) },
		},
		{
			name:  "limits disabled",
			input: "parse:\n  max_input_bytes: -1\n  base_iri: http://example.org/\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, int64(-1), cfg.Parse.MaxInputBytes)
				assert.Equal(t, "http://example.org/", cfg.DecodeOptions().BaseIRI)
			},
		},
		{name: "unknown key", input: "logging:\n  level: info\n", wantErr: "failed to parse config"},
		{name: "bad level", input: "log:\n  level: loud\n", wantErr: "log.level"},
		{name: "bad format", input: "log:\n  format: xml\n", wantErr: "log.format"},
		{name: "empty language", input: "output:\n  language: \"\"\n", wantErr: "output.language"},
		{name: "malformed yaml", input: "log: [", wantErr: "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")
}
