package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/skos-go/skos"
)

const testVocabulary = `@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix ex: <http://example.org/> .

ex:cat a skos:Concept ;
    skos:prefLabel "Cat"@en, "Katt"@sv ;
    skos:notation "42" .

ex:dog a skos:Concept ;
    skos:prefLabel "Dog"@en .

ex:old a skos:Concept ;
    skos:prefLabel "Old"@fi ;
    owl:deprecated true .
`

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeVocabulary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.ttl")
	require.NoError(t, os.WriteFile(path, []byte(testVocabulary), 0o644))
	return path
}

func TestLanguages(t *testing.T) {
	out, _, err := run(t, "languages", writeVocabulary(t))
	require.NoError(t, err)
	assert.Equal(t, "en\nsv\n", out)
}

func TestSubjectsTSV(t *testing.T) {
	path := writeVocabulary(t)

	out, _, err := run(t, "subjects", path, "--lang", "sv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"http://example.org/cat", "Katt", "42"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"http://example.org/dog", "ex:dog"}, strings.Fields(lines[1]))

	_, _, err = run(t, "subjects", path, "--lang", "fi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `language "fi" not in vocabulary`)
}

func TestSubjectsDefaultLanguageFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  language: sv\n"), 0o644))

	out, _, err := run(t, "--config", cfgPath, "subjects", writeVocabulary(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Katt")
}

func TestSubjectsJSON(t *testing.T) {
	out, _, err := run(t, "subjects", writeVocabulary(t), "--output", "json")
	require.NoError(t, err)

	var got []skos.Subject
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var s skos.Subject
		require.NoError(t, dec.Decode(&s))
		got = append(got, s)
	}
	want := []skos.Subject{
		{URI: "http://example.org/cat", Labels: map[string]string{"en": "Cat", "sv": "Katt"}, Notation: "42"},
		{URI: "http://example.org/dog", Labels: map[string]string{"en": "Dog", "sv": "ex:dog"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subjects mismatch (-want +got):\n%s", diff)
	}

	_, _, err = run(t, "subjects", writeVocabulary(t), "--output", "xml")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	src := writeVocabulary(t)
	dst := filepath.Join(t.TempDir(), "saved.ttl")

	_, stderr, err := run(t, "save", src, dst, "--log-format", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, testVocabulary, string(data))
	assert.FileExists(t, skos.CachePath(dst))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stderr)), &entry))
	assert.Equal(t, "vocabulary saved", entry["msg"])
	assert.Equal(t, "skosvocab", entry["app"])

	out, _, err := run(t, "languages", skos.CachePath(dst))
	require.NoError(t, err)
	assert.Equal(t, "en\nsv\n", out)
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "subjects.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(`uri,label_en,label_sv,notation
http://example.org/cat,Cat,Katt,42
"http://example.org/dog","Dog, the animal",,
`), 0o644))
	dst := filepath.Join(dir, "imported.ttl")

	_, _, err := run(t, "import", csvPath, dst, "--log-level", "warn")
	require.NoError(t, err)

	out, _, err := run(t, "subjects", dst, "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "Dog, the animal")
	assert.FileExists(t, filepath.Join(dir, "imported.dump.gz"))
}

func TestErrors(t *testing.T) {
	_, _, err := run(t, "languages", filepath.Join(t.TempDir(), "missing.dump.gz"))
	assert.Equal(t, skos.ErrCodeCacheLoad, skos.Code(err))

	_, _, err = run(t, "languages")
	assert.Error(t, err)

	_, _, err = run(t, "languages", writeVocabulary(t), "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "skosvocab "+Version+"\n"))
}

func TestReadSubjectsCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    skos.SubjectList
		wantErr string
	}{
		{
			name:  "labels and notation",
			input: "uri,label_en,notation\nhttp://ex/1,One,001\n",
			want:  skos.SubjectList{{URI: "http://ex/1", Labels: map[string]string{"en": "One"}, Notation: "001"}},
		},
		{
			name:  "no notation column",
			input: "label_fi,uri\nYksi,http://ex/1\n",
			want:  skos.SubjectList{{URI: "http://ex/1", Labels: map[string]string{"fi": "Yksi"}}},
		},
		{name: "empty", input: "", wantErr: "missing header row"},
		{name: "no uri column", input: "label_en\nOne\n", wantErr: "missing uri column"},
		{name: "unknown column", input: "uri,title\nhttp://ex/1,One\n", wantErr: `unknown column "title"`},
		{name: "empty uri", input: "uri,label_en\n,One\n", wantErr: "line 2: empty uri"},
		{name: "ragged row", input: "uri,label_en\nhttp://ex/1\n", wantErr: "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readSubjectsCSV(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("subjects mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
