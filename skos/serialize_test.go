package skos

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/skos-go/dump"
	"github.com/geoknoesis/skos-go/rdf"
)

func TestSerializeSubjectsRoundTrip(t *testing.T) {
	subjects := []Subject{
		{URI: "http://example.org/cat", Labels: map[string]string{"en": "Cat", "sv": "Katt"}, Notation: "42"},
		{URI: "http://example.org/dog", Labels: map[string]string{"en": "Dog \"Rex\"", "sv": "Hund"}},
	}
	path := filepath.Join(t.TempDir(), "subjects.ttl")
	require.NoError(t, SerializeSubjects(slices.Values(subjects), path))

	text, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(text), "@prefix skos: <http://www.w3.org/2004/02/skos/core#> .")

	for _, p := range []string{path, CachePath(path)} {
		v, err := Open(p)
		require.NoError(t, err, p)
		got := slices.Collect(v.Subjects())
		if diff := cmp.Diff(subjects, got, byURI); diff != "" {
			t.Errorf("%s: round trip mismatch (-want +got):\n%s", p, diff)
		}
	}
}

func TestSerializeSubjectsPartialLanguages(t *testing.T) {
	subjects := SubjectList{
		{URI: "http://example.org/a", Labels: map[string]string{"en": "A", "fi": "Aa"}},
		{URI: "http://example.org/b", Labels: map[string]string{"en": "B"}},
	}
	path := filepath.Join(t.TempDir(), "partial.ttl")
	require.NoError(t, subjects.SaveSKOS(path))

	v, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, subjects.Languages(), v.Languages())
	got := slices.Collect(v.Subjects())
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[1].Labels["en"])
	assert.NotEmpty(t, got[1].Labels["fi"])
}

func TestSerializeSubjectsOutputIsStable(t *testing.T) {
	subjects := []Subject{{URI: "http://example.org/x", Labels: map[string]string{"sv": "X", "en": "X", "de": "X"}}}
	dir := t.TempDir()
	first, second := filepath.Join(dir, "one.ttl"), filepath.Join(dir, "two.ttl")
	require.NoError(t, SerializeSubjects(slices.Values(subjects), first))
	require.NoError(t, SerializeSubjects(slices.Values(subjects), second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Less(t, strings.Index(string(a), `"X"@de`), strings.Index(string(a), `"X"@sv`))
}

func TestSerializeSubjectsUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "subjects.ttl")
	err := SerializeSubjects(slices.Values(fixtureSubjects), path)
	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)
	assert.Equal(t, path, serErr.Path)
	assert.Equal(t, ErrCodeSerialization, Code(err))
}

func TestSaveSKOSCopiesTurtle(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "source.ttl", turtleVocabulary)
	v, err := Open(src)
	require.NoError(t, err)

	dst := filepath.Join(dir, "copy.ttl")
	require.NoError(t, v.SaveSKOS(dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, turtleVocabulary, string(got))

	cached, err := dump.Load(filepath.Join(dir, "copy.dump.gz"))
	require.NoError(t, err)
	assert.Equal(t, v.Graph().Len(), cached.Len())
}

func TestSaveSKOSSameFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "vocab.ttl", turtleVocabulary)
	v, err := Open(src)
	require.NoError(t, err)

	require.NoError(t, v.SaveSKOS(src))
	got, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, turtleVocabulary, string(got))
	assert.FileExists(t, filepath.Join(dir, "vocab.dump.gz"))
}

func TestSaveSKOSRefreshesCache(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "vocab.ttl", turtleVocabulary)
	stale := filepath.Join(dir, "out.dump.gz")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	v, err := Open(src)
	require.NoError(t, err)
	require.NoError(t, v.SaveSKOS(filepath.Join(dir, "out.ttl")))

	reloaded, err := Open(stale)
	require.NoError(t, err)
	if diff := cmp.Diff(fixtureSubjects, slices.Collect(reloaded.Subjects())); diff != "" {
		t.Errorf("cache subjects mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveSKOSReserializes(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T, dir string) *Vocabulary
	}{
		{"rdfxml", func(t *testing.T, dir string) *Vocabulary {
			v, err := Open(writeFile(t, dir, "vocab.rdf", rdfxmlVocabulary))
			require.NoError(t, err)
			return v
		}},
		{"cache", func(t *testing.T, dir string) *Vocabulary {
			src := writeFile(t, dir, "vocab.ttl", turtleVocabulary)
			v, err := Open(src)
			require.NoError(t, err)
			require.NoError(t, v.SaveSKOS(src))
			cached, err := Open(CachePath(src))
			require.NoError(t, err)
			assert.Empty(t, cached.Format())
			return cached
		}},
		{"new", func(t *testing.T, dir string) *Vocabulary {
			v, err := Open(writeFile(t, dir, "vocab.jsonld", jsonldVocabulary))
			require.NoError(t, err)
			return New(v.Graph())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			v := tt.open(t, dir)
			dst := filepath.Join(dir, "saved.ttl")
			require.NoError(t, v.SaveSKOS(dst))

			g, format, err := rdf.ParseFile(t.Context(), dst, rdf.FormatAuto)
			require.NoError(t, err)
			assert.Equal(t, rdf.FormatTurtle, format)
			assert.Equal(t, v.Graph().Len(), g.Len())

			for _, p := range []string{dst, filepath.Join(dir, "saved.dump.gz")} {
				reloaded, err := Open(p)
				require.NoError(t, err)
				if diff := cmp.Diff(fixtureSubjects, slices.Collect(reloaded.Subjects()), byURI); diff != "" {
					t.Errorf("%s: subjects mismatch (-want +got):\n%s", p, diff)
				}
			}
		})
	}
}

func TestSaveSKOSUnwritable(t *testing.T) {
	v := openString(t, "vocab.rdf", rdfxmlVocabulary)
	err := v.SaveSKOS(filepath.Join(t.TempDir(), "missing", "out.ttl"))
	assert.Equal(t, ErrCodeSerialization, Code(err))
}

func TestSaveSKOSLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	dir := t.TempDir()
	v, err := Open(writeFile(t, dir, "vocab.ttl", turtleVocabulary), WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, v.SaveSKOS(filepath.Join(dir, "out.ttl")))

	out := buf.String()
	assert.Contains(t, out, `msg="vocabulary loaded"`)
	assert.Contains(t, out, "format=turtle")
	assert.Contains(t, out, `msg="cache written"`)
	assert.Contains(t, out, "copied=true")
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "vocab.dump.gz", CachePath("vocab.ttl"))
	assert.Equal(t, "dir.ttl/vocab.dump.gz", CachePath("dir.ttl/vocab.ttl"))
	assert.Equal(t, "vocab.nt.dump.gz", CachePath("vocab.nt"))
	assert.True(t, IsCachePath("a/b.dump.gz"))
	assert.False(t, IsCachePath("a/b.gz"))

	for path, want := range map[string]bool{
		"a.ttl": true, "a.rdf": true, "a.owl": true, "a.jsonld": true, "a.nt": true,
		"a.txt": false, "a.dump.gz": false, "a": false,
	} {
		assert.Equal(t, want, IsRDFFile(path), path)
	}
}

func TestSubjectList(t *testing.T) {
	list := SubjectList(fixtureSubjects)
	assert.Equal(t, []string{"en", "sv"}, list.Languages())
	assert.Len(t, slices.Collect(list.Subjects()), len(fixtureSubjects))
	assert.Empty(t, SubjectList(nil).Languages())
}
