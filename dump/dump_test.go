package dump

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/geoknoesis/skos-go/rdf"
)

func sampleGraph() *rdf.Graph {
	g := rdf.NewGraph()
	g.Namespaces().Bind("ex", "http://example.org/")
	c1 := rdf.IRI{Value: "http://example.org/c1"}
	b := rdf.BlankNode{ID: "b1"}
	g.Add(rdf.Triple{S: c1, P: rdf.RDFType, O: rdf.SKOSConcept})
	g.Add(rdf.Triple{S: c1, P: rdf.SKOSPrefLabel, O: rdf.NewLangLiteral("Cat", "en")})
	g.Add(rdf.Triple{S: c1, P: rdf.SKOSNotation, O: rdf.NewLiteral("42")})
	g.Add(rdf.Triple{S: c1, P: rdf.OWLDeprecated, O: rdf.NewBooleanLiteral(false)})
	g.Add(rdf.Triple{S: b, P: rdf.RDFSLabel, O: rdf.NewLiteral("anon")})
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := sampleGraph()
	path := filepath.Join(t.TempDir(), "vocab.dump.gz")
	require.NoError(t, Save(path, g))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, slices.Collect(g.All()), slices.Collect(loaded.All()))
	assert.Equal(t, g.Namespaces().Bindings(), loaded.Namespaces().Bindings())
	ns, ok := loaded.Namespaces().Namespace("ex")
	require.True(t, ok)
	assert.Equal(t, "http://example.org/", ns)
}

func TestSaveEmptyGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dump.gz")
	require.NoError(t, Save(path, rdf.NewGraph()))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, loaded.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.dump.gz"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.dump.gz")
	require.NoError(t, Save(path, sampleGraph()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))

	_, err = Load(path)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadNotGzip(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("@prefix ex: <http://example.org/> .")))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func writeEnvelope(t *testing.T, env envelope) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	require.NoError(t, msgpack.NewEncoder(zw).Encode(env))
	require.NoError(t, zw.Close())
	return &buf
}

func TestReadRejectsTamperedPayload(t *testing.T) {
	env, err := encode(sampleGraph())
	require.NoError(t, err)
	env.Payload[len(env.Payload)-1] ^= 0xff

	_, err = Read(writeEnvelope(t, env))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReadRejectsBadMagicAndVersion(t *testing.T) {
	env, err := encode(sampleGraph())
	require.NoError(t, err)

	badMagic := env
	badMagic.Magic = "joblib"
	_, err = Read(writeEnvelope(t, badMagic))
	assert.ErrorIs(t, err, ErrCorrupt)

	future := env
	future.Version = Version + 1
	_, err = Read(writeEnvelope(t, future))
	assert.ErrorIs(t, err, ErrVersion)
}

func TestReadRejectsDanglingTermIndex(t *testing.T) {
	payload, err := msgpack.Marshal(&snapshot{
		Terms:   []wireTerm{{Kind: rdf.TermIRI, Value: "http://example.org/s"}},
		Triples: [][3]uint32{{0, 0, 7}},
	})
	require.NoError(t, err)
	env := envelope{Magic: magic, Version: Version, Checksum: xxhash.Sum64(payload), Payload: payload}

	_, err = Read(writeEnvelope(t, env))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestWriteFileAtomicKeepsOldFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	boom := errors.New("boom")
	err := WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	require.NoError(t, WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFileAtomicMissingDirectory(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "out.txt"), 0o644, func(io.Writer) error { return nil })
	assert.Error(t, err)
}
