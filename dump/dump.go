// Package dump stores an rdf.Graph as a compact binary snapshot so that a
// vocabulary can be reloaded without re-parsing its source document.
//
// A snapshot file is a gzip stream holding a msgpack envelope:
//
//	magic    "skosdump"
//	version  1
//	sum      xxhash64 of payload
//	payload  msgpack(snapshot)
//
// The snapshot interns every term once and stores triples as index
// triplets, in graph order, followed by the graph's prefix bindings in
// binding order. Loading restores the same triples, order and prefixes.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/geoknoesis/skos-go/rdf"
)

const (
	magic = "skosdump"
	// Version is the snapshot layout written by Save.
	Version = 1
)

var (
	// ErrCorrupt indicates a snapshot that is truncated, tampered with or
	// not a snapshot at all.
	ErrCorrupt = errors.New("dump: corrupt snapshot")
	// ErrVersion indicates a snapshot written by an incompatible layout.
	ErrVersion = errors.New("dump: unsupported snapshot version")
)

type envelope struct {
	Magic    string `msgpack:"magic"`
	Version  int    `msgpack:"version"`
	Checksum uint64 `msgpack:"sum"`
	Payload  []byte `msgpack:"payload"`
}

type snapshot struct {
	Terms    []wireTerm  `msgpack:"terms"`
	Triples  [][3]uint32 `msgpack:"triples"`
	Prefixes [][2]string `msgpack:"prefixes"`
}

type wireTerm struct {
	Kind     rdf.TermKind `msgpack:"k"`
	Value    string       `msgpack:"v"`
	Datatype string       `msgpack:"d,omitempty"`
	Lang     string       `msgpack:"l,omitempty"`
}

// Save writes g to path atomically.
func Save(path string, g *rdf.Graph) error {
	env, err := encode(g)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		zw := gzip.NewWriter(w)
		if err := msgpack.NewEncoder(zw).Encode(env); err != nil {
			zw.Close()
			return fmt.Errorf("dump: encode envelope: %w", err)
		}
		return zw.Close()
	})
}

// Load reads a snapshot written by Save into a new graph.
func Load(path string) (*rdf.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// Read decodes a snapshot stream.
func Read(r io.Reader) (*rdf.Graph, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, corrupt(err)
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, corrupt(err)
	}

	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, corrupt(err)
	}
	if env.Magic != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, env.Magic)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersion, env.Version, Version)
	}
	if sum := xxhash.Sum64(env.Payload); sum != env.Checksum {
		return nil, fmt.Errorf("%w: checksum %016x, want %016x", ErrCorrupt, sum, env.Checksum)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(env.Payload, &snap); err != nil {
		return nil, corrupt(err)
	}
	return decode(snap)
}

func encode(g *rdf.Graph) (envelope, error) {
	var snap snapshot
	ids := make(map[rdf.Term]uint32)
	intern := func(t rdf.Term) uint32 {
		if id, ok := ids[t]; ok {
			return id
		}
		id := uint32(len(snap.Terms))
		ids[t] = id
		snap.Terms = append(snap.Terms, toWire(t))
		return id
	}
	for t := range g.All() {
		snap.Triples = append(snap.Triples, [3]uint32{intern(t.S), intern(t.P), intern(t.O)})
	}
	ns := g.Namespaces()
	for _, prefix := range ns.Bindings() {
		namespace, _ := ns.Namespace(prefix)
		snap.Prefixes = append(snap.Prefixes, [2]string{prefix, namespace})
	}

	payload, err := msgpack.Marshal(&snap)
	if err != nil {
		return envelope{}, fmt.Errorf("dump: encode snapshot: %w", err)
	}
	return envelope{
		Magic:    magic,
		Version:  Version,
		Checksum: xxhash.Sum64(payload),
		Payload:  payload,
	}, nil
}

func decode(snap snapshot) (*rdf.Graph, error) {
	terms := make([]rdf.Term, len(snap.Terms))
	for i, w := range snap.Terms {
		t, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		terms[i] = t
	}
	g := rdf.NewGraph()
	for _, b := range snap.Prefixes {
		g.Namespaces().Bind(b[0], b[1])
	}
	for _, ids := range snap.Triples {
		for _, id := range ids {
			if int(id) >= len(terms) {
				return nil, fmt.Errorf("%w: term index %d out of range", ErrCorrupt, id)
			}
		}
		p, ok := terms[ids[1]].(rdf.IRI)
		if !ok {
			return nil, fmt.Errorf("%w: predicate %s is not an IRI", ErrCorrupt, terms[ids[1]])
		}
		g.Add(rdf.Triple{S: terms[ids[0]], P: p, O: terms[ids[2]]})
	}
	return g, nil
}

func toWire(t rdf.Term) wireTerm {
	switch v := t.(type) {
	case rdf.IRI:
		return wireTerm{Kind: rdf.TermIRI, Value: v.Value}
	case rdf.BlankNode:
		return wireTerm{Kind: rdf.TermBlankNode, Value: v.ID}
	case rdf.Literal:
		return wireTerm{Kind: rdf.TermLiteral, Value: v.Lexical, Datatype: v.Datatype.Value, Lang: v.Lang}
	default:
		return wireTerm{Kind: t.Kind(), Value: t.String()}
	}
}

func fromWire(w wireTerm) (rdf.Term, error) {
	switch w.Kind {
	case rdf.TermIRI:
		return rdf.IRI{Value: w.Value}, nil
	case rdf.TermBlankNode:
		return rdf.BlankNode{ID: w.Value}, nil
	case rdf.TermLiteral:
		return rdf.Literal{Lexical: w.Value, Datatype: rdf.IRI{Value: w.Datatype}, Lang: w.Lang}, nil
	default:
		return nil, fmt.Errorf("%w: unknown term kind %d", ErrCorrupt, w.Kind)
	}
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", ErrCorrupt, err)
}
