package skos

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/geoknoesis/skos-go/dump"
	"github.com/geoknoesis/skos-go/rdf"
)

// SerializeSubjects builds a SKOS graph from subjects, writes it as Turtle
// to path and then writes the cache artifact at CachePath(path). The cache
// write is atomic; the Turtle write is not.
func SerializeSubjects(subjects iter.Seq[Subject], path string, opts ...Option) error {
	o := newOptions(opts)
	start := time.Now()

	g := rdf.NewGraph()
	count := 0
	for s := range subjects {
		s.addTo(g)
		count++
	}
	if err := g.SerializeFile(path, rdf.FormatTurtle); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	if err := writeCache(g, path, o.logger); err != nil {
		return err
	}
	o.logger.Debug("subjects serialized",
		"path", path,
		"subjects", count,
		"triples", g.Len(),
		"elapsed", time.Since(start))
	return nil
}

// SaveSKOS writes the vocabulary as Turtle to path and refreshes the cache
// artifact at CachePath(path). A vocabulary opened from a .ttl file is
// copied byte for byte, unless path is that same file; any other source is
// re-serialized from the graph.
func (v *Vocabulary) SaveSKOS(path string) error {
	start := time.Now()
	copied := v.format == rdf.FormatTurtle && isTurtleFile(v.path)
	if copied {
		if err := copyUnlessSame(v.path, path); err != nil {
			return &SerializationError{Path: path, Err: err}
		}
	} else if err := v.graph.SerializeFile(path, rdf.FormatTurtle); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	if err := writeCache(v.graph, path, v.logger); err != nil {
		return err
	}
	v.logger.Debug("vocabulary saved",
		"path", path,
		"copied", copied,
		"triples", v.graph.Len(),
		"elapsed", time.Since(start))
	return nil
}

func writeCache(g *rdf.Graph, ttlPath string, logger *slog.Logger) error {
	cachePath := CachePath(ttlPath)
	if err := dump.Save(cachePath, g); err != nil {
		return &SerializationError{Path: cachePath, Err: err}
	}
	logger.Debug("cache written", "path", cachePath)
	return nil
}

func copyUnlessSame(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	dstInfo, err := os.Stat(dst)
	switch {
	case err == nil:
		if os.SameFile(srcInfo, dstInfo) {
			return nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
