package rdf

import (
	"bytes"
	"io"
	"strings"
)

// sniffBytes is how much of the input DetectFormat looks at.
const sniffBytes = 512

// DetectFormat attempts to detect the RDF format from input by examining the
// first few hundred bytes. Detection is based on format signatures and
// heuristics; it never consumes more than sniffBytes from r.
func DetectFormat(r io.Reader) (Format, bool) {
	buf := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", false
	}
	return detectFormatFromSample(string(buf[:n]))
}

// sniff detects the format of r and returns a reader that replays the
// sampled bytes ahead of the rest of the input.
func sniff(r io.Reader) (Format, io.Reader, bool) {
	buf := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatAuto, r, false
	}
	sample := buf[:n]
	replay := io.MultiReader(bytes.NewReader(sample), r)
	format, ok := detectFormatFromSample(string(sample))
	return format, replay, ok
}

func detectFormatFromSample(sample string) (Format, bool) {
	sample = strings.TrimPrefix(sample, "\ufeff")
	sample = skipLeadingComments(sample)
	if sample == "" {
		return "", false
	}

	if strings.HasPrefix(sample, "{") || strings.HasPrefix(sample, "[") {
		if strings.Contains(sample, "@context") || strings.Contains(sample, "@id") ||
			strings.Contains(sample, "@type") || strings.Contains(sample, "@graph") {
			return FormatJSONLD, true
		}
		// "[" may still open a Turtle blank node subject; "{" never does.
		if strings.HasPrefix(sample, "{") {
			return "", false
		}
	}

	if strings.HasPrefix(sample, "<?xml") || strings.HasPrefix(sample, "<rdf:") ||
		strings.HasPrefix(sample, "<rdf ") || strings.HasPrefix(sample, "<!DOCTYPE rdf") {
		return FormatRDFXML, true
	}

	upper := strings.ToUpper(sample)
	if strings.HasPrefix(upper, "@PREFIX") || strings.HasPrefix(upper, "PREFIX") ||
		strings.HasPrefix(upper, "@BASE") || strings.HasPrefix(upper, "BASE") {
		return FormatTurtle, true
	}

	if strings.HasPrefix(sample, "<") || strings.HasPrefix(sample, "_:") {
		if looksLikeNTriples(sample) {
			return FormatNTriples, true
		}
		return FormatTurtle, true
	}

	// Prefixed names (ex:s) without declarations still read as Turtle.
	for _, part := range strings.Fields(sample) {
		if strings.Contains(part, ":") && !strings.HasPrefix(part, "_:") && !strings.HasPrefix(part, "<") {
			return FormatTurtle, true
		}
	}
	return "", false
}

// looksLikeNTriples reports whether every complete line in the sample is a
// plain subject/predicate/object statement with no Turtle abbreviations.
func looksLikeNTriples(sample string) bool {
	lines := strings.Split(sample, "\n")
	if len(lines) > 1 {
		// The last line may be cut off by the sample window.
		lines = lines[:len(lines)-1]
	}
	seen := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasSuffix(line, ".") {
			return false
		}
		if !(strings.HasPrefix(line, "<") || strings.HasPrefix(line, "_:")) {
			return false
		}
		seen = true
	}
	return seen
}

func skipLeadingComments(sample string) string {
	for {
		sample = strings.TrimSpace(sample)
		if !strings.HasPrefix(sample, "#") {
			return sample
		}
		idx := strings.IndexByte(sample, '\n')
		if idx < 0 {
			return ""
		}
		sample = sample[idx+1:]
	}
}
