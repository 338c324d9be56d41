package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/geoknoesis/skos-go/skos"
)

const labelColumnPrefix = "label_"

func readSubjectsCSVFile(path string) (skos.SubjectList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	subjects, err := readSubjectsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return subjects, nil
}

// readSubjectsCSV reads subjects from CSV with a header row. Columns are
// matched by name; empty label cells are omitted from the subject.
func readSubjectsCSV(r io.Reader) (skos.SubjectList, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}

	uriCol, notationCol := -1, -1
	labelCols := make(map[int]string)
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case name == "uri":
			uriCol = i
		case name == "notation":
			notationCol = i
		case strings.HasPrefix(name, labelColumnPrefix) && len(name) > len(labelColumnPrefix):
			labelCols[i] = strings.TrimPrefix(name, labelColumnPrefix)
		default:
			return nil, fmt.Errorf("unknown column %q", name)
		}
	}
	if uriCol < 0 {
		return nil, errors.New("missing uri column")
	}

	var subjects skos.SubjectList
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return subjects, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		s := skos.Subject{URI: strings.TrimSpace(record[uriCol]), Labels: make(map[string]string)}
		if s.URI == "" {
			return nil, fmt.Errorf("line %d: empty uri", line)
		}
		for col, lang := range labelCols {
			if label := strings.TrimSpace(record[col]); label != "" {
				s.Labels[lang] = label
			}
		}
		if notationCol >= 0 {
			s.Notation = strings.TrimSpace(record[notationCol])
		}
		subjects = append(subjects, s)
	}
}
