package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported or undetectable format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeInputTooLarge indicates the input exceeded DecodeOptions.MaxInputBytes.
	ErrCodeInputTooLarge ErrorCode = "INPUT_TOO_LARGE"
	// ErrCodeDepthExceeded indicates that nesting depth exceeded the configured limit.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrInputTooLarge indicates the input exceeded the configured size limit.
	ErrInputTooLarge = errors.New("rdf: input exceeds configured limit")
	// ErrDepthExceeded indicates that nesting depth exceeded the configured limit.
	ErrDepthExceeded = errors.New("rdf: nesting depth exceeded configured limit")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF.
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrInputTooLarge):
		return ErrCodeInputTooLarge
	case errors.Is(err, ErrDepthExceeded):
		return ErrCodeDepthExceeded
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}
	return ErrCodeParseError
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    Format // Format being decoded
	Statement string // Offending input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Offset    int    // Byte offset in input (-1 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(string(e.Format))

	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	} else if e.Offset >= 0 {
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}

	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if excerpt := e.formatExcerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// formatExcerpt shows the statement around the error column with a caret.
func (e *ParseError) formatExcerpt() string {
	if e.Statement == "" {
		return ""
	}
	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column <= 0 {
		if len(e.Statement) > maxExcerptLen {
			return e.Statement[:maxExcerptLen] + "..."
		}
		return e.Statement
	}

	start := e.Column - 1
	if start > len(e.Statement) {
		start = len(e.Statement)
	}
	excerptStart := max(start-contextLen, 0)
	excerptEnd := min(start+contextLen, len(e.Statement))

	excerpt := e.Statement[excerptStart:excerptEnd]
	caretPos := start - excerptStart
	if excerptStart > 0 {
		excerpt = "..." + excerpt
		caretPos += 3
	}
	if excerptEnd < len(e.Statement) {
		excerpt += "..."
	}

	return excerpt + "\n  " + strings.Repeat(" ", caretPos) + "^"
}

// newParseError builds a ParseError positioned at offset within input.
// The statement excerpt is the line containing the offset.
func newParseError(format Format, input string, offset int, err error) error {
	if err == nil {
		return nil
	}
	var existing *ParseError
	if errors.As(err, &existing) {
		return err
	}
	if offset < 0 || offset > len(input) {
		return &ParseError{Format: format, Offset: -1, Err: err}
	}
	line, column, lineText := locate(input, offset)
	return &ParseError{
		Format:    format,
		Statement: lineText,
		Line:      line,
		Column:    column,
		Offset:    offset,
		Err:       err,
	}
}

// locate converts a byte offset into a 1-based line and column and returns
// the text of that line.
func locate(input string, offset int) (line, column int, text string) {
	lineStart := strings.LastIndexByte(input[:offset], '\n') + 1
	lineEnd := strings.IndexByte(input[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(input)
	} else {
		lineEnd += offset
	}
	line = strings.Count(input[:offset], "\n") + 1
	column = offset - lineStart + 1
	return line, column, strings.TrimRight(input[lineStart:lineEnd], "\r")
}
