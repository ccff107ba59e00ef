// Package codec converts between an entity's backing file bytes and its
// fixed-shape records. Values are carried as raw strings; interpreting them
// is left to validation and the query engine.
package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"leaguestore/pkg/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses raw file contents into records. The first row names the
// columns; every later row becomes one record. Header columns may appear in
// any order and may omit canonical columns (left empty), but unknown or
// repeated names, ragged rows and invalid UTF-8 fail with domain.CodecError.
func Decode[R any](schema *domain.Schema[R], raw []byte) ([]R, error) {
	fail := func(line int, err error) ([]R, error) {
		return nil, domain.CodecError{Entity: schema.Entity, Line: line, Err: err}
	}
	if !utf8.Valid(raw) {
		return fail(0, errors.New("content is not valid UTF-8"))
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	r := csv.NewReader(bytes.NewReader(raw))
	// Unquoted files may carry literal quotes inside a cell.
	r.LazyQuotes = true
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return fail(0, errors.New("missing header row"))
	}
	if err != nil {
		return fail(parseLine(err), err)
	}
	cols, err := bindHeader(schema, header)
	if err != nil {
		return fail(1, err)
	}
	// Every data row must have exactly as many cells as the header.
	r.FieldsPerRecord = len(header)

	var out []R
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(parseLine(err), err)
		}
		var rec R
		for i, c := range cols {
			*c.Ref(&rec) = row[i]
		}
		out = append(out, rec)
	}
	return out, nil
}

func bindHeader[R any](schema *domain.Schema[R], header []string) ([]domain.Column[R], error) {
	cols := make([]domain.Column[R], len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		c, ok := schema.Column(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
		cols[i] = c
	}
	return cols, nil
}

func parseLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}

// Encode serializes records under the canonical header, in input order.
// Cells containing commas, quotes or line breaks are quoted.
func Encode[R any](schema *domain.Schema[R], records []R) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(schema.Header()); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := w.Write(schema.Row(rec)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
