// Package csvio reads the per-year CSV tables and the dataset config.json,
// decoding string sentinels into typed model records. It also appends
// manually entered activities back to CSV.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// row is one CSV record keyed by normalised header.
type row struct {
	line   int
	fields map[string]string
}

// get returns the first non-empty value among keys.
func (r row) get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.fields[k]); v != "" {
			return v
		}
	}
	return ""
}

// readTable reads a headed CSV file. A missing file is an empty table.
func readTable(path string) ([]row, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the configured data dir
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return decode(f, path)
}

func decode(r io.Reader, name string) ([]row, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				fields[h] = rec[i]
			}
		}
		rows = append(rows, row{line: line, fields: fields})
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
