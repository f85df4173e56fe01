package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// readRows returns every row of a csv file that has at least one non-blank cell.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rows := all[:0]
	for _, row := range all {
		if !blank(row) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// writeRows replaces the file content with header followed by rows.
func writeRows(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// appendRows adds rows at the end of an existing file. A hand-edited file
// may lack the final newline; one is added so the first row is not glued to
// the last one.
func appendRows(path string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", path, err)
	}
	if err := terminateLastLine(f); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}
	return f.Close()
}

func terminateLastLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return err
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte("\n"))
	return err
}

// columns maps header names to their index.
type columns map[string]int

func newColumns(header []string) columns {
	c := make(columns, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := c[name]; !dup {
			c[name] = i
		}
	}
	return c
}

// get returns the trimmed cell under name, or "" when the column or cell is missing.
func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// isCurrentHeader reports whether a header row is already on the id-based schema.
func isCurrentHeader(header []string) bool {
	return len(header) > 0 && strings.TrimSpace(header[0]) == "id"
}
