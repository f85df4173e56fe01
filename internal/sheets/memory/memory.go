// Package memory is an in-process TableWriter, used for dry runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	tables map[string][][]any
}

func New() *Store {
	return &Store{tables: map[string][][]any{}}
}

// ReplaceTable stores a copy of rows under sheet.
func (s *Store) ReplaceTable(ctx context.Context, sheet string, rows [][]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := make([][]any, len(rows))
	for i, r := range rows {
		cp[i] = append([]any(nil), r...)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[sheet] = cp
	return nil
}

// Table returns the rows last written to sheet.
func (s *Store) Table(sheet string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[sheet]
}

// Sheets lists the written sheet names, sorted.
func (s *Store) Sheets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
