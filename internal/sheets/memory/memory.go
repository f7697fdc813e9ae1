package memory

import (
	"context"
	"fmt"
	"sync"

	ports "gatherly/internal/sheets"
)

// Store is an in-memory ReportWriter for tests and local development.
type Store struct {
	mu   sync.Mutex
	rows []ports.ReportRow
}

func New() *Store {
	return &Store{}
}

// AppendExpenseRow stores the row and returns a synthetic reference.
func (s *Store) AppendExpenseRow(_ context.Context, row ports.ReportRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []ports.ReportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ReportRow(nil), s.rows...)
}
