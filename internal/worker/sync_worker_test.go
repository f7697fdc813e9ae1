package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"gatherly/internal/amqp"
	"gatherly/internal/core"
	"gatherly/internal/sheets"
	"gatherly/internal/sheets/memory"
	"gatherly/internal/storage"
)

type fakeStore struct {
	expenses   map[int64]core.Expense
	groups     map[string]core.Group
	pending    []storage.PendingSyncExpense
	synced     []int64
	syncErrors []int64
	getErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expenses: make(map[int64]core.Expense),
		groups:   make(map[string]core.Group),
	}
}

func (f *fakeStore) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	if f.getErr != nil {
		return core.Expense{}, f.getErr
	}
	e, ok := f.expenses[id]
	if !ok {
		return core.Expense{}, storage.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) GetGroup(_ context.Context, id string) (core.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return core.Group{}, storage.ErrNotFound
	}
	return g, nil
}

func (f *fakeStore) GetPendingSyncExpenses(_ context.Context, limit int) ([]storage.PendingSyncExpense, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeStore) MarkSynced(_ context.Context, id int64) error {
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeStore) MarkSyncError(_ context.Context, id int64) error {
	f.syncErrors = append(f.syncErrors, id)
	return nil
}

type failingWriter struct{}

func (failingWriter) AppendExpenseRow(context.Context, sheets.ReportRow) (string, error) {
	return "", errors.New("append failed")
}

func testExpense(id int64, groupID string) core.Expense {
	return core.Expense{
		ID:          id,
		GroupID:     groupID,
		Description: "pizza night",
		Amount:      core.Money{Cents: 4500},
		PaidBy:      "ana",
		SplitAmong:  []string{"ana", "ben"},
		Date:        time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandleSyncMessage(t *testing.T) {
	store := newFakeStore()
	store.expenses[1] = testExpense(1, "g1")
	store.groups["g1"] = core.Group{ID: "g1", Name: "Beach Crew"}
	report := memory.New()
	w := NewReportSyncWorker(store, report, 10)

	msg := amqp.NewReportSyncMessage("g1", 1, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows := report.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.GroupName != "Beach Crew" {
		t.Errorf("group name = %q, want %q", row.GroupName, "Beach Crew")
	}
	if row.Date != "2024-07-19" {
		t.Errorf("date = %q, want 2024-07-19", row.Date)
	}
	if row.AmountCents != 4500 {
		t.Errorf("amount = %d, want 4500", row.AmountCents)
	}
	if len(store.synced) != 1 || store.synced[0] != 1 {
		t.Errorf("synced = %v, want [1]", store.synced)
	}
}

func TestHandleSyncMessageMissingExpense(t *testing.T) {
	store := newFakeStore()
	w := NewReportSyncWorker(store, memory.New(), 10)

	msg := amqp.NewReportSyncMessage("g1", 99, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSyncExpenseWriterError(t *testing.T) {
	store := newFakeStore()
	store.expenses[1] = testExpense(1, "g1")
	w := NewReportSyncWorker(store, failingWriter{}, 10)

	msg := amqp.NewReportSyncMessage("g1", 1, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error from failing writer")
	}
	if len(store.syncErrors) != 1 || store.syncErrors[0] != 1 {
		t.Errorf("syncErrors = %v, want [1]", store.syncErrors)
	}
	if len(store.synced) != 0 {
		t.Errorf("synced = %v, want empty", store.synced)
	}
}

func TestSyncExpenseUnknownGroupFallsBackToID(t *testing.T) {
	store := newFakeStore()
	store.expenses[1] = testExpense(1, "g-unknown")
	report := memory.New()
	w := NewReportSyncWorker(store, report, 10)

	msg := amqp.NewReportSyncMessage("g-unknown", 1, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	if rows := report.Rows(); rows[0].GroupName != "g-unknown" {
		t.Errorf("group name = %q, want the raw id", rows[0].GroupName)
	}
}

func TestProcessPendingExpenses(t *testing.T) {
	store := newFakeStore()
	store.expenses[1] = testExpense(1, "g1")
	store.expenses[2] = testExpense(2, "g1")
	store.pending = []storage.PendingSyncExpense{{ID: 1, Version: 1}, {ID: 2, Version: 1}}
	report := memory.New()
	w := NewReportSyncWorker(store, report, 10)

	if err := w.ProcessPendingExpenses(context.Background()); err != nil {
		t.Fatalf("ProcessPendingExpenses: %v", err)
	}
	if len(report.Rows()) != 2 {
		t.Errorf("rows = %d, want 2", len(report.Rows()))
	}
	if len(store.synced) != 2 {
		t.Errorf("synced = %v, want 2 ids", store.synced)
	}
}

func TestProcessPendingExpensesRespectsBatchSize(t *testing.T) {
	store := newFakeStore()
	for i := int64(1); i <= 5; i++ {
		store.expenses[i] = testExpense(i, "g1")
		store.pending = append(store.pending, storage.PendingSyncExpense{ID: i, Version: 1})
	}
	report := memory.New()
	w := NewReportSyncWorker(store, report, 3)

	if err := w.ProcessPendingExpenses(context.Background()); err != nil {
		t.Fatalf("ProcessPendingExpenses: %v", err)
	}
	if len(report.Rows()) != 3 {
		t.Errorf("rows = %d, want 3", len(report.Rows()))
	}
}

func TestProcessPendingExpensesEmpty(t *testing.T) {
	w := NewReportSyncWorker(newFakeStore(), memory.New(), 10)
	if err := w.ProcessPendingExpenses(context.Background()); err != nil {
		t.Fatalf("ProcessPendingExpenses: %v", err)
	}
}

func TestStartupSyncCheck(t *testing.T) {
	store := newFakeStore()
	store.expenses[1] = testExpense(1, "g1")
	store.pending = []storage.PendingSyncExpense{{ID: 1, Version: 1}, {ID: 2, Version: 1}}
	report := memory.New()
	w := NewReportSyncWorker(store, report, 10)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	// Expense 2 does not exist and should be marked errored, not abort the run.
	if len(report.Rows()) != 1 {
		t.Errorf("rows = %d, want 1", len(report.Rows()))
	}
	if len(store.syncErrors) != 1 || store.syncErrors[0] != 2 {
		t.Errorf("syncErrors = %v, want [2]", store.syncErrors)
	}
}
