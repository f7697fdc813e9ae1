package worker

import (
	"context"
	"fmt"
	"log/slog"

	"gatherly/internal/amqp"
	"gatherly/internal/core"
	"gatherly/internal/sheets"
	"gatherly/internal/storage"
)

// Store is the slice of the repository the worker needs.
type Store interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	GetGroup(ctx context.Context, id string) (core.Group, error)
	GetPendingSyncExpenses(ctx context.Context, limit int) ([]storage.PendingSyncExpense, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// ReportSyncWorker copies expenses from the local database into the shared
// expense report. Messages carry only IDs; the worker always reads the
// current row so late deliveries cannot resurrect stale data.
type ReportSyncWorker struct {
	store     Store
	report    sheets.ReportWriter
	batchSize int
}

func NewReportSyncWorker(store Store, report sheets.ReportWriter, batchSize int) *ReportSyncWorker {
	return &ReportSyncWorker{
		store:     store,
		report:    report,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one report sync message from AMQP.
func (w *ReportSyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ReportSyncMessage) error {
	slog.InfoContext(ctx, "processing report sync message",
		"expense_id", msg.ExpenseID,
		"version", msg.Version)

	expense, err := w.store.GetExpense(ctx, msg.ExpenseID)
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	}
	return w.syncExpense(ctx, expense)
}

// ProcessPendingExpenses drains a batch of unsynced expenses. This is the
// backup path for lost AMQP messages.
func (w *ReportSyncWorker) ProcessPendingExpenses(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncExpenses(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "processing pending expenses", "count", len(pending))

	for _, p := range pending {
		expense, err := w.store.GetExpense(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to get expense", "expense_id", p.ID, "error", err)
			if err := w.store.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "failed to mark sync error", "expense_id", p.ID, "error", err)
			}
			continue
		}
		if err := w.syncExpense(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "failed to sync expense", "expense_id", p.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger backlog once at worker startup to recover
// from downtime.
func (w *ReportSyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncExpenses(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "no pending expenses on startup")
		return nil
	}

	slog.InfoContext(ctx, "found pending expenses on startup", "count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		expense, err := w.store.GetExpense(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to get expense for startup sync",
				"expense_id", p.ID, "error", err)
			if err := w.store.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "failed to mark sync error", "expense_id", p.ID, "error", err)
			}
			failed++
			continue
		}
		if err := w.syncExpense(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "failed to sync expense during startup",
				"expense_id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *ReportSyncWorker) syncExpense(ctx context.Context, expense core.Expense) error {
	groupName := expense.GroupID
	if group, err := w.store.GetGroup(ctx, expense.GroupID); err == nil {
		groupName = group.Name
	}

	ref, err := w.report.AppendExpenseRow(ctx, sheets.ReportRow{
		GroupID:     expense.GroupID,
		GroupName:   groupName,
		ExpenseID:   expense.ID,
		Date:        expense.Date.Format("2006-01-02"),
		Description: expense.Description,
		PaidBy:      expense.PaidBy,
		AmountCents: expense.Amount.Cents,
		Settled:     expense.Settled,
	})
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, expense.ID); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark sync error", "expense_id", expense.ID, "error", markErr)
		}
		return fmt.Errorf("append to report: %w", err)
	}

	if err := w.store.MarkSynced(ctx, expense.ID); err != nil {
		// The row landed; marking is best effort.
		slog.ErrorContext(ctx, "failed to mark as synced", "expense_id", expense.ID, "error", err)
	}

	slog.InfoContext(ctx, "expense synced to report",
		"expense_id", expense.ID,
		"sheets_ref", ref,
		"amount_cents", expense.Amount.Cents)
	return nil
}
