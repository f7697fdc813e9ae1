package services

import (
	"context"
	"fmt"
	"log/slog"

	"gatherly/internal/amqp"
	"gatherly/internal/core"
	"gatherly/internal/storage"
)

// ExpenseService orchestrates expense writes across SQLite and AMQP. The
// local write always wins; a failed publish is logged and left to the
// worker's pending scan.
type ExpenseService struct {
	repo       *storage.Repository
	amqpClient *amqp.Client
}

func NewExpenseService(repo *storage.Repository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		repo:       repo,
		amqpClient: amqpClient,
	}
}

// CreateExpense saves an expense locally and publishes a report sync message.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	if _, err := s.repo.GetGroup(ctx, e.GroupID); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.publishSync(ctx, e.GroupID, id, 1)
	return id, nil
}

// SettleExpense marks an expense settled and publishes the new version.
func (s *ExpenseService) SettleExpense(ctx context.Context, groupID string, id int64) error {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if e.GroupID != groupID {
		return storage.ErrNotFound
	}
	if err := s.repo.SettleExpense(ctx, id); err != nil {
		return err
	}

	version, err := s.repo.GetExpenseVersion(ctx, id)
	if err != nil {
		return err
	}
	s.publishSync(ctx, groupID, id, version)
	return nil
}

// DeleteExpense removes an expense from the local store. Deletes are not
// propagated to the report; the report is an append-only audit trail.
func (s *ExpenseService) DeleteExpense(ctx context.Context, groupID string, id int64) error {
	if err := s.repo.DeleteExpense(ctx, groupID, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "expense deleted", "expense_id", id, "group_id", groupID)
	return nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, groupID string) ([]core.Expense, error) {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListExpenses(ctx, groupID)
}

// Summary computes splits and settlements over the group's unsettled expenses.
func (s *ExpenseService) Summary(ctx context.Context, groupID string) (core.ExpenseSummary, error) {
	g, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return core.ExpenseSummary{}, err
	}
	expenses, err := s.repo.ListExpenses(ctx, groupID)
	if err != nil {
		return core.ExpenseSummary{}, err
	}
	return core.Summarize(groupID, expenses, g.Members), nil
}

func (s *ExpenseService) publishSync(ctx context.Context, groupID string, id, version int64) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "report sync disabled, skipping publish", "expense_id", id)
		return
	}
	if err := s.amqpClient.PublishReportSync(ctx, groupID, id, version); err != nil {
		// The worker's pending scan will pick the expense up later.
		slog.ErrorContext(ctx, "failed to publish report sync message",
			"expense_id", id, "error", err)
	}
}
