package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gatherly/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

const dateLayout = "2006-01-02"

// Repository is the SQLite-backed store for groups, shared events, expenses
// and newsletters. Writes land here first; the report sync pipeline picks up
// pending expenses asynchronously.
type Repository struct {
	db      *sql.DB
	queries *Queries
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, queries: New(db)}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) CreateGroup(ctx context.Context, g core.Group) error {
	err := r.queries.CreateGroup(ctx, CreateGroupParams{
		ID:         g.ID,
		Name:       g.Name,
		InviteCode: g.InviteCode,
	})
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	for _, m := range g.Members {
		if err := r.AddMember(ctx, g.ID, m); err != nil {
			return err
		}
	}
	slog.InfoContext(ctx, "group created", "group_id", g.ID, "name", g.Name)
	return nil
}

func (r *Repository) GetGroup(ctx context.Context, id string) (core.Group, error) {
	row, err := r.queries.GetGroup(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Group{}, ErrNotFound
	}
	if err != nil {
		return core.Group{}, fmt.Errorf("get group: %w", err)
	}
	return r.hydrateGroup(ctx, row)
}

func (r *Repository) GetGroupByInviteCode(ctx context.Context, code string) (core.Group, error) {
	row, err := r.queries.GetGroupByInviteCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Group{}, ErrNotFound
	}
	if err != nil {
		return core.Group{}, fmt.Errorf("get group by invite code: %w", err)
	}
	return r.hydrateGroup(ctx, row)
}

func (r *Repository) hydrateGroup(ctx context.Context, row GroupRow) (core.Group, error) {
	members, err := r.queries.ListMembers(ctx, row.ID)
	if err != nil {
		return core.Group{}, fmt.Errorf("list members: %w", err)
	}
	g := core.Group{
		ID:         row.ID,
		Name:       row.Name,
		InviteCode: row.InviteCode,
		CreatedAt:  row.CreatedAt,
	}
	for _, m := range members {
		g.Members = append(g.Members, core.Member{ID: m.ID, Name: m.Name, Color: m.Color})
	}
	return g, nil
}

func (r *Repository) ListGroups(ctx context.Context) ([]core.Group, error) {
	rows, err := r.queries.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups := make([]core.Group, 0, len(rows))
	for _, row := range rows {
		g, err := r.hydrateGroup(ctx, row)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (r *Repository) DeleteGroup(ctx context.Context, id string) error {
	if err := r.queries.DeleteGroup(ctx, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

func (r *Repository) AddMember(ctx context.Context, groupID string, m core.Member) error {
	err := r.queries.AddMember(ctx, AddMemberParams{
		ID:      m.ID,
		GroupID: groupID,
		Name:    m.Name,
		Color:   m.Color,
	})
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *Repository) AddEventToGroup(ctx context.Context, groupID string, e core.CalendarEvent, addedBy string) error {
	err := r.queries.UpsertGroupEvent(ctx, UpsertGroupEventParams{
		GroupID:    groupID,
		EventID:    e.ID,
		Title:      e.Title,
		StartDate:  e.StartDate,
		StartTime:  e.StartTime,
		Color:      e.Color,
		Category:   e.Category,
		PriceCents: e.PriceCents,
		IsFree:     e.IsFree,
		CustomName: e.CustomName,
		AddedBy:    addedBy,
	})
	if err != nil {
		return fmt.Errorf("add event to group: %w", err)
	}
	slog.InfoContext(ctx, "event added to group",
		"group_id", groupID, "event_id", e.ID, "date", e.StartDate)
	return nil
}

func (r *Repository) RemoveEventFromGroup(ctx context.Context, groupID, eventID string) error {
	if err := r.queries.RemoveGroupEvent(ctx, groupID, eventID); err != nil {
		return fmt.Errorf("remove event from group: %w", err)
	}
	return nil
}

func (r *Repository) RenameGroupEvent(ctx context.Context, groupID, eventID, customName string) error {
	if err := r.queries.SetEventCustomName(ctx, groupID, eventID, customName); err != nil {
		return fmt.Errorf("rename group event: %w", err)
	}
	return nil
}

func (r *Repository) ListGroupEvents(ctx context.Context, groupID string) ([]core.CalendarEvent, error) {
	rows, err := r.queries.ListGroupEvents(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group events: %w", err)
	}
	return eventRowsToCore(rows), nil
}

func eventRowsToCore(rows []GroupEventRow) []core.CalendarEvent {
	events := make([]core.CalendarEvent, len(rows))
	for i, row := range rows {
		events[i] = core.CalendarEvent{
			ID:         row.EventID,
			Title:      row.Title,
			StartDate:  row.StartDate,
			StartTime:  row.StartTime,
			Color:      row.Color,
			Category:   row.Category,
			PriceCents: row.PriceCents,
			IsFree:     row.IsFree,
			CustomName: row.CustomName,
		}
	}
	return events
}

// CreateExpense inserts the expense and its shares in one transaction and
// returns the assigned ID. The row starts in sync_status 'pending'.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	id, err := qtx.CreateExpense(ctx, CreateExpenseParams{
		GroupID:     e.GroupID,
		Description: e.Description,
		AmountCents: e.Amount.Cents,
		PaidBy:      e.PaidBy,
		Date:        e.Date.Format(dateLayout),
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	for _, member := range e.SplitAmong {
		if err := qtx.AddExpenseShare(ctx, id, member); err != nil {
			return 0, fmt.Errorf("add expense share: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit expense: %w", err)
	}

	slog.InfoContext(ctx, "expense saved",
		"expense_id", id,
		"group_id", e.GroupID,
		"amount_cents", e.Amount.Cents,
		"paid_by", e.PaidBy)
	return id, nil
}

func (r *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	shares, err := r.queries.GetExpenseShares(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense shares: %w", err)
	}
	return expenseRowToCore(row, shares), nil
}

func (r *Repository) ListExpenses(ctx context.Context, groupID string) ([]core.Expense, error) {
	rows, err := r.queries.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		shares, err := r.queries.GetExpenseShares(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("get expense shares: %w", err)
		}
		expenses = append(expenses, expenseRowToCore(row, shares))
	}
	return expenses, nil
}

func expenseRowToCore(row ExpenseRow, shares []string) core.Expense {
	date, _ := time.Parse(dateLayout, row.Date)
	return core.Expense{
		ID:          row.ID,
		GroupID:     row.GroupID,
		Description: row.Description,
		Amount:      core.Money{Cents: row.AmountCents},
		PaidBy:      row.PaidBy,
		SplitAmong:  shares,
		Date:        date,
		Settled:     row.Settled,
	}
}

// SettleExpense marks the expense settled and bumps its version so the
// report sync picks up the change.
func (r *Repository) SettleExpense(ctx context.Context, id int64) error {
	if err := r.queries.SettleExpense(ctx, id); err != nil {
		return fmt.Errorf("settle expense: %w", err)
	}
	return nil
}

// GetExpenseVersion reads the current sync version of an expense.
func (r *Repository) GetExpenseVersion(ctx context.Context, id int64) (int64, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get expense version: %w", err)
	}
	return row.Version, nil
}

// DeleteExpense removes the expense and its shares. The group ID guards
// against deleting through the wrong group's URL.
func (r *Repository) DeleteExpense(ctx context.Context, groupID string, id int64) error {
	affected, err := r.queries.DeleteExpense(ctx, id, groupID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// PendingSyncExpense is the minimal shape queued for report sync.
type PendingSyncExpense struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func (r *Repository) GetPendingSyncExpenses(ctx context.Context, limit int) ([]PendingSyncExpense, error) {
	rows, err := r.queries.GetPendingSyncExpenses(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync expenses: %w", err)
	}
	pending := make([]PendingSyncExpense, len(rows))
	for i, row := range rows {
		pending[i] = PendingSyncExpense{ID: row.ID, Version: row.Version, CreatedAt: row.CreatedAt}
	}
	return pending, nil
}

func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkExpenseSynced(ctx, id); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "expense marked as synced", "expense_id", id)
	return nil
}

func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkExpenseSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "expense marked with sync error", "expense_id", id)
	return nil
}

func (r *Repository) SaveNewsletter(ctx context.Context, n core.Newsletter) (int64, error) {
	id, err := r.queries.CreateNewsletter(ctx, CreateNewsletterParams{
		GroupID:  n.GroupID,
		Subject:  n.Subject,
		HTMLBody: n.HTML,
		TextBody: n.Text,
	})
	if err != nil {
		return 0, fmt.Errorf("save newsletter: %w", err)
	}
	return id, nil
}

func (r *Repository) ListNewsletters(ctx context.Context, groupID string) ([]core.Newsletter, error) {
	rows, err := r.queries.ListNewsletters(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list newsletters: %w", err)
	}
	newsletters := make([]core.Newsletter, len(rows))
	for i, row := range rows {
		newsletters[i] = core.Newsletter{
			ID:        row.ID,
			GroupID:   row.GroupID,
			Subject:   row.Subject,
			HTML:      row.HTMLBody,
			Text:      row.TextBody,
			CreatedAt: row.CreatedAt,
		}
	}
	return newsletters, nil
}
