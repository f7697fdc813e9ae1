package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries bundles the raw SQL statements behind typed methods.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type GroupRow struct {
	ID         string
	Name       string
	InviteCode string
	CreatedAt  time.Time
}

type MemberRow struct {
	ID       string
	GroupID  string
	Name     string
	Color    string
	JoinedAt time.Time
}

type GroupEventRow struct {
	GroupID    string
	EventID    string
	Title      string
	StartDate  string
	StartTime  string
	Color      string
	Category   string
	PriceCents int64
	IsFree     bool
	CustomName string
	AddedBy    string
	AddedAt    time.Time
}

type ExpenseRow struct {
	ID          int64
	GroupID     string
	Description string
	AmountCents int64
	PaidBy      string
	Date        string
	Settled     bool
	SyncStatus  string
	Version     int64
	CreatedAt   time.Time
}

type NewsletterRow struct {
	ID        int64
	GroupID   string
	Subject   string
	HTMLBody  string
	TextBody  string
	CreatedAt time.Time
}

const createGroup = `
INSERT INTO groups (id, name, invite_code) VALUES (?, ?, ?)
`

type CreateGroupParams struct {
	ID         string
	Name       string
	InviteCode string
}

func (q *Queries) CreateGroup(ctx context.Context, arg CreateGroupParams) error {
	_, err := q.db.ExecContext(ctx, createGroup, arg.ID, arg.Name, arg.InviteCode)
	return err
}

const getGroup = `
SELECT id, name, invite_code, created_at FROM groups WHERE id = ?
`

func (q *Queries) GetGroup(ctx context.Context, id string) (GroupRow, error) {
	var g GroupRow
	err := q.db.QueryRowContext(ctx, getGroup, id).
		Scan(&g.ID, &g.Name, &g.InviteCode, &g.CreatedAt)
	return g, err
}

const getGroupByInviteCode = `
SELECT id, name, invite_code, created_at FROM groups WHERE invite_code = ?
`

func (q *Queries) GetGroupByInviteCode(ctx context.Context, code string) (GroupRow, error) {
	var g GroupRow
	err := q.db.QueryRowContext(ctx, getGroupByInviteCode, code).
		Scan(&g.ID, &g.Name, &g.InviteCode, &g.CreatedAt)
	return g, err
}

const listGroups = `
SELECT id, name, invite_code, created_at FROM groups ORDER BY created_at, id
`

func (q *Queries) ListGroups(ctx context.Context) ([]GroupRow, error) {
	rows, err := q.db.QueryContext(ctx, listGroups)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []GroupRow
	for rows.Next() {
		var g GroupRow
		if err := rows.Scan(&g.ID, &g.Name, &g.InviteCode, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

const deleteGroup = `
DELETE FROM groups WHERE id = ?
`

func (q *Queries) DeleteGroup(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteGroup, id)
	return err
}

const addMember = `
INSERT INTO members (id, group_id, name, color) VALUES (?, ?, ?, ?)
ON CONFLICT (group_id, id) DO UPDATE SET name = excluded.name, color = excluded.color
`

type AddMemberParams struct {
	ID      string
	GroupID string
	Name    string
	Color   string
}

func (q *Queries) AddMember(ctx context.Context, arg AddMemberParams) error {
	_, err := q.db.ExecContext(ctx, addMember, arg.ID, arg.GroupID, arg.Name, arg.Color)
	return err
}

const listMembers = `
SELECT id, group_id, name, color, joined_at FROM members
WHERE group_id = ? ORDER BY joined_at, id
`

func (q *Queries) ListMembers(ctx context.Context, groupID string) ([]MemberRow, error) {
	rows, err := q.db.QueryContext(ctx, listMembers, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []MemberRow
	for rows.Next() {
		var m MemberRow
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.Color, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

const upsertGroupEvent = `
INSERT INTO group_events
    (group_id, event_id, title, start_date, start_time, color, category, price_cents, is_free, custom_name, added_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (group_id, event_id) DO UPDATE SET
    title = excluded.title,
    start_date = excluded.start_date,
    start_time = excluded.start_time,
    color = excluded.color,
    category = excluded.category,
    price_cents = excluded.price_cents,
    is_free = excluded.is_free
`

type UpsertGroupEventParams struct {
	GroupID    string
	EventID    string
	Title      string
	StartDate  string
	StartTime  string
	Color      string
	Category   string
	PriceCents int64
	IsFree     bool
	CustomName string
	AddedBy    string
}

func (q *Queries) UpsertGroupEvent(ctx context.Context, arg UpsertGroupEventParams) error {
	_, err := q.db.ExecContext(ctx, upsertGroupEvent,
		arg.GroupID, arg.EventID, arg.Title, arg.StartDate, arg.StartTime,
		arg.Color, arg.Category, arg.PriceCents, arg.IsFree, arg.CustomName, arg.AddedBy)
	return err
}

const removeGroupEvent = `
DELETE FROM group_events WHERE group_id = ? AND event_id = ?
`

func (q *Queries) RemoveGroupEvent(ctx context.Context, groupID, eventID string) error {
	_, err := q.db.ExecContext(ctx, removeGroupEvent, groupID, eventID)
	return err
}

const listGroupEvents = `
SELECT group_id, event_id, title, start_date, start_time, color, category,
       price_cents, is_free, custom_name, added_by, added_at
FROM group_events WHERE group_id = ? ORDER BY start_date, event_id
`

func (q *Queries) ListGroupEvents(ctx context.Context, groupID string) ([]GroupEventRow, error) {
	rows, err := q.db.QueryContext(ctx, listGroupEvents, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroupEvents(rows)
}

func scanGroupEvents(rows *sql.Rows) ([]GroupEventRow, error) {
	var events []GroupEventRow
	for rows.Next() {
		var e GroupEventRow
		if err := rows.Scan(&e.GroupID, &e.EventID, &e.Title, &e.StartDate, &e.StartTime,
			&e.Color, &e.Category, &e.PriceCents, &e.IsFree, &e.CustomName, &e.AddedBy, &e.AddedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const setEventCustomName = `
UPDATE group_events SET custom_name = ? WHERE group_id = ? AND event_id = ?
`

func (q *Queries) SetEventCustomName(ctx context.Context, groupID, eventID, name string) error {
	_, err := q.db.ExecContext(ctx, setEventCustomName, name, groupID, eventID)
	return err
}

const createExpense = `
INSERT INTO expenses (group_id, description, amount_cents, paid_by, date)
VALUES (?, ?, ?, ?, ?)
`

type CreateExpenseParams struct {
	GroupID     string
	Description string
	AmountCents int64
	PaidBy      string
	Date        string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExpense,
		arg.GroupID, arg.Description, arg.AmountCents, arg.PaidBy, arg.Date)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const addExpenseShare = `
INSERT INTO expense_shares (expense_id, member_id) VALUES (?, ?)
ON CONFLICT (expense_id, member_id) DO NOTHING
`

func (q *Queries) AddExpenseShare(ctx context.Context, expenseID int64, memberID string) error {
	_, err := q.db.ExecContext(ctx, addExpenseShare, expenseID, memberID)
	return err
}

const getExpense = `
SELECT id, group_id, description, amount_cents, paid_by, date, settled, sync_status, version, created_at
FROM expenses WHERE id = ?
`

func (q *Queries) GetExpense(ctx context.Context, id int64) (ExpenseRow, error) {
	var e ExpenseRow
	err := q.db.QueryRowContext(ctx, getExpense, id).Scan(
		&e.ID, &e.GroupID, &e.Description, &e.AmountCents, &e.PaidBy,
		&e.Date, &e.Settled, &e.SyncStatus, &e.Version, &e.CreatedAt)
	return e, err
}

const getExpenseShares = `
SELECT member_id FROM expense_shares WHERE expense_id = ? ORDER BY member_id
`

func (q *Queries) GetExpenseShares(ctx context.Context, expenseID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getExpenseShares, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

const listExpensesByGroup = `
SELECT id, group_id, description, amount_cents, paid_by, date, settled, sync_status, version, created_at
FROM expenses WHERE group_id = ? ORDER BY created_at, id
`

func (q *Queries) ListExpensesByGroup(ctx context.Context, groupID string) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpensesByGroup, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var expenses []ExpenseRow
	for rows.Next() {
		var e ExpenseRow
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.AmountCents, &e.PaidBy,
			&e.Date, &e.Settled, &e.SyncStatus, &e.Version, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

const settleExpense = `
UPDATE expenses SET settled = 1, version = version + 1, sync_status = 'pending' WHERE id = ?
`

func (q *Queries) SettleExpense(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, settleExpense, id)
	return err
}

const deleteExpense = `
DELETE FROM expenses WHERE id = ? AND group_id = ?
`

func (q *Queries) DeleteExpense(ctx context.Context, id int64, groupID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpense, id, groupID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getPendingSyncExpenses = `
SELECT id, version, created_at FROM expenses
WHERE sync_status = 'pending' ORDER BY created_at, id LIMIT ?
`

type PendingSyncRow struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func (q *Queries) GetPendingSyncExpenses(ctx context.Context, limit int64) ([]PendingSyncRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncExpenses, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pending []PendingSyncRow
	for rows.Next() {
		var p PendingSyncRow
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

const markExpenseSynced = `
UPDATE expenses SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP WHERE id = ?
`

func (q *Queries) MarkExpenseSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markExpenseSynced, id)
	return err
}

const markExpenseSyncError = `
UPDATE expenses SET sync_status = 'error' WHERE id = ?
`

func (q *Queries) MarkExpenseSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markExpenseSyncError, id)
	return err
}

const createNewsletter = `
INSERT INTO newsletters (group_id, subject, html_body, text_body) VALUES (?, ?, ?, ?)
`

type CreateNewsletterParams struct {
	GroupID  string
	Subject  string
	HTMLBody string
	TextBody string
}

func (q *Queries) CreateNewsletter(ctx context.Context, arg CreateNewsletterParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createNewsletter, arg.GroupID, arg.Subject, arg.HTMLBody, arg.TextBody)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listNewsletters = `
SELECT id, group_id, subject, html_body, text_body, created_at
FROM newsletters WHERE group_id = ? ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListNewsletters(ctx context.Context, groupID string) ([]NewsletterRow, error) {
	rows, err := q.db.QueryContext(ctx, listNewsletters, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var newsletters []NewsletterRow
	for rows.Next() {
		var n NewsletterRow
		if err := rows.Scan(&n.ID, &n.GroupID, &n.Subject, &n.HTMLBody, &n.TextBody, &n.CreatedAt); err != nil {
			return nil, err
		}
		newsletters = append(newsletters, n)
	}
	return newsletters, rows.Err()
}
