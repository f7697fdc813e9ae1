package sheets

import "context"

// ReportRow is one expense line in a group's shared expense report.
type ReportRow struct {
	GroupID     string
	GroupName   string
	ExpenseID   int64
	Date        string
	Description string
	PaidBy      string
	AmountCents int64
	Settled     bool
}

// ReportWriter appends expense rows to an external report. Implementations
// must be safe for concurrent use.
type ReportWriter interface {
	AppendExpenseRow(ctx context.Context, row ReportRow) (ref string, err error)
}
