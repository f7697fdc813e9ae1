package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	ports "gatherly/internal/sheets"
)

// Client appends expense report rows to a Google spreadsheet using a service
// account. Columns: group, expense id, date, description, paid by, amount,
// settled.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.ReportWriter = (*Client)(nil)

// Config carries the report sync credentials. Exactly one of
// CredentialsJSON or CredentialsFile must be set.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	credentials, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	if json := strings.TrimSpace(cfg.CredentialsJSON); json != "" {
		return []byte(json), nil
	}
	if file := strings.TrimSpace(cfg.CredentialsFile); file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return raw, nil
	}
	return nil, errors.New("missing service account credentials")
}

// AppendExpenseRow appends one row to the report sheet and returns the
// updated range as the row reference.
func (c *Client) AppendExpenseRow(ctx context.Context, row ports.ReportRow) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	settled := "no"
	if row.Settled {
		settled = "yes"
	}
	amount := float64(row.AmountCents) / 100.0

	vr := &gsheet.ValueRange{Values: [][]any{{
		row.GroupName,
		row.ExpenseID,
		row.Date,
		row.Description,
		row.PaidBy,
		amount,
		settled,
	}}}

	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}
