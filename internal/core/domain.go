package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

type (
	// Member is one participant in a group. Color is the display hint
	// attributed to events and expenses this member creates.
	Member struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color,omitempty"`
	}

	// Group is a planning circle sharing a calendar and an expense ledger.
	Group struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		InviteCode string    `json:"invite_code"`
		CreatedAt  time.Time `json:"created_at"`
		Members    []Member  `json:"members,omitempty"`
	}

	// CalendarEvent is the validated projection of a catalog record.
	// StartDate is either a canonical YYYY-MM-DD string or the raw text the
	// catalog delivered; binning canonicalizes it or drops the event.
	CalendarEvent struct {
		ID         string   `json:"id"`
		Title      string   `json:"title"`
		StartDate  string   `json:"start_date,omitempty"`
		StartTime  string   `json:"start_time,omitempty"`
		Color      string   `json:"color,omitempty"`
		Category   string   `json:"category,omitempty"`
		Tags       []string `json:"tags,omitempty"`
		PriceCents int64    `json:"price_cents,omitempty"`
		IsFree     bool     `json:"is_free,omitempty"`
		Currency   string   `json:"currency,omitempty"`
		CustomName string   `json:"custom_name,omitempty"`
	}

	Money struct {
		Cents int64 `json:"cents"`
	}

	// Expense is one shared cost inside a group, paid by one member and
	// split among SplitAmong (all members when empty).
	Expense struct {
		ID          int64     `json:"id"`
		GroupID     string    `json:"group_id"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		PaidBy      string    `json:"paid_by"`
		SplitAmong  []string  `json:"split_among,omitempty"`
		Date        time.Time `json:"date"`
		Settled     bool      `json:"settled"`
	}

	// Newsletter is a rendered email built from a group's upcoming events.
	Newsletter struct {
		ID        int64     `json:"id"`
		GroupID   string    `json:"group_id"`
		Subject   string    `json:"subject"`
		HTML      string    `json:"html"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	}
)

var (
	ErrEmptyGroupName   = errors.New("empty group name")
	ErrEmptyTitle       = errors.New("empty event title")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyPayer       = errors.New("empty payer")
	ErrInvalidDate      = errors.New("invalid date")
)

// canonicalDate matches the grouping key format used across the calendar core.
var canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsCanonicalDate reports whether s is a YYYY-MM-DD date string.
func IsCanonicalDate(s string) bool {
	return canonicalDate.MatchString(s)
}

// DisplayName prefers the group-specific custom name over the catalog title.
func (e CalendarEvent) DisplayName() string {
	if strings.TrimSpace(e.CustomName) != "" {
		return e.CustomName
	}
	return e.Title
}

func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGroupName
	}
	if len(g.Name) > 120 {
		return errors.New("group name too long (max 120 characters)")
	}
	return nil
}

func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("empty event id")
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (x Expense) Validate() error {
	if strings.TrimSpace(x.GroupID) == "" {
		return errors.New("empty group id")
	}
	if len(strings.TrimSpace(x.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(x.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := x.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(x.PaidBy) == "" {
		return ErrEmptyPayer
	}
	if x.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
