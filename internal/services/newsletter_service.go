package services

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"gatherly/internal/core"
	"gatherly/internal/storage"
)

const newsletterHTML = `<html>
<body>
<h1>{{.GroupName}}: upcoming events</h1>
{{if .Events}}<ul>
{{range .Events}}<li><strong>{{.Date}}</strong>{{if .Time}} {{.Time}}{{end}} &ndash; {{.Name}}{{if .Price}} ({{.Price}}){{end}}</li>
{{end}}</ul>{{else}}<p>Nothing planned yet.</p>{{end}}
</body>
</html>
`

var newsletterTmpl = template.Must(template.New("newsletter").Parse(newsletterHTML))

type newsletterItem struct {
	Date  string
	Time  string
	Name  string
	Price string
}

type newsletterData struct {
	GroupName string
	Events    []newsletterItem
}

// NewsletterService renders a group's upcoming events into an email body.
// Rendering is deterministic for a fixed event list and date.
type NewsletterService struct {
	repo *storage.Repository
	now  func() time.Time
}

func NewNewsletterService(repo *storage.Repository) *NewsletterService {
	return &NewsletterService{repo: repo, now: time.Now}
}

// Build renders, persists and returns a newsletter covering the group's
// events from today onward. Events without a canonical date are skipped.
func (s *NewsletterService) Build(ctx context.Context, groupID string) (core.Newsletter, error) {
	g, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return core.Newsletter{}, err
	}

	today := s.now().Format("2006-01-02")
	events, err := s.repo.ListGroupEvents(ctx, groupID)
	if err != nil {
		return core.Newsletter{}, err
	}

	var items []newsletterItem
	for _, e := range events {
		if !core.IsCanonicalDate(e.StartDate) || e.StartDate < today {
			continue
		}
		items = append(items, newsletterItem{
			Date:  e.StartDate,
			Time:  e.StartTime,
			Name:  e.DisplayName(),
			Price: priceLabel(e),
		})
	}

	n := core.Newsletter{
		GroupID: g.ID,
		Subject: fmt.Sprintf("%s: upcoming events", g.Name),
		HTML:    renderHTML(g.Name, items),
		Text:    renderText(g.Name, items),
	}
	id, err := s.repo.SaveNewsletter(ctx, n)
	if err != nil {
		return core.Newsletter{}, err
	}
	n.ID = id

	slog.InfoContext(ctx, "newsletter built",
		"group_id", g.ID, "event_count", len(items))
	return n, nil
}

func (s *NewsletterService) List(ctx context.Context, groupID string) ([]core.Newsletter, error) {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListNewsletters(ctx, groupID)
}

func renderHTML(groupName string, items []newsletterItem) string {
	var b strings.Builder
	// Template execution on in-memory data cannot fail at runtime.
	if err := newsletterTmpl.Execute(&b, newsletterData{GroupName: groupName, Events: items}); err != nil {
		return ""
	}
	return b.String()
}

func renderText(groupName string, items []newsletterItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: upcoming events\n\n", groupName)
	if len(items) == 0 {
		b.WriteString("Nothing planned yet.\n")
		return b.String()
	}
	for _, it := range items {
		b.WriteString("* ")
		b.WriteString(it.Date)
		if it.Time != "" {
			b.WriteString(" ")
			b.WriteString(it.Time)
		}
		b.WriteString(" - ")
		b.WriteString(it.Name)
		if it.Price != "" {
			fmt.Fprintf(&b, " (%s)", it.Price)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func priceLabel(e core.CalendarEvent) string {
	if e.IsFree {
		return "free"
	}
	if e.PriceCents <= 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", float64(e.PriceCents)/100.0)
}
