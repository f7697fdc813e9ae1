package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gatherly/internal/calendar"
	"gatherly/internal/core"
	"gatherly/internal/storage"
)

// inviteAlphabet avoids ambiguous characters (0/O, 1/I/L).
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 6

// GroupService owns group lifecycle and the group calendar membership of
// catalog events.
type GroupService struct {
	repo *storage.Repository
}

func NewGroupService(repo *storage.Repository) *GroupService {
	return &GroupService{repo: repo}
}

// CreateGroup creates a group with a fresh invite code and the creator as the
// first member.
func (s *GroupService) CreateGroup(ctx context.Context, name string, creator core.Member) (core.Group, error) {
	g := core.Group{
		ID:         newID(),
		Name:       strings.TrimSpace(name),
		InviteCode: newInviteCode(),
	}
	if err := g.Validate(); err != nil {
		return core.Group{}, err
	}
	if creator.ID != "" {
		g.Members = []core.Member{creator}
	}
	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return core.Group{}, err
	}
	return s.repo.GetGroup(ctx, g.ID)
}

func (s *GroupService) GetGroup(ctx context.Context, id string) (core.Group, error) {
	return s.repo.GetGroup(ctx, id)
}

func (s *GroupService) ListGroups(ctx context.Context) ([]core.Group, error) {
	return s.repo.ListGroups(ctx)
}

// JoinGroup adds the member to the group matching the invite code and returns
// the updated group. Codes are matched case-insensitively.
func (s *GroupService) JoinGroup(ctx context.Context, inviteCode string, m core.Member) (core.Group, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	g, err := s.repo.GetGroupByInviteCode(ctx, code)
	if err != nil {
		return core.Group{}, err
	}
	if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.Name) == "" {
		return core.Group{}, fmt.Errorf("member id and name are required")
	}
	if err := s.repo.AddMember(ctx, g.ID, m); err != nil {
		return core.Group{}, err
	}
	slog.InfoContext(ctx, "member joined group",
		"group_id", g.ID, "member_id", m.ID)
	return s.repo.GetGroup(ctx, g.ID)
}

// AddEvent attaches a catalog event to the group calendar. When the event
// carries no color the adding member's color is used, so events stay visually
// attributed to whoever added them.
func (s *GroupService) AddEvent(ctx context.Context, groupID string, e core.CalendarEvent, addedBy string) error {
	if err := e.Validate(); err != nil {
		return err
	}
	g, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if e.Color == "" {
		for _, m := range g.Members {
			if m.ID == addedBy {
				e.Color = m.Color
				break
			}
		}
	}
	return s.repo.AddEventToGroup(ctx, g.ID, e, addedBy)
}

func (s *GroupService) RemoveEvent(ctx context.Context, groupID, eventID string) error {
	return s.repo.RemoveEventFromGroup(ctx, groupID, eventID)
}

// RenameEvent sets the group-specific display name for an event. An empty
// name clears it, falling back to the catalog title.
func (s *GroupService) RenameEvent(ctx context.Context, groupID, eventID, customName string) error {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return err
	}
	return s.repo.RenameGroupEvent(ctx, groupID, eventID, strings.TrimSpace(customName))
}

func (s *GroupService) ListEvents(ctx context.Context, groupID string) ([]core.CalendarEvent, error) {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListGroupEvents(ctx, groupID)
}

// EventsOnDate returns the group's events whose dates normalize to the given
// canonical YYYY-MM-DD date. Stored dates are raw, so matching runs through
// the same normalization that fills calendar cells; now anchors yearless
// fallback dates.
func (s *GroupService) EventsOnDate(ctx context.Context, groupID, date string, now time.Time) ([]core.CalendarEvent, error) {
	if !core.IsCanonicalDate(date) {
		return nil, core.ErrInvalidDate
	}
	events, err := s.ListEvents(ctx, groupID)
	if err != nil {
		return nil, err
	}
	buckets, _ := calendar.Bin(events, now, time.Local)
	onDate := buckets[date]
	if onDate == nil {
		onDate = []core.CalendarEvent{}
	}
	return onDate, nil
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func newInviteCode() string {
	b := make([]byte, inviteCodeLength)
	rand.Read(b)
	code := make([]byte, inviteCodeLength)
	for i, v := range b {
		code[i] = inviteAlphabet[int(v)%len(inviteAlphabet)]
	}
	return string(code)
}
