package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gatherly/internal/core"
	"gatherly/internal/storage"
)

func seedGroup(t *testing.T, repo *storage.Repository) core.Group {
	t.Helper()
	svc := NewGroupService(repo)
	g, err := svc.CreateGroup(context.Background(), "Beach Crew", core.Member{ID: "ana", Name: "Ana"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if err := repo.AddMember(context.Background(), g.ID, core.Member{ID: "ben", Name: "Ben"}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := repo.AddMember(context.Background(), g.ID, core.Member{ID: "cleo", Name: "Cleo"}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	return g
}

func testExpense(groupID string, cents int64, paidBy string, splitAmong []string) core.Expense {
	return core.Expense{
		GroupID:     groupID,
		Description: "pizza night",
		Amount:      core.Money{Cents: cents},
		PaidBy:      paidBy,
		SplitAmong:  splitAmong,
		Date:        time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateExpense(t *testing.T) {
	repo := testRepo(t)
	g := seedGroup(t, repo)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	id, err := svc.CreateExpense(ctx, testExpense(g.ID, 4500, "ana", []string{"ana", "ben"}))
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if id == 0 {
		t.Error("expense should get an id")
	}

	expenses, err := svc.ListExpenses(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Amount.Cents != 4500 {
		t.Errorf("expenses = %+v, want one of 4500 cents", expenses)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	repo := testRepo(t)
	g := seedGroup(t, repo)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	if _, err := svc.CreateExpense(ctx, testExpense(g.ID, 0, "ana", nil)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.CreateExpense(ctx, testExpense("missing", 100, "ana", nil)); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for unknown group", err)
	}
}

func TestSettleExpense(t *testing.T) {
	repo := testRepo(t)
	g := seedGroup(t, repo)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	id, err := svc.CreateExpense(ctx, testExpense(g.ID, 3000, "ana", []string{"ana", "ben"}))
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if err := svc.SettleExpense(ctx, g.ID, id); err != nil {
		t.Fatalf("SettleExpense: %v", err)
	}
	expenses, _ := svc.ListExpenses(ctx, g.ID)
	if !expenses[0].Settled {
		t.Error("expense should be settled")
	}

	if err := svc.SettleExpense(ctx, "other-group", id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for wrong group", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := testRepo(t)
	g := seedGroup(t, repo)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	id, _ := svc.CreateExpense(ctx, testExpense(g.ID, 3000, "ana", nil))
	if err := svc.DeleteExpense(ctx, g.ID, id); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if expenses, _ := svc.ListExpenses(ctx, g.ID); len(expenses) != 0 {
		t.Errorf("expenses = %d, want 0 after delete", len(expenses))
	}
	if err := svc.DeleteExpense(ctx, g.ID, id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestSummary(t *testing.T) {
	repo := testRepo(t)
	g := seedGroup(t, repo)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	// ana pays 3000 split ana/ben/cleo, ben pays 900 split ben/cleo.
	if _, err := svc.CreateExpense(ctx, testExpense(g.ID, 3000, "ana", nil)); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if _, err := svc.CreateExpense(ctx, testExpense(g.ID, 900, "ben", []string{"ben", "cleo"})); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	sum, err := svc.Summary(ctx, g.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Total.Cents != 3900 {
		t.Errorf("total = %d, want 3900", sum.Total.Cents)
	}

	var net int64
	for _, b := range sum.Balances {
		net += b.Net.Cents
	}
	if net != 0 {
		t.Errorf("balances sum to %d, want 0", net)
	}

	// ana: +3000 -1000 = +2000. ben: -1000 +900 -450 = -550. cleo: -1000 -450 = -1450.
	want := map[string]int64{"ana": 2000, "ben": -550, "cleo": -1450}
	for _, b := range sum.Balances {
		if b.Net.Cents != want[b.MemberID] {
			t.Errorf("net[%s] = %d, want %d", b.MemberID, b.Net.Cents, want[b.MemberID])
		}
	}

	var settled int64
	for _, s := range sum.Settlements {
		settled += s.Amount.Cents
		if s.To != "ana" {
			t.Errorf("settlement to %s, want ana as sole creditor", s.To)
		}
	}
	if settled != 2000 {
		t.Errorf("settlements move %d, want 2000", settled)
	}
}

func TestSummaryExcludesSettled(t *testing.T) {
	repo := testRepo(t)
	g := seedGroup(t, repo)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	id, _ := svc.CreateExpense(ctx, testExpense(g.ID, 3000, "ana", nil))
	if err := svc.SettleExpense(ctx, g.ID, id); err != nil {
		t.Fatalf("SettleExpense: %v", err)
	}

	sum, err := svc.Summary(ctx, g.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Total.Cents != 0 || len(sum.Settlements) != 0 {
		t.Errorf("summary = %+v, want empty after settling", sum)
	}
}
