package core

import "sort"

// Share is one member's portion of an expense.
type Share struct {
	MemberID string `json:"member_id"`
	Amount   Money  `json:"amount"`
}

// Balance is a member's net position across a ledger: positive means the
// group owes them, negative means they owe the group.
type Balance struct {
	MemberID string `json:"member_id"`
	Net      Money  `json:"net"`
}

// Settlement is one transfer that moves the ledger toward zero.
type Settlement struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount Money  `json:"amount"`
}

// ExpenseSummary aggregates a group's ledger: the grand total, per-member net
// balances, and the transfers that settle them.
type ExpenseSummary struct {
	GroupID     string       `json:"group_id"`
	Total       Money        `json:"total"`
	Balances    []Balance    `json:"balances"`
	Settlements []Settlement `json:"settlements"`
}

// SplitEqually divides an amount across members in whole cents. The remainder
// cents that cannot divide evenly go to the earliest members, one cent each,
// so the shares always sum exactly to the amount.
func SplitEqually(amount Money, members []string) []Share {
	if len(members) == 0 {
		return nil
	}
	n := int64(len(members))
	base := amount.Cents / n
	rem := amount.Cents % n

	shares := make([]Share, len(members))
	for i, id := range members {
		cents := base
		if int64(i) < rem {
			cents++
		}
		shares[i] = Share{MemberID: id, Amount: Money{Cents: cents}}
	}
	return shares
}

// shareMembers resolves who an expense is split among: the explicit list if
// present, otherwise every group member.
func shareMembers(x Expense, members []Member) []string {
	if len(x.SplitAmong) > 0 {
		return x.SplitAmong
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

// Summarize computes net balances and settlements for a group's unsettled
// expenses. Settlements are produced greedily, largest debtor paying largest
// creditor, which keeps the transfer count at most len(members)-1. Output
// order is deterministic for a fixed input.
func Summarize(groupID string, expenses []Expense, members []Member) ExpenseSummary {
	net := make(map[string]int64, len(members))
	for _, m := range members {
		net[m.ID] = 0
	}

	var total int64
	for _, x := range expenses {
		if x.Settled {
			continue
		}
		total += x.Amount.Cents
		among := shareMembers(x, members)
		for _, s := range SplitEqually(x.Amount, among) {
			net[s.MemberID] -= s.Amount.Cents
		}
		net[x.PaidBy] += x.Amount.Cents
	}

	balances := make([]Balance, 0, len(net))
	for id, cents := range net {
		balances = append(balances, Balance{MemberID: id, Net: Money{Cents: cents}})
	}
	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Net.Cents != balances[j].Net.Cents {
			return balances[i].Net.Cents > balances[j].Net.Cents
		}
		return balances[i].MemberID < balances[j].MemberID
	})

	return ExpenseSummary{
		GroupID:     groupID,
		Total:       Money{Cents: total},
		Balances:    balances,
		Settlements: settle(balances),
	}
}

// settle pairs debtors with creditors until every balance is flat.
func settle(balances []Balance) []Settlement {
	type pos struct {
		id    string
		cents int64
	}
	var creditors, debtors []pos
	for _, b := range balances {
		switch {
		case b.Net.Cents > 0:
			creditors = append(creditors, pos{b.MemberID, b.Net.Cents})
		case b.Net.Cents < 0:
			debtors = append(debtors, pos{b.MemberID, -b.Net.Cents})
		}
	}

	var out []Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].cents
		if creditors[j].cents < amount {
			amount = creditors[j].cents
		}
		out = append(out, Settlement{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: Money{Cents: amount},
		})
		debtors[i].cents -= amount
		creditors[j].cents -= amount
		if debtors[i].cents == 0 {
			i++
		}
		if creditors[j].cents == 0 {
			j++
		}
	}
	return out
}
