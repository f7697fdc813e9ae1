package http

import (
	"net/http"
	"strconv"
	"time"

	"gatherly/internal/core"
	applog "gatherly/internal/log"
)

type createExpenseRequest struct {
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	AmountCents int64    `json:"amount_cents"`
	PaidBy      string   `json:"paid_by"`
	SplitAmong  []string `json:"split_among"`
	Date        string   `json:"date"`
}

type createExpenseResponse struct {
	ID int64 `json:"id"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents := req.AmountCents
	if req.Amount != "" {
		var err error
		cents, err = core.ParseDecimalToCents(req.Amount)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
	}

	date := s.now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	id, err := s.deps.Expenses.CreateExpense(r.Context(), core.Expense{
		GroupID:     groupID,
		Description: req.Description,
		Amount:      core.Money{Cents: cents},
		PaidBy:      req.PaidBy,
		SplitAmong:  req.SplitAmong,
		Date:        date,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s.logger.InfoContext(r.Context(), "expense created",
		applog.FieldGroupID, groupID,
		applog.FieldExpenseID, id,
		applog.FieldAmountCents, cents)
	respondJSON(w, http.StatusCreated, createExpenseResponse{ID: id})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.deps.Expenses.ListExpenses(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("expenseID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if err := s.deps.Expenses.DeleteExpense(r.Context(), r.PathValue("id"), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSettleExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("expenseID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if err := s.deps.Expenses.SettleExpense(r.Context(), r.PathValue("id"), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Expenses.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
