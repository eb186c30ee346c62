package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

func (s *Server) expenseFromRequest(r *http.Request, req expenseRequest) (core.Expense, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := parseDay(req.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Purpose:     req.Purpose,
		Amount:      amount,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
		UserID:      UserIDFromContext(r.Context()),
	}, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	expense, err := s.expenseFromRequest(r, req)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.records.CreateExpense(r.Context(), expense)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.records.Store().ListExpenses(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.records.Store().GetExpense(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	expense, err := s.expenseFromRequest(r, req)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	expense.ID = chi.URLParam(r, "id")

	updated, err := s.records.UpdateExpense(r.Context(), expense)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteExpense(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
