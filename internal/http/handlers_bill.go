package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

func (s *Server) billFromRequest(r *http.Request, req billRequest) (core.Bill, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Bill{}, err
	}
	due, err := parseDay(req.DueDate)
	if err != nil {
		return core.Bill{}, err
	}
	return core.Bill{
		Name:     req.Name,
		Amount:   amount,
		DueDate:  due,
		Category: req.Category,
		IsPaid:   req.IsPaid,
		UserID:   UserIDFromContext(r.Context()),
	}, nil
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	bill, err := s.billFromRequest(r, req)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.records.CreateBill(r.Context(), bill)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBillResponse(created, time.Now()))
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.records.Store().ListBills(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	now := time.Now()
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b, now))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.records.Store().GetBill(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBillResponse(bill, time.Now()))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	bill, err := s.billFromRequest(r, req)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	bill.ID = chi.URLParam(r, "id")

	updated, err := s.records.UpdateBill(r.Context(), bill)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBillResponse(updated, time.Now()))
}

func (s *Server) handleSetBillPaid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsPaid bool `json:"is_paid"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := s.records.SetBillPaid(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.IsPaid)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBillResponse(updated, time.Now()))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteBill(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
