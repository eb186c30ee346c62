package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

func (s *Server) subscriptionFromRequest(r *http.Request, req subscriptionRequest) (core.Subscription, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Subscription{}, err
	}
	next, err := parseDay(req.NextPayment)
	if err != nil {
		return core.Subscription{}, err
	}
	return core.Subscription{
		Name:         req.Name,
		Amount:       amount,
		BillingCycle: core.BillingCycle(req.BillingCycle),
		NextPayment:  next,
		Category:     req.Category,
		IsActive:     req.IsActive,
		UserID:       UserIDFromContext(r.Context()),
	}, nil
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	sub, err := s.subscriptionFromRequest(r, req)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.records.CreateSubscription(r.Context(), sub)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSubscriptionResponse(created, time.Now()))
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.records.Store().ListSubscriptions(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	now := time.Now()
	out := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubscriptionResponse(sub, now))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.records.Store().GetSubscription(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(sub, time.Now()))
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	sub, err := s.subscriptionFromRequest(r, req)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sub.ID = chi.URLParam(r, "id")

	updated, err := s.records.UpdateSubscription(r.Context(), sub)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(updated, time.Now()))
}

func (s *Server) handleSetSubscriptionActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := s.records.SetSubscriptionActive(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.IsActive)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(updated, time.Now()))
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteSubscription(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
