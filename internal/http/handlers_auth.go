package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/store"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user := core.User{Email: strings.TrimSpace(req.Email)}
	if err := user.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	user.PasswordHash = hash

	created, err := s.users.CreateUser(r.Context(), user)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}

	s.publishUserEvent(r, events.EventUserRegistered, created.ID)

	token, err := s.tokens.Sign(created.ID, created.Email)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tokenResponse{Token: token, User: toUserResponse(created)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondStoreError(r.Context(), w, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.publishUserEvent(r, events.EventUserLoggedIn, user.ID)

	token, err := s.tokens.Sign(user.ID, user.Email)
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token, User: toUserResponse(user)})
}

// handleLogout acknowledges the sign-out. Tokens are stateless, so the
// client discards its copy; the event is published for audit feeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.publishUserEvent(r, events.EventUserLoggedOut, UserIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) publishUserEvent(r *http.Request, event, userID string) {
	if s.publisher == nil {
		return
	}
	ctx := r.Context()
	if err := s.publisher.PublishRecordEvent(ctx, events.NewRecordEvent(event, "user", userID, userID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish auth event", "event", event, "error", err)
	}
}

// requireAuth resolves the bearer token and stashes the owner id.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := contextWithUserID(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
