package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tandadapp/backend/internal/auth"
)

// credentialsRequest is the body of register and login calls.
type credentialsRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// sessionResponse is returned by register and login: the account name
// plus a bearer token for subsequent calls.
type sessionResponse struct {
	Account string `json:"account"`
	Token   string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || req.Account == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account and password required", Kind: "validation"})
		return
	}

	account, err := s.authn.Register(r.Context(), req.Account, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "account", req.Account, "error", err)
		switch {
		case errors.Is(err, auth.ErrAccountExists):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "state"})
		case errors.Is(err, auth.ErrWeakPassword):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "internal"})
		}
		return
	}

	token, err := s.jwtManager.Generate(account)
	if err != nil {
		slog.Error("Failed to generate token", "account", account.Name, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "internal"})
		return
	}

	slog.Info("Account registered", "account", account.Name)
	writeJSON(w, http.StatusCreated, sessionResponse{Account: account.Name, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || req.Account == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account and password required", Kind: "validation"})
		return
	}

	account, err := s.authn.Authenticate(r.Context(), req.Account, req.Password)
	if err != nil {
		slog.Warn("Login failed", "account", req.Account)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrInvalidCredentials.Error(), Kind: "unauthorized"})
		return
	}

	token, err := s.jwtManager.Generate(account)
	if err != nil {
		slog.Error("Failed to generate token", "account", account.Name, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "internal"})
		return
	}

	slog.Info("Account logged in", "account", account.Name)
	writeJSON(w, http.StatusOK, sessionResponse{Account: account.Name, Token: token})
}
