// Package server exposes the ledger operations as a JSON HTTP API.
// Handlers stay thin: decode, resolve the caller, call the service
// layer, map the error kind to a status code.
package server

import (
	"net/http"

	"github.com/tandadapp/backend/internal/auth"
	"github.com/tandadapp/backend/internal/middleware"
	"github.com/tandadapp/backend/internal/service"
)

// Server wires the ledger services to HTTP routes.
type Server struct {
	svc        *service.Services
	authn      auth.Authenticator
	jwtManager *auth.JWTManager
}

// New creates a Server over the given services and authentication.
func New(svc *service.Services, authn auth.Authenticator, jwtManager *auth.JWTManager) *Server {
	return &Server{svc: svc, authn: authn, jwtManager: jwtManager}
}

// Handler builds the route table. Mutating ledger routes require a
// valid bearer token; lookups are public, with optional auth where the
// caller's own account is the default subject.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(s.jwtManager)
	optionalAuth := middleware.OptionalAuth(s.jwtManager)

	// Accounts
	mux.HandleFunc("POST /api/accounts/register", s.handleRegister)
	mux.HandleFunc("POST /api/accounts/login", s.handleLogin)
	mux.HandleFunc("GET /api/accounts", s.handleAccounts)
	mux.Handle("GET /api/accounts/{account}/created", optionalAuth(http.HandlerFunc(s.handleCreatedBy)))
	mux.Handle("GET /api/accounts/{account}/joined", optionalAuth(http.HandlerFunc(s.handleJoinedBy)))

	// Groups
	mux.Handle("POST /api/groups", requireAuth(http.HandlerFunc(s.handleCreateGroup)))
	mux.HandleFunc("GET /api/groups", s.handleListGroups)
	mux.HandleFunc("GET /api/groups/all", s.handleListAllGroups)
	mux.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)
	mux.Handle("PATCH /api/groups/{id}", requireAuth(http.HandlerFunc(s.handleEditGroup)))
	mux.Handle("POST /api/groups/{id}/join", requireAuth(http.HandlerFunc(s.handleJoinGroup)))
	mux.HandleFunc("GET /api/groups/{id}/members", s.handleListMembers)
	mux.Handle("POST /api/groups/{id}/activate", requireAuth(http.HandlerFunc(s.handleActivateGroup)))
	mux.Handle("POST /api/groups/{id}/cancel", requireAuth(http.HandlerFunc(s.handleCancelGroup)))

	// Cycles
	mux.HandleFunc("GET /api/groups/{id}/cycles", s.handleCycles)
	mux.Handle("POST /api/groups/{id}/cycles/regenerate", requireAuth(http.HandlerFunc(s.handleRegenerate)))
	mux.Handle("GET /api/groups/{id}/cycles/next-unpaid", optionalAuth(http.HandlerFunc(s.handleNextUnpaid)))
	mux.HandleFunc("GET /api/groups/{id}/cycles/next-payable", s.handleNextPayable)
	mux.Handle("POST /api/groups/{id}/cycles/{index}/payout", requireAuth(http.HandlerFunc(s.handlePayout)))
	mux.Handle("POST /api/groups/{id}/contributions", requireAuth(http.HandlerFunc(s.handleContribute)))
	mux.Handle("POST /api/groups/{id}/turns/{n}", requireAuth(http.HandlerFunc(s.handleClaimTurn)))

	// Contribution history
	mux.Handle("GET /api/groups/{id}/history", optionalAuth(http.HandlerFunc(s.handleHistory)))
	mux.HandleFunc("GET /api/history", s.handleAllHistories)

	return mux
}
