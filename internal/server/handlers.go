package server

import (
	"net/http"
	"strconv"

	"github.com/tandadapp/backend/internal/middleware"
	"github.com/tandadapp/backend/internal/service"
)

// createGroupRequest carries the group parameters plus the escrow value
// attached to fund creation.
type createGroupRequest struct {
	Name               string `json:"name"`
	MemberCapacity     uint32 `json:"member_capacity"`
	ContributionAmount int64  `json:"contribution_amount"`
	CycleLengthDays    uint32 `json:"cycle_length_days"`
	Escrow             int64  `json:"escrow"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Kind: "validation"})
		return
	}

	caller := middleware.GetAccount(r.Context())
	group, err := s.svc.Groups.Create(r.Context(), caller, req.Escrow,
		req.Name, req.MemberCapacity, req.ContributionAmount, req.CycleLengthDays)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupView(group))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.svc.Groups.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupView(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Groups.ListPage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupViews(groups))
}

func (s *Server) handleListAllGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Groups.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupViews(groups))
}

// editGroupRequest carries the optional edit fields; absent fields are
// left unchanged.
type editGroupRequest struct {
	Name               string `json:"name"`
	MemberCapacity     uint32 `json:"member_capacity"`
	ContributionAmount int64  `json:"contribution_amount"`
	CycleLengthDays    uint32 `json:"cycle_length_days"`
	StartDate          string `json:"start_date"`
}

func (s *Server) handleEditGroup(w http.ResponseWriter, r *http.Request) {
	var req editGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Kind: "validation"})
		return
	}

	caller := middleware.GetAccount(r.Context())
	group, err := s.svc.Groups.Edit(r.Context(), r.PathValue("id"), caller, service.EditRequest{
		Name:               req.Name,
		MemberCapacity:     req.MemberCapacity,
		ContributionAmount: req.ContributionAmount,
		CycleLengthDays:    req.CycleLengthDays,
		StartDate:          req.StartDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupView(group))
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetAccount(r.Context())
	group, err := s.svc.Members.Join(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupView(group))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.svc.Members.Members(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleActivateGroup(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetAccount(r.Context())
	group, err := s.svc.Groups.Activate(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupView(group))
}

func (s *Server) handleCancelGroup(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetAccount(r.Context())
	group, err := s.svc.Groups.Cancel(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupView(group))
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := s.svc.Cycles.Cycles(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleViews(cycles))
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetAccount(r.Context())
	cycles, err := s.svc.Cycles.Regenerate(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleViews(cycles))
}

// contributeRequest carries the value attached to the contribution; it
// must equal the group's contribution amount exactly.
type contributeRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Kind: "validation"})
		return
	}

	caller := middleware.GetAccount(r.Context())
	index, cycle, err := s.svc.Cycles.Contribute(r.Context(), r.PathValue("id"), caller, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleView(index, cycle))
}

func (s *Server) handleClaimTurn(w http.ResponseWriter, r *http.Request) {
	turn, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "turn number must be an integer", Kind: "validation"})
		return
	}

	caller := middleware.GetAccount(r.Context())
	cycle, err := s.svc.Cycles.ClaimTurn(r.Context(), r.PathValue("id"), caller, turn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleView(turn-1, cycle))
}

// indexResponse wraps the sentinel-shaped index answers: the index of
// the matching cycle, or -1 when exhausted.
type indexResponse struct {
	Index int `json:"index"`
}

func (s *Server) handleNextUnpaid(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		account = middleware.GetAccount(r.Context())
	}
	if account == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account required (query parameter or bearer token)", Kind: "validation"})
		return
	}

	index, err := s.svc.Cycles.NextUnpaidFor(r.Context(), r.PathValue("id"), account)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, indexResponse{Index: index})
}

func (s *Server) handleNextPayable(w http.ResponseWriter, r *http.Request) {
	index, err := s.svc.Cycles.NextPayable(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, indexResponse{Index: index})
}

func (s *Server) handlePayout(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cycle index must be an integer", Kind: "validation"})
		return
	}

	cycle, err := s.svc.Cycles.Payout(r.Context(), r.PathValue("id"), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleView(index, cycle))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		account = middleware.GetAccount(r.Context())
	}
	if account == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account required (query parameter or bearer token)", Kind: "validation"})
		return
	}

	history, err := s.svc.History.For(r.Context(), r.PathValue("id"), account)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContributionViews(history))
}

func (s *Server) handleAllHistories(w http.ResponseWriter, r *http.Request) {
	all, err := s.svc.History.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make(map[string][]contributionView, len(all))
	for groupID, history := range all {
		out[groupID] = toContributionViews(history)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.svc.Members.Accounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []string{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// subjectAccount resolves the {account} path segment; the literal "me"
// means the authenticated caller.
func subjectAccount(r *http.Request) string {
	account := r.PathValue("account")
	if account == "me" {
		return middleware.GetAccount(r.Context())
	}
	return account
}

func (s *Server) handleCreatedBy(w http.ResponseWriter, r *http.Request) {
	account := subjectAccount(r)
	if account == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token required", Kind: "unauthorized"})
		return
	}

	groups, err := s.svc.Members.CreatedBy(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []string{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleJoinedBy(w http.ResponseWriter, r *http.Request) {
	account := subjectAccount(r)
	if account == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token required", Kind: "unauthorized"})
		return
	}

	groups, err := s.svc.Members.JoinedBy(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []string{}
	}
	writeJSON(w, http.StatusOK, groups)
}
