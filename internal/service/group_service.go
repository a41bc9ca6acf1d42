package service

import (
	"context"
	"log/slog"

	"github.com/tandadapp/backend/internal/models"
	"github.com/tandadapp/backend/internal/scheduler"
	"github.com/tandadapp/backend/internal/storage"
)

const (
	// pageSize bounds ListPage: at most this many of the most recently
	// created groups are returned.
	pageSize = 10

	// minCreationEscrow is the value a creator must attach to fund
	// group creation, in contract units.
	minCreationEscrow = 1
)

// editableCycleLengths are the only cycle lengths accepted on edit.
// Creation accepts any positive length; edits tighten the rule.
var editableCycleLengths = map[uint32]bool{7: true, 15: true, 30: true}

// GroupService is the group registry: it owns group creation,
// validation, lookup and the pending → active → cancelled lifecycle.
type GroupService struct {
	store   storage.Store
	members *MemberService
	cycles  *CycleService
	clock   scheduler.Clock
	locks   *groupLocks
}

// EditRequest carries the optional fields of an edit. Zero values mean
// "leave unchanged".
type EditRequest struct {
	Name               string
	MemberCapacity     uint32
	ContributionAmount int64
	CycleLengthDays    uint32
	StartDate          string
}

// structural reports whether the request touches a defining parameter
// (anything other than the name).
func (r EditRequest) structural() bool {
	return r.MemberCapacity != 0 || r.ContributionAmount != 0 ||
		r.CycleLengthDays != 0 || r.StartDate != ""
}

// Create validates and persists a new group, registers the requester as
// its creator and generates the cycle list. escrow is the value attached
// to the call; it must meet the creation minimum before any validation
// runs.
func (s *GroupService) Create(ctx context.Context, requester string, escrow int64,
	name string, capacity uint32, amount int64, cycleLengthDays uint32) (*models.Group, error) {

	if escrow < minCreationEscrow {
		return nil, errf(KindPayment, "attached escrow %d is below the creation minimum %d", escrow, minCreationEscrow)
	}
	if name == "" {
		return nil, errf(KindValidation, "group name must not be empty")
	}
	if capacity < 2 {
		return nil, errf(KindValidation, "member capacity must be at least 2, got %d", capacity)
	}
	if amount <= 0 {
		return nil, errf(KindValidation, "contribution amount must be positive, got %d", amount)
	}
	if cycleLengthDays == 0 {
		return nil, errf(KindValidation, "cycle length must be positive")
	}

	start := scheduler.Today(s.clock)
	end, err := scheduler.AddDays(start, int(capacity)*int(cycleLengthDays)-1)
	if err != nil {
		return nil, errf(KindValidation, "bad start date %q: %v", start, err)
	}

	group := &models.Group{
		Creator:            requester,
		Name:               name,
		MemberCapacity:     capacity,
		ContributionAmount: amount,
		CycleLengthDays:    cycleLengthDays,
		StartDate:          start,
		EndDate:            end,
		Active:             false,
		Status:             models.GroupPending,
		CreatedAt:          s.clock.Now().Unix(),
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	if err := s.members.Register(ctx, requester, group.ID, true); err != nil {
		return nil, err
	}
	if err := s.cycles.Initialize(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created",
		"group_id", group.ID,
		"creator", requester,
		"capacity", capacity,
		"amount", amount,
		"cycle_length_days", cycleLengthDays,
	)
	audit("ok", "create_group", group.ID, requester, "group created")

	return group, nil
}

// Get returns a group by id.
func (s *GroupService) Get(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errf(KindNotFound, "group not found: %s", groupID)
	}
	return group, nil
}

// ListPage returns at most pageSize of the most recently created
// groups, newest last.
func (s *GroupService) ListPage(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) > pageSize {
		groups = groups[len(groups)-pageSize:]
	}
	return groups, nil
}

// ListAll returns every group in store order.
func (s *GroupService) ListAll(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// Edit applies the supplied fields to a group. The name is always
// editable by the creator. The defining parameters (capacity, amount,
// cycle length, start date) may only change while the group is inactive
// and has no members; asking for a structural change after that point
// is a state error.
func (s *GroupService) Edit(ctx context.Context, groupID, requester string, req EditRequest) (*models.Group, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errf(KindNotFound, "group not found: %s", groupID)
	}
	if group.Creator != requester {
		return nil, errf(KindUnauthorized, "only the creator may edit group %s", groupID)
	}

	editable := !group.Active && len(group.Members) == 0
	if !editable && req.structural() {
		return nil, errf(KindState, "group %s has started enrollment; only the name may change", groupID)
	}

	if req.Name != "" {
		group.Name = req.Name
	}

	if editable && req.structural() {
		if req.MemberCapacity != 0 {
			group.MemberCapacity = req.MemberCapacity
		}
		if req.ContributionAmount != 0 {
			group.ContributionAmount = req.ContributionAmount
		}
		if req.CycleLengthDays != 0 {
			group.CycleLengthDays = req.CycleLengthDays
		}
		if req.StartDate != "" {
			if _, err := scheduler.ParseDate(req.StartDate); err != nil {
				return nil, errf(KindValidation, "bad start date: %v", err)
			}
			group.StartDate = req.StartDate
		}

		if group.MemberCapacity <= 2 {
			return nil, errf(KindValidation, "member capacity must be greater than 2 on edit, got %d", group.MemberCapacity)
		}
		if group.ContributionAmount <= 0 {
			return nil, errf(KindValidation, "contribution amount must be positive, got %d", group.ContributionAmount)
		}
		if !editableCycleLengths[group.CycleLengthDays] {
			return nil, errf(KindValidation, "cycle length must be 7, 15 or 30 days, got %d", group.CycleLengthDays)
		}

		// Defining parameters moved; keep the group window consistent.
		end, err := scheduler.AddDays(group.StartDate, int(group.MemberCapacity)*int(group.CycleLengthDays)-1)
		if err != nil {
			return nil, errf(KindValidation, "bad start date %q: %v", group.StartDate, err)
		}
		group.EndDate = end

		// The cycle list was generated from the old parameters. The
		// group has no members yet, so rebuild it wholesale; the cycle
		// count must track the capacity and the windows must track the
		// start date and length.
		if err := s.cycles.reinitialize(ctx, group); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group edited", "group_id", groupID, "structural", editable && req.structural())
	audit("ok", "edit_group", groupID, requester, "group edited")

	return group, nil
}

// Activate starts the rotation. The group must be fully enrolled and
// not yet active. If the stored start date is no longer today, the
// whole schedule is rebased to today before activation.
func (s *GroupService) Activate(ctx context.Context, groupID, requester string) (*models.Group, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errf(KindNotFound, "group not found: %s", groupID)
	}
	if group.Creator != requester {
		return nil, errf(KindUnauthorized, "only the creator may activate group %s", groupID)
	}
	if group.Active {
		return nil, errf(KindState, "group %s is already active", groupID)
	}
	if !group.Full() {
		return nil, errf(KindState, "group %s has %d of %d members", groupID, len(group.Members), group.MemberCapacity)
	}

	if today := scheduler.Today(s.clock); group.StartDate != today {
		end, err := scheduler.AddDays(today, int(group.MemberCapacity)*int(group.CycleLengthDays)-1)
		if err != nil {
			return nil, err
		}
		group.StartDate = today
		group.EndDate = end
		if err := s.cycles.rebase(ctx, group); err != nil {
			return nil, err
		}
	}

	group.Active = true
	group.Status = models.GroupActive
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group activated", "group_id", groupID, "start_date", group.StartDate)
	audit("ok", "activate_group", groupID, requester, "group activated")

	return group, nil
}

// Cancel moves a group to the cancelled terminal state. Only allowed
// while no contribution has ever been recorded.
func (s *GroupService) Cancel(ctx context.Context, groupID, requester string) (*models.Group, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errf(KindNotFound, "group not found: %s", groupID)
	}
	if group.Creator != requester {
		return nil, errf(KindUnauthorized, "only the creator may cancel group %s", groupID)
	}

	history, err := s.store.GroupHistory(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		return nil, errf(KindState, "group %s already has contributions and cannot be cancelled", groupID)
	}

	group.Active = false
	group.Status = models.GroupCancelled
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group cancelled", "group_id", groupID)
	audit("ok", "cancel_group", groupID, requester, "group cancelled")

	return group, nil
}
