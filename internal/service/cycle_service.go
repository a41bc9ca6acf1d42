package service

import (
	"context"
	"log/slog"

	"github.com/tandadapp/backend/internal/models"
	"github.com/tandadapp/backend/internal/payments"
	"github.com/tandadapp/backend/internal/scheduler"
	"github.com/tandadapp/backend/internal/storage"
)

// Exhausted is the sentinel index meaning "no such cycle left": every
// cycle already holds the account's contribution, or every cycle is
// paid out.
const Exhausted = -1

// CycleService is the cycle ledger: it owns the ordered cycle list of
// each group, records contributions, tracks turn claims and executes
// payouts.
type CycleService struct {
	store storage.Store
	clock scheduler.Clock
	sink  payments.Sink
	locks *groupLocks
}

// Initialize generates the cycle list for a freshly created group.
// Idempotent: if cycles already exist the call is a no-op.
func (s *CycleService) Initialize(ctx context.Context, group *models.Group) error {
	existing, err := s.store.GetCycles(ctx, group.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		slog.Debug("Cycles already initialized", "group_id", group.ID, "count", len(existing))
		return nil
	}

	cycles, err := scheduler.GenerateCycles(group.StartDate, int(group.CycleLengthDays), int(group.MemberCapacity))
	if err != nil {
		return err
	}
	if err := s.store.PutCycles(ctx, group.ID, cycles); err != nil {
		return err
	}

	slog.Info("Cycles initialized", "group_id", group.ID, "count", len(cycles))
	return nil
}

// Regenerate reassigns the date windows of an existing cycle list from
// the group's current start date, preserving every non-date field.
// Creator only.
func (s *CycleService) Regenerate(ctx context.Context, groupID, requester string) ([]models.Cycle, error) {
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
		return nil, errf(KindUnauthorized, "only the creator may regenerate cycles for group %s", groupID)
	}

	if err := s.rebase(ctx, group); err != nil {
		return nil, err
	}

	audit("ok", "regenerate_cycles", groupID, requester, "cycle dates regenerated")
	return s.store.GetCycles(ctx, groupID)
}

// reinitialize rebuilds the cycle list of group from its current
// parameters. Only valid while the group has no members, so the list
// holds no ledger state to lose. The caller must hold the group lock.
func (s *CycleService) reinitialize(ctx context.Context, group *models.Group) error {
	cycles, err := scheduler.GenerateCycles(group.StartDate, int(group.CycleLengthDays), int(group.MemberCapacity))
	if err != nil {
		return err
	}
	if err := s.store.PutCycles(ctx, group.ID, cycles); err != nil {
		return err
	}

	slog.Info("Cycles reinitialized", "group_id", group.ID, "count", len(cycles))
	return nil
}

// rebase rewrites the cycle dates of group in place. The caller must
// hold the group lock.
func (s *CycleService) rebase(ctx context.Context, group *models.Group) error {
	cycles, err := s.store.GetCycles(ctx, group.ID)
	if err != nil {
		return err
	}
	if cycles == nil {
		return errf(KindState, "cycles not initialized for group %s", group.ID)
	}

	if err := scheduler.Rebase(cycles, group.StartDate, int(group.CycleLengthDays)); err != nil {
		return err
	}
	if err := s.store.PutCycles(ctx, group.ID, cycles); err != nil {
		return err
	}

	slog.Info("Cycle dates rebased", "group_id", group.ID, "start_date", group.StartDate)
	return nil
}

// Cycles returns the ordered cycle list of a group.
func (s *CycleService) Cycles(ctx context.Context, groupID string) ([]models.Cycle, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errf(KindNotFound, "group not found: %s", groupID)
	}

	cycles, err := s.store.GetCycles(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if cycles == nil {
		return nil, errf(KindState, "cycles not initialized for group %s", groupID)
	}
	return cycles, nil
}

// NextUnpaidFor returns the index of the first cycle that does not yet
// hold a contribution from account, or Exhausted when every cycle does.
// Cycle dates are deliberately not consulted: members may pay ahead.
func (s *CycleService) NextUnpaidFor(ctx context.Context, groupID, account string) (int, error) {
	cycles, err := s.Cycles(ctx, groupID)
	if err != nil {
		return 0, err
	}
	return nextLacking(cycles, account), nil
}

func nextLacking(cycles []models.Cycle, account string) int {
	for i := range cycles {
		if !cycles[i].HasContributor(account) {
			return i
		}
	}
	return Exhausted
}

// Contribute records a contribution of value units from account against
// its earliest open cycle, returning that cycle and its index. The
// value must equal the group's contribution amount exactly; partial and
// over-payments are rejected before any state changes.
func (s *CycleService) Contribute(ctx context.Context, groupID, account string, value int64) (int, *models.Cycle, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return 0, nil, err
	}
	if group == nil {
		return 0, nil, errf(KindNotFound, "group not found: %s", groupID)
	}

	cycles, err := s.store.GetCycles(ctx, groupID)
	if err != nil {
		return 0, nil, err
	}
	if cycles == nil {
		return 0, nil, errf(KindState, "cycles not initialized for group %s", groupID)
	}

	if !group.HasMember(account) {
		return 0, nil, errf(KindUnauthorized, "account %s is not a member of group %s", account, groupID)
	}
	if value != group.ContributionAmount {
		return 0, nil, errf(KindPayment, "attached value %d does not match the contribution amount %d", value, group.ContributionAmount)
	}

	idx := nextLacking(cycles, account)
	if idx == Exhausted {
		return 0, nil, errf(KindExhausted, "account %s has contributed to every cycle of group %s", account, groupID)
	}

	cycle := &cycles[idx]
	first := cycle.CollectedAmount == 0
	cycle.Contributors = append(cycle.Contributors, account)
	cycle.CollectedAmount += group.ContributionAmount
	cycle.ContributionsComplete =
		cycle.CollectedAmount == group.ContributionAmount*int64(group.MemberCapacity) &&
			uint32(len(cycle.Contributors)) == group.MemberCapacity

	if err := s.store.PutCycles(ctx, groupID, cycles); err != nil {
		return 0, nil, err
	}
	if err := s.store.AppendContribution(ctx, &models.Contribution{
		GroupID:   groupID,
		Account:   account,
		Amount:    group.ContributionAmount,
		Timestamp: s.clock.Now().Unix(),
	}); err != nil {
		return 0, nil, err
	}

	slog.Info("Contribution recorded",
		"group_id", groupID,
		"account", account,
		"cycle", idx,
		"collected", cycle.CollectedAmount,
		"complete", cycle.ContributionsComplete,
	)
	switch {
	case first:
		audit("ok", "record_contribution", groupID, account, "first contribution of the cycle")
	case cycle.ContributionsComplete:
		audit("ok", "record_contribution", groupID, account, "cycle contributions complete")
	default:
		audit("ok", "record_contribution", groupID, account, "contribution appended")
	}

	return idx, cycle, nil
}

// ClaimTurn assigns requester as the turn holder of cycle turnNumber
// (1-based). A turn can only be claimed once; an account is not
// prevented from holding several turns.
func (s *CycleService) ClaimTurn(ctx context.Context, groupID, requester string, turnNumber int) (*models.Cycle, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errf(KindNotFound, "group not found: %s", groupID)
	}

	cycles, err := s.store.GetCycles(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if cycles == nil {
		return nil, errf(KindState, "cycles not initialized for group %s", groupID)
	}

	if !group.HasMember(requester) {
		return nil, errf(KindUnauthorized, "account %s is not a member of group %s", requester, groupID)
	}
	if turnNumber < 1 || turnNumber > int(group.MemberCapacity) {
		return nil, errf(KindValidation, "turn number must be between 1 and %d, got %d", group.MemberCapacity, turnNumber)
	}

	cycle := &cycles[turnNumber-1]
	if cycle.TurnHolder != "" {
		return nil, errf(KindState, "turn %d of group %s is already held by %s", turnNumber, groupID, cycle.TurnHolder)
	}

	cycle.TurnHolder = requester
	if err := s.store.PutCycles(ctx, groupID, cycles); err != nil {
		return nil, err
	}

	slog.Info("Turn claimed", "group_id", groupID, "account", requester, "turn", turnNumber)
	audit("ok", "claim_turn", groupID, requester, "turn claimed")

	return cycle, nil
}

// NextPayable returns the index of the first cycle that has not been
// paid out, or Exhausted when every cycle has.
func (s *CycleService) NextPayable(ctx context.Context, groupID string) (int, error) {
	cycles, err := s.Cycles(ctx, groupID)
	if err != nil {
		return 0, err
	}
	for i := range cycles {
		if !cycles[i].PaidOut {
			return i, nil
		}
	}
	return Exhausted, nil
}

// Payout transfers the collected pot of cycle index to its turn holder
// and marks the cycle paid. The cycle must be complete, must have a
// turn holder and must not have been paid before.
func (s *CycleService) Payout(ctx context.Context, groupID string, index int) (*models.Cycle, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errf(KindNotFound, "group not found: %s", groupID)
	}

	cycles, err := s.store.GetCycles(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if cycles == nil {
		return nil, errf(KindState, "cycles not initialized for group %s", groupID)
	}
	if index < 0 || index >= len(cycles) {
		return nil, errf(KindValidation, "cycle index must be between 0 and %d, got %d", len(cycles)-1, index)
	}

	cycle := &cycles[index]
	if cycle.PaidOut {
		return nil, errf(KindState, "cycle %d of group %s is already paid out", index, groupID)
	}
	if !cycle.ContributionsComplete {
		return nil, errf(KindState, "cycle %d of group %s is not fully contributed", index, groupID)
	}
	if cycle.TurnHolder == "" {
		return nil, errf(KindState, "cycle %d of group %s has no turn holder", index, groupID)
	}

	// The pot goes to the recorded turn holder, never to the caller.
	if err := s.sink.Pay(ctx, cycle.TurnHolder, cycle.CollectedAmount); err != nil {
		return nil, err
	}

	cycle.PaidOut = true
	if err := s.store.PutCycles(ctx, groupID, cycles); err != nil {
		return nil, err
	}
	if err := s.store.RecordTransfer(ctx, &models.Transfer{
		GroupID:    groupID,
		CycleIndex: index,
		Recipient:  cycle.TurnHolder,
		Amount:     cycle.CollectedAmount,
		CreatedAt:  s.clock.Now().Unix(),
	}); err != nil {
		return nil, err
	}

	slog.Info("Cycle paid out",
		"group_id", groupID,
		"cycle", index,
		"recipient", cycle.TurnHolder,
		"amount", cycle.CollectedAmount,
	)
	audit("ok", "payout", groupID, cycle.TurnHolder, "cycle paid out")

	return cycle, nil
}
