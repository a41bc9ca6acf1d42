// Package service implements the tanda ledger engine: the group
// registry, membership ledger, cycle ledger and contribution history.
// Every operation is a validated state transition over the shared store.
//
// Every operation either completes or fails with zero partial state
// change: all validation runs before the first write, and mutating
// operations on one group share a per-group critical section (see
// groupLocks). Failures are *Error values carrying a Kind and a message
// naming the violated precondition.
package service

import (
	"github.com/tandadapp/backend/internal/payments"
	"github.com/tandadapp/backend/internal/scheduler"
	"github.com/tandadapp/backend/internal/storage"
)

// Services bundles the ledger services over one store. The services
// share the per-group locks, so cross-service sequences on the same
// group serialize correctly.
type Services struct {
	Groups  *GroupService
	Members *MemberService
	Cycles  *CycleService
	History *HistoryService
}

// New wires the ledger services over store, using clock for all date
// and timestamp decisions and sink for payout transfers.
func New(store storage.Store, clock scheduler.Clock, sink payments.Sink) *Services {
	locks := newGroupLocks()

	members := &MemberService{store: store, clock: clock, locks: locks}
	cycles := &CycleService{store: store, clock: clock, sink: sink, locks: locks}
	groups := &GroupService{store: store, members: members, cycles: cycles, clock: clock, locks: locks}
	history := &HistoryService{store: store}

	return &Services{
		Groups:  groups,
		Members: members,
		Cycles:  cycles,
		History: history,
	}
}
