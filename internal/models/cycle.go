package models

// Cycle is one contribution round of a group. A group has exactly
// MemberCapacity cycles, generated once and ordered by index.
type Cycle struct {
	// StartDate and EndDate bound the round. Cycles are contiguous:
	// the next cycle starts the day after this one ends.
	StartDate string
	EndDate   string

	// TurnHolder is the account entitled to this cycle's pot, empty
	// until a member claims the turn.
	TurnHolder string

	// CollectedAmount is the running sum of contributions recorded
	// against this cycle, in contract units.
	CollectedAmount int64

	// Contributors is the set of accounts that have already paid into
	// this cycle. Always a subset of the group's members.
	Contributors []string

	// ContributionsComplete is set once every member has paid:
	// CollectedAmount == ContributionAmount*MemberCapacity and
	// len(Contributors) == MemberCapacity.
	ContributionsComplete bool

	// PaidOut is set once the pot has been transferred to the turn
	// holder.
	PaidOut bool
}

// HasContributor reports whether account has already paid into the cycle.
func (c *Cycle) HasContributor(account string) bool {
	for _, a := range c.Contributors {
		if a == account {
			return true
		}
	}
	return false
}
