package models

// GroupStatus describes where a group sits in its lifecycle.
type GroupStatus string

const (
	// GroupPending is the initial state: members may still join and the
	// creator may still edit the defining parameters.
	GroupPending GroupStatus = "Pending"

	// GroupActive means the rotation has started; capacity, amount and
	// cycle length are frozen.
	GroupActive GroupStatus = "Active"

	// GroupCancelled is terminal. Only reachable before any
	// contribution has been recorded.
	GroupCancelled GroupStatus = "Cancelled"
)

// Group represents one rotating savings circle.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	// Assigned at creation, never reused.
	ID string

	// Creator is the account that created the group. Immutable; the
	// creator is the sole authority for edit/activate/regenerate/cancel.
	Creator string

	// Name is the display label. Always editable by the creator.
	Name string

	// MemberCapacity is the fixed target membership count, which also
	// fixes the number of cycles. Editable only while the group is
	// inactive and has no members.
	MemberCapacity uint32

	// ContributionAmount is the per-cycle contribution in contract
	// units. Same mutability rule as MemberCapacity.
	ContributionAmount int64

	// CycleLengthDays is the duration of one cycle. Any positive value
	// at creation; post-creation edits restrict it to 7, 15 or 30.
	CycleLengthDays uint32

	// StartDate and EndDate bound the whole rotation:
	// EndDate = StartDate + MemberCapacity*CycleLengthDays - 1 days.
	StartDate string
	EndDate   string

	// Active reports whether the rotation has started. Status mirrors
	// it and additionally records the cancelled terminal state.
	Active bool
	Status GroupStatus

	// Members is the set of enrolled accounts, bounded by
	// MemberCapacity. The creator is not implicitly a member.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether account is enrolled in the group.
func (g *Group) HasMember(account string) bool {
	for _, m := range g.Members {
		if m == account {
			return true
		}
	}
	return false
}

// Full reports whether the group has reached its member capacity.
func (g *Group) Full() bool {
	return uint32(len(g.Members)) >= g.MemberCapacity
}
