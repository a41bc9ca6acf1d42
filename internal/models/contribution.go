package models

// Contribution is one append-only history entry: account paid amount
// into a group. Written only as a side effect of a successful
// contribution, never mutated or removed. Completion logic does not
// read this history; it exists for audit and queries.
type Contribution struct {
	// GroupID is the group the contribution was paid into.
	GroupID string

	// Account is the paying member.
	Account string

	// Amount is the contribution in contract units. Always equals the
	// group's ContributionAmount.
	Amount int64

	// Timestamp is the Unix timestamp when the contribution was
	// recorded.
	Timestamp int64
}

// Transfer records an executed payout: a cycle's pot moved to its turn
// holder. Kept for audit; the transfer itself is fire-and-forget.
type Transfer struct {
	// ID is the unique identifier for the transfer (UUID format).
	ID string

	// GroupID and CycleIndex identify the cycle that was paid out.
	GroupID    string
	CycleIndex int

	// Recipient is the turn holder the pot was sent to.
	Recipient string

	// Amount is the full collected pot, in contract units.
	Amount int64

	// CreatedAt is the Unix timestamp when the payout was executed.
	CreatedAt int64
}
