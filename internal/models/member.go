package models

// Member is the per-account membership index: which groups an account
// has created and which it has joined. Created lazily on the account's
// first interaction and never deleted.
type Member struct {
	// Account is the account identity this record belongs to.
	Account string

	// Created holds the ids of groups this account created.
	Created []string

	// Joined holds the ids of groups this account joined as a regular
	// member. Both lists are de-duplicated on registration.
	Joined []string

	// CreatedAt is the Unix timestamp of the account's first
	// interaction.
	CreatedAt int64
}
