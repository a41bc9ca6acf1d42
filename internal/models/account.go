package models

// Account is a registered login identity. The account name is the
// identity used everywhere else in the system (group creator, member
// sets, contribution history).
type Account struct {
	// Name is the unique account identity (e.g. "alice").
	Name string

	// PasswordHash is the bcrypt hash of the account's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account registered.
	CreatedAt int64
}
