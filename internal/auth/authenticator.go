package auth

import (
	"context"

	"github.com/tandadapp/backend/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the handler code.
type Authenticator interface {
	// Register creates a new account with the given name and credential.
	// Returns the created account or an error if registration fails.
	Register(ctx context.Context, name, credential string) (*models.Account, error)

	// Authenticate verifies the account's credentials and returns the
	// account if successful.
	Authenticate(ctx context.Context, name, credential string) (*models.Account, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
