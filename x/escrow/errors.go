package escrow

import "github.com/iov-one/vaultswap/errors"

var (
	// ErrAlreadyInitialized is returned when the escrow id or its vault
	// address is already taken.
	ErrAlreadyInitialized = errors.Register(1000, "escrow already initialized")

	// ErrRecordNotFound is returned when no active escrow exists under
	// given id. A settled or cancelled escrow is not found either.
	ErrRecordNotFound = errors.Register(1001, "escrow not found")

	// ErrVaultMismatch is returned when the vault referenced by a message
	// is not the vault of the escrow.
	ErrVaultMismatch = errors.Register(1002, "vault mismatch")
)
