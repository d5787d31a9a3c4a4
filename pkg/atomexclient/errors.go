package atomexclient

import "errors"

var (
	// ErrNotInitialized is returned by accessors used before Initialize completed
	ErrNotInitialized = errors.New("atomex client is not initialized")

	// ErrNotAuthenticated is returned by Session and Authentication before Authenticate succeeded
	ErrNotAuthenticated = errors.New("atomex client is not authenticated")

	// ErrMissingSecretKey is returned when a user has no secret key for the requested chain
	ErrMissingSecretKey = errors.New("missing secret key")

	// ErrCurrencyMismatch is returned when a swap must be paid in a currency the client's chain does not hold
	ErrCurrencyMismatch = errors.New("swap currency does not match client chain")
)
