package types

import (
	"maps"
	"slices"
)

// User is a demo account with per-chain secret key material. It is immutable
// after construction.
type User struct {
	id         string
	name       string
	secretKeys map[string]string
}

// NewUser creates a user; empty secret keys are dropped
func NewUser(id, name string, secretKeys map[string]string) *User {
	keys := make(map[string]string, len(secretKeys))
	for chain, key := range secretKeys {
		if key != "" {
			keys[chain] = key
		}
	}
	return &User{
		id:         id,
		name:       name,
		secretKeys: keys,
	}
}

func (u *User) ID() string {
	return u.id
}

func (u *User) Name() string {
	return u.name
}

// SecretKey returns the secret key configured for a chain
func (u *User) SecretKey(chain string) (string, bool) {
	key, ok := u.secretKeys[chain]
	return key, ok
}

// Chains returns the chains the user has a secret key for, sorted
func (u *User) Chains() []string {
	return slices.Sorted(maps.Keys(u.secretKeys))
}

// MaskedSecretKeys returns the secret keys with everything but a short prefix hidden
func (u *User) MaskedSecretKeys() map[string]string {
	masked := make(map[string]string, len(u.secretKeys))
	for chain, key := range u.secretKeys {
		masked[chain] = maskSecret(key)
	}
	return masked
}

func maskSecret(secret string) string {
	const visible = 6
	if len(secret) <= visible {
		return "******"
	}
	return secret[:visible] + "******"
}
