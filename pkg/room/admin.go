package room

import (
	"crypto/subtle"
	"errors"

	"github.com/synacor/argon2id"
)

// ErrWrongPassword is returned when the shared secret does not match
var ErrWrongPassword = errors.New("wrong password")

// AdminGate authorizes privileged table commands via a shared secret.
// It is only touched from the dealer's run loop, so no locking is needed.
type AdminGate struct {
	password     string
	passwordHash string
	grants       map[string]bool
}

// NewAdminGate returns a gate that verifies against the argon2id hash when
// one is configured, and falls back to the plaintext password otherwise
func NewAdminGate(password, passwordHash string) *AdminGate {
	return &AdminGate{
		password:     password,
		passwordHash: passwordHash,
		grants:       make(map[string]bool),
	}
}

// Authenticate verifies the shared secret and grants the requester the admin
// capability for the lifetime of their connection
func (g *AdminGate) Authenticate(requesterID, password string) error {
	if g.passwordHash != "" {
		if err := argon2id.Compare(g.passwordHash, password); err != nil {
			return ErrWrongPassword
		}
	} else if g.password == "" || subtle.ConstantTimeCompare([]byte(g.password), []byte(password)) != 1 {
		return ErrWrongPassword
	}

	g.grants[requesterID] = true
	return nil
}

// IsAdmin returns true if the requester has authenticated
func (g *AdminGate) IsAdmin(requesterID string) bool {
	return g.grants[requesterID]
}

// Revoke removes the requester's grant
func (g *AdminGate) Revoke(requesterID string) {
	delete(g.grants, requesterID)
}

// Reset removes every grant
func (g *AdminGate) Reset() {
	g.grants = make(map[string]bool)
}
