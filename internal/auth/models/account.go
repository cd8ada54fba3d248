// Package models holds the credential-side account record. An account shares
// its identifier with the person record created at registration; profile data
// stays on the person side.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a login identity. PasswordHash is a bcrypt digest owned by the
// account store; services never see plaintext beyond the store boundary.
type Account struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
