// Package revocation tracks revoked token JTIs until their natural expiry.
// Logout writes here; the auth middleware reads on every authenticated
// request.
package revocation

import (
	"errors"
	"time"
)

var errInvalidTTL = errors.New("ttl must be positive")

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return errInvalidTTL
	}
	return nil
}
