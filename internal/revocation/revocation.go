// Package revocation keeps the list of revoked access-token JTIs. Entries
// expire with the token they revoke.
package revocation

import (
	"time"

	dErrors "regnet/pkg/domain-errors"
)

// Clock returns the current time.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "ttl must be positive")
	}
	return nil
}
