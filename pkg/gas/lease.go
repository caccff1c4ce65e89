package gas

import (
	"fmt"
	"time"
)

// Lease is the right to use one gas coin until ExpiresAt. The zero value is the empty lease,
// which is always expired.
type Lease struct {
	CoinObjectID string    `json:"coinObjectId"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (l Lease) IsEmpty() bool {
	return l.CoinObjectID == ""
}

// Expired reports whether the lease can no longer be used at now. A lease is unusable from
// the instant it expires.
func (l Lease) Expired(now time.Time) bool {
	if l.IsEmpty() {
		return true
	}
	return !now.Before(l.ExpiresAt)
}

func (l Lease) String() string {
	if l.IsEmpty() {
		return "<empty lease>"
	}
	return fmt.Sprintf("<lease coin: %s, expires: %s>", l.CoinObjectID, l.ExpiresAt.Format(time.RFC3339))
}
