package auth

import "time"

// SetClock replaces the issuer's clock in tests.
func (i *Issuer) SetClock(now func() time.Time) { i.now = now }
