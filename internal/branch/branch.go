package branch

import (
	"time"

	"github.com/google/uuid"
)

// Branch is an operating location of the organisation.
type Branch struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
}

// Cashier handles daily takings at a branch and submits reconciliations.
type Cashier struct {
	ID        uuid.UUID
	BranchID  uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
}
