package user

import (
	"time"

	"github.com/google/uuid"
)

// Role gates what a user may do.
type Role string

const (
	RoleManager     Role = "MANAGER"
	RoleBranchAdmin Role = "BRANCH_ADMIN"
	RoleStaff       Role = "STAFF"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleBranchAdmin, RoleStaff:
		return true
	}

	return false
}

// User is an operator of the back office.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	FullName     string
	Role         Role
	BranchID     *uuid.UUID
	CreatedAt    time.Time
}
