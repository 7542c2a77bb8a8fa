// Package audit keeps a best-effort trail of who changed what.
package audit

import (
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID        int64
	UserID    *uuid.UUID
	Action    string
	Module    string
	Details   string
	IPAddress string
	CreatedAt time.Time
}

// Modules used in entries.
const (
	ModuleAuth           = "AUTH"
	ModuleUsers          = "USERS"
	ModuleBranches       = "BRANCHES"
	ModuleBranchBalance  = "BRANCH_BALANCE"
	ModuleReconciliation = "RECONCILIATION"
	ModuleImprest        = "IMPREST"
	ModuleFuelCoupon     = "FUEL_COUPON"
	ModuleCategory       = "CATEGORY"
	ModuleImport         = "IMPORT"
	ModuleExport         = "EXPORT"
)
