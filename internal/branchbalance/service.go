package branchbalance

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/branch"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=branchbalance
type Repository interface {
	// BeginTopUp opens a transaction holding the branch's ledger lock.
	BeginTopUp(ctx context.Context, branchID uuid.UUID) (TopUpTx, error)
	GetBalance(ctx context.Context, branchID uuid.UUID) (*Balance, error)
	ListBalances(ctx context.Context) ([]*Balance, error)
	ListTransactions(ctx context.Context, branchID uuid.UUID) ([]*Transaction, error)
}

// TopUpTx is a locked read-modify-write on one branch balance.
type TopUpTx interface {
	// Current returns the locked balance row, or nil if the branch has none yet.
	Current(ctx context.Context) (*Balance, error)
	// Save upserts b and appends t in the same transaction. Ids and
	// timestamps are filled in on both.
	Save(ctx context.Context, b *Balance, t *Transaction) error
	Commit() error
	Rollback() error
}

type BranchLookup interface {
	GetBranch(ctx context.Context, id uuid.UUID) (*branch.Branch, error)
}

type Service struct {
	repo     Repository
	branches BranchLookup
}

func NewService(repo Repository, branches BranchLookup) *Service {
	return &Service{repo: repo, branches: branches}
}

type TopUpParams struct {
	BranchID    uuid.UUID
	Amount      decimal.Decimal
	PerformedBy uuid.UUID
	Notes       string
}

func (s *Service) TopUp(ctx context.Context, params TopUpParams) (TopUpResult, error) {
	b, err := s.branches.GetBranch(ctx, params.BranchID)
	if err != nil {
		return TopUpResult{}, err
	}

	tx, err := s.repo.BeginTopUp(ctx, b.ID)
	if err != nil {
		return TopUpResult{}, err
	}
	defer tx.Rollback()

	current, err := tx.Current(ctx)
	if err != nil {
		return TopUpResult{}, err
	}

	res, err := TopUp(current, b.ID, params.Amount, params.PerformedBy, strings.TrimSpace(params.Notes))
	if err != nil {
		return TopUpResult{}, err
	}

	if err := tx.Save(ctx, res.Balance, res.Transaction); err != nil {
		return TopUpResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return TopUpResult{}, err
	}

	res.Balance.BranchName = b.Name

	return res, nil
}

func (s *Service) Get(ctx context.Context, branchID uuid.UUID) (*Balance, error) {
	return s.repo.GetBalance(ctx, branchID)
}

func (s *Service) List(ctx context.Context) ([]*Balance, error) {
	return s.repo.ListBalances(ctx)
}

// History returns the branch's ledger, oldest first.
func (s *Service) History(ctx context.Context, branchID uuid.UUID) ([]*Transaction, error) {
	if _, err := s.branches.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}

	return s.repo.ListTransactions(ctx, branchID)
}
