package branchbalance_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/branchbalance"
)

func TestService_TopUp(t *testing.T) {
	br := &branch.Branch{ID: uuid.New(), Code: "LOS", Name: "Lagos"}
	by := uuid.New()

	type testCase struct {
		name      string
		amount    decimal.Decimal
		setupMock func(repo *branchbalance.MockRepository, tx *branchbalance.MockTopUpTx, branches *branchbalance.MockBranchLookup)
		wantKind  apperr.Kind
		wantAfter string
	}

	tests := []testCase{
		{
			name:   "FirstTopUpOpensBalance",
			amount: d("5000"),
			setupMock: func(repo *branchbalance.MockRepository, tx *branchbalance.MockTopUpTx, branches *branchbalance.MockBranchLookup) {
				branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(br, nil)
				repo.EXPECT().BeginTopUp(gomock.Any(), br.ID).Return(tx, nil)
				tx.EXPECT().Current(gomock.Any()).Return(nil, nil)
				tx.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *branchbalance.Balance, entry *branchbalance.Transaction) error {
						assert.Equal(t, br.ID, b.BranchID)
						assert.Equal(t, branchbalance.TypeOpeningBalance, entry.Type)
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantAfter: "5000",
		},
		{
			name:   "ExistingBalance",
			amount: d("2000"),
			setupMock: func(repo *branchbalance.MockRepository, tx *branchbalance.MockTopUpTx, branches *branchbalance.MockBranchLookup) {
				branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(br, nil)
				repo.EXPECT().BeginTopUp(gomock.Any(), br.ID).Return(tx, nil)
				tx.EXPECT().Current(gomock.Any()).Return(&branchbalance.Balance{
					ID: uuid.New(), BranchID: br.ID, OpeningBalance: d("5000"), CurrentBalance: d("5000"),
				}, nil)
				tx.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantAfter: "7000",
		},
		{
			name:   "UnknownBranch",
			amount: d("100"),
			setupMock: func(_ *branchbalance.MockRepository, _ *branchbalance.MockTopUpTx, branches *branchbalance.MockBranchLookup) {
				branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(nil, apperr.NotFound("branch not found"))
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name:   "ZeroTopUpNeverWrites",
			amount: decimal.Zero,
			setupMock: func(repo *branchbalance.MockRepository, tx *branchbalance.MockTopUpTx, branches *branchbalance.MockBranchLookup) {
				branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(br, nil)
				repo.EXPECT().BeginTopUp(gomock.Any(), br.ID).Return(tx, nil)
				tx.EXPECT().Current(gomock.Any()).Return(&branchbalance.Balance{ID: uuid.New(), CurrentBalance: d("10")}, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantKind: apperr.KindValidation,
		},
		{
			name:   "SaveFailureRollsBack",
			amount: d("100"),
			setupMock: func(repo *branchbalance.MockRepository, tx *branchbalance.MockTopUpTx, branches *branchbalance.MockBranchLookup) {
				branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(br, nil)
				repo.EXPECT().BeginTopUp(gomock.Any(), br.ID).Return(tx, nil)
				tx.EXPECT().Current(gomock.Any()).Return(nil, nil)
				tx.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(apperr.Persistence("recording balance transaction", errors.New("boom")))
				tx.EXPECT().Rollback().Return(nil)
			},
			wantKind: apperr.KindPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := branchbalance.NewMockRepository(ctrl)
			tx := branchbalance.NewMockTopUpTx(ctrl)
			branches := branchbalance.NewMockBranchLookup(ctrl)
			tt.setupMock(repo, tx, branches)

			svc := branchbalance.NewService(repo, branches)

			res, err := svc.TopUp(context.Background(), branchbalance.TopUpParams{
				BranchID: br.ID, Amount: tt.amount, PerformedBy: by,
			})
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))

				return
			}

			require.NoError(t, err)
			assert.True(t, res.Balance.CurrentBalance.Equal(d(tt.wantAfter)))
			assert.Equal(t, "Lagos", res.Balance.BranchName)
		})
	}
}

// ledger is an in-memory Repository that serialises top-ups per branch the
// way the Postgres store does.
type ledger struct {
	mu       sync.Mutex
	locks    map[uuid.UUID]*sync.Mutex
	balances map[uuid.UUID]*branchbalance.Balance
	entries  map[uuid.UUID][]*branchbalance.Transaction
}

func newLedger() *ledger {
	return &ledger{
		locks:    make(map[uuid.UUID]*sync.Mutex),
		balances: make(map[uuid.UUID]*branchbalance.Balance),
		entries:  make(map[uuid.UUID][]*branchbalance.Transaction),
	}
}

func (l *ledger) lockFor(branchID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[branchID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[branchID] = m
	}

	return m
}

func (l *ledger) BeginTopUp(_ context.Context, branchID uuid.UUID) (branchbalance.TopUpTx, error) {
	lock := l.lockFor(branchID)
	lock.Lock()

	return &ledgerTx{l: l, branchID: branchID, lock: lock}, nil
}

func (l *ledger) GetBalance(_ context.Context, branchID uuid.UUID) (*branchbalance.Balance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.balances[branchID]
	if !ok {
		return nil, apperr.NotFound("no balance")
	}

	cp := *b

	return &cp, nil
}

func (l *ledger) ListBalances(context.Context) ([]*branchbalance.Balance, error) { return nil, nil }

func (l *ledger) ListTransactions(_ context.Context, branchID uuid.UUID) ([]*branchbalance.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]*branchbalance.Transaction(nil), l.entries[branchID]...), nil
}

type ledgerTx struct {
	l        *ledger
	branchID uuid.UUID
	lock     *sync.Mutex
	pending  func()
	done     bool
}

func (t *ledgerTx) Current(ctx context.Context) (*branchbalance.Balance, error) {
	b, err := t.l.GetBalance(ctx, t.branchID)
	if apperr.IsNotFound(err) {
		return nil, nil
	}

	return b, err
}

func (t *ledgerTx) Save(_ context.Context, b *branchbalance.Balance, entry *branchbalance.Transaction) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	entry.ID = uuid.New()
	entry.BranchBalanceID = b.ID

	t.pending = func() {
		t.l.mu.Lock()
		defer t.l.mu.Unlock()

		cp := *b
		t.l.balances[t.branchID] = &cp
		t.l.entries[t.branchID] = append(t.l.entries[t.branchID], entry)
	}

	return nil
}

func (t *ledgerTx) Commit() error {
	if t.pending != nil {
		t.pending()
	}

	t.release()

	return nil
}

func (t *ledgerTx) Rollback() error {
	t.release()
	return nil
}

func (t *ledgerTx) release() {
	if !t.done {
		t.done = true
		t.lock.Unlock()
	}
}

type staticBranches map[uuid.UUID]*branch.Branch

func (s staticBranches) GetBranch(_ context.Context, id uuid.UUID) (*branch.Branch, error) {
	b, ok := s[id]
	if !ok {
		return nil, apperr.NotFound("branch not found")
	}

	return b, nil
}

func TestService_TopUp_BalanceConservation(t *testing.T) {
	br := &branch.Branch{ID: uuid.New(), Name: "Abuja"}
	repo := newLedger()
	svc := branchbalance.NewService(repo, staticBranches{br.ID: br})

	amounts := []string{"1000", "250.50", "0.01", "3000", "99.99", "12.34", "500", "7", "1.10", "42"}

	var wg sync.WaitGroup

	for _, a := range amounts {
		wg.Add(1)

		go func(a string) {
			defer wg.Done()

			_, err := svc.TopUp(context.Background(), branchbalance.TopUpParams{
				BranchID: br.ID, Amount: d(a), PerformedBy: uuid.New(),
			})
			assert.NoError(t, err)
		}(a)
	}

	wg.Wait()

	want := decimal.Zero
	for _, a := range amounts {
		want = want.Add(d(a))
	}

	bal, err := svc.Get(context.Background(), br.ID)
	require.NoError(t, err)
	assert.True(t, bal.CurrentBalance.Equal(want), "current %s, want %s", bal.CurrentBalance, want)

	history, err := svc.History(context.Background(), br.ID)
	require.NoError(t, err)
	require.Len(t, history, len(amounts))

	sum := decimal.Zero
	openings := 0

	for i, e := range history {
		sum = sum.Add(e.Amount)
		assert.True(t, e.BalanceAfter.Equal(e.BalanceBefore.Add(e.Amount)))

		if e.Type == branchbalance.TypeOpeningBalance {
			openings++
		}

		if i > 0 {
			assert.True(t, e.BalanceBefore.Equal(history[i-1].BalanceAfter), "entry %d does not chain", i)
		}
	}

	assert.Equal(t, 1, openings)
	assert.True(t, sum.Equal(bal.CurrentBalance))
}
