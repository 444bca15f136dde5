package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
)

// fakeTxManager serializes units of work with a mutex and marks the context,
// so nested calls reuse the outer "transaction" like the real manager does.
type fakeTxManager struct {
	mu sync.Mutex
}

type fakeTxKey struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, fakeTxKey{}, true))
}

type userPozKey struct {
	userID id.ID
	pozID  id.ID
}

// memLedgerRepo is an in-memory Repository for service tests.
type memLedgerRepo struct {
	mu      sync.Mutex
	central map[id.ID]CentralStock
	users   map[userPozKey]UserStock
	log     []MovementLogEntry
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{
		central: make(map[id.ID]CentralStock),
		users:   make(map[userPozKey]UserStock),
	}
}

func (r *memLedgerRepo) GetCentral(_ context.Context, pozID id.ID) (CentralStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.central[pozID]; ok {
		return record, nil
	}
	return CentralStock{PozID: pozID}, nil
}

func (r *memLedgerRepo) GetCentralForUpdate(ctx context.Context, pozID id.ID) (CentralStock, error) {
	return r.GetCentral(ctx, pozID)
}

func (r *memLedgerRepo) ApplyCentralDelta(_ context.Context, pozID id.ID, delta types.Quantity) (CentralStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record := r.central[pozID]
	record.PozID = pozID
	record.Quantity += delta
	r.central[pozID] = record
	return record, nil
}

func (r *memLedgerRepo) ListCentral(_ context.Context) ([]CentralStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CentralStock, 0, len(r.central))
	for _, record := range r.central {
		out = append(out, record)
	}
	return out, nil
}

func (r *memLedgerRepo) GetUserStock(_ context.Context, userID, pozID id.ID) (UserStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.users[userPozKey{userID, pozID}]; ok {
		return record, nil
	}
	return UserStock{UserID: userID, PozID: pozID}, nil
}

func (r *memLedgerRepo) GetUserStockForUpdate(ctx context.Context, userID, pozID id.ID) (UserStock, error) {
	return r.GetUserStock(ctx, userID, pozID)
}

func (r *memLedgerRepo) ApplyUserDelta(_ context.Context, userID, pozID id.ID, delta types.Quantity) (UserStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userPozKey{userID, pozID}
	record := r.users[key]
	record.UserID = userID
	record.PozID = pozID
	record.Quantity += delta
	r.users[key] = record
	return record, nil
}

func (r *memLedgerRepo) ListUserStock(_ context.Context, userID id.ID) ([]UserStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []UserStock
	for key, record := range r.users {
		if key.userID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) AppendLog(_ context.Context, entry MovementLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, entry)
	return nil
}

func (r *memLedgerRepo) ListLog(_ context.Context, filter LogFilter) ([]MovementLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []MovementLogEntry
	for _, entry := range r.log {
		if filter.TransactionType != nil && entry.TransactionType != *filter.TransactionType {
			continue
		}
		if filter.PozID != nil && entry.PozID != *filter.PozID {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func newTestService() (*Service, *memLedgerRepo) {
	repo := newMemLedgerRepo()
	return NewService(repo, &fakeTxManager{}), repo
}

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func TestReplenish_Accumulates(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	pozID := id.New()
	actor := id.New()

	updated, err := svc.Replenish(ctx, pozID, qty(10), actor)
	require.NoError(t, err)
	assert.Equal(t, qty(10), updated.Quantity)

	updated, err = svc.Replenish(ctx, pozID, qty(5.5), actor)
	require.NoError(t, err)
	assert.Equal(t, qty(15.5), updated.Quantity)

	assert.Len(t, repo.log, 2)
	assert.Equal(t, TransactionReplenish, repo.log[0].TransactionType)
}

func TestReplenish_NegativeCorrection(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	pozID := id.New()

	_, err := svc.Replenish(ctx, pozID, qty(10), id.New())
	require.NoError(t, err)

	updated, err := svc.Replenish(ctx, pozID, qty(-12), id.New())
	require.NoError(t, err)
	assert.Equal(t, qty(-2), updated.Quantity, "corrections may drive central stock negative")
}

func TestReplenish_ZeroRejected(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Replenish(context.Background(), id.New(), 0, id.New())
	require.Error(t, err)
	assert.Empty(t, repo.log)
}

func TestTransferToUser_MovesStockAndLogs(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	pozID := id.New()
	user := id.New()
	actor := id.New()

	_, err := svc.Replenish(ctx, pozID, qty(10), actor)
	require.NoError(t, err)

	updated, err := svc.TransferToUser(ctx, pozID, user, qty(4), actor, "https://cdn/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, qty(4), updated.Quantity)

	central, err := repo.GetCentral(ctx, pozID)
	require.NoError(t, err)
	assert.Equal(t, qty(6), central.Quantity)

	issueType := TransactionIssue
	entries, err := repo.ListLog(ctx, LogFilter{TransactionType: &issueType})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, user, *entries[0].UserID)
	assert.Equal(t, "https://cdn/doc.pdf", *entries[0].DocumentURL)
}

func TestTransferToUser_InsufficientStock_NoWrites(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	pozID := id.New()
	user := id.New()
	actor := id.New()

	_, err := svc.Replenish(ctx, pozID, qty(3), actor)
	require.NoError(t, err)

	_, err = svc.TransferToUser(ctx, pozID, user, qty(5), actor, "")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	central, _ := repo.GetCentral(ctx, pozID)
	assert.Equal(t, qty(3), central.Quantity, "central stock untouched")

	userStock, _ := repo.GetUserStock(ctx, user, pozID)
	assert.True(t, userStock.Quantity.IsZero(), "user stock untouched")

	issueType := TransactionIssue
	entries, _ := repo.ListLog(ctx, LogFilter{TransactionType: &issueType})
	assert.Empty(t, entries, "no log entry for a rejected transfer")
}

func TestTransferRefund_RoundTrip(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	pozID := id.New()
	user := id.New()
	actor := id.New()

	_, err := svc.Replenish(ctx, pozID, qty(10), actor)
	require.NoError(t, err)

	_, err = svc.TransferToUser(ctx, pozID, user, qty(4), actor, "")
	require.NoError(t, err)

	central, err := svc.RefundFromUser(ctx, user, pozID, qty(4), actor, "")
	require.NoError(t, err)
	assert.Equal(t, qty(10), central.Quantity, "round trip restores central stock")

	userStock, _ := repo.GetUserStock(ctx, user, pozID)
	assert.True(t, userStock.Quantity.IsZero())

	// One issue and one refund entry; the balance round trip does not erase history.
	assert.Len(t, repo.log, 3)
}

func TestRefundFromUser_InsufficientStock(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	pozID := id.New()
	user := id.New()

	_, err := svc.RefundFromUser(ctx, user, pozID, qty(1), id.New(), "")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestConsumeForProjectPoz_AllowsNegative_NoLog(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	pozID := id.New()
	user := id.New()

	require.NoError(t, svc.ConsumeForProjectPoz(ctx, user, pozID, qty(3)))

	userStock, _ := repo.GetUserStock(ctx, user, pozID)
	assert.Equal(t, qty(-3), userStock.Quantity, "consumption may requisition ahead of transfer")
	assert.Empty(t, repo.log, "project consumption is not a movement log event")

	require.NoError(t, svc.ReverseConsumeForProjectPoz(ctx, user, pozID, qty(3)))
	userStock, _ = repo.GetUserStock(ctx, user, pozID)
	assert.True(t, userStock.Quantity.IsZero())
}

func TestTransferToUser_ConcurrentRace_RejectsLoser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	pozID := id.New()
	actor := id.New()

	_, err := svc.Replenish(ctx, pozID, qty(5), actor)
	require.NoError(t, err)

	users := []id.ID{id.New(), id.New()}
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, user := range users {
		wg.Add(1)
		go func(i int, user id.ID) {
			defer wg.Done()
			_, errs[i] = svc.TransferToUser(ctx, pozID, user, qty(4), actor, "")
		}(i, user)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsInsufficientStock(err))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent transfer wins")

	central, _ := repo.GetCentral(ctx, pozID)
	assert.Equal(t, qty(1), central.Quantity, "never over-issued")
}

func TestGetMovementLog_LimitDefaults(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	entries, err := svc.GetMovementLog(ctx, LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	_ = repo
}
