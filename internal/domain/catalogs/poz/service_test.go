package poz

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santiye/internal/core/apperror"
	appctx "santiye/internal/core/context"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
	"santiye/internal/domain/audit"
)

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

// memPozRepo keys items by ID and enforces code uniqueness like the table does.
type memPozRepo struct {
	items     map[id.ID]Poz
	overrides map[id.ID]types.Money // pozID -> contractor override price
}

func newMemPozRepo() *memPozRepo {
	return &memPozRepo{
		items:     make(map[id.ID]Poz),
		overrides: make(map[id.ID]types.Money),
	}
}

func (r *memPozRepo) GetByID(_ context.Context, pozID id.ID) (*Poz, error) {
	if item, ok := r.items[pozID]; ok {
		copied := item
		return &copied, nil
	}
	return nil, apperror.NewNotFound("poz", pozID)
}

func (r *memPozRepo) GetByCode(_ context.Context, code string) (*Poz, error) {
	for _, item := range r.items {
		if item.Code == code {
			copied := item
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("poz", code)
}

func (r *memPozRepo) Create(_ context.Context, item *Poz) error {
	for _, existing := range r.items {
		if existing.Code == item.Code {
			return apperror.NewDuplicate("poz", "code", item.Code)
		}
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memPozRepo) Update(_ context.Context, item *Poz) error {
	if _, ok := r.items[item.ID]; !ok {
		return apperror.NewNotFound("poz", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memPozRepo) Delete(_ context.Context, pozID id.ID) error {
	if _, ok := r.items[pozID]; !ok {
		return apperror.NewNotFound("poz", pozID)
	}
	delete(r.items, pozID)
	return nil
}

func (r *memPozRepo) List(_ context.Context) ([]Poz, error) {
	var out []Poz
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *memPozRepo) ListWithContractorPrices(_ context.Context, _ id.ID) ([]ListedPoz, error) {
	var out []ListedPoz
	for _, item := range r.items {
		effective := item.Price
		if override, ok := r.overrides[item.ID]; ok {
			effective = override
		}
		out = append(out, ListedPoz{Poz: item, EffectivePrice: effective})
	}
	return out, nil
}

func newTestService() (*Service, *memPozRepo) {
	repo := newMemPozRepo()
	return NewService(repo, &fakeTxManager{}, audit.Noop{}), repo
}

func TestUpsert_CreatesThenUpdatesByCode(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertInput{
		Code: "18.185/01", Name: "PPRC boru", Unit: "m", PriceType: "M",
		Price: types.MustMoney("42.50"),
	})
	require.NoError(t, err)
	assert.Len(t, repo.items, 1)

	updated, err := svc.Upsert(ctx, UpsertInput{
		Code: "18.185/01", Name: "PPRC boru Ø25", Unit: "m", PriceType: "M",
		Price: types.MustMoney("55"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID, "update keeps the identity")
	assert.Len(t, repo.items, 1, "no second row for the same code")
	assert.Equal(t, "PPRC boru Ø25", updated.Name)
	assert.True(t, updated.Price.Equal(types.MustMoney("55")))
}

func TestUpsert_TrimsCode(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Upsert(context.Background(), UpsertInput{
		Code: "  071.101 ", Name: "Küresel vana", Unit: "adet", PriceType: "M",
		Price: types.MustMoney("120"),
	})
	require.NoError(t, err)
	assert.Equal(t, "071.101", created.Code)
}

func TestUpsert_RejectsInvalid(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{Code: "", Name: "adsız", Unit: "m"})
	require.Error(t, err)

	_, err = svc.Upsert(ctx, UpsertInput{
		Code: "X", Name: "negatif", Unit: "m", Price: types.MustMoney("-1"),
	})
	require.Error(t, err)

	assert.Empty(t, repo.items)
}

func TestBulkUpsert_AllOrNothingSemantics(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	count, err := svc.BulkUpsert(ctx, []UpsertInput{
		{Code: "A.1", Name: "bir", Unit: "m", PriceType: "M", Price: types.MustMoney("10")},
		{Code: "A.2", Name: "iki", Unit: "m", PriceType: "L", Price: types.MustMoney("20")},
		{Code: "A.1", Name: "bir v2", Unit: "m", PriceType: "M", Price: types.MustMoney("15")},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count, "re-occurrence of a code counts as an upsert, not an error")

	item, err := svc.GetByCode(ctx, "A.1")
	require.NoError(t, err)
	assert.Equal(t, "bir v2", item.Name)
}

func TestBulkUpsert_EmptyRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BulkUpsert(context.Background(), nil)
	require.Error(t, err)
}

func TestDelete_MissingPoz(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Delete(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_ContractorSeesOverridePrice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	item, err := svc.Upsert(ctx, UpsertInput{
		Code: "B.1", Name: "boru", Unit: "m", PriceType: "M", Price: types.MustMoney("100"),
	})
	require.NoError(t, err)
	repo.overrides[item.ID] = types.MustMoney("80")

	contractorID := id.New()
	contractorCtx := appctx.WithUser(ctx, &appctx.UserContext{
		UserID:   contractorID,
		UserType: "contractor",
	})

	listed, err := svc.List(contractorCtx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].EffectivePrice.Equal(types.MustMoney("80")))

	// Office staff keep seeing the baseline price.
	listed, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].EffectivePrice.Equal(types.MustMoney("100")))
}
