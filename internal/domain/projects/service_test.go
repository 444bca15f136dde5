package projects

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
	"santiye/internal/domain/audit"
	"santiye/internal/domain/catalogs/contractorprice"
	"santiye/internal/domain/catalogs/poz"
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

// memProjectRepo is an in-memory Repository for service tests.
type memProjectRepo struct {
	projects    map[id.ID]Project
	assignments map[id.ID]Assignment
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{
		projects:    make(map[id.ID]Project),
		assignments: make(map[id.ID]Assignment),
	}
}

func (r *memProjectRepo) Create(_ context.Context, p *Project) error {
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, projectID id.ID) (*Project, error) {
	if p, ok := r.projects[projectID]; ok {
		copied := p
		return &copied, nil
	}
	return nil, apperror.NewNotFound("project", projectID)
}

func (r *memProjectRepo) GetForUpdate(ctx context.Context, projectID id.ID) (*Project, error) {
	return r.GetByID(ctx, projectID)
}

func (r *memProjectRepo) Update(_ context.Context, p *Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return apperror.NewNotFound("project", p.ID)
	}
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, projectID id.ID) error {
	if _, ok := r.projects[projectID]; !ok {
		return apperror.NewNotFound("project", projectID)
	}
	delete(r.projects, projectID)
	return nil
}

func (r *memProjectRepo) List(_ context.Context, filter ListFilter) ([]Project, error) {
	var out []Project
	for _, p := range r.projects {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memProjectRepo) CreateAssignment(_ context.Context, a *Assignment) error {
	r.assignments[a.ID] = *a
	return nil
}

func (r *memProjectRepo) GetAssignment(_ context.Context, assignmentID id.ID) (*Assignment, error) {
	if a, ok := r.assignments[assignmentID]; ok {
		copied := a
		return &copied, nil
	}
	return nil, apperror.NewNotFound("assignment", assignmentID)
}

func (r *memProjectRepo) DeleteAssignment(_ context.Context, assignmentID id.ID) error {
	if _, ok := r.assignments[assignmentID]; !ok {
		return apperror.NewNotFound("assignment", assignmentID)
	}
	delete(r.assignments, assignmentID)
	return nil
}

func (r *memProjectRepo) ListAssignments(_ context.Context, projectID id.ID) ([]Assignment, error) {
	var out []Assignment
	for _, a := range r.assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

// memPozRepo holds catalog items by ID.
type memPozRepo struct {
	items map[id.ID]poz.Poz
}

func (r *memPozRepo) GetByID(_ context.Context, pozID id.ID) (*poz.Poz, error) {
	if item, ok := r.items[pozID]; ok {
		copied := item
		return &copied, nil
	}
	return nil, apperror.NewNotFound("poz", pozID)
}

func (r *memPozRepo) GetByCode(_ context.Context, code string) (*poz.Poz, error) {
	for _, item := range r.items {
		if item.Code == code {
			copied := item
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("poz", code)
}

func (r *memPozRepo) Create(_ context.Context, item *poz.Poz) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memPozRepo) Update(_ context.Context, item *poz.Poz) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memPozRepo) Delete(_ context.Context, pozID id.ID) error {
	delete(r.items, pozID)
	return nil
}

func (r *memPozRepo) List(_ context.Context) ([]poz.Poz, error) {
	var out []poz.Poz
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *memPozRepo) ListWithContractorPrices(_ context.Context, _ id.ID) ([]poz.ListedPoz, error) {
	return nil, nil
}

// memPriceRepo holds contractor overrides keyed by (contractor, poz).
type memPriceRepo struct {
	prices map[[2]id.ID]contractorprice.ContractorPrice
}

func (r *memPriceRepo) Upsert(_ context.Context, p *contractorprice.ContractorPrice) (*contractorprice.ContractorPrice, error) {
	r.prices[[2]id.ID{p.ContractorID, p.PozID}] = *p
	return p, nil
}

func (r *memPriceRepo) Get(_ context.Context, contractorID, pozID id.ID) (*contractorprice.ContractorPrice, error) {
	if p, ok := r.prices[[2]id.ID{contractorID, pozID}]; ok {
		copied := p
		return &copied, nil
	}
	return nil, apperror.NewNotFound("contractor price", pozID)
}

func (r *memPriceRepo) ListByContractor(_ context.Context, _ id.ID) ([]contractorprice.ContractorPrice, error) {
	return nil, nil
}

// stockSpy records consume/reverse calls.
type stockSpy struct {
	consumed []stockCall
	reversed []stockCall
}

type stockCall struct {
	userID id.ID
	pozID  id.ID
	amount types.Quantity
}

func (s *stockSpy) ConsumeForProjectPoz(_ context.Context, userID, pozID id.ID, amount types.Quantity) error {
	s.consumed = append(s.consumed, stockCall{userID, pozID, amount})
	return nil
}

func (s *stockSpy) ReverseConsumeForProjectPoz(_ context.Context, userID, pozID id.ID, amount types.Quantity) error {
	s.reversed = append(s.reversed, stockCall{userID, pozID, amount})
	return nil
}

type testEnv struct {
	svc     *Service
	repo    *memProjectRepo
	pozRepo *memPozRepo
	prices  *memPriceRepo
	stock   *stockSpy
}

func newTestEnv() *testEnv {
	repo := newMemProjectRepo()
	pozRepo := &memPozRepo{items: make(map[id.ID]poz.Poz)}
	prices := &memPriceRepo{prices: make(map[[2]id.ID]contractorprice.ContractorPrice)}
	stock := &stockSpy{}
	svc := NewService(repo, pozRepo, prices, stock, &fakeTxManager{}, audit.Noop{})
	return &testEnv{svc: svc, repo: repo, pozRepo: pozRepo, prices: prices, stock: stock}
}

func (e *testEnv) addPozItem(priceType string, price string) *poz.Poz {
	item := poz.NewPoz("18.185/01", "PPRC boru", "m", priceType, types.MustMoney(price))
	e.pozRepo.items[item.ID] = *item
	return item
}

func (e *testEnv) addProject(t *testing.T, contractorID *id.ID) *Project {
	t.Helper()
	project := NewProject("PRJ-1", "Villa tesisatı", id.New())
	project.ContractorID = contractorID
	require.NoError(t, e.svc.Create(context.Background(), project))
	return project
}

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func TestAddPoz_UpdatesTotalsWithContractorOverride(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	contractorID := id.New()
	item := env.addPozItem("M", "100")
	override := contractorprice.NewContractorPrice(contractorID, item.ID, types.MustMoney("80"))
	env.prices.prices[[2]id.ID{contractorID, item.ID}] = *override

	project := env.addProject(t, &contractorID)
	actor := id.New()

	assignment, err := env.svc.AddPoz(ctx, project.ID, item.ID, qty(4), actor)
	require.NoError(t, err)

	assert.True(t, assignment.Price.Equal(types.MustMoney("100")))
	assert.True(t, assignment.ContractorPrice.Equal(types.MustMoney("80")), "override price snapshotted")

	stored, err := env.repo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPrice.Equal(types.MustMoney("400")), "got %s", stored.TotalPrice)
	assert.True(t, stored.TotalContractorPrice.Equal(types.MustMoney("320")), "got %s", stored.TotalContractorPrice)
}

func TestAddPoz_NoContractor_FallsBackToBaseline(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	item := env.addPozItem("M", "100")
	project := env.addProject(t, nil)

	assignment, err := env.svc.AddPoz(ctx, project.ID, item.ID, qty(2), id.New())
	require.NoError(t, err)
	assert.True(t, assignment.ContractorPrice.Equal(types.MustMoney("100")))
}

func TestAddPoz_MaterialConsumesActorStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	item := env.addPozItem("M", "50")
	project := env.addProject(t, nil)
	actor := id.New()

	_, err := env.svc.AddPoz(ctx, project.ID, item.ID, qty(3), actor)
	require.NoError(t, err)

	require.Len(t, env.stock.consumed, 1)
	assert.Equal(t, actor, env.stock.consumed[0].userID)
	assert.Equal(t, item.ID, env.stock.consumed[0].pozID)
	assert.Equal(t, qty(3), env.stock.consumed[0].amount)
}

func TestAddPoz_LaborDoesNotTouchStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	item := env.addPozItem("L", "50")
	project := env.addProject(t, nil)

	_, err := env.svc.AddPoz(ctx, project.ID, item.ID, qty(3), id.New())
	require.NoError(t, err)
	assert.Empty(t, env.stock.consumed)
}

func TestRemovePoz_ReversesTotalsAndStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	item := env.addPozItem("M", "100")
	project := env.addProject(t, nil)
	actor := id.New()

	assignment, err := env.svc.AddPoz(ctx, project.ID, item.ID, qty(4), actor)
	require.NoError(t, err)

	require.NoError(t, env.svc.RemovePoz(ctx, assignment.ID))

	stored, err := env.repo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPrice.IsZero(), "got %s", stored.TotalPrice)
	assert.True(t, stored.TotalContractorPrice.IsZero())

	require.Len(t, env.stock.reversed, 1)
	assert.Equal(t, actor, env.stock.reversed[0].userID, "reversal credits the assignment creator")
	assert.Equal(t, qty(4), env.stock.reversed[0].amount)

	_, err = env.repo.GetAssignment(ctx, assignment.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_RejectsProjectWithAssignments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	item := env.addPozItem("L", "10")
	project := env.addProject(t, nil)

	_, err := env.svc.AddPoz(ctx, project.ID, item.ID, qty(1), id.New())
	require.NoError(t, err)

	err = env.svc.Delete(ctx, project.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestSetStatus_ValidatesWorkflowState(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	project := env.addProject(t, nil)

	updated, err := env.svc.SetStatus(ctx, project.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	_, err = env.svc.SetStatus(ctx, project.ID, Status("Bilinmeyen"))
	require.Error(t, err)
}

func TestAddPoz_RejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.AddPoz(context.Background(), id.New(), id.New(), qty(0), id.New())
	require.Error(t, err)
}
