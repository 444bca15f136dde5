package auth

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
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

// memUserRepo is an in-memory Repository for service tests.
type memUserRepo struct {
	users map[id.ID]User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[id.ID]User)}
}

func (r *memUserRepo) Create(_ context.Context, user *User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperror.NewDuplicate("user", "email", user.Email)
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	if user, ok := r.users[userID]; ok {
		copied := user
		return &copied, nil
	}
	return nil, apperror.NewNotFound("user", userID)
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *memUserRepo) Update(_ context.Context, user *User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperror.NewNotFound("user", user.ID)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) List(_ context.Context) ([]User, error) {
	var out []User
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func newTestService() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService, &fakeTxManager{}), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Usta@Santiye.Local", "parola-1234", "Ahmet Usta", UserTypeField)
	require.NoError(t, err)
	assert.Equal(t, "usta@santiye.local", user.Email, "email normalized on create")
	assert.True(t, user.IsActive)

	result, err := svc.Login(ctx, "usta@santiye.local", "parola-1234")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotNil(t, result.User.LastLoginAt)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ofis@santiye.local", "parola-1234", "Ofis", UserTypeOffice)
	require.NoError(t, err)

	_, wrongPassErr := svc.Login(ctx, "ofis@santiye.local", "yanlış-parola")
	_, unknownErr := svc.Login(ctx, "yok@santiye.local", "parola-1234")

	require.Error(t, wrongPassErr)
	require.Error(t, unknownErr)
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error(), "credential errors must not reveal which part failed")
}

func TestLogin_DisabledAccountRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "eski@santiye.local", "parola-1234", "Eski Çalışan", UserTypeField)
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, user.ID, false)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "eski@santiye.local", "parola-1234")
	require.Error(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "taseron@santiye.local", "parola-1234", "Taşeron A", UserTypeContractor)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "TASERON@santiye.local", "parola-5678", "Taşeron B", UserTypeContractor)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Register(context.Background(), "kisa@santiye.local", "1234567", "Kısa", UserTypeField)
	require.Error(t, err)
	assert.Empty(t, repo.users)
}

func TestResolveActiveUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "aktif@santiye.local", "parola-1234", "Aktif", UserTypeOffice)
	require.NoError(t, err)

	resolved, err := svc.ResolveActiveUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.SetActive(ctx, user.ID, false)
	require.NoError(t, err)

	_, err = svc.ResolveActiveUser(ctx, user.ID)
	require.Error(t, err)

	_, err = svc.ResolveActiveUser(ctx, id.New())
	require.Error(t, err)
}

func TestJWT_RoundTrip(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	user := NewUser("admin@santiye.local", "hash", "Admin", UserTypeAdmin)

	token, expiresAt, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	identity, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "admin@santiye.local", identity.Email)
	assert.Equal(t, string(UserTypeAdmin), identity.UserType)
	assert.True(t, identity.IsAdmin)

	// A token signed with another secret does not validate.
	other := NewJWTService(DefaultJWTConfig("other-secret"))
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
