package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

type memUserRepo struct {
	byID    map[int]*entity.User
	byEmail map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{byID: make(map[int]*entity.User), byEmail: make(map[string]*entity.User)}
	for _, u := range users {
		r.byID[u.ID] = u
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	user.ID = len(r.byID) + 1
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *memUserRepo) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) UpdateUser(ctx context.Context, user *entity.User) error { return nil }

func (r *memUserRepo) ListUsers(ctx context.Context, pendingSellersOnly bool) ([]entity.User, error) {
	return nil, nil
}

func hashedUser(t *testing.T, id int, email, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{ID: id, Email: email, PasswordHash: string(hash), Role: entity.RoleBuyer}
}

// Login opens a session, logout closes it: a logged-out token is rejected
// before its JWT expiry.
func TestSessionLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	user := hashedUser(t, 1, "buyer@example.com", "password123")
	svc := NewUserService(newMemUserRepo(user), nil, nil, rdb, []byte("secret"))
	ctx := context.Background()

	token, err := svc.Login(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, svc.ValidateSession(ctx, "buyer@example.com", token))

	// a stale token from a previous login is not the live session
	assert.ErrorIs(t, svc.ValidateSession(ctx, "buyer@example.com", "not-the-token"), ErrSessionRevoked)

	require.NoError(t, svc.Logout(ctx, user))
	assert.ErrorIs(t, svc.ValidateSession(ctx, "buyer@example.com", token), ErrSessionRevoked)

	// logging back in opens a fresh session
	token2, err := svc.Login(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)
	assert.NoError(t, svc.ValidateSession(ctx, "buyer@example.com", token2))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	user := hashedUser(t, 1, "buyer@example.com", "password123")
	svc := NewUserService(newMemUserRepo(user), nil, nil, nil, []byte("secret"))
	ctx := context.Background()

	_, err := svc.Login(ctx, "buyer@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// Without a session store every token is accepted until expiry.
func TestValidateSessionWithoutStore(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), nil, nil, nil, []byte("secret"))
	assert.NoError(t, svc.ValidateSession(context.Background(), "any@example.com", "any-token"))
}
