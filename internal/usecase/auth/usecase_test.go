package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/pkg/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, name, email, hash string) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.byEmail[email]; ok {
		return nil, entity.ErrEmailTaken
	}
	u := &entity.User{ID: "u" + strconv.Itoa(len(r.byEmail)+1), Name: name, Email: email, PasswordHash: hash}
	r.byEmail[email] = u
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func newTestUsecase(repo *fakeUserRepo) *AuthUsecase {
	uc := NewUsecase(repo, NewTokenManager("test-secret", time.Hour), validator.NewValidator(config.FileUploadConfig{}))
	uc.hashCost = bcrypt.MinCost
	return uc
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	res, err := uc.Register(ctx, &entity.RegisterRequest{Name: " Ann ", Email: " Ann@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", res.User.Name)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)

	userID, err := uc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	login, err := uc.Login(ctx, &entity.LoginRequest{Email: "ANN@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	me, err := uc.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", me.Email)
}

func TestRegisterErrors(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUsecase(repo)
	ctx := context.Background()

	_, err := uc.Register(ctx, &entity.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, &entity.RegisterRequest{Name: "Ann", Email: "ANN@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, entity.ErrEmailTaken)

	_, err = uc.Register(ctx, &entity.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "123"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	repo.err = errors.New("db down")
	_, err = uc.Register(ctx, &entity.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "secret1"})
	assert.EqualError(t, err, "db down")
}

func TestLoginInvalidCredentials(t *testing.T) {
	uc := newTestUsecase(newFakeUserRepo())
	ctx := context.Background()

	_, err := uc.Register(ctx, &entity.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, &entity.LoginRequest{Email: "ann@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &entity.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &entity.LoginRequest{Email: "ann@example.com"})
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestTokenManager(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", 7*24*time.Hour)
	m.now = func() time.Time { return now }

	token, err := m.Generate("user-1")
	require.NoError(t, err)

	sub, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return now.Add(8 * 24 * time.Hour) }
		defer func() { m.now = func() time.Time { return now } }()
		_, err := m.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other", time.Hour)
		other.now = m.now
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("unsigned token", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "x"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(none)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		uc := newTestUsecase(newFakeUserRepo())
		_, err := uc.Authenticate("not-a-token")
		assert.ErrorIs(t, err, entity.ErrUnauthorized)
	})
}
