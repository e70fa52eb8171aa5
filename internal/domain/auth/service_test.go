package auth

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())

	view, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "User@Example.com",
		Password: "pass1234",
		Name:     "  Asha   Rao ",
	})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", view.Email)
	require.Equal(t, "Asha Rao", view.Name)
	require.NotEmpty(t, view.ID)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, view.Email, resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID, claims.UserID)
	require.Equal(t, view.Email, claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken), "refresh tokens cannot authenticate requests")

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, resp.User.Email, refreshed.User.Email)
	require.Equal(t, "Asha Rao", refreshed.User.Name)

	_, err = svc.Refresh(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	profile, err := svc.Profile(context.Background(), view.ID)
	require.NoError(t, err)
	require.Equal(t, view.Email, profile.Email)

	_, err = svc.Profile(context.Background(), "missing")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestService_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{Secret: "test-secret"}, repo, newTestLogger())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass1234",
		Name:     "First",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass12345",
		Name:     "Second",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmailExists))
	require.Contains(t, err.Error(), "already registered")
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret"}, newMemoryRepo(), newTestLogger())
	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.io", Password: "pass1234", Name: "Ana"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@b.io", Password: "wrong-pass"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@b.io", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestService_RegisterValidation(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret"}, newMemoryRepo(), newTestLogger())
	cases := []RegisterRequest{
		{Email: "", Password: "pass1234", Name: "Ana"},
		{Email: "a@b.io", Password: "short", Name: "Ana"},
		{Email: "a@b.io", Password: "pass1234", Name: "   "},
		{Email: "a@b.io", Password: "pass1234", Name: "<script>"},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "%+v", req)
	}
}

func TestService_ExpiredAndForeignTokens(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{Secret: "test-secret"}, repo, newTestLogger()).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.io", Password: "pass1234", Name: "Ana"})
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.io", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken), "access token expired an hour ago")

	other := NewService(Config{Secret: "other-secret"}, repo, newTestLogger())
	fresh, err := other.Login(context.Background(), LoginRequest{Email: "a@b.io", Password: "pass1234"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), fresh.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = svc.ValidateToken(context.Background(), "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[string]User
	seq   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]User)}
}

func (m *memoryRepo) Create(_ context.Context, email, name, passwordHash string) (User, error) {
	m.seq++
	user := User{
		ID:           "user-" + strconv.Itoa(m.seq),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}
