package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroverse/errx"
	"agroverse/globals"
	"agroverse/models"
)

func signed(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: "asha",
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("k", "v"))
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Remove("k"))
	_, err = s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorePlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s, err := NewFileStore(path, "")
	require.NoError(t, err)

	require.NoError(t, s.Set(globals.TokenKey, "abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := NewFileStore(path, "")
	require.NoError(t, err)
	v, err := again.Get(globals.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestFileStoreSealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s, err := NewFileStore(path, "correct horse")
	require.NoError(t, err)
	require.NoError(t, s.Set(globals.TokenKey, "secret-token"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	v, err := s.Get(globals.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", v)

	wrong, err := NewFileStore(path, "battery staple")
	require.NoError(t, err)
	_, err = wrong.Get(globals.TokenKey)
	assert.Error(t, err)
}

func TestFileStoreSealedDerivesKeyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s, err := NewFileStore(path, "correct horse")
	require.NoError(t, err)
	require.NoError(t, s.Set(globals.TokenKey, "t1"))

	session := NewSession(s, "user1")
	for range 3 {
		assert.Equal(t, "t1", session.Token())
		assert.Equal(t, "user1", session.UserID())
	}
	require.NoError(t, s.Set(globals.TokenKey, "t2"))
	assert.Equal(t, 1, s.derivations)

	reopened, err := NewFileStore(path, "correct horse")
	require.NoError(t, err)
	v, err := reopened.Get(globals.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "t2", v)
	require.NoError(t, reopened.Remove(globals.TokenKey))
	assert.Equal(t, 1, reopened.derivations)
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(NewMemoryStore(), "user1")
	assert.False(t, s.Authenticated())
	assert.Equal(t, "user1", s.UserID())

	require.NoError(t, s.Begin(signed(t, "u42", time.Now().Add(time.Hour))))
	assert.True(t, s.Authenticated())
	assert.Equal(t, "u42", s.UserID())
	assert.Equal(t, "asha", s.Username())

	require.NoError(t, s.Logout())
	assert.False(t, s.Authenticated())
	assert.Error(t, s.Begin(""))
}

func TestSessionOpaqueToken(t *testing.T) {
	s := NewSession(NewMemoryStore(), "user1")
	require.NoError(t, s.Begin("not-a-jwt"))
	assert.Equal(t, "not-a-jwt", s.Token())
	assert.Equal(t, "user1", s.UserID())
}

func TestSessionExpiredTokenInvalidates(t *testing.T) {
	store := NewMemoryStore()
	s := NewSession(store, "user1")
	var reasons []string
	s.OnInvalidate(func(reason string) { reasons = append(reasons, reason) })

	require.NoError(t, s.Begin(signed(t, "u42", time.Now().Add(-time.Minute))))
	assert.Empty(t, s.Token())
	assert.Equal(t, []string{"token expired"}, reasons)

	_, err := store.Get(globals.TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidateNotifies(t *testing.T) {
	s := NewSession(NewMemoryStore(), "")
	require.NoError(t, s.Begin("tok"))
	called := 0
	s.OnInvalidate(func(string) { called++ })

	s.Invalidate("unauthorized")
	assert.Equal(t, 1, called)
	assert.False(t, s.Authenticated())

	require.NoError(t, s.Begin("tok"))
	require.NoError(t, s.Logout())
	assert.Equal(t, 1, called)
}

type fakeBackend struct {
	calls int
	resp  models.AuthResponse
	err   error
}

func (f *fakeBackend) Login(_ context.Context, _ models.Credentials) (models.AuthResponse, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeBackend) Register(_ context.Context, _ models.Registration) (models.AuthResponse, error) {
	f.calls++
	return f.resp, f.err
}

func TestLoginValid(t *testing.T) {
	s := NewSession(NewMemoryStore(), "")
	b := &fakeBackend{resp: models.AuthResponse{Token: "tok-1"}}

	require.NoError(t, Login(context.Background(), b, s, models.Credentials{Email: "a@b.in", Password: "pw"}))
	assert.Equal(t, "tok-1", s.Token())
}

func TestLoginInvalid(t *testing.T) {
	s := NewSession(NewMemoryStore(), "")
	b := &fakeBackend{err: errx.Transport(401, "Invalid credentials", nil)}

	err := Login(context.Background(), b, s, models.Credentials{Email: "a@b.in", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", errx.Message(err))
	assert.False(t, s.Authenticated())
}

func TestLoginRequiresFields(t *testing.T) {
	s := NewSession(NewMemoryStore(), "")
	b := &fakeBackend{}

	err := Login(context.Background(), b, s, models.Credentials{Email: "  "})
	assert.True(t, errors.Is(err, errx.ErrValidation))
	assert.Zero(t, b.calls)
}

func TestLoginWithoutToken(t *testing.T) {
	s := NewSession(NewMemoryStore(), "")
	b := &fakeBackend{resp: models.AuthResponse{Error: "Account locked"}}

	err := Login(context.Background(), b, s, models.Credentials{Email: "a@b.in", Password: "pw"})
	assert.True(t, errors.Is(err, errx.ErrTransport))
	assert.Equal(t, "Account locked", errx.Message(err))
	assert.False(t, s.Authenticated())
}

func TestRegister(t *testing.T) {
	s := NewSession(NewMemoryStore(), "")
	b := &fakeBackend{resp: models.AuthResponse{Message: "Registered"}}

	_, err := Register(context.Background(), b, s, models.Registration{Email: "a@b.in", Password: "pw"})
	assert.True(t, errors.Is(err, errx.ErrValidation))
	assert.Zero(t, b.calls)

	msg, err := Register(context.Background(), b, s, models.Registration{Email: "a@b.in", Password: "pw", Name: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "Registered", msg)
	assert.False(t, s.Authenticated())

	b.resp.Token = "tok-2"
	_, err = Register(context.Background(), b, s, models.Registration{Email: "a@b.in", Password: "pw", Name: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "tok-2", s.Token())
}
