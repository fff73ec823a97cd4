package session

import (
	"encoding/base64"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/normanking/oficina/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetGlobal(logging.Discard())
	os.Exit(m.Run())
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := Claims{
		ID:    7,
		Nome:  "Maria Souza",
		Role:  "ADMIN",
		Email: "maria@oficina.local",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "maria@oficina.local",
			IssuedAt:  jwt.NewNumericDate(fixedNow.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newManager(store TokenStore) *Manager {
	return NewManager(store, WithClock(func() time.Time { return fixedNow }), WithClockSkew(30*time.Second))
}

func TestDecode(t *testing.T) {
	claims, err := Decode(signed(t, fixedNow.Add(time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, 7, claims.ID)
	assert.Equal(t, "Maria Souza", claims.Nome)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "maria@oficina.local", claims.Subject)
	assert.Equal(t, "Maria Souza", claims.DisplayName())
}

func TestDecodeMalformed(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))

	for _, token := range []string{"", "abc", "a.b", header + "." + payload + ".sig"} {
		_, err := Decode(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", token)
	}
}

func TestExpiredAt(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(fixedNow)}}

	assert.False(t, c.ExpiredAt(fixedNow.Add(10*time.Second), 30*time.Second))
	assert.True(t, c.ExpiredAt(fixedNow.Add(time.Minute), 30*time.Second))
	assert.False(t, (&Claims{}).ExpiredAt(fixedNow, 0), "no exp never expires")
}

func TestLoginLogout(t *testing.T) {
	store := &MemoryStore{}
	m := newManager(store)
	token := signed(t, fixedNow.Add(time.Hour))

	require.NoError(t, m.Login(token))
	user, ok := m.User()
	require.True(t, ok)
	assert.Equal(t, "Maria Souza", user.Nome)
	assert.Equal(t, token, m.Token())
	assert.True(t, m.Valid(fixedNow))

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	require.NoError(t, m.Logout())
	_, ok = m.User()
	assert.False(t, ok)
	assert.Empty(t, m.Token())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoginRejects(t *testing.T) {
	m := newManager(&MemoryStore{})

	assert.ErrorIs(t, m.Login("garbage"), ErrMalformedToken)
	assert.ErrorIs(t, m.Login(signed(t, fixedNow.Add(-time.Hour))), ErrExpired)
	assert.Empty(t, m.Token())
}

func TestRestore(t *testing.T) {
	store := &MemoryStore{}
	token := signed(t, fixedNow.Add(time.Hour))
	require.NoError(t, store.Save(token))

	m := newManager(store)
	assert.True(t, m.IsLoading())

	require.NoError(t, m.Restore())
	assert.False(t, m.IsLoading())
	assert.Equal(t, token, m.Token())
}

func TestRestoreEmpty(t *testing.T) {
	m := newManager(&MemoryStore{})
	require.NoError(t, m.Restore())
	assert.False(t, m.IsLoading())
	assert.Empty(t, m.Token())
}

func TestRestoreDiscardsBadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"undecodable", "not-a-token"},
		{"expired", signed(t, fixedNow.Add(-time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MemoryStore{}
			require.NoError(t, store.Save(tt.token))

			m := newManager(store)
			require.NoError(t, m.Restore())
			assert.Empty(t, m.Token())

			_, err := store.Load()
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("oficina-test", "auth-token")

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save("tok"))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is fine")
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}
