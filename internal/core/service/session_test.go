package service

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/storage/local"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	s := NewSessionStore(local.NewMemoryStore(), nil)

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Session())

	require.NoError(t, s.SetToken("abc"))
	token, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, &domain.Session{Token: "abc"}, s.Session())

	require.NoError(t, s.SetToken("def"))
	token, _ = s.Token()
	assert.Equal(t, "def", token, "SetToken overwrites")

	require.NoError(t, s.ClearToken())
	assert.False(t, s.IsAuthenticated())
	require.NoError(t, s.ClearToken(), "ClearToken is idempotent")
}

func TestSessionStore_EmptyTokenIsUnauthenticated(t *testing.T) {
	s := NewSessionStore(local.NewMemoryStore(), nil)
	require.NoError(t, s.SetToken(""))
	assert.False(t, s.IsAuthenticated())
}

func TestSessionStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	first := NewSessionStore(local.NewFileStore(path), nil)
	require.NoError(t, first.SetToken("persisted"))

	second := NewSessionStore(local.NewFileStore(path), nil)
	token, ok := second.Token()
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStore) Set(string, string) error         { return errors.New("disk gone") }
func (failingStore) Delete(string) error              { return errors.New("disk gone") }

func TestSessionStore_BackendErrors(t *testing.T) {
	s := NewSessionStore(failingStore{}, nil)

	assert.False(t, s.IsAuthenticated(), "unreadable store counts as absent")
	assert.ErrorIs(t, s.SetToken("x"), domain.ErrStorage)
	assert.ErrorIs(t, s.ClearToken(), domain.ErrStorage)
}

func TestSessionStore_ConcurrentReaders(t *testing.T) {
	s := NewSessionStore(local.NewMemoryStore(), nil)
	require.NoError(t, s.SetToken("abc"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, s.IsAuthenticated())
		}()
	}
	wg.Wait()
}
