package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// все реализации Store обязаны вести себя одинаково
func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
		},
		"sqlite": newSQLiteStore,
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Empty())

			want := Session{AuthToken: "token_u1_1", UserID: "u1", UserName: "Ann"}
			require.NoError(t, s.Save(ctx, want))

			got, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			next := Session{AuthToken: "token_u2_2", UserID: "u2", UserName: "Bob"}
			require.NoError(t, s.Save(ctx, next))
			got, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, next, got)

			require.NoError(t, s.Clear(ctx))
			got, err = s.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Empty())

			// clearing twice is harmless
			require.NoError(t, s.Clear(ctx))
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, NewFileStore(path).Save(ctx, Session{AuthToken: "t", UserID: "u", UserName: "n"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := NewFileStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u", got.UserID)
}

// separate instances stand in for separate client processes sharing a file
func TestFileStore_ConcurrentWritersSharingFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	a, b := NewFileStore(path), NewFileStore(path)
	sa := Session{AuthToken: "token_a_1", UserID: "a", UserName: "A"}
	sb := Session{AuthToken: "token_b_1", UserID: "b", UserName: "B"}

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- a.Save(ctx, sa)
		}()
		go func() {
			defer wg.Done()
			errs <- b.Save(ctx, sb)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, []Session{sa, sb}, got)

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	s, err := OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, Session{AuthToken: "t", UserID: "u", UserName: "n"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{AuthToken: "t", UserID: "u", UserName: "n"}, got)
}

func TestNewToken(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "token_u1_1700000000123", NewToken("u1", now))
}
