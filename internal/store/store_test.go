package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matzip/internal/config"
	"matzip/internal/schema"
)

func fileConfig(t *testing.T, mode config.Mode) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Mode = mode
	cfg.Database.Path = filepath.Join(t.TempDir(), "matzip.db")
	return cfg
}

func TestOpenCreatesStoreFile(t *testing.T) {
	cfg := fileConfig(t, config.ModeRelease)

	s, err := Open(cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(cfg.Database.Path)
	assert.NoError(t, err)
	assert.NotNil(t, s.View())
}

func TestOpenDebugRecoversCorruptFile(t *testing.T) {
	cfg := fileConfig(t, config.ModeDebug)
	require.NoError(t, os.WriteFile(cfg.Database.Path, []byte("this is not a database"), 0644))

	s, err := Open(cfg, nil)
	require.NoError(t, err, "debug mode destroys and recreates the store file")
	defer s.Close()

	view := s.View()
	stageRestaurant(t, view, "r1", "Recovered")
	perform(t, view, func() error { return view.Save() })

	perform(t, view, func() error {
		n, err := view.Count(schema.Restaurant, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return nil
	})
}

func TestOpenReleaseFailsOnCorruptFile(t *testing.T) {
	cfg := fileConfig(t, config.ModeRelease)
	require.NoError(t, os.WriteFile(cfg.Database.Path, []byte("this is not a database"), 0644))

	s, err := Open(cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, s)

	// the corrupt file is left in place for inspection
	data, err := os.ReadFile(cfg.Database.Path)
	require.NoError(t, err)
	assert.Equal(t, "this is not a database", string(data))
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	cfg := fileConfig(t, config.ModeRelease)

	s, err := Open(cfg, nil)
	require.NoError(t, err)
	view := s.View()
	stageRestaurant(t, view, "r1", "Persistent")
	perform(t, view, func() error { return view.Save() })
	require.NoError(t, s.Close())

	// reopening applies the schema again without clobbering data
	s, err = Open(cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	view = s.View()
	perform(t, view, func() error {
		rec, err := view.Fetch(schema.Restaurant, "r1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "Persistent", rec.String("name"))
		return nil
	})
}

func TestWipe(t *testing.T) {
	s := newTestStore(t)
	view := s.View()

	stageRestaurant(t, view, "r1", "one")
	stageRestaurant(t, view, "r2", "two")
	perform(t, view, func() error { return view.Save() })

	require.NoError(t, s.Wipe())

	perform(t, view, func() error {
		for _, entity := range []string{schema.Restaurant, schema.Review, schema.UserList, schema.UserFollow} {
			n, err := view.Count(entity, 10)
			require.NoError(t, err)
			assert.Zero(t, n, entity)
		}
		return nil
	})
}
