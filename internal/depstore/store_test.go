package depstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, at, at))
}

func TestStore(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "deps.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	unit := filepath.Join(dir, "app.jsxz")
	card := filepath.Join(dir, "card.html")
	badge := filepath.Join(dir, "badge.html")
	touch(t, unit, base)
	touch(t, card, base)
	touch(t, badge, base)

	fresh, err := s.Fresh(unit)
	require.NoError(t, err)
	assert.False(t, fresh, "unknown unit is never fresh")

	require.NoError(t, s.Record(unit, []string{card, badge}))
	fresh, err = s.Fresh(unit)
	require.NoError(t, err)
	assert.True(t, fresh)

	deps, err := s.Deps(unit)
	require.NoError(t, err)
	assert.Equal(t, []string{badge, card}, deps)

	dependents, err := s.Dependents(card)
	require.NoError(t, err)
	assert.Equal(t, []string{unit}, dependents)

	// a changed document makes the unit stale
	require.NoError(t, os.Chtimes(card, base.Add(time.Minute), base.Add(time.Minute)))
	fresh, err = s.Fresh(unit)
	require.NoError(t, err)
	assert.False(t, fresh)

	// re-recording replaces the old list
	require.NoError(t, s.Record(unit, []string{card}))
	deps, err = s.Deps(unit)
	require.NoError(t, err)
	assert.Equal(t, []string{card}, deps)
	dependents, err = s.Dependents(badge)
	require.NoError(t, err)
	assert.Empty(t, dependents)

	require.NoError(t, s.Forget(unit))
	fresh, err = s.Fresh(unit)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestStore_RecordMissingDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "deps.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	unit := filepath.Join(dir, "app.jsxz")
	touch(t, unit, time.Now())
	assert.Error(t, s.Record(unit, []string{filepath.Join(dir, "gone.html")}))
	deps, err := s.Deps(unit)
	require.NoError(t, err)
	assert.Empty(t, deps)
}
