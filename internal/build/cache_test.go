package build

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gumup/gumup/internal/domain/unit"
)

func TestMultiCache_FirstHitWins(t *testing.T) {
	first := newFakeCache(fileUnit("a"))
	second := newFakeCache(&Unit{Name: "a", FileName: "shadowed.js"}, fileUnit("b"))

	m := NewMultiCache(first, second)

	u, err := m.ReadUnit(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "a.js", u.FileName)

	u, err = m.ReadUnit(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, "b.js", u.FileName)
}

func TestMultiCache_ReadFile_FallsThrough(t *testing.T) {
	m := NewMultiCache(newFakeCache(), newFakeCache(fileUnit("a")))

	u, err := m.ReadFile(context.Background(), "a.js")
	require.NoError(t, err)
	require.Equal(t, "a", u.Name)
}

func TestMultiCache_AllMiss(t *testing.T) {
	m := NewMultiCache(newFakeCache(), newFakeCache())

	_, err := m.ReadFile(context.Background(), "ghost.js")
	require.ErrorIs(t, err, ErrNoUnit)

	_, err = m.ReadUnit(context.Background(), "ghost")
	require.ErrorIs(t, err, unit.ErrUnknownDependency)
}

func TestMultiCache_Empty(t *testing.T) {
	m := NewMultiCache()

	_, err := m.ReadFile(context.Background(), "a.js")
	require.ErrorIs(t, err, ErrNoUnit)

	_, err = m.ReadUnit(context.Background(), "a")
	require.ErrorIs(t, err, unit.ErrUnknownDependency)
}
