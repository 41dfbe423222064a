package build

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gumup/gumup/internal/domain/unit"
)

// fakeCache is an in-memory UnitCache for orderer tests.
type fakeCache struct {
	byPath map[string]*Unit
	byName map[string]*Unit
}

func newFakeCache(units ...*Unit) *fakeCache {
	c := &fakeCache{
		byPath: make(map[string]*Unit),
		byName: make(map[string]*Unit),
	}
	for _, u := range units {
		c.byPath[u.FileName] = u
		c.byName[u.Name] = u
	}
	return c
}

func (c *fakeCache) ReadFile(ctx context.Context, path string) (*Unit, error) {
	u, ok := c.byPath[path]
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrNoUnit, path)
	}
	return u, nil
}

func (c *fakeCache) ReadUnit(ctx context.Context, name string) (*Unit, error) {
	u, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", unit.ErrUnknownDependency, name)
	}
	return u, nil
}

func fileUnit(name string, deps ...string) *Unit {
	return &Unit{Name: name, Dependencies: deps, FileName: name + ".js"}
}

func addAll(t *testing.T, o *Orderer, paths ...string) {
	t.Helper()
	for _, path := range paths {
		require.NoError(t, o.Add(context.Background(), path))
	}
}

// requireBefore asserts that a appears before b in files.
func requireBefore(t *testing.T, files []string, a, b string) {
	t.Helper()
	ia, ib := -1, -1
	for i, f := range files {
		if f == a {
			ia = i
		}
		if f == b {
			ib = i
		}
	}
	require.GreaterOrEqual(t, ia, 0, "%s missing from %v", a, files)
	require.GreaterOrEqual(t, ib, 0, "%s missing from %v", b, files)
	require.Less(t, ia, ib, "%s should precede %s in %v", a, b, files)
}

func TestOrderer_ResolveChain(t *testing.T) {
	cache := newFakeCache(
		fileUnit("a"),
		fileUnit("b", "a"),
		fileUnit("c", "b"),
	)
	o := NewOrderer(cache)
	addAll(t, o, "c.js", "a.js", "b.js")

	files, err := o.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a.js", "b.js", "c.js"}, files)
}

func TestOrderer_IndependentUnitsKeepAddOrder(t *testing.T) {
	cache := newFakeCache(fileUnit("x"), fileUnit("y"), fileUnit("z"))
	o := NewOrderer(cache)
	addAll(t, o, "z.js", "x.js", "y.js")

	files, err := o.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"z.js", "x.js", "y.js"}, files)
}

func TestOrderer_Add_UnknownFile(t *testing.T) {
	o := NewOrderer(newFakeCache())

	err := o.Add(context.Background(), "missing.js")
	require.ErrorIs(t, err, ErrNoUnit)
}

func TestOrderer_Add_DuplicateUnitName(t *testing.T) {
	cache := newFakeCache(fileUnit("a"))
	cache.byPath["other.js"] = &Unit{Name: "a", FileName: "other.js"}

	o := NewOrderer(cache)
	require.NoError(t, o.Add(context.Background(), "a.js"))

	err := o.Add(context.Background(), "other.js")
	require.ErrorIs(t, err, unit.ErrDuplicateUnit)
}

func TestOrderer_Add_InvalidName(t *testing.T) {
	cache := newFakeCache(&Unit{Name: "not a name", FileName: "bad.js"})

	err := NewOrderer(cache).Add(context.Background(), "bad.js")
	require.ErrorIs(t, err, unit.ErrInvalidName)
}

func TestOrderer_Add_InvalidRequirement(t *testing.T) {
	cache := newFakeCache(fileUnit("a", "b..c"))

	err := NewOrderer(cache).Add(context.Background(), "a.js")
	require.ErrorIs(t, err, unit.ErrInvalidName)
}

func TestOrderer_Resolve_PullsInExactDependencies(t *testing.T) {
	cache := newFakeCache(
		fileUnit("a"),
		fileUnit("b", "a"),
		fileUnit("c", "b"),
	)
	o := NewOrderer(cache)
	addAll(t, o, "c.js")

	files, err := o.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a.js", "b.js", "c.js"}, files)
	require.Equal(t, 3, o.Len())
}

func TestOrderer_Resolve_UnknownExactDependency(t *testing.T) {
	cache := newFakeCache(fileUnit("a", "ghost"))
	o := NewOrderer(cache)
	addAll(t, o, "a.js")

	_, err := o.Resolve(context.Background())
	require.ErrorIs(t, err, unit.ErrUnknownDependency)
	require.Contains(t, err.Error(), `"ghost"`)
}

func TestOrderer_Resolve_PrefixWildcard(t *testing.T) {
	cache := newFakeCache(
		fileUnit("app", "app.*"),
		fileUnit("app.util.array"),
		fileUnit("app.util.object"),
	)
	o := NewOrderer(cache)
	addAll(t, o, "app.js", "app.util.array.js", "app.util.object.js")

	files, err := o.Resolve(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 3)
	requireBefore(t, files, "app.util.array.js", "app.js")
	requireBefore(t, files, "app.util.object.js", "app.js")
}

func TestOrderer_Resolve_WildcardDoesNotPullIn(t *testing.T) {
	// "app.hidden" exists in the cache but was never added; the prefix
	// wildcard only matches registered units.
	cache := newFakeCache(
		fileUnit("main", "app.*"),
		fileUnit("app.hidden"),
	)
	o := NewOrderer(cache)
	addAll(t, o, "main.js")

	files, err := o.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"main.js"}, files)
}

func TestOrderer_Resolve_GlobalWildcardLast(t *testing.T) {
	cache := newFakeCache(
		fileUnit("bootstrap", "*"),
		fileUnit("a"),
		fileUnit("b"),
	)
	o := NewOrderer(cache)
	addAll(t, o, "bootstrap.js", "a.js", "b.js")

	files, err := o.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "bootstrap.js", files[len(files)-1])
}

func TestOrderer_Resolve_SelfCycle(t *testing.T) {
	cache := newFakeCache(fileUnit("a", "a"))
	o := NewOrderer(cache)
	addAll(t, o, "a.js")

	_, err := o.Resolve(context.Background())
	require.ErrorIs(t, err, unit.ErrRecursiveDependency)
}

func TestOrderer_Resolve_IndirectCycle(t *testing.T) {
	cache := newFakeCache(
		fileUnit("a", "b"),
		fileUnit("b", "c"),
		fileUnit("c", "a"),
	)
	o := NewOrderer(cache)
	addAll(t, o, "a.js", "b.js", "c.js")

	_, err := o.Resolve(context.Background())
	require.ErrorIs(t, err, unit.ErrRecursiveDependency)
	require.Contains(t, err.Error(), "->")
}

func TestOrderer_Resolve_CycleThroughPulledInUnit(t *testing.T) {
	cache := newFakeCache(
		fileUnit("a", "b"),
		fileUnit("b", "a"),
	)
	o := NewOrderer(cache)
	addAll(t, o, "a.js")

	_, err := o.Resolve(context.Background())
	require.ErrorIs(t, err, unit.ErrRecursiveDependency)
}

func TestOrderer_Resolve_Diamond(t *testing.T) {
	cache := newFakeCache(
		fileUnit("base"),
		fileUnit("left", "base"),
		fileUnit("right", "base"),
		fileUnit("top", "left", "right"),
	)
	o := NewOrderer(cache)
	addAll(t, o, "top.js", "left.js", "right.js", "base.js")

	files, err := o.Resolve(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 4, "each unit appears exactly once")
	requireBefore(t, files, "base.js", "left.js")
	requireBefore(t, files, "base.js", "right.js")
	requireBefore(t, files, "left.js", "top.js")
	requireBefore(t, files, "right.js", "top.js")
}

func TestOrderer_Units(t *testing.T) {
	cache := newFakeCache(fileUnit("a"), fileUnit("b"))
	o := NewOrderer(cache)
	addAll(t, o, "b.js", "a.js")

	units := o.Units()
	require.Len(t, units, 2)
	require.Equal(t, "b", units[0].Name)
	require.Equal(t, "a", units[1].Name)
}
