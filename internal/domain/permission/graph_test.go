package permission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func newTestPermission(t *testing.T, id uint, code string, parent *uint, conflicts ...string) *Permission {
	t.Helper()
	p, err := ReconstructPermission(id, PermissionAttrs{
		Name:          code,
		Code:          code,
		Type:          PermissionTypeMenu,
		ParentID:      parent,
		SortOrder:     int(id),
		ConflictCodes: conflicts,
	}, time.Now(), time.Now())
	require.NoError(t, err)
	return p
}

// system(1) ─┬─ user(2) ─┬─ user:create(4)
//            │           └─ user:delete(5)
//            └─ role(3)
// report(6)
func sampleForest(t *testing.T) []*Permission {
	return []*Permission{
		newTestPermission(t, 1, "system", nil),
		newTestPermission(t, 2, "user", uintPtr(1)),
		newTestPermission(t, 3, "role", uintPtr(1)),
		newTestPermission(t, 4, "user:create", uintPtr(2)),
		newTestPermission(t, 5, "user:delete", uintPtr(2)),
		newTestPermission(t, 6, "report", nil),
	}
}

func TestGraph_Ancestors(t *testing.T) {
	g := NewGraph(sampleForest(t))

	chain, err := g.Ancestors(4)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 1}, chain)

	chain, err = g.Ancestors(1)
	require.NoError(t, err)
	assert.Empty(t, chain)

	chain, err = g.Ancestors(99)
	require.NoError(t, err)
	assert.Nil(t, chain)
}

func TestGraph_Descendants(t *testing.T) {
	g := NewGraph(sampleForest(t))

	desc, err := g.Descendants(1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 4, 5, 3}, desc)

	desc, err = g.Descendants(5)
	require.NoError(t, err)
	assert.Empty(t, desc)
}

func TestGraph_MissingParentIsRoot(t *testing.T) {
	g := NewGraph([]*Permission{
		newTestPermission(t, 10, "orphan", uintPtr(999)),
	})

	tree, err := g.Tree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, uint(10), tree[0].Permission.ID())
}

func TestGraph_CycleDetected(t *testing.T) {
	g := NewGraph([]*Permission{
		newTestPermission(t, 1, "a", uintPtr(2)),
		newTestPermission(t, 2, "b", uintPtr(1)),
		newTestPermission(t, 3, "c", nil),
	})

	_, err := g.Descendants(1)
	assert.ErrorIs(t, err, ErrCycleDetected)

	_, err = g.Ancestors(1)
	assert.ErrorIs(t, err, ErrCycleDetected)

	_, err = g.Tree()
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestGraph_MaxDepth(t *testing.T) {
	perms := []*Permission{newTestPermission(t, 1, "p1", nil)}
	for i := uint(2); i <= 6; i++ {
		perms = append(perms, newTestPermission(t, i, "p"+string(rune('0'+i)), uintPtr(i-1)))
	}
	g := NewGraph(perms, WithMaxDepth(3))

	_, err := g.Ancestors(6)
	assert.ErrorIs(t, err, ErrHierarchyTooDeep)

	chain, err := g.Ancestors(4)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 2, 1}, chain)
}

func TestGraph_WouldCreateCycle(t *testing.T) {
	g := NewGraph(sampleForest(t))

	assert.True(t, g.WouldCreateCycle(1, 4), "moving a root under its grandchild")
	assert.True(t, g.WouldCreateCycle(2, 2))
	assert.False(t, g.WouldCreateCycle(4, 3))
	assert.False(t, g.WouldCreateCycle(6, 5))
}

func TestGraph_Tree(t *testing.T) {
	g := NewGraph(sampleForest(t))

	tree, err := g.Tree()
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "system", tree[0].Permission.Code())
	assert.Equal(t, "report", tree[1].Permission.Code())
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "user", tree[0].Children[0].Permission.Code())
	assert.Len(t, tree[0].Children[0].Children, 2)
}
