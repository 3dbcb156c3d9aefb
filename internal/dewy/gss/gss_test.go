package gss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AddNode_DedupesByLabelPerPosition(t *testing.T) {
	assert := assert.New(t)
	g := New()

	a := g.AddNode(0, 5)
	b := g.AddNode(0, 5)
	c := g.AddNode(0, 6)

	assert.Equal(a, b)
	assert.NotEqual(a, c)
	assert.Len(g.NodesAt(0), 2)
	assert.Equal(5, g.StateAt(a))
	assert.Equal(6, g.StateAt(c))
}

func Test_AddEdge_IsIdempotentAndTracksChildren(t *testing.T) {
	assert := assert.New(t)
	g := New()

	v0 := g.AddNode(0, 0)
	v1 := g.AddNode(1, 3)

	assert.True(g.AddEdge(v1, v0))
	assert.False(g.AddEdge(v1, v0)) // already exists
	assert.True(g.DoesEdgeExist(v1, v0))
	assert.Equal([]Coord{v0}, g.Children(v1))
}

func Test_GetReachable_WalksFixedHopCount(t *testing.T) {
	assert := assert.New(t)
	g := New()

	v0 := g.AddNode(0, 0)
	v1 := g.AddNode(1, 1)
	v2 := g.AddNode(2, 2)
	g.AddEdge(v1, v0)
	g.AddEdge(v2, v1)

	assert.Equal([]Coord{v2}, g.GetReachable(v2, 0))
	assert.Equal([]Coord{v1}, g.GetReachable(v2, 1))
	assert.Equal([]Coord{v0}, g.GetReachable(v2, 2))
}

func Test_GetReachable_BranchesOverMultipleParents(t *testing.T) {
	assert := assert.New(t)
	g := New()

	v0 := g.AddNode(0, 0)
	vAlt := g.AddNode(0, 1)
	v1 := g.AddNode(1, 2)
	g.AddEdge(v1, v0)
	g.AddEdge(v1, vAlt)

	reachable := g.GetReachable(v1, 1)
	assert.ElementsMatch([]Coord{v0, vAlt}, reachable)
}

func Test_GetAllPaths_ReturnsRootFirstSequences(t *testing.T) {
	assert := assert.New(t)
	g := New()

	v0 := g.AddNode(0, 0)
	v1 := g.AddNode(1, 1)
	v2 := g.AddNode(2, 2)
	g.AddEdge(v1, v0)
	g.AddEdge(v2, v1)

	paths := g.GetAllPaths(v2, 2)
	assert.Len(paths, 1)
	assert.Equal([]Coord{v2, v1, v0}, paths[0])
}

func Test_NonEmptyAt_ReflectsBucketPopulation(t *testing.T) {
	assert := assert.New(t)
	g := New()
	assert.False(g.NonEmptyAt(0))
	g.AddNode(0, 0)
	assert.True(g.NonEmptyAt(0))
	assert.False(g.NonEmptyAt(1))
}
