package frames

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
)

// surfaceAccessStub records reconfigure calls issued by settling code.
type surfaceAccessStub struct {
	calls map[core.SurfaceID]geom.Size
}

func newSurfaceAccessStub() *surfaceAccessStub {
	return &surfaceAccessStub{calls: make(map[core.SurfaceID]geom.Size)}
}

func (s *surfaceAccessStub) Reconfigure(sid core.SurfaceID, size geom.Size, state core.SurfaceState) {
	s.calls[sid] = size
}

// node is a comparable snapshot of a subtree used with deep.Equal.
type node struct {
	SID      core.SurfaceID
	Mode     Mode
	Geometry Geometry
	Children []node
}

func leafNode(sid core.SurfaceID) node {
	return node{SID: sid, Mode: Leaf, Geometry: Stacked}
}

func spatialTree(f *Frame) node {
	n := node{SID: f.SID(), Mode: f.Mode(), Geometry: f.Geometry()}
	for c := f.FirstSpace(); c != nil; c = c.NextSpace() {
		n.Children = append(n.Children, spatialTree(c))
	}
	return n
}

func temporalTree(f *Frame) node {
	n := node{SID: f.SID(), Mode: f.Mode(), Geometry: f.Geometry()}
	for c := f.FirstTime(); c != nil; c = c.NextTime() {
		n.Children = append(n.Children, temporalTree(c))
	}
	return n
}

func assertSpatial(t *testing.T, f *Frame, want node) {
	t.Helper()
	if diff := deep.Equal(spatialTree(f), want); diff != nil {
		t.Errorf("unexpected spatial tree: %v", diff)
	}
}

func assertTemporal(t *testing.T, f *Frame, want node) {
	t.Helper()
	if diff := deep.Equal(temporalTree(f), want); diff != nil {
		t.Errorf("unexpected temporal tree: %v", diff)
	}
}

func assertArea(t *testing.T, f *Frame, pos geom.Position, size geom.Size) {
	t.Helper()
	if f.Position() != pos || f.Size() != size {
		t.Errorf("expected area %v %v, got %v %v", pos, size, f.Position(), f.Size())
	}
}

// simpleFrames is a workspace holding one container per geometry, three
// leaves each, all appended in order:
//
//	workspace (vertical)
//	├── v (vertical):   11, 12, 13
//	├── h (horizontal): 21, 22, 23
//	└── s (stacked):    31, 32, 33
type simpleFrames struct {
	r          *Frame
	v, h, s    *Frame
	v1, v2, v3 *Frame
	h1, h2, h3 *Frame
	s1, s2, s3 *Frame
}

func makeSimpleFrames() simpleFrames {
	l := simpleFrames{
		r: NewWorkspace("", Vertical, true),
		v: NewContainer(Vertical),
		h: NewContainer(Horizontal),
		s: NewContainer(Stacked),
	}
	l.v1, l.v2, l.v3 = NewLeaf(11, Stacked), NewLeaf(12, Stacked), NewLeaf(13, Stacked)
	l.h1, l.h2, l.h3 = NewLeaf(21, Stacked), NewLeaf(22, Stacked), NewLeaf(23, Stacked)
	l.s1, l.s2, l.s3 = NewLeaf(31, Stacked), NewLeaf(32, Stacked), NewLeaf(33, Stacked)

	l.r.Append(l.v)
	l.r.Append(l.h)
	l.r.Append(l.s)
	l.v.Append(l.v1)
	l.v.Append(l.v2)
	l.v.Append(l.v3)
	l.h.Append(l.h1)
	l.h.Append(l.h2)
	l.h.Append(l.h3)
	l.s.Append(l.s1)
	l.s.Append(l.s2)
	l.s.Append(l.s3)

	l.r.SetPlumbingArea(geom.NewPosition(0, 0), geom.NewSize(30, 30))
	l.v.SetPlumbingArea(geom.NewPosition(0, 0), geom.NewSize(30, 10))
	l.h.SetPlumbingArea(geom.NewPosition(0, 10), geom.NewSize(30, 10))
	l.s.SetPlumbingArea(geom.NewPosition(0, 20), geom.NewSize(30, 10))
	l.v1.SetPlumbingArea(geom.NewPosition(0, 0), geom.NewSize(30, 10))
	l.v2.SetPlumbingArea(geom.NewPosition(0, 10), geom.NewSize(30, 10))
	l.v3.SetPlumbingArea(geom.NewPosition(0, 20), geom.NewSize(30, 10))
	return l
}

func (l simpleFrames) spatialWant() node {
	return node{Mode: Workspace, Geometry: Vertical, Children: []node{
		{Mode: Container, Geometry: Vertical,
			Children: []node{leafNode(11), leafNode(12), leafNode(13)}},
		{Mode: Container, Geometry: Horizontal,
			Children: []node{leafNode(21), leafNode(22), leafNode(23)}},
		{Mode: Container, Geometry: Stacked,
			Children: []node{leafNode(31), leafNode(32), leafNode(33)}},
	}}
}

// deramifyFrames builds nested single-child chains:
//
//	workspace
//	├── a1 ── f (leaf 1)
//	├── a2 ── b ── c ── {d1, d2, d3}
//	└── a3 (leaf 4)
type deramifyFrames struct {
	r, a1, a2, a3, f, b, c *Frame
	d1, d2, d3             *Frame
}

func makeDeramifyFrames() deramifyFrames {
	l := deramifyFrames{
		r:  NewWorkspace("", Vertical, true),
		a1: NewContainer(Stacked),
		a2: NewContainer(Stacked),
		a3: NewLeaf(4, Stacked),
		f:  NewLeaf(1, Stacked),
		b:  NewContainer(Vertical),
		c:  NewContainer(Horizontal),
	}
	l.d1, l.d2, l.d3 = NewLeaf(5, Stacked), NewLeaf(6, Stacked), NewLeaf(7, Stacked)

	l.r.Append(l.a1)
	l.r.Append(l.a2)
	l.r.Append(l.a3)
	l.a1.Append(l.f)
	l.a2.Append(l.b)
	l.b.Append(l.c)
	l.c.Append(l.d1)
	l.c.Append(l.d2)
	l.c.Append(l.d3)
	return l
}
