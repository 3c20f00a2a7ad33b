package frames

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
)

func TestRamifyLeaf(t *testing.T) {
	l := makeSimpleFrames()

	d := l.v3.Ramify(Horizontal)

	if l.v3.Parent() != d {
		t.Fatal("ramified leaf should live in the new container")
	}
	if d.Parent() != l.v {
		t.Fatal("new container should take the leaf's place")
	}
	if d.CountChildren() != 1 || l.v.CountChildren() != 3 {
		t.Error("ramification changed child counts")
	}
	if d.Geometry() != Horizontal {
		t.Errorf("expected horizontal container, got %s", d.Geometry())
	}
	assertArea(t, d, geom.NewPosition(0, 20), geom.NewSize(30, 10))
	assertArea(t, l.v3, geom.NewPosition(0, 0), geom.NewSize(30, 10))
}

func TestRamifyContainer(t *testing.T) {
	l := makeSimpleFrames()

	d := l.v.Ramify(Horizontal)

	if d == l.v {
		t.Fatal("expected a fresh container")
	}
	if d.Parent() != l.r || l.v.Parent() != d {
		t.Fatal("container should be wrapped in the new frame")
	}
	if l.r.CountChildren() != 3 || d.CountChildren() != 1 || l.v.CountChildren() != 3 {
		t.Error("ramification changed child counts")
	}
}

func TestRamifyReusesSingleChildContainer(t *testing.T) {
	l := makeDeramifyFrames()

	// The leaf is the only child of its container: reuse it.
	d := l.f.Ramify(Horizontal)
	if d != l.a1 {
		t.Errorf("expected existing container a1, got %s", d)
	}
	if d.Geometry() != Horizontal {
		t.Errorf("reused container should adopt the geometry, got %s", d.Geometry())
	}

	// A single-child container ramifies to itself.
	d = l.a1.Ramify(Vertical)
	if d != l.a1 {
		t.Errorf("expected a1 itself, got %s", d)
	}
	if l.f.Parent() != l.a1 || l.a1.CountChildren() != 1 {
		t.Error("reuse should not restructure the tree")
	}
}

// Ramify followed by deramify on the new parent restores the original
// structure; no residual container, leaves preserved.
func TestRamifyDeramifyIsIdentity(t *testing.T) {
	r := NewWorkspace("", Horizontal, true)
	l1 := NewLeaf(1, Stacked)
	l2 := NewLeaf(2, Stacked)
	r.Append(l1)
	r.Append(l2)
	before := spatialTree(r)

	d := l1.Ramify(Stacked)
	if d == r || l1.Parent() != d {
		t.Fatal("ramify should wrap the leaf")
	}
	d.Deramify()

	if diff := deep.Equal(spatialTree(r), before); diff != nil {
		t.Errorf("tree not restored: %v", diff)
	}
	if l1.Parent() != r {
		t.Error("leaf should be back under the workspace")
	}
}

func TestDeramifySingleNonLeaf(t *testing.T) {
	l := makeDeramifyFrames()

	l.a2.Deramify()

	if l.a2.Parent() != l.r {
		t.Error("deramified frame should stay in place")
	}
	if l.c.Parent() != l.a2 {
		t.Error("grandchild should be lifted into the deramified frame")
	}
	if l.r.CountChildren() != 3 || l.a2.CountChildren() != 1 {
		t.Error("unexpected child counts")
	}
}

func TestDeramifyNoopCases(t *testing.T) {
	l := makeDeramifyFrames()

	// Many children: untouched.
	l.r.Deramify()
	if l.a1.Parent() != l.r || l.a2.Parent() != l.r || l.a3.Parent() != l.r {
		t.Error("deramify restructured a frame with many children")
	}

	// Many leaf children: untouched.
	l.c.Deramify()
	if l.d1.Parent() != l.c || l.c.CountChildren() != 3 {
		t.Error("deramify restructured a container with many leaves")
	}

	// A leaf itself: untouched.
	l.a3.Deramify()
	if l.a3.Parent() != l.r {
		t.Error("deramify moved a leaf")
	}
}

func TestJumpinBefore(t *testing.T) {
	sa := newSurfaceAccessStub()
	l := makeSimpleFrames()

	f := NewLeaf(66, Stacked)
	f.Jumpin(SideBefore, l.v2, sa)

	if f.Parent() != l.v {
		t.Fatal("incoming frame should join the reference's parent")
	}
	assertSpatial(t, l.v, node{Mode: Container, Geometry: Vertical,
		Children: []node{leafNode(11), leafNode(66), leafNode(12), leafNode(13)}})
	assertTemporal(t, l.v, node{Mode: Container, Geometry: Vertical,
		Children: []node{leafNode(11), leafNode(12), leafNode(13), leafNode(66)}})
}

func TestJumpinAfter(t *testing.T) {
	sa := newSurfaceAccessStub()
	l := makeSimpleFrames()

	f := NewLeaf(66, Stacked)
	f.Jumpin(SideAfter, l.v2, sa)

	assertSpatial(t, l.v, node{Mode: Container, Geometry: Vertical,
		Children: []node{leafNode(11), leafNode(12), leafNode(66), leafNode(13)}})
}

func TestJumpinOnLeaf(t *testing.T) {
	sa := newSurfaceAccessStub()
	l := makeSimpleFrames()

	f := NewLeaf(66, Stacked)
	f.Jumpin(SideOn, l.v2, sa)

	stack := f.Parent()
	if stack == nil || stack != l.v2.Parent() {
		t.Fatal("on-jump should stack the two leaves together")
	}
	if stack.Parent() != l.v || stack.Geometry() != Stacked {
		t.Fatal("synthesized container should replace the leaf in its parent")
	}
	assertSpatial(t, l.v, node{Mode: Container, Geometry: Vertical, Children: []node{
		leafNode(11),
		{Mode: Container, Geometry: Stacked, Children: []node{leafNode(66), leafNode(12)}},
		leafNode(13),
	}})
}

func TestJumpSameLevel(t *testing.T) {
	sa := newSurfaceAccessStub()
	l := makeSimpleFrames()

	l.v1.Jump(SideAfter, l.v3, sa)

	assertSpatial(t, l.v, node{Mode: Container, Geometry: Vertical,
		Children: []node{leafNode(12), leafNode(13), leafNode(11)}})
}

func TestJumpIntoOwnSubtreeIsNoop(t *testing.T) {
	sa := newSurfaceAccessStub()
	l := makeSimpleFrames()
	before := spatialTree(l.r)

	l.v.Jump(SideOn, l.v2, sa)

	if diff := deep.Equal(spatialTree(l.r), before); diff != nil {
		t.Errorf("jump into own subtree mutated the tree: %v", diff)
	}
}

func TestHomogenizeVertical(t *testing.T) {
	sa := newSurfaceAccessStub()
	v := NewContainer(Vertical)
	v.SetPlumbingSize(geom.NewSize(30, 30))
	a := NewLeaf(1, Stacked)
	b := NewLeaf(2, Stacked)
	c := NewLeaf(3, Stacked)
	for _, leaf := range []*Frame{a, b, c} {
		v.Append(leaf)
		leaf.SetPlumbingMobility(Anchored)
	}

	v.Homogenize(sa)

	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(30, 10))
	assertArea(t, b, geom.NewPosition(0, 10), geom.NewSize(30, 10))
	assertArea(t, c, geom.NewPosition(0, 20), geom.NewSize(30, 10))
	if size := sa.calls[2]; size != geom.NewSize(30, 10) {
		t.Errorf("leaf 2 not reconfigured, got %v", size)
	}
}

func TestHomogenizeHorizontalWithRemainder(t *testing.T) {
	sa := newSurfaceAccessStub()
	h := NewContainer(Horizontal)
	h.SetPlumbingSize(geom.NewSize(100, 20))
	a := NewLeaf(1, Stacked)
	b := NewLeaf(2, Stacked)
	c := NewLeaf(3, Stacked)
	for _, leaf := range []*Frame{a, b, c} {
		h.Append(leaf)
		leaf.SetPlumbingMobility(Anchored)
	}

	h.Homogenize(sa)

	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(33, 20))
	assertArea(t, b, geom.NewPosition(33, 0), geom.NewSize(33, 20))
	// The last child absorbs the remainder so the row fills the container.
	assertArea(t, c, geom.NewPosition(66, 0), geom.NewSize(34, 20))
}

func TestHomogenizeStacked(t *testing.T) {
	sa := newSurfaceAccessStub()
	s := NewContainer(Stacked)
	s.SetPlumbingSize(geom.NewSize(40, 40))
	a := NewLeaf(1, Stacked)
	b := NewLeaf(2, Stacked)
	for _, leaf := range []*Frame{a, b} {
		s.Append(leaf)
		leaf.SetPlumbingMobility(Anchored)
	}

	s.Homogenize(sa)

	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(40, 40))
	assertArea(t, b, geom.NewPosition(0, 0), geom.NewSize(40, 40))
}

func TestHomogenizeSkipsFloatingAndSubtractsDocked(t *testing.T) {
	sa := newSurfaceAccessStub()
	v := NewContainer(Vertical)
	v.SetPlumbingSize(geom.NewSize(80, 100))

	dock := NewLeaf(9, Stacked)
	dock.SetPlumbingMobility(Docked)
	dock.SetPlumbingSize(geom.NewSize(80, 20))
	float := NewLeaf(8, Stacked)
	float.SetPlumbingMobility(Floating)
	float.SetPlumbingArea(geom.NewPosition(5, 5), geom.NewSize(10, 10))
	a := NewLeaf(1, Stacked)
	b := NewLeaf(2, Stacked)

	v.Append(dock)
	v.Append(a)
	v.Append(float)
	v.Append(b)
	a.SetPlumbingMobility(Anchored)
	b.SetPlumbingMobility(Anchored)

	v.Homogenize(sa)

	// 100 - 20 docked = 80 shared between two anchored children.
	assertArea(t, dock, geom.NewPosition(0, 0), geom.NewSize(80, 20))
	assertArea(t, a, geom.NewPosition(0, 20), geom.NewSize(80, 40))
	assertArea(t, b, geom.NewPosition(0, 60), geom.NewSize(80, 40))
	assertArea(t, float, geom.NewPosition(5, 5), geom.NewSize(10, 10))
}

func TestResizeFloating(t *testing.T) {
	sa := newSurfaceAccessStub()
	r := NewWorkspace("", Vertical, true)
	z := NewLeaf(1, Stacked)
	r.Append(z)
	z.SetPlumbingMobility(Floating)
	z.SetPlumbingArea(geom.NewPosition(20, 20), geom.NewSize(30, 30))

	m := 10
	z.Resize(core.DirNorth, m, sa)
	assertArea(t, z, geom.NewPosition(20, 10), geom.NewSize(30, 40))
	z.Resize(core.DirEast, m, sa)
	assertArea(t, z, geom.NewPosition(20, 10), geom.NewSize(40, 40))
	z.Resize(core.DirSouth, m, sa)
	assertArea(t, z, geom.NewPosition(20, 10), geom.NewSize(40, 50))
	z.Resize(core.DirWest, m, sa)
	assertArea(t, z, geom.NewPosition(10, 10), geom.NewSize(50, 50))

	z.Resize(core.DirNorth, -m, sa)
	assertArea(t, z, geom.NewPosition(10, 20), geom.NewSize(50, 40))
	z.Resize(core.DirWest, -m, sa)
	assertArea(t, z, geom.NewPosition(20, 20), geom.NewSize(40, 40))
}

func TestResizeAnchoredVertical(t *testing.T) {
	sa := newSurfaceAccessStub()
	v := NewContainer(Vertical)
	v.SetPlumbingSize(geom.NewSize(30, 40))
	a := NewLeaf(1, Stacked)
	b := NewLeaf(2, Stacked)
	v.Append(a)
	v.Append(b)
	a.SetPlumbingMobility(Anchored)
	b.SetPlumbingMobility(Anchored)
	v.Homogenize(sa)

	// Inflating b's north side shrinks a; the outer boundary stays put.
	b.Resize(core.DirNorth, 5, sa)
	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(30, 15))
	assertArea(t, b, geom.NewPosition(0, 15), geom.NewSize(30, 25))

	// Deflating a's south side gives more to b.
	a.Resize(core.DirSouth, -5, sa)
	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(30, 10))
	assertArea(t, b, geom.NewPosition(0, 10), geom.NewSize(30, 30))
}

func TestResizePropagatesFromNestedFrame(t *testing.T) {
	sa := newSurfaceAccessStub()
	v := NewContainer(Vertical)
	v.SetPlumbingSize(geom.NewSize(30, 40))
	a := NewLeaf(1, Stacked)
	bc := NewContainer(Stacked)
	c := NewLeaf(3, Stacked)
	v.Append(a)
	v.Append(bc)
	bc.Append(c)
	a.SetPlumbingMobility(Anchored)
	bc.SetPlumbingMobility(Anchored)
	c.SetPlumbingMobility(Anchored)
	v.Homogenize(sa)

	// The stacked container does not match the axis; the resize applies
	// to it within the vertical parent, and its child follows.
	c.Resize(core.DirNorth, 4, sa)
	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(30, 16))
	assertArea(t, bc, geom.NewPosition(0, 16), geom.NewSize(30, 24))
	assertArea(t, c, geom.NewPosition(0, 0), geom.NewSize(30, 24))
}

func TestResizeEdgesAndDocked(t *testing.T) {
	sa := newSurfaceAccessStub()
	v := NewContainer(Vertical)
	v.SetPlumbingSize(geom.NewSize(30, 40))
	a := NewLeaf(1, Stacked)
	b := NewLeaf(2, Stacked)
	v.Append(a)
	v.Append(b)
	a.SetPlumbingMobility(Anchored)
	b.SetPlumbingMobility(Anchored)
	v.Homogenize(sa)

	// The container boundary does not move.
	a.Resize(core.DirNorth, 5, sa)
	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(30, 20))

	// Docked frames cannot be resized.
	b.SetPlumbingMobility(Docked)
	b.Resize(core.DirNorth, 5, sa)
	assertArea(t, b, geom.NewPosition(0, 20), geom.NewSize(30, 20))
}

func TestSettleAnchored(t *testing.T) {
	sa := newSurfaceAccessStub()
	w := NewWorkspace("", Vertical, true)
	w.SetPlumbingSize(geom.NewSize(40, 40))
	a := NewLeaf(1, Stacked)
	a.Settle(w, nil, sa)
	b := NewLeaf(2, Stacked)
	b.Settle(w, nil, sa)

	if !a.Mobility().IsAnchored() || !b.Mobility().IsAnchored() {
		t.Error("settled frames should be anchored")
	}
	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(40, 20))
	assertArea(t, b, geom.NewPosition(0, 20), geom.NewSize(40, 20))
}

func TestSettleFloating(t *testing.T) {
	sa := newSurfaceAccessStub()
	w := NewWorkspace("", Vertical, true)
	w.SetPlumbingSize(geom.NewSize(40, 40))
	area := geom.MakeArea(5, 6, 10, 12)
	f := NewLeaf(1, Stacked)
	f.Settle(w, &area, sa)

	if !f.Mobility().IsFloating() {
		t.Error("settled frame should float")
	}
	assertArea(t, f, geom.NewPosition(5, 6), geom.NewSize(10, 12))
	if size := sa.calls[1]; size != geom.NewSize(10, 12) {
		t.Errorf("surface not reconfigured to floating size, got %v", size)
	}
}

func TestResettle(t *testing.T) {
	sa := newSurfaceAccessStub()
	l := makeSimpleFrames()

	l.v2.Resettle(l.h, sa)

	if l.v2.Parent() != l.h {
		t.Fatal("frame should move to the new target")
	}
	assertSpatial(t, l.v, node{Mode: Container, Geometry: Vertical,
		Children: []node{leafNode(11), leafNode(13)}})
	assertSpatial(t, l.h, node{Mode: Container, Geometry: Horizontal,
		Children: []node{leafNode(21), leafNode(22), leafNode(23), leafNode(12)}})
}

func TestDock(t *testing.T) {
	sa := newSurfaceAccessStub()
	v := NewContainer(Vertical)
	v.SetPlumbingSize(geom.NewSize(80, 100))
	a := NewLeaf(1, Stacked)
	v.Append(a)
	a.SetPlumbingMobility(Anchored)

	dock := NewLeaf(9, Stacked)
	dock.Dock(v, geom.NewSize(80, 20), sa)

	if !dock.Mobility().IsDocked() {
		t.Error("docked frame should be docked")
	}
	assertArea(t, dock, geom.NewPosition(0, 0), geom.NewSize(80, 20))
	assertArea(t, a, geom.NewPosition(0, 20), geom.NewSize(80, 80))
}

func TestAnchorizeRoundTrip(t *testing.T) {
	sa := newSurfaceAccessStub()
	w := NewWorkspace("", Vertical, true)
	w.SetPlumbingSize(geom.NewSize(40, 40))
	a := NewLeaf(1, Stacked)
	a.Settle(w, nil, sa)
	b := NewLeaf(2, Stacked)
	b.Settle(w, nil, sa)

	b.Deanchorize(geom.MakeArea(3, 3, 10, 10), sa)
	if !b.Mobility().IsFloating() {
		t.Fatal("deanchorized frame should float")
	}
	assertArea(t, b, geom.NewPosition(3, 3), geom.NewSize(10, 10))
	// The remaining anchored child takes the whole workspace.
	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(40, 40))

	b.Anchorize(sa)
	if !b.Mobility().IsAnchored() {
		t.Fatal("anchorized frame should be anchored")
	}
	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(40, 20))
	assertArea(t, b, geom.NewPosition(0, 20), geom.NewSize(40, 20))
}

func TestChangeGeometry(t *testing.T) {
	sa := newSurfaceAccessStub()
	v := NewContainer(Vertical)
	v.SetPlumbingSize(geom.NewSize(40, 20))
	a := NewLeaf(1, Stacked)
	b := NewLeaf(2, Stacked)
	v.Append(a)
	v.Append(b)
	a.SetPlumbingMobility(Anchored)
	b.SetPlumbingMobility(Anchored)
	v.Homogenize(sa)

	v.ChangeGeometry(Horizontal, sa)

	assertArea(t, a, geom.NewPosition(0, 0), geom.NewSize(20, 20))
	assertArea(t, b, geom.NewPosition(20, 0), geom.NewSize(20, 20))
}

func TestDestroySelfRebalances(t *testing.T) {
	sa := newSurfaceAccessStub()
	v := NewContainer(Vertical)
	v.SetPlumbingSize(geom.NewSize(40, 40))
	a := NewLeaf(1, Stacked)
	b := NewLeaf(2, Stacked)
	v.Append(a)
	v.Append(b)
	a.SetPlumbingMobility(Anchored)
	b.SetPlumbingMobility(Anchored)
	v.Homogenize(sa)

	a.DestroySelf(sa)

	if v.CountChildren() != 1 {
		t.Fatal("destroyed frame should leave the tree")
	}
	assertArea(t, b, geom.NewPosition(0, 0), geom.NewSize(40, 40))
}

func TestMoveWithContents(t *testing.T) {
	f := NewLeaf(1, Stacked)
	f.SetPlumbingMobility(Floating)
	f.SetPlumbingArea(geom.NewPosition(10, 10), geom.NewSize(5, 5))

	f.MoveWithContents(geom.NewPosition(-3, 7))

	assertArea(t, f, geom.NewPosition(7, 17), geom.NewSize(5, 5))
}
