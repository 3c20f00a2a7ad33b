package history

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/perceptia/perceptia/pkg/core"
)

func snapshot(h *SurfaceHistory) []core.SurfaceID {
	var out []core.SurfaceID
	h.Each(func(sid core.SurfaceID) bool {
		out = append(out, sid)
		return true
	})
	return out
}

func TestAddKeepsMostRecentFirst(t *testing.T) {
	h := New()
	h.Add(1)
	h.Add(2)
	h.Add(3)
	h.Add(2)

	if diff := deep.Equal(snapshot(h), []core.SurfaceID{2, 3, 1}); diff != nil {
		t.Error(diff)
	}
}

func TestRemove(t *testing.T) {
	h := New()
	h.Add(1)
	h.Add(2)
	h.Add(3)
	h.Remove(2)
	h.Remove(99)

	if diff := deep.Equal(snapshot(h), []core.SurfaceID{3, 1}); diff != nil {
		t.Error(diff)
	}
}

func TestPopOnlyMovesKnownSurfaces(t *testing.T) {
	h := New()
	h.Add(1)
	h.Add(2)
	h.Pop(1)
	h.Pop(42)

	if diff := deep.Equal(snapshot(h), []core.SurfaceID{1, 2}); diff != nil {
		t.Error(diff)
	}
	if h.Len() != 2 {
		t.Errorf("pop of unknown surface changed length to %d", h.Len())
	}
}

func TestGetNth(t *testing.T) {
	h := New()
	h.Add(1)
	h.Add(2)
	h.Add(3) // order: 3, 2, 1

	cases := []struct {
		n    int
		want core.SurfaceID
		ok   bool
	}{
		{0, 3, true},
		{1, 2, true},
		{2, 1, true},
		{3, core.InvalidSurfaceID, false},
		{-1, 1, true},
		{-3, 3, true},
		{-4, core.InvalidSurfaceID, false},
	}
	for _, tc := range cases {
		got, ok := h.GetNth(tc.n)
		if got != tc.want || ok != tc.ok {
			t.Errorf("GetNth(%d): expected (%v, %v), got (%v, %v)",
				tc.n, tc.want, tc.ok, got, ok)
		}
	}
}

func TestGetNthEmpty(t *testing.T) {
	h := New()
	if _, ok := h.GetNth(0); ok {
		t.Error("empty history should have no entries")
	}
}
