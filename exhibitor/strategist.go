package exhibitor

import (
	logging "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/coordination"
	"github.com/perceptia/perceptia/pkg/frames"
	"github.com/perceptia/perceptia/pkg/geom"
)

// TargetDecision is the strategist's answer for where a new surface goes.
type TargetDecision struct {
	// Target is the frame the new leaf settles in.
	Target *frames.Frame

	// Geometry for the new leaf frame.
	Geometry frames.Geometry

	// Selection tells whether the new frame should be selected.
	Selection bool

	// FloatingArea, when set, floats the frame there instead of
	// anchoring it.
	FloatingArea *geom.Area
}

// FloatingDecision is the strategist's answer for a floating rectangle.
type FloatingDecision struct {
	Area geom.Area
}

type (
	targetFunc   func(selection *frames.Frame, info coordination.SurfaceInfo) TargetDecision
	floatingFunc func(workspaceSize geom.Size, preferred *geom.Size) FloatingDecision
)

// Strategist encapsulates placement policy. The concrete strategies are
// chosen by name from configuration.
type Strategist struct {
	chooseTarget   targetFunc
	chooseFloating floatingFunc
}

// NewStrategist builds a strategist from configured strategy names.
// Unknown names fall back to the defaults with a warning.
func NewStrategist(targetStrategy, floatingStrategy string) *Strategist {
	s := &Strategist{
		chooseTarget:   targetAnchoredButPopups,
		chooseFloating: floatingAlwaysInCenter,
	}
	switch targetStrategy {
	case "", "anchored_but_popups":
	case "always_floating":
		s.chooseTarget = targetAlwaysFloating
	default:
		logging.Warnf("unknown target strategy %q, using anchored_but_popups", targetStrategy)
	}
	switch floatingStrategy {
	case "", "always_in_center":
	default:
		logging.Warnf("unknown floating strategy %q, using always_in_center", floatingStrategy)
	}
	return s
}

// ChooseTarget decides where to place a newly admitted surface.
func (s *Strategist) ChooseTarget(selection *frames.Frame, info coordination.SurfaceInfo) TargetDecision {
	return s.chooseTarget(selection, info)
}

// ChooseFloating decides a floating rectangle of a sensible size inside a
// workspace of the given size.
func (s *Strategist) ChooseFloating(workspaceSize geom.Size, preferred *geom.Size) FloatingDecision {
	return s.chooseFloating(workspaceSize, preferred)
}

// targetAnchoredButPopups anchors plain toplevels into the buildable frame
// of the current selection and floats surfaces related to a parent at
// their requested spot.
func targetAnchoredButPopups(selection *frames.Frame, info coordination.SurfaceInfo) TargetDecision {
	decision := TargetDecision{
		Target:    selection.FindBuildable(),
		Geometry:  frames.Stacked,
		Selection: true,
	}
	if info.ParentSID.IsValid() {
		size := info.RequestedSize
		area := geom.NewArea(info.RelativePosition, size)
		decision.FloatingArea = &area
		decision.Selection = false
	}
	return decision
}

// targetAlwaysFloating floats every surface centered in the workspace.
func targetAlwaysFloating(selection *frames.Frame, info coordination.SurfaceInfo) TargetDecision {
	target := selection.FindBuildable()
	workspace := selection.FindTop()
	size := info.RequestedSize
	var wsSize geom.Size
	if workspace != nil {
		wsSize = workspace.Size()
	}
	area := centeredArea(wsSize, &size)
	return TargetDecision{
		Target:       target,
		Geometry:     frames.Stacked,
		Selection:    true,
		FloatingArea: &area,
	}
}

// floatingAlwaysInCenter centers the rectangle in the workspace, using
// half the workspace when no size is preferred.
func floatingAlwaysInCenter(workspaceSize geom.Size, preferred *geom.Size) FloatingDecision {
	return FloatingDecision{Area: centeredArea(workspaceSize, preferred)}
}

func centeredArea(workspaceSize geom.Size, preferred *geom.Size) geom.Area {
	size := geom.NewSize(workspaceSize.Width/2, workspaceSize.Height/2)
	if preferred != nil && !preferred.IsZero() {
		size = *preferred
	}
	pos := geom.NewPosition(
		(int(workspaceSize.Width)-int(size.Width))/2,
		(int(workspaceSize.Height)-int(size.Height))/2,
	)
	return geom.NewArea(pos, size)
}
