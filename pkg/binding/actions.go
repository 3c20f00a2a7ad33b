package binding

import "fmt"

// ActionKind enumerates everything a key binding can do. The set is closed
// on purpose: bindings are data, not code.
type ActionKind int

const (
	Nop ActionKind = iota
	Quit
	CleanCommand

	// Spawn runs the entry's command line in a new process.
	Spawn

	// Command builders: set one piece of the pending command and execute
	// once both an action and a direction are present.
	PutFocus
	PutJump
	PutDive
	PutMove
	PutResize
	PutMagnitude
	PutNorth
	PutEast
	PutSouth
	PutWest
	PutForward
	PutBackward
	PutBegin
	PutEnd

	// Complete commands.
	Horizontalize
	Verticalize
	Stackize
	Anchorize
	FocusUp
	FocusDown
	FocusLeft
	FocusRight
	JumpUp
	JumpDown
	JumpLeft
	JumpRight
	DiveUp
	DiveDown
	DiveLeft
	DiveRight
	Exalt
	Ramify
	CycleHistoryForward
	CycleHistoryBackward
	FocusWorkspace
	JumpToWorkspace
	DiveToWorkspace

	// Mode switches.
	SwapModeNormalToInsert
	SwapModeInsertToNormal
)

var actionNames = map[string]ActionKind{
	"quit":                      Quit,
	"clean_command":             CleanCommand,
	"put_focus":                 PutFocus,
	"put_jump":                  PutJump,
	"put_dive":                  PutDive,
	"put_move":                  PutMove,
	"put_resize":                PutResize,
	"put_magnitude":             PutMagnitude,
	"put_north":                 PutNorth,
	"put_east":                  PutEast,
	"put_south":                 PutSouth,
	"put_west":                  PutWest,
	"put_forward":               PutForward,
	"put_backward":              PutBackward,
	"put_begin":                 PutBegin,
	"put_end":                   PutEnd,
	"horizontalize":             Horizontalize,
	"verticalize":               Verticalize,
	"stackize":                  Stackize,
	"anchorize":                 Anchorize,
	"focus_up":                  FocusUp,
	"focus_down":                FocusDown,
	"focus_left":                FocusLeft,
	"focus_right":               FocusRight,
	"jump_up":                   JumpUp,
	"jump_down":                 JumpDown,
	"jump_left":                 JumpLeft,
	"jump_right":                JumpRight,
	"dive_up":                   DiveUp,
	"dive_down":                 DiveDown,
	"dive_left":                 DiveLeft,
	"dive_right":                DiveRight,
	"exalt":                     Exalt,
	"ramify":                    Ramify,
	"cycle_history_forward":     CycleHistoryForward,
	"cycle_history_backward":    CycleHistoryBackward,
	"focus_workspace":           FocusWorkspace,
	"jump_to_workspace":         JumpToWorkspace,
	"dive_to_workspace":         DiveToWorkspace,
	"swap_mode_normal_to_insert": SwapModeNormalToInsert,
	"swap_mode_insert_to_normal": SwapModeInsertToNormal,
}

// ParseAction resolves a configuration action name.
func ParseAction(name string) (ActionKind, error) {
	if kind, ok := actionNames[name]; ok {
		return kind, nil
	}
	return Nop, fmt.Errorf("unknown binding action %q", name)
}
