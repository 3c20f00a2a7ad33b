// Package binding turns raw key events into compositor commands. An engine
// tracks modifier state and input modes, matches pressed keys against
// per-mode binding tables and builds commands piece by piece the way the
// user typed them.
package binding

import (
	"strconv"

	logging "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/pkg/bus"
	"github.com/perceptia/perceptia/pkg/core"
)

// ModeName identifies one binding table.
type ModeName string

const (
	// ModeCommon is always active.
	ModeCommon ModeName = "common"

	// ModeInsert passes most keys to clients; active by default.
	ModeInsert ModeName = "insert"

	// ModeNormal interprets keys as commands, vi style.
	ModeNormal ModeName = "normal"
)

// Binding is the lookup key of one entry: a key code plus the modifiers
// that must be held.
type Binding struct {
	Code      uint16
	Modifiers core.Modifier
}

// Entry couples a binding with the action it triggers. Spawn entries carry
// the command line to run.
type Entry struct {
	Binding Binding
	Action  ActionKind
	Argv    []string
}

type mode struct {
	name    ModeName
	active  bool
	entries map[Binding]Entry
}

// Engine matches key events against binding tables and emits the built
// commands on the signal bus.
type Engine struct {
	signaler  *bus.Signaler
	quit      func()
	spawn     func(argv []string)
	log       *logging.Entry
	modes     []*mode
	modifiers core.Modifier
	command   core.Command
	code      uint16
}

// NewEngine constructs an engine with the given binding tables. The quit
// function is called when a quit binding fires; spawn runs the command
// line of a spawn binding.
func NewEngine(signaler *bus.Signaler, quit func(), spawn func(argv []string),
	tables map[ModeName][]Entry) *Engine {
	e := &Engine{
		signaler: signaler,
		quit:     quit,
		spawn:    spawn,
		log:      logging.WithField("component", "bindings"),
	}
	for _, name := range []ModeName{ModeCommon, ModeInsert, ModeNormal} {
		m := &mode{
			name:    name,
			active:  name == ModeCommon || name == ModeInsert,
			entries: make(map[Binding]Entry),
		}
		for _, entry := range tables[name] {
			m.entries[entry.Binding] = entry
		}
		e.modes = append(e.modes, m)
	}
	return e
}

// HandleKey processes one key event. It returns true when the event was
// consumed by a binding and must not reach clients.
func (e *Engine) HandleKey(key core.Key) bool {
	if bit, ok := modifierForCode(key.Code); ok {
		if key.Value == core.KeyReleased {
			e.modifiers &^= bit
		} else {
			e.modifiers |= bit
		}
		return false
	}
	if key.Value != core.KeyPressed {
		return false
	}

	binding := Binding{Code: key.Code, Modifiers: e.modifiers}
	for _, m := range e.modes {
		if !m.active {
			continue
		}
		if entry, ok := m.entries[binding]; ok {
			e.code = key.Code
			e.execute(entry)
			return true
		}
	}
	return false
}

// activateMode switches one binding table on or off.
func (e *Engine) activateMode(name ModeName, active bool) {
	for _, m := range e.modes {
		if m.name == name {
			m.active = active
		}
	}
}

// putAction sets the pending command's action, executing when a direction
// is already chosen.
func (e *Engine) putAction(action core.Action) {
	e.command.Action = action
	if e.command.Direction != core.DirNone {
		if e.command.Magnitude == 0 {
			e.command.Magnitude = 1
		}
		e.executeCommand()
	}
}

// putDirection sets the pending command's direction, executing when an
// action is already chosen.
func (e *Engine) putDirection(direction core.Direction) {
	e.command.Direction = direction
	if e.command.Action != core.ActionNone {
		if e.command.Magnitude == 0 {
			e.command.Magnitude = 1
		}
		e.executeCommand()
	}
}

// emit sends a complete command in one step, leaving the pending command
// alone.
func (e *Engine) emit(action core.Action, direction core.Direction, magnitude int, str string) {
	e.signaler.Emit(core.SignalCommand, core.Command{
		Action:    action,
		Direction: direction,
		Magnitude: magnitude,
		String:    str,
	})
}

func (e *Engine) executeCommand() {
	e.signaler.Emit(core.SignalCommand, e.command)
}

func (e *Engine) cleanCommand() {
	e.command = core.Command{}
}

// workspaceCommand emits a workspace command titled after the pressed
// number key.
func (e *Engine) workspaceCommand(action core.Action) {
	if number, ok := codeAsNumber(e.code); ok {
		e.emit(action, core.DirWorkspace, 1, strconv.Itoa(number))
	}
}

func (e *Engine) execute(entry Entry) {
	switch entry.Action {
	case Spawn:
		if e.spawn != nil && len(entry.Argv) > 0 {
			e.spawn(entry.Argv)
		}
	case Quit:
		e.log.Info("quit binding pressed")
		if e.quit != nil {
			e.quit()
		}
	case CleanCommand:
		e.cleanCommand()

	case PutFocus:
		e.putAction(core.ActionFocus)
	case PutJump:
		e.putAction(core.ActionJump)
	case PutDive:
		e.putAction(core.ActionDive)
	case PutMove:
		e.putAction(core.ActionMove)
	case PutResize:
		e.putAction(core.ActionResize)
	case PutMagnitude:
		if number, ok := codeAsNumber(e.code); ok {
			e.command.Magnitude = number
		}
	case PutNorth:
		e.putDirection(core.DirNorth)
	case PutEast:
		e.putDirection(core.DirEast)
	case PutSouth:
		e.putDirection(core.DirSouth)
	case PutWest:
		e.putDirection(core.DirWest)
	case PutForward:
		e.putDirection(core.DirForward)
	case PutBackward:
		e.putDirection(core.DirBackward)
	case PutBegin:
		e.putDirection(core.DirBegin)
	case PutEnd:
		e.putDirection(core.DirEnd)

	case Horizontalize:
		e.emit(core.ActionConfigure, core.DirEast, 0, "")
	case Verticalize:
		e.emit(core.ActionConfigure, core.DirNorth, 0, "")
	case Stackize:
		e.emit(core.ActionConfigure, core.DirEnd, 0, "")
	case Anchorize:
		e.emit(core.ActionAnchor, core.DirNone, 1, "")
	case FocusUp:
		e.emit(core.ActionFocus, core.DirNorth, 1, "")
	case FocusDown:
		e.emit(core.ActionFocus, core.DirSouth, 1, "")
	case FocusLeft:
		e.emit(core.ActionFocus, core.DirWest, 1, "")
	case FocusRight:
		e.emit(core.ActionFocus, core.DirEast, 1, "")
	case JumpUp:
		e.emit(core.ActionJump, core.DirNorth, 1, "")
	case JumpDown:
		e.emit(core.ActionJump, core.DirSouth, 1, "")
	case JumpLeft:
		e.emit(core.ActionJump, core.DirWest, 1, "")
	case JumpRight:
		e.emit(core.ActionJump, core.DirEast, 1, "")
	case DiveUp:
		e.emit(core.ActionDive, core.DirNorth, 1, "")
	case DiveDown:
		e.emit(core.ActionDive, core.DirSouth, 1, "")
	case DiveLeft:
		e.emit(core.ActionDive, core.DirWest, 1, "")
	case DiveRight:
		e.emit(core.ActionDive, core.DirEast, 1, "")
	case Exalt:
		e.emit(core.ActionJump, core.DirBegin, 1, "")
	case Ramify:
		e.emit(core.ActionJump, core.DirEnd, 1, "")
	case CycleHistoryForward:
		e.emit(core.ActionFocus, core.DirForward, 1, "")
	case CycleHistoryBackward:
		e.emit(core.ActionFocus, core.DirBackward, 1, "")
	case FocusWorkspace:
		e.workspaceCommand(core.ActionFocus)
	case JumpToWorkspace:
		e.workspaceCommand(core.ActionJump)
	case DiveToWorkspace:
		e.workspaceCommand(core.ActionDive)

	case SwapModeNormalToInsert:
		e.log.Debug("swap mode from normal to insert")
		e.activateMode(ModeNormal, false)
		e.activateMode(ModeInsert, true)
	case SwapModeInsertToNormal:
		e.log.Debug("swap mode from insert to normal")
		e.activateMode(ModeInsert, false)
		e.activateMode(ModeNormal, true)
	}
}
