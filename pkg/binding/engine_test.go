package binding

import (
	"testing"

	"github.com/perceptia/perceptia/pkg/bus"
	"github.com/perceptia/perceptia/pkg/core"
)

type engineFixture struct {
	engine   *Engine
	receiver *bus.Receiver
	quits    int
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{receiver: bus.NewReceiver()}
	signaler := bus.NewSignaler()
	signaler.Subscribe(core.SignalCommand, f.receiver)
	f.engine = NewEngine(signaler, func() { f.quits++ }, nil, DefaultTables())
	return f
}

func (f *engineFixture) press(code uint16) bool {
	return f.engine.HandleKey(core.Key{Code: code, Value: core.KeyPressed})
}

func (f *engineFixture) release(code uint16) {
	f.engine.HandleKey(core.Key{Code: code, Value: core.KeyReleased})
}

func (f *engineFixture) commands() []core.Command {
	var out []core.Command
	for {
		pkg, ok := f.receiver.TryRecv()
		if !ok {
			return out
		}
		out = append(out, pkg.Payload.(core.Command))
	}
}

func TestFocusBindingWithModifiers(t *testing.T) {
	f := newEngineFixture()

	f.press(KeyLeftMeta)
	if !f.press(KeyRight) {
		t.Fatal("meta+right should be consumed in insert mode")
	}
	f.release(KeyRight)
	f.release(KeyLeftMeta)

	cmds := f.commands()
	if len(cmds) != 1 {
		t.Fatalf("expected one command, got %d", len(cmds))
	}
	want := core.Command{Action: core.ActionFocus, Direction: core.DirEast, Magnitude: 1}
	if cmds[0] != want {
		t.Errorf("expected %+v, got %+v", want, cmds[0])
	}
}

func TestUnboundKeysPassThrough(t *testing.T) {
	f := newEngineFixture()

	if f.press(KeyQ) {
		t.Error("plain q is not bound in insert mode")
	}
	if len(f.commands()) != 0 {
		t.Error("no command expected")
	}
}

func TestModeSwitchAndAccumulator(t *testing.T) {
	f := newEngineFixture()

	// Enter normal mode.
	f.press(KeyLeftMeta)
	f.press(KeyEsc)
	f.release(KeyEsc)
	f.release(KeyLeftMeta)

	// In normal mode: magnitude 3, action jump, direction south.
	if !f.press(Key3) {
		t.Fatal("number keys should be bound in normal mode")
	}
	f.press(KeyJ)
	f.press(KeyDown)

	cmds := f.commands()
	if len(cmds) != 1 {
		t.Fatalf("expected one command, got %d: %+v", len(cmds), cmds)
	}
	want := core.Command{Action: core.ActionJump, Direction: core.DirSouth, Magnitude: 3}
	if cmds[0] != want {
		t.Errorf("expected %+v, got %+v", want, cmds[0])
	}

	// Back to insert mode: plain keys pass through again.
	f.press(KeyI)
	if f.press(KeyJ) {
		t.Error("plain j should pass through in insert mode")
	}
}

func TestCleanCommandResetsAccumulator(t *testing.T) {
	f := newEngineFixture()
	f.press(KeyLeftMeta)
	f.press(KeyEsc)
	f.release(KeyEsc)
	f.release(KeyLeftMeta)

	f.press(KeyJ)   // pending action
	f.press(KeyEsc) // clean
	f.press(KeyDown)

	// Direction alone must not execute after cleaning.
	if cmds := f.commands(); len(cmds) != 0 {
		t.Errorf("expected no command, got %+v", cmds)
	}
}

func TestWorkspaceBindingUsesPressedDigit(t *testing.T) {
	f := newEngineFixture()

	f.press(KeyLeftMeta)
	f.press(Key5)

	cmds := f.commands()
	if len(cmds) != 1 {
		t.Fatalf("expected one command, got %d", len(cmds))
	}
	want := core.Command{
		Action:    core.ActionFocus,
		Direction: core.DirWorkspace,
		Magnitude: 1,
		String:    "5",
	}
	if cmds[0] != want {
		t.Errorf("expected %+v, got %+v", want, cmds[0])
	}
}

func TestSpawnBinding(t *testing.T) {
	var spawned [][]string
	signaler := bus.NewSignaler()
	tables := DefaultTables()
	tables[ModeInsert] = append(tables[ModeInsert], Entry{
		Binding: Binding{Code: KeyT, Modifiers: core.ModLMta},
		Action:  Spawn,
		Argv:    []string{"weston-terminal", "--fullscreen"},
	})
	engine := NewEngine(signaler, nil, func(argv []string) {
		spawned = append(spawned, argv)
	}, tables)

	engine.HandleKey(core.Key{Code: KeyLeftMeta, Value: core.KeyPressed})
	engine.HandleKey(core.Key{Code: KeyT, Value: core.KeyPressed})

	if len(spawned) != 1 || spawned[0][0] != "weston-terminal" {
		t.Errorf("expected one spawn, got %v", spawned)
	}
}

func TestQuitBinding(t *testing.T) {
	f := newEngineFixture()

	f.engine.HandleKey(core.Key{Code: KeyLeftCtrl, Value: core.KeyPressed})
	f.engine.HandleKey(core.Key{Code: KeyLeftMeta, Value: core.KeyPressed})
	f.press(KeyEsc)

	if f.quits != 1 {
		t.Errorf("expected one quit call, got %d", f.quits)
	}
}
