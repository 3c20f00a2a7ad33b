package binding

import "github.com/perceptia/perceptia/pkg/core"

func entry(code uint16, mods core.Modifier, action ActionKind) Entry {
	return Entry{Binding: Binding{Code: code, Modifiers: mods}, Action: action}
}

// DefaultTables returns the built-in key bindings. Configuration entries
// are appended on top and win on conflict.
func DefaultTables() map[ModeName][]Entry {
	return map[ModeName][]Entry{
		ModeCommon: {
			entry(KeyEsc, core.ModLCtl|core.ModLMta, Quit),
		},
		ModeNormal: {
			entry(KeyEsc, core.ModNone, CleanCommand),
			entry(KeyH, core.ModNone, Horizontalize),
			entry(KeyV, core.ModNone, Verticalize),
			entry(KeyS, core.ModNone, Stackize),
			entry(KeyI, core.ModNone, SwapModeNormalToInsert),
			entry(KeySpace, core.ModNone, SwapModeNormalToInsert),

			entry(KeyF, core.ModNone, PutFocus),
			entry(KeyJ, core.ModNone, PutJump),
			entry(KeyD, core.ModNone, PutDive),
			entry(KeyM, core.ModNone, PutMove),
			entry(KeyR, core.ModNone, PutResize),

			entry(KeyRight, core.ModNone, PutEast),
			entry(KeyLeft, core.ModNone, PutWest),
			entry(KeyUp, core.ModNone, PutNorth),
			entry(KeyDown, core.ModNone, PutSouth),
			entry(KeyPageUp, core.ModNone, PutForward),
			entry(KeyPageDown, core.ModNone, PutBackward),
			entry(KeyHome, core.ModNone, PutBegin),
			entry(KeyEnd, core.ModNone, PutEnd),

			entry(Key1, core.ModNone, PutMagnitude),
			entry(Key2, core.ModNone, PutMagnitude),
			entry(Key3, core.ModNone, PutMagnitude),
			entry(Key4, core.ModNone, PutMagnitude),
			entry(Key5, core.ModNone, PutMagnitude),
			entry(Key6, core.ModNone, PutMagnitude),
			entry(Key7, core.ModNone, PutMagnitude),
			entry(Key8, core.ModNone, PutMagnitude),
			entry(Key9, core.ModNone, PutMagnitude),
			entry(Key0, core.ModNone, PutMagnitude),
		},
		ModeInsert: {
			entry(KeyEsc, core.ModLMta, SwapModeInsertToNormal),

			entry(KeyRight, core.ModLMta, FocusRight),
			entry(KeyDown, core.ModLMta, FocusDown),
			entry(KeyLeft, core.ModLMta, FocusLeft),
			entry(KeyUp, core.ModLMta, FocusUp),
			entry(KeyTab, core.ModLMta, CycleHistoryForward),
			entry(KeyTab, core.ModLMta|core.ModLShf, CycleHistoryBackward),

			entry(KeyRight, core.ModLMta|core.ModLShf, JumpRight),
			entry(KeyDown, core.ModLMta|core.ModLShf, JumpDown),
			entry(KeyLeft, core.ModLMta|core.ModLShf, JumpLeft),
			entry(KeyUp, core.ModLMta|core.ModLShf, JumpUp),

			entry(KeyRight, core.ModLMta|core.ModLAlt, DiveRight),
			entry(KeyDown, core.ModLMta|core.ModLAlt, DiveDown),
			entry(KeyLeft, core.ModLMta|core.ModLAlt, DiveLeft),
			entry(KeyUp, core.ModLMta|core.ModLAlt, DiveUp),

			entry(KeyHome, core.ModLMta, Exalt),
			entry(KeyEnd, core.ModLMta, Ramify),
			entry(KeySpace, core.ModLMta, Anchorize),

			entry(Key1, core.ModLMta, FocusWorkspace),
			entry(Key2, core.ModLMta, FocusWorkspace),
			entry(Key3, core.ModLMta, FocusWorkspace),
			entry(Key4, core.ModLMta, FocusWorkspace),
			entry(Key5, core.ModLMta, FocusWorkspace),
			entry(Key6, core.ModLMta, FocusWorkspace),
			entry(Key7, core.ModLMta, FocusWorkspace),
			entry(Key8, core.ModLMta, FocusWorkspace),
			entry(Key9, core.ModLMta, FocusWorkspace),
			entry(Key0, core.ModLMta, FocusWorkspace),

			entry(Key1, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key2, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key3, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key4, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key5, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key6, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key7, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key8, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key9, core.ModLMta|core.ModLShf, JumpToWorkspace),
			entry(Key0, core.ModLMta|core.ModLShf, JumpToWorkspace),

			entry(Key1, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key2, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key3, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key4, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key5, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key6, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key7, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key8, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key9, core.ModLMta|core.ModLAlt, DiveToWorkspace),
			entry(Key0, core.ModLMta|core.ModLAlt, DiveToWorkspace),
		},
	}
}
