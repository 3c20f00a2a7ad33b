// Package config loads the compositor configuration from YAML files. The
// built-in defaults are loaded first, then every *.conf file from the
// system and user configuration directories; later files override earlier
// ones field by field. A file that fails to parse is skipped with an error
// log and does not prevent loading of the others.
package config

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/pkg/binding"
)

// Config is the root of the configuration tree.
type Config struct {
	Aesthetics  AestheticsConfig  `json:"aesthetics"`
	Exhibitor   ExhibitorConfig   `json:"exhibitor"`
	Input       InputConfig       `json:"input"`
	Keyboard    KeyboardConfig    `json:"keyboard"`
	Keybindings KeybindingsConfig `json:"keybindings"`
}

// AestheticsConfig selects the visual extras.
type AestheticsConfig struct {
	BackgroundPath string `json:"background_path"`
}

// ExhibitorConfig configures the compositor and placement policy.
type ExhibitorConfig struct {
	Compositor CompositorConfig `json:"compositor"`
	Strategist StrategistConfig `json:"strategist"`
}

// CompositorConfig holds the compositor step sizes.
type CompositorConfig struct {
	MoveStep   uint `json:"move_step"`
	ResizeStep uint `json:"resize_step"`
}

// StrategistConfig names the placement strategies.
type StrategistConfig struct {
	ChooseTarget   string `json:"choose_target"`
	ChooseFloating string `json:"choose_floating"`
}

// InputConfig holds input device scaling.
type InputConfig struct {
	TouchpadScale             float64 `json:"touchpad_scale"`
	TouchpadPressureThreshold int     `json:"touchpad_pressure_threshold"`
	MouseScale                float64 `json:"mouse_scale"`
}

// KeyboardConfig selects the keymap.
type KeyboardConfig struct {
	Layout  string `json:"layout"`
	Variant string `json:"variant"`
}

// KeybindingsConfig lists extra bindings per input mode.
type KeybindingsConfig struct {
	Common []BindingSpec `json:"common"`
	Normal []BindingSpec `json:"normal"`
	Insert []BindingSpec `json:"insert"`
}

// BindingSpec is one configured key binding: either a named action or a
// command line to execute.
type BindingSpec struct {
	Key     string   `json:"key"`
	Mods    []string `json:"mods"`
	Action  string   `json:"action"`
	Execute []string `json:"execute"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Exhibitor: ExhibitorConfig{
			Compositor: CompositorConfig{
				MoveStep:   10,
				ResizeStep: 10,
			},
			Strategist: StrategistConfig{
				ChooseTarget:   "anchored_but_popups",
				ChooseFloating: "always_in_center",
			},
		},
		Input: InputConfig{
			TouchpadScale:             1.0,
			TouchpadPressureThreshold: 50,
			MouseScale:                1.0,
		},
		Keyboard: KeyboardConfig{
			Layout: "us",
		},
	}
}

// DefaultDirs returns the configuration lookup order: the system directory
// first, then the user directory.
func DefaultDirs() []string {
	dirs := []string{"/etc/perceptia"}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "perceptia"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "perceptia"))
	}
	return dirs
}

// BindingTables converts the configured bindings into engine tables
// layered over the defaults. Invalid entries are skipped with a warning.
func (c *Config) BindingTables() map[binding.ModeName][]binding.Entry {
	tables := binding.DefaultTables()
	appendSpecs := func(name binding.ModeName, specs []BindingSpec) {
		for _, spec := range specs {
			entry, err := spec.toEntry()
			if err != nil {
				log.Warnf("ignoring keybinding for %q: %s", spec.Key, err)
				continue
			}
			tables[name] = append(tables[name], entry)
		}
	}
	appendSpecs(binding.ModeCommon, c.Keybindings.Common)
	appendSpecs(binding.ModeNormal, c.Keybindings.Normal)
	appendSpecs(binding.ModeInsert, c.Keybindings.Insert)
	return tables
}

func (spec BindingSpec) toEntry() (binding.Entry, error) {
	b, err := binding.Parse(spec.Key, spec.Mods)
	if err != nil {
		return binding.Entry{}, err
	}
	if len(spec.Execute) > 0 {
		return binding.Entry{Binding: b, Action: binding.Spawn, Argv: spec.Execute}, nil
	}
	action, err := binding.ParseAction(spec.Action)
	if err != nil {
		return binding.Entry{}, err
	}
	return binding.Entry{Binding: b, Action: action}, nil
}
