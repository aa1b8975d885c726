package tweak

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Preset is a saved set of values: folder tables of label = value.
// Actions are never stored.
type Preset map[string]map[string]any

// Snapshot captures the current float and bool values.
func (r *Registry) Snapshot() Preset {
	p := make(Preset)
	for _, c := range r.controls {
		var v any
		switch c.Kind {
		case Float:
			v = *c.f
		case Bool:
			v = *c.b
		default:
			continue
		}
		if p[c.Folder] == nil {
			p[c.Folder] = make(map[string]any)
		}
		p[c.Folder][c.Label] = v
	}
	return p
}

// Apply writes preset values through the bindings and returns how many
// were applied. Unknown names are skipped; type mismatches are errors.
func (r *Registry) Apply(p Preset) (int, error) {
	n := 0
	for folder, values := range p {
		for label, raw := range values {
			name := folder + "/" + label
			if _, ok := r.byName[name]; !ok {
				continue
			}
			var err error
			switch v := raw.(type) {
			case float64:
				err = r.SetFloat(name, v)
			case int64:
				err = r.SetFloat(name, float64(v))
			case bool:
				err = r.SetBool(name, v)
			default:
				err = fmt.Errorf("tweak: %s: unsupported value %T", name, raw)
			}
			if err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// SavePreset writes the current values to path as TOML.
func (r *Registry) SavePreset(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tweak: create preset: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(r.Snapshot()); err != nil {
		return fmt.Errorf("tweak: encode preset: %w", err)
	}
	return nil
}

// LoadPreset reads a TOML preset from path and applies it.
func (r *Registry) LoadPreset(path string) (int, error) {
	var p Preset
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return 0, fmt.Errorf("tweak: decode preset %s: %w", path, err)
	}
	return r.Apply(p)
}
