package stdlib

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/rillscript/rill/internal/value"
)

// LoadSidecarConfig reads "<scriptPath>.rill.yaml", if present, and converts
// its top-level scalar entries into dynamic values a host can seed a
// script's scope with before evaluation (SPEC_FULL.md "DOMAIN STACK": a
// config layer the original distillation never named, added here because
// the engine has no script-level config syntax of its own). A missing
// sidecar file is not an error — it just means no extra bindings.
func LoadSidecarConfig(scriptPath string) (map[string]value.Value, error) {
	path := scriptPath + ".rill.yaml"
	data, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make(map[string]value.Value, len(raw))
	for k, v := range raw {
		dv, ok := scalarToValue(v)
		if !ok {
			continue
		}
		out[k] = dv
	}
	return out, nil
}

func scalarToValue(v any) (value.Value, bool) {
	switch t := v.(type) {
	case string:
		return value.Str(t), true
	case bool:
		return value.Bln(t), true
	case int:
		return value.Int(int64(t)), true
	case int64:
		return value.Int(t), true
	case uint64:
		return value.Int(int64(t)), true
	case float64:
		return value.Flt(t), true
	case float32:
		return value.Flt(float64(t)), true
	default:
		// Sequences/maps/null have no direct dynamic-value shape other than
		// Array, which config.go does not attempt to infer from YAML.
		return value.Value{}, false
	}
}
