package stdlib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rillscript/rill/internal/value"
)

func TestLoadSidecarConfigMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadSidecarConfig(filepath.Join(dir, "script.rill"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected a nil config map, got %v", cfg)
	}
}

func TestLoadSidecarConfigReadsScalars(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "script.rill")
	yaml := "name: \"ada\"\nage: 30\nratio: 1.5\nactive: true\n"
	if err := os.WriteFile(scriptPath+".rill.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	cfg, err := LoadSidecarConfig(scriptPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, err := value.Unwrap[string](cfg["name"])
	if err != nil || name != "ada" {
		t.Errorf("expected name=ada, got %v (err=%v)", name, err)
	}
	age, err := value.Unwrap[int64](cfg["age"])
	if err != nil || age != 30 {
		t.Errorf("expected age=30, got %v (err=%v)", age, err)
	}
	ratio, err := value.Unwrap[float64](cfg["ratio"])
	if err != nil || ratio != 1.5 {
		t.Errorf("expected ratio=1.5, got %v (err=%v)", ratio, err)
	}
	active, err := value.Unwrap[bool](cfg["active"])
	if err != nil || !active {
		t.Errorf("expected active=true, got %v (err=%v)", active, err)
	}
}
