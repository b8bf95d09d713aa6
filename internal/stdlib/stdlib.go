package stdlib

import "github.com/rillscript/rill/internal/registry"

// Register installs every built-in library function into reg. Called once
// per Engine, after internal/eval.Bootstrap has installed the operators the
// grammar itself relies on.
func Register(reg *registry.Registry) {
	registerText(reg)
	registerJSON(reg)
	registerArray(reg)
}
