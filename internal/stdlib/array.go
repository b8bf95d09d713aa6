package stdlib

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/value"
)

// registerArray installs array_sort_natural, which orders an array of
// strings the way a human expects ("item2" before "item10"), backed by
// maruel/natural.
func registerArray(reg *registry.Registry) {
	reg.Override("array_sort_natural", []value.TypeID{value.Array},
		func(args []value.Value) (value.Value, error) {
			elems, err := value.Unwrap[[]value.Value](args[0])
			if err != nil {
				return value.Value{}, err
			}
			strs := make([]string, len(elems))
			for i, e := range elems {
				s, err := value.Unwrap[string](e)
				if err != nil {
					return value.Value{}, err
				}
				strs[i] = s
			}
			sort.Slice(strs, func(i, j int) bool { return natural.Less(strs[i], strs[j]) })
			out := make([]value.Value, len(strs))
			for i, s := range strs {
				out[i] = value.Str(s)
			}
			return value.Arr(out), nil
		})
}
