package stdlib

import (
	"testing"

	"github.com/rillscript/rill/internal/value"
)

func TestArraySortNatural(t *testing.T) {
	reg := newRegistry()
	in := value.Arr([]value.Value{
		value.Str("item10"), value.Str("item2"), value.Str("item1"),
	})
	v := call(t, reg, "array_sort_natural", in)
	elems, _ := value.Unwrap[[]value.Value](v)
	want := []string{"item1", "item2", "item10"}
	if len(elems) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(elems))
	}
	for i, w := range want {
		s, _ := value.Unwrap[string](elems[i])
		if s != w {
			t.Errorf("index %d: expected %q, got %q", i, w, s)
		}
	}
}
