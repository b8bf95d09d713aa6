package stdlib

import (
	"testing"

	"github.com/rillscript/rill/internal/value"
)

func TestJSONGetSetFormatRoundTrip(t *testing.T) {
	reg := newRegistry()
	doc := `{"name":"ada","age":30}`

	name := call(t, reg, "json_get", value.Str(doc), value.Str("name"))
	s, _ := value.Unwrap[string](name)
	if s != "ada" {
		t.Errorf("expected name ada, got %q", s)
	}

	age := call(t, reg, "json_get", value.Str(doc), value.Str("age"))
	n, err := value.Unwrap[int64](age)
	if err != nil || n != 30 {
		t.Errorf("expected age=30 as an int64, got %v (err=%v)", n, err)
	}

	updated := call(t, reg, "json_set", value.Str(doc), value.Str("name"), value.Str("grace"))
	updatedDoc, _ := value.Unwrap[string](updated)
	gotName := call(t, reg, "json_get", value.Str(updatedDoc), value.Str("name"))
	s2, _ := value.Unwrap[string](gotName)
	if s2 != "grace" {
		t.Errorf("expected updated name grace, got %q", s2)
	}

	pretty := call(t, reg, "json_format", value.Str(updatedDoc))
	prettyStr, _ := value.Unwrap[string](pretty)
	if prettyStr == updatedDoc {
		t.Errorf("expected json_format to change the document's whitespace")
	}
}

func TestJSONGetArrayAndScalarTypes(t *testing.T) {
	reg := newRegistry()
	doc := `{"tags":["a","b","c"],"active":true,"ratio":1.5,"deleted":null}`

	tags := call(t, reg, "json_get", value.Str(doc), value.Str("tags"))
	elems, err := value.Unwrap[[]value.Value](tags)
	if err != nil || len(elems) != 3 {
		t.Fatalf("expected a 3-element array, got %v (err=%v)", elems, err)
	}
	first, _ := value.Unwrap[string](elems[0])
	if first != "a" {
		t.Errorf("expected first tag %q, got %q", "a", first)
	}

	active := call(t, reg, "json_get", value.Str(doc), value.Str("active"))
	b, err := value.Unwrap[bool](active)
	if err != nil || !b {
		t.Errorf("expected active=true, got %v (err=%v)", b, err)
	}

	ratio := call(t, reg, "json_get", value.Str(doc), value.Str("ratio"))
	f, err := value.Unwrap[float64](ratio)
	if err != nil || f != 1.5 {
		t.Errorf("expected ratio=1.5 as a float64, got %v (err=%v)", f, err)
	}

	deleted := call(t, reg, "json_get", value.Str(doc), value.Str("deleted"))
	if !deleted.IsUnit() {
		t.Errorf("expected a JSON null to convert to the unit value, got %v", deleted)
	}
}

func TestJSONGetMissingPathFails(t *testing.T) {
	reg := newRegistry()
	fn, ok := reg.Lookup("json_get", []value.TypeID{value.String, value.String})
	if !ok {
		t.Fatalf("json_get not registered")
	}
	if _, err := fn([]value.Value{value.Str(`{}`), value.Str("missing")}); err == nil {
		t.Fatalf("expected an error for a missing JSON path")
	}
}
