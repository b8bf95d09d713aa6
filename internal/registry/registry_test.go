package registry

import (
	"testing"

	"github.com/rillscript/rill/internal/value"
)

func echoInvoker(args []value.Value) (value.Value, error) {
	return args[0], nil
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	if err := r.Register("id", []value.TypeID{value.Int64}, echoInvoker); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn, ok := r.Lookup("id", []value.TypeID{value.Int64})
	if !ok {
		t.Fatalf("expected lookup to succeed")
	}
	got, _ := fn([]value.Value{value.Int(5)})
	n, _ := value.Unwrap[int64](got)
	if n != 5 {
		t.Errorf("expected 5, got %d", n)
	}
}

func TestLookupMissingSignatureFails(t *testing.T) {
	r := New()
	_ = r.Register("id", []value.TypeID{value.Int64}, echoInvoker)
	_, ok := r.Lookup("id", []value.TypeID{value.String})
	if ok {
		t.Errorf("expected no overload for a different signature")
	}
}

func TestRegisterDuplicateSignatureFails(t *testing.T) {
	r := New()
	_ = r.Register("id", []value.TypeID{value.Int64}, echoInvoker)
	err := r.Register("id", []value.TypeID{value.Int64}, echoInvoker)
	if err == nil {
		t.Fatalf("expected an error re-registering the same (name, sig)")
	}
	if _, ok := err.(*AlreadyRegisteredError); !ok {
		t.Errorf("expected *AlreadyRegisteredError, got %T", err)
	}
}

func TestOverloadsBySignatureCoexist(t *testing.T) {
	r := New()
	_ = r.Register("id", []value.TypeID{value.Int64}, echoInvoker)
	_ = r.Register("id", []value.TypeID{value.String}, echoInvoker)

	if _, ok := r.Lookup("id", []value.TypeID{value.Int64}); !ok {
		t.Errorf("expected the int64 overload to be registered")
	}
	if _, ok := r.Lookup("id", []value.TypeID{value.String}); !ok {
		t.Errorf("expected the string overload to be registered")
	}
}

func TestOverrideReplacesExistingEntry(t *testing.T) {
	r := New()
	_ = r.Register("id", []value.TypeID{value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Int(1), nil
	})
	r.Override("id", []value.TypeID{value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Int(2), nil
	})

	fn, _ := r.Lookup("id", []value.TypeID{value.Int64})
	got, _ := fn(nil)
	n, _ := value.Unwrap[int64](got)
	if n != 2 {
		t.Errorf("expected override to replace the invoker, got %d", n)
	}
}

func TestMethodRegistration(t *testing.T) {
	r := New()
	r.RegisterMethod("push", value.Array, []value.TypeID{value.Int64},
		func(self value.Value, args []value.Value) (value.Value, value.Value, error) {
			return value.NewUnit(), self, nil
		})
	_, ok := r.LookupMethod("push", value.Array, []value.TypeID{value.Int64})
	if !ok {
		t.Fatalf("expected method lookup to succeed")
	}
	_, ok = r.LookupMethod("push", value.Array, []value.TypeID{value.String})
	if ok {
		t.Errorf("expected no method overload for a mismatched arg signature")
	}
}

func TestGetSetRegistration(t *testing.T) {
	r := New()
	r.RegisterGetSet("len", value.Array,
		func(args []value.Value) (value.Value, error) { return value.Int(0), nil },
		func(self, val value.Value) (value.Value, error) { return self, nil },
	)
	if _, ok := r.LookupGetter("len", value.Array); !ok {
		t.Errorf("expected getter lookup to succeed")
	}
	if _, ok := r.LookupSetter("len", value.Array); !ok {
		t.Errorf("expected setter lookup to succeed")
	}
	if _, ok := r.LookupGetter("len", value.String); ok {
		t.Errorf("expected no getter registered for a different receiver type")
	}
}

func TestIndexGetSetRegistration(t *testing.T) {
	r := New()
	r.RegisterIndexGet(value.Array, func(self, index value.Value) (value.Value, error) {
		return value.Int(0), nil
	})
	r.RegisterIndexSet(value.Array, func(self, index, val value.Value) (value.Value, error) {
		return self, nil
	})
	if _, ok := r.LookupIndexGet(value.Array); !ok {
		t.Errorf("expected index-get lookup to succeed")
	}
	if _, ok := r.LookupIndexSet(value.Array); !ok {
		t.Errorf("expected index-set lookup to succeed")
	}
	if _, ok := r.LookupIndexGet(value.String); ok {
		t.Errorf("expected no index-get registered for a different receiver type")
	}
}

func TestTypeIDs(t *testing.T) {
	ids := TypeIDs([]value.Value{value.Int(1), value.Str("a"), value.Bln(true)})
	want := []value.TypeID{value.Int64, value.String, value.Bool}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], ids[i])
		}
	}
}
