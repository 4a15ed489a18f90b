package source

import "testing"

func TestInternerBasic(t *testing.T) {
	in := NewInterner()
	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to the empty string, got %q ok=%v", s, ok)
	}
	a := in.Intern("arguments")
	if a == NoStringID {
		t.Fatalf("non-empty string interned as NoStringID")
	}
	if again := in.Intern("arguments"); again != a {
		t.Fatalf("re-intern: %d != %d", again, a)
	}
	if _, ok := in.Find("missing"); ok {
		t.Fatalf("Find must not intern")
	}
	if in.Len() != 2 {
		t.Fatalf("len: %d", in.Len())
	}
	if s, ok := in.Lookup(a); !ok || s != "arguments" {
		t.Fatalf("lookup mismatch: %q", s)
	}
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Fatalf("unknown id resolved")
	}
}
