package properties

import "testing"

func TestStatic(t *testing.T) {
	t.Run("lookup hit and miss", func(t *testing.T) {
		s := NewStatic("test", map[string]string{"key": "value"})

		if v, ok := s.Lookup("key"); !ok || v != "value" {
			t.Errorf("Expected 'value', got %q (ok=%v)", v, ok)
		}

		if _, ok := s.Lookup("absent"); ok {
			t.Error("Expected miss for absent key")
		}

		if s.Name() != "test" {
			t.Errorf("Expected name 'test', got %q", s.Name())
		}
	})

	t.Run("copies the definitions", func(t *testing.T) {
		defs := map[string]string{"key": "original"}
		s := NewStatic("test", defs)

		defs["key"] = "mutated"

		if v, _ := s.Lookup("key"); v != "original" {
			t.Errorf("Expected 'original', got %q", v)
		}
	})
}

func TestChain(t *testing.T) {
	first := NewStatic("first", map[string]string{"shared": "from-first", "only-first": "1"})
	second := NewStatic("second", map[string]string{"shared": "from-second", "only-second": "2"})
	chain := Chain{first, second}

	t.Run("first match wins", func(t *testing.T) {
		if v, _ := chain.Lookup("shared"); v != "from-first" {
			t.Errorf("Expected 'from-first', got %q", v)
		}
	})

	t.Run("falls through to later sources", func(t *testing.T) {
		if v, ok := chain.Lookup("only-second"); !ok || v != "2" {
			t.Errorf("Expected '2', got %q (ok=%v)", v, ok)
		}
	})

	t.Run("miss when no source defines the key", func(t *testing.T) {
		if _, ok := chain.Lookup("nowhere"); ok {
			t.Error("Expected miss")
		}
	})

	t.Run("empty chain always misses", func(t *testing.T) {
		if _, ok := (Chain{}).Lookup("anything"); ok {
			t.Error("Expected miss from empty chain")
		}
	})
}
