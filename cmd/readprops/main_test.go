package main

import (
	"testing"
)

func TestStringList(t *testing.T) {
	var profiles stringList

	if err := profiles.Set("dev"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := profiles.Set("staging"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if len(profiles) != 2 || profiles[0] != "dev" || profiles[1] != "staging" {
		t.Errorf("Unexpected profiles: %v", profiles)
	}

	if got := profiles.String(); got != "dev,staging" {
		t.Errorf("Expected 'dev,staging', got %q", got)
	}
}

func TestDefinitionList(t *testing.T) {
	t.Run("parses key=value", func(t *testing.T) {
		defs := definitionList{}

		if err := defs.Set("build.number=42"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if defs["build.number"] != "42" {
			t.Errorf("Expected '42', got %q", defs["build.number"])
		}
	})

	t.Run("value may contain equals signs", func(t *testing.T) {
		defs := definitionList{}

		if err := defs.Set("query=a=b"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if defs["query"] != "a=b" {
			t.Errorf("Expected 'a=b', got %q", defs["query"])
		}
	})

	t.Run("last definition wins", func(t *testing.T) {
		defs := definitionList{}

		_ = defs.Set("key=first")
		_ = defs.Set("key=second")

		if defs["key"] != "second" {
			t.Errorf("Expected 'second', got %q", defs["key"])
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		defs := definitionList{}

		if err := defs.Set("no-equals"); err == nil {
			t.Error("Expected error for missing '=', got nil")
		}
		if err := defs.Set("=value"); err == nil {
			t.Error("Expected error for empty key, got nil")
		}
	})
}
