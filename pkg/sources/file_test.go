package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFile_Lookup(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "db_password"), []byte("  s3cret\n"), 0600); err != nil {
		t.Fatalf("Failed to write secret file: %v", err)
	}

	source := NewFile(dir)

	t.Run("reads and trims the file", func(t *testing.T) {
		v, ok := source.Lookup("db_password")
		if !ok {
			t.Fatal("Expected hit for existing secret file")
		}
		if v != "s3cret" {
			t.Errorf("Expected 's3cret', got %q", v)
		}
	})

	t.Run("missing file is a miss", func(t *testing.T) {
		if _, ok := source.Lookup("absent"); ok {
			t.Error("Expected miss for missing file")
		}
	})

	t.Run("empty key is a miss", func(t *testing.T) {
		if _, ok := source.Lookup(""); ok {
			t.Error("Expected miss for empty key")
		}
	})

	t.Run("absolute path is rejected", func(t *testing.T) {
		if _, ok := source.Lookup(filepath.Join(dir, "db_password")); ok {
			t.Error("Expected miss for absolute key")
		}
	})

	t.Run("dot-dot-prefixed filename is served", func(t *testing.T) {
		// "..token" names a file inside the directory, not a traversal
		if err := os.WriteFile(filepath.Join(dir, "..token"), []byte("dotted"), 0600); err != nil {
			t.Fatalf("Failed to write secret file: %v", err)
		}

		v, ok := source.Lookup("..token")
		if !ok {
			t.Fatal("Expected hit for dot-dot-prefixed filename")
		}
		if v != "dotted" {
			t.Errorf("Expected 'dotted', got %q", v)
		}
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(dir), "outside")
		if err := os.WriteFile(outside, []byte("leaked"), 0600); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}

		if _, ok := source.Lookup(filepath.Join("..", filepath.Base(outside))); ok {
			t.Error("Expected miss for traversal key")
		}
	})

	t.Run("unconfigured directory is a miss", func(t *testing.T) {
		if _, ok := NewFile("").Lookup("anything"); ok {
			t.Error("Expected miss for unconfigured source")
		}
	})
}

func TestFileConfig_Validate(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		cfg := FileConfig{SecretsDir: t.TempDir()}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("empty directory is invalid", func(t *testing.T) {
		if err := (FileConfig{}).Validate(); err == nil {
			t.Error("Expected error for empty secrets_dir")
		}
	})

	t.Run("nonexistent directory is invalid", func(t *testing.T) {
		cfg := FileConfig{SecretsDir: filepath.Join(t.TempDir(), "nope")}
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for nonexistent secrets_dir")
		}
	})

	t.Run("file instead of directory is invalid", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}

		cfg := FileConfig{SecretsDir: file}
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for non-directory secrets_dir")
		}
	})
}
