package store

import (
	"testing"

	"github.com/animalet/properties-go/pkg/properties"
)

func TestMemory(t *testing.T) {
	t.Run("merge and get", func(t *testing.T) {
		s := NewMemory()

		if err := s.Merge(properties.Map{"a": "1", "b": "2"}); err != nil {
			t.Fatalf("Merge() error = %v", err)
		}

		if v, ok := s.Get("a"); !ok || v != "1" {
			t.Errorf("Expected '1', got %q (ok=%v)", v, ok)
		}

		if _, ok := s.Get("absent"); ok {
			t.Error("Expected miss for absent key")
		}
	})

	t.Run("merge overwrites existing keys only", func(t *testing.T) {
		s := NewMemory()

		_ = s.Merge(properties.Map{"a": "old", "keep": "kept"})
		_ = s.Merge(properties.Map{"a": "new"})

		if v, _ := s.Get("a"); v != "new" {
			t.Errorf("Expected 'new', got %q", v)
		}
		if v, _ := s.Get("keep"); v != "kept" {
			t.Errorf("Expected 'kept', got %q", v)
		}
	})

	t.Run("snapshot is independent", func(t *testing.T) {
		s := NewMemory()
		_ = s.Merge(properties.Map{"a": "1"})

		snap := s.Snapshot()
		snap["a"] = "mutated"

		if v, _ := s.Get("a"); v != "1" {
			t.Errorf("Expected '1', got %q", v)
		}
	})
}

func TestRedisConfig_Validate(t *testing.T) {
	if err := (RedisConfig{Address: "localhost:6379"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (RedisConfig{}).Validate(); err == nil {
		t.Error("Expected error for missing address")
	}
}

func TestMemcachedConfig_Validate(t *testing.T) {
	if err := (MemcachedConfig{Addresses: []string{"localhost:11211"}}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (MemcachedConfig{}).Validate(); err == nil {
		t.Error("Expected error for missing addresses")
	}
}

func TestPostgresConfig_Validate(t *testing.T) {
	if err := (PostgresConfig{URL: "postgres://localhost:5432/db"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (PostgresConfig{}).Validate(); err == nil {
		t.Error("Expected error for missing URL")
	}
}

func TestMongoConfig_Validate(t *testing.T) {
	if err := (MongoConfig{URI: "mongodb://localhost:27017", Database: "cfg"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (MongoConfig{URI: "mongodb://localhost:27017"}).Validate(); err == nil {
		t.Error("Expected error for missing database")
	}
	if err := (MongoConfig{Database: "cfg"}).Validate(); err == nil {
		t.Error("Expected error for missing URI")
	}
}

func TestStoreDefaults(t *testing.T) {
	t.Run("redis hash default", func(t *testing.T) {
		s := NewRedis(nil, "")
		if s.hash != "properties" {
			t.Errorf("Expected 'properties', got %q", s.hash)
		}
	})

	t.Run("memcached prefix default", func(t *testing.T) {
		s := NewMemcached(nil, "")
		if s.prefix != "properties:" {
			t.Errorf("Expected 'properties:', got %q", s.prefix)
		}
	})

	t.Run("postgres table default", func(t *testing.T) {
		s := NewPostgres(nil, "")
		if s.table != "properties" {
			t.Errorf("Expected 'properties', got %q", s.table)
		}
	})
}
