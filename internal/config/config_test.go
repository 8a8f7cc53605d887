package config

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Listen == "" {
		t.Fatalf("default listen address is empty")
	}
	if !cfg.Guid || !cfg.CacheRequest {
		t.Fatalf("guid and cache-request support default to enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %s", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
listen: ":9000"
guid: false
max_instructions: 5000
trace_db: /tmp/traces.db
`))
	if err != nil {
		t.Fatalf("parse: %s", err)
	}
	if cfg.Listen != ":9000" {
		t.Fatalf("listen = %q", cfg.Listen)
	}
	if cfg.Guid {
		t.Fatalf("guid override ignored")
	}
	if !cfg.CacheRequest {
		t.Fatalf("unset field must keep its default")
	}
	if cfg.MaxInstructions != 5000 {
		t.Fatalf("max_instructions = %d", cfg.MaxInstructions)
	}
	if cfg.TraceDB != "/tmp/traces.db" {
		t.Fatalf("trace_db = %q", cfg.TraceDB)
	}
}

func TestParseRejectsEmptyListen(t *testing.T) {
	_, err := Parse([]byte(`listen: ""`))
	if err == nil || !strings.Contains(err.Error(), "listen") {
		t.Fatalf("expected listen validation error, got %v", err)
	}
}

func TestParseRejectsNegativeBudget(t *testing.T) {
	_, err := Parse([]byte(`max_instructions: -1`))
	if err == nil {
		t.Fatalf("expected max_instructions validation error")
	}
}

func TestParseRejectsBadYaml(t *testing.T) {
	if _, err := Parse([]byte("listen: [")); err == nil {
		t.Fatalf("expected yaml parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
