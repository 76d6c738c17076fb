package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func write(t *testing.T, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "docs")
	cfg := &sample{Count: 3}
	if err := Load(write(t, "name: ${SAMPLE_NAME}\n"), cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "docs" || cfg.Count != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &sample{}); err == nil {
		t.Error("missing file should fail")
	}
	if err := Load(write(t, "name: [unclosed\n"), &sample{}); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("parse error = %v", err)
	}
	if err := Load(write(t, "count: 1\n"), &sample{}); err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("validation error = %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	cfg := &sample{Name: "default"}
	if err := LoadOptional(missing, cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Name != "default" {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := LoadOptional(missing, &sample{}); err == nil {
		t.Error("invalid defaults should fail validation")
	}
	cfg = &sample{Name: "default"}
	if err := LoadOptional(write(t, "name: file\n"), cfg); err != nil || cfg.Name != "file" {
		t.Errorf("cfg = %+v, err = %v", cfg, err)
	}
}

func TestDecode_SkipsValidation(t *testing.T) {
	cfg := &sample{}
	if err := Decode(write(t, "count: 2\n"), cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Count != 2 || cfg.Name != "" {
		t.Errorf("cfg = %+v", cfg)
	}
	cfg.Name = "fixed"
	if err := validate(cfg); err != nil {
		t.Errorf("validate after fix: %v", err)
	}
}

func TestDecodeOptional(t *testing.T) {
	cfg := &sample{}
	if err := DecodeOptional(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err != nil {
		t.Fatalf("DecodeOptional: %v", err)
	}
	if *cfg != (sample{}) {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := DecodeOptional(write(t, "name: [unclosed\n"), cfg); err == nil {
		t.Error("parse error expected")
	}
}
