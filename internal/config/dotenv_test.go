package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HFF_HOME at a fresh directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".hff")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvHome, dir)
	t.Setenv(EnvDataRoot, "")
	t.Setenv(EnvBackend, "")
	return dir
}

func writeDotEnv(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDotEnv_NotExist(t *testing.T) {
	isolate(t)

	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestLoadDotEnv_Syntax(t *testing.T) {
	dir := isolate(t)
	writeDotEnv(t, dir, "# comment\n\nA=1\nexport B = two\nC=\"/data/with space\"\nD='x'\nE=\n")

	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	want := map[string]string{"A": "1", "B": "two", "C": "/data/with space", "D": "x", "E": ""}
	if len(m) != len(want) {
		t.Fatalf("got %v, want %v", m, want)
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %q, want %q", k, m[k], v)
		}
	}
}

func TestLoadDotEnv_RejectsMalformedLine(t *testing.T) {
	dir := isolate(t)
	writeDotEnv(t, dir, "A=1\nnot a pair\n")

	_, err := LoadDotEnv()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("error should name line 2: %v", err)
	}
}

func TestOverrides_EnvWinsOverDotEnv(t *testing.T) {
	dir := isolate(t)
	writeDotEnv(t, dir, "HFF_DATA_ROOT=/from/dotenv\nHFF_BACKEND=dotenv\nOTHER=ignored\n")
	t.Setenv(EnvDataRoot, "/from/env")

	got, err := Overrides()
	if err != nil {
		t.Fatalf("Overrides: %v", err)
	}
	if got[EnvDataRoot] != "/from/env" {
		t.Errorf("data root = %q, want env value", got[EnvDataRoot])
	}
	if got[EnvBackend] != "dotenv" {
		t.Errorf("backend = %q, want dotenv value", got[EnvBackend])
	}
	if _, ok := got["OTHER"]; ok {
		t.Errorf("unknown key leaked into overrides: %v", got)
	}
}

func TestOverrides_EmptyValuesAreUnset(t *testing.T) {
	dir := isolate(t)
	writeDotEnv(t, dir, "HFF_DATA_ROOT=\n")

	got, err := Overrides()
	if err != nil {
		t.Fatalf("Overrides: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no overrides, got %v", got)
	}
}

func TestEnsureDotEnvTemplate_DoesNotOverwrite(t *testing.T) {
	dir := isolate(t)
	writeDotEnv(t, dir, "HFF_BACKEND=keep\n")

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "HFF_BACKEND=keep\n" {
		t.Fatalf("template overwrote existing file: %q", string(b))
	}
}

func TestEnsureDotEnvTemplate_ParsesBack(t *testing.T) {
	isolate(t)

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	for _, k := range []string{EnvDataRoot, EnvBackend} {
		if v, ok := m[k]; !ok || v != "" {
			t.Errorf("template entry %s = %q, %v", k, v, ok)
		}
	}
}
