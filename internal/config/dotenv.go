package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Environment keys read by hff.
const (
	EnvHome     = "HFF_HOME"
	EnvDataRoot = "HFF_DATA_ROOT"
	EnvBackend  = "HFF_BACKEND"
)

// overrideKeys are the settings that may replace hff.yaml values, with the
// line written for each in the .env template.
var overrideKeys = []struct{ key, help string }{
	{EnvDataRoot, "directory holding one subdirectory per cluster"},
	{EnvBackend, "lensing backend to stack with when several are linked"},
}

// DotEnvPath returns the path of the overrides file, ~/.hff/.env.
func DotEnvPath() (string, error) {
	dir, err := HFFDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadDotEnv parses ~/.hff/.env. A missing file yields an empty map.
//
// Lines are KEY=VALUE with an optional "export " prefix; blank lines and
// # comments are skipped, and one pair of surrounding quotes is removed from
// the value.
func LoadDotEnv() (map[string]string, error) {
	p, err := DotEnvPath()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", p, err)
	}
	defer f.Close()

	out := make(map[string]string)
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		k, v, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %s:%d: expected KEY=VALUE", ErrInvalidConfig, p, n)
		}
		out[k] = unquote(strings.TrimSpace(v))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", p, err)
	}
	return out, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// Overrides returns the effective value of every override key that is set,
// from the process environment first and ~/.hff/.env second.
func Overrides() (map[string]string, error) {
	dotenv, err := LoadDotEnv()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(overrideKeys))
	for _, o := range overrideKeys {
		if v := os.Getenv(o.key); v != "" {
			out[o.key] = v
		} else if v := dotenv[o.key]; v != "" {
			out[o.key] = v
		}
	}
	return out, nil
}

// EnsureDotEnvTemplate writes a commented ~/.hff/.env listing the override
// keys unless the file already exists.
func EnsureDotEnvTemplate() error {
	p, err := DotEnvPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot stat %s: %w", p, err)
	}

	var b strings.Builder
	b.WriteString("# Overrides for hff.yaml. The process environment wins over this file.\n")
	for _, o := range overrideKeys {
		fmt.Fprintf(&b, "\n# %s\n%s=\n", o.help, o.key)
	}
	if err := os.WriteFile(p, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("cannot write %s: %w", p, err)
	}
	return nil
}
