package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DataFile != DefaultDataFile {
		t.Fatalf("data_file = %q, want %q", c.DataFile, DefaultDataFile)
	}
	if c.GroupColumn != "Supervisor" || c.ColumnPrefix != "Q" || c.ColumnSuffix != "Number" {
		t.Fatalf("unexpected defaults: %#v", c)
	}
	if c.Precision != 3 || c.Format != "text" {
		t.Fatalf("unexpected output defaults: %#v", c)
	}
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.GroupColumn = "Manager"
	c.Precision = 5
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".qcov", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.GroupColumn != "Manager" || got.Precision != 5 {
		t.Fatalf("reloaded config = %#v", got)
	}
}

func TestLoadExplicitFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "qcov.yaml")
	if err := os.WriteFile(path, []byte("data_file: responses.csv\nprecision: 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("QCOV_GROUP_COLUMN", "Team")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DataFile != "responses.csv" || c.Precision != 2 {
		t.Fatalf("file values not applied: %#v", c)
	}
	if c.GroupColumn != "Team" {
		t.Fatalf("env override not applied: group_column = %q", c.GroupColumn)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestParseDelimiter(t *testing.T) {
	for in, want := range map[string]rune{"": 0, ",": ',', "tab": '\t', "\t": '\t', ";": ';'} {
		got, err := ParseDelimiter(in)
		if err != nil || got != want {
			t.Fatalf("ParseDelimiter(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDelimiter("|"); err == nil {
		t.Fatalf("expected error for unsupported delimiter")
	}
}
