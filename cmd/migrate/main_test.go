package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSqlFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_second.sql", "001_init.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	names, err := sqlFiles(dir)
	if err != nil {
		t.Fatalf("sqlFiles: %v", err)
	}

	want := []string{"001_init.sql", "002_second.sql"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}
