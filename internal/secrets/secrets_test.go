package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingDirIsEmpty(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestLoad_ReadsAndTrims(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "search-api-key"), []byte("  abc123\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["search-api-key"] != "abc123" {
		t.Errorf("expected trimmed value, got %q", got["search-api-key"])
	}
	if _, ok := got[".hidden"]; ok {
		t.Error("dotfiles must be skipped")
	}
}

func TestResolve_EnvWins(t *testing.T) {
	t.Setenv("CLAIMSTREAM_TEST_KEY", "from-env")
	loaded := map[string]string{"test-key": "from-file"}

	if got := Resolve(loaded, "CLAIMSTREAM_TEST_KEY", "test-key"); got != "from-env" {
		t.Errorf("expected env value, got %q", got)
	}
	if got := Resolve(loaded, "CLAIMSTREAM_UNSET_KEY", "test-key"); got != "from-file" {
		t.Errorf("expected file value, got %q", got)
	}
}
