package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBaseDirDefault(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := BaseDir("")
	want := filepath.Join(home, ".udc")
	if got != want {
		t.Errorf("BaseDir(\"\") = %q, want %q", got, want)
	}
}

func TestBaseDirOverride(t *testing.T) {
	got := BaseDir("/tmp/custom")
	if got != "/tmp/custom" {
		t.Errorf("BaseDir(override) = %q, want /tmp/custom", got)
	}
}

func TestDBPath(t *testing.T) {
	got := DBPath("/data")
	want := filepath.Join("/data", "udc.db")
	if got != want {
		t.Errorf("DBPath = %q, want %q", got, want)
	}
}

func TestEnsureDirs(t *testing.T) {
	base := filepath.Join(t.TempDir(), "udc")
	if err := EnsureDirs(base); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}

	for _, d := range []string{base, LogDir(base)} {
		info, err := os.Stat(d)
		if err != nil {
			t.Fatalf("dir %s not created: %v", d, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
		if perm := info.Mode().Perm(); perm != 0700 {
			t.Errorf("%s permission = %o, want 0700", d, perm)
		}
	}
}
