package fsys

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFSWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "settings.json")

	fsys := NewOSFS()
	if err := fsys.WriteFile(target, []byte("one"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := fsys.WriteFile(target, []byte("two"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want existing 0600 kept", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no leftover temp files)", len(entries))
	}
}

func TestOSFSWriteFileMissingDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing", "settings.json")
	if err := NewOSFS().WriteFile(target, []byte("x"), 0o644); err == nil {
		t.Error("WriteFile() into missing directory should fail")
	}
}

func TestOSFSRemoveMissing(t *testing.T) {
	if err := NewOSFS().Remove(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("Remove(missing) error = %v, want nil", err)
	}
}

func TestReadFileOrEmpty(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/a/b.txt", "hello")

	data, ok, err := ReadFileOrEmpty(m, "/a/b.txt")
	if err != nil || !ok || string(data) != "hello" {
		t.Errorf("ReadFileOrEmpty(existing) = %q, %v, %v", data, ok, err)
	}

	data, ok, err = ReadFileOrEmpty(m, "/a/missing.txt")
	if err != nil || ok || data != nil {
		t.Errorf("ReadFileOrEmpty(missing) = %q, %v, %v", data, ok, err)
	}
}

func TestMemFS(t *testing.T) {
	m := NewMemFS()
	m.AddFile("home/user/.ideavimrc", "set number")

	if !m.Exists("/home/user") {
		t.Error("parent directory should exist after WriteFile")
	}
	if !m.Exists("/home/user/.ideavimrc") {
		t.Error("file should exist")
	}

	boom := errors.New("disk full")
	m.FailWrites("/home/user/.ideavimrc", boom)
	if err := m.WriteFile("/home/user/.ideavimrc", []byte("x"), 0o644); !errors.Is(err, boom) {
		t.Errorf("WriteFile() error = %v, want %v", err, boom)
	}

	got, _ := m.ReadFile("/home/user/.ideavimrc")
	if string(got) != "set number" {
		t.Errorf("failed write changed content to %q", got)
	}

	if err := m.Remove("/home/user/.ideavimrc"); err != nil {
		t.Fatal(err)
	}
	if m.Exists("/home/user/.ideavimrc") {
		t.Error("file should be removed")
	}
	if files := m.Files(); len(files) != 0 {
		t.Errorf("Files() = %v, want empty", files)
	}
}

func TestMemFSRemoveDir(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/cfg/app/metadata.json", "{}")

	if err := m.Remove("/cfg/app"); !errors.Is(err, ErrDirNotEmpty) {
		t.Errorf("Remove(non-empty) error = %v, want ErrDirNotEmpty", err)
	}
	if err := m.Remove("/cfg"); !errors.Is(err, ErrDirNotEmpty) {
		t.Errorf("Remove(parent) error = %v, want ErrDirNotEmpty", err)
	}

	_ = m.Remove("/cfg/app/metadata.json")
	if err := m.Remove("/cfg/app"); err != nil {
		t.Fatalf("Remove(empty) error = %v", err)
	}
	if m.Exists("/cfg/app") {
		t.Error("directory should be removed")
	}
}

func TestOSFSRemoveDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ns")
	fs := NewOSFS()
	if err := fs.WriteFile(filepath.Join(dir, "a"), []byte("x"), 0o644); err == nil {
		t.Fatal("WriteFile into a missing directory should fail")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove(dir); err != nil {
		t.Fatalf("Remove(empty dir) error = %v", err)
	}
	if fs.Exists(dir) {
		t.Error("directory should be removed")
	}
}
