package fsys

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemFS implements FS in memory.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	// failWrite holds injected WriteFile errors by path.
	failWrite map[string]error
}

// NewMemFS creates a new in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files:     make(map[string][]byte),
		dirs:      map[string]bool{"/": true},
		failWrite: make(map[string]error),
	}
}

// Ensure MemFS implements FS.
var _ FS = (*MemFS)(nil)

// ReadFile reads the entire file content.
func (m *MemFS) ReadFile(filePath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	content, ok := m.files[filePath]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: filePath, Err: fs.ErrNotExist}
	}

	// Return a copy to prevent modification
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// WriteFile stores data at filePath. Parent directories are created.
func (m *MemFS) WriteFile(filePath string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = cleanPath(filePath)
	if err, ok := m.failWrite[filePath]; ok {
		return &fs.PathError{Op: "write", Path: filePath, Err: err}
	}

	m.mkdirAll(path.Dir(filePath))
	content := make([]byte, len(data))
	copy(content, data)
	m.files[filePath] = content
	return nil
}

// MkdirAll creates a directory and all parent directories.
func (m *MemFS) MkdirAll(dirPath string, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mkdirAll(cleanPath(dirPath))
	return nil
}

func (m *MemFS) mkdirAll(dirPath string) {
	for dirPath != "/" && dirPath != "." {
		m.dirs[dirPath] = true
		dirPath = path.Dir(dirPath)
	}
}

// Remove removes a file or an empty directory.
func (m *MemFS) Remove(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = cleanPath(filePath)
	if m.dirs[filePath] {
		prefix := filePath + "/"
		for p := range m.files {
			if strings.HasPrefix(p, prefix) {
				return &fs.PathError{Op: "remove", Path: filePath, Err: ErrDirNotEmpty}
			}
		}
		for d := range m.dirs {
			if strings.HasPrefix(d, prefix) {
				return &fs.PathError{Op: "remove", Path: filePath, Err: ErrDirNotEmpty}
			}
		}
		delete(m.dirs, filePath)
		return nil
	}
	delete(m.files, filePath)
	return nil
}

// Exists returns true if the path exists.
func (m *MemFS) Exists(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	_, ok := m.files[filePath]
	return ok || m.dirs[filePath]
}

// AddFile is a helper to add a file with content.
func (m *MemFS) AddFile(filePath, content string) {
	_ = m.WriteFile(filePath, []byte(content), 0o644)
}

// FailWrites makes every WriteFile to filePath fail with err.
func (m *MemFS) FailWrites(filePath string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failWrite[cleanPath(filePath)] = err
}

// Files returns all file paths in sorted order.
func (m *MemFS) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]string, 0, len(m.files))
	for p := range m.files {
		files = append(files, p)
	}
	sort.Strings(files)
	return files
}

func cleanPath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
