package namespace

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/nvim-keymap-migrator/internal/fsys"
	"github.com/dshills/nvim-keymap-migrator/internal/pipeline"
)

// MetadataVersion is the current metadata schema version.
const MetadataVersion = 1

// ErrCorruptMetadata indicates the metadata file exists but cannot be decoded.
var ErrCorruptMetadata = errors.New("install metadata is corrupt")

// Metadata records what an install wrote, so uninstall can revert exactly
// that and nothing else.
type Metadata struct {
	Version   int       `json:"version"`
	InstallID string    `json:"install_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Leader is the raw leader value written to targets.
	Leader string `json:"leader"`

	// Scalar provenance: true only if this tool wrote the setting.
	LeaderSet      bool `json:"leader_set"`
	VimrcPathSet   bool `json:"vimrc_path_set"`
	VimrcEnableSet bool `json:"vimrc_enable_set"`

	// LeaderValue is the exact vim.leader value written to VS Code.
	LeaderValue string `json:"leader_value,omitempty"`

	// VimrcPath is the value written to the vimrc path setting.
	VimrcPath string `json:"vimrc_path,omitempty"`

	ConfigPath string `json:"config_path"`

	// Targets lists installed targets.
	Targets []string `json:"targets"`

	// Counts holds the last install's bucket sizes per target.
	Counts map[string]pipeline.Counts `json:"counts,omitempty"`
}

// HasTarget reports whether target is installed.
func (m *Metadata) HasTarget(target string) bool {
	return slices.Contains(m.Targets, target)
}

// AddTarget records target as installed.
func (m *Metadata) AddTarget(target string) {
	if m.HasTarget(target) {
		return
	}
	m.Targets = append(m.Targets, target)
	sort.Strings(m.Targets)
}

// RemoveTarget drops target and its counts.
func (m *Metadata) RemoveTarget(target string) {
	m.Targets = slices.DeleteFunc(m.Targets, func(t string) bool { return t == target })
	delete(m.Counts, target)
}

// Store reads and writes the namespace directory.
type Store struct {
	fs    fsys.FS
	paths Paths
	now   func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store rooted at paths.Dir().
func NewStore(fs fsys.FS, paths Paths, opts ...StoreOption) *Store {
	s := &Store{fs: fs, paths: paths, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paths returns the store's paths.
func (s *Store) Paths() Paths {
	return s.paths
}

// Load reads the metadata. A missing file returns (nil, nil).
func (s *Store) Load() (*Metadata, error) {
	data, ok, err := fsys.ReadFileOrEmpty(s.fs, s.paths.Metadata())
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptMetadata, s.paths.Metadata(), err)
	}
	if m.Version > MetadataVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptMetadata, m.Version)
	}
	return &m, nil
}

// Save writes m, stamping version, id and timestamps. CreatedAt and
// InstallID are kept once set.
func (s *Store) Save(m *Metadata) error {
	now := s.now().UTC()
	m.Version = MetadataVersion
	if m.InstallID == "" {
		m.InstallID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := s.fs.MkdirAll(s.paths.Dir(), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.paths.Dir(), err)
	}
	if err := s.fs.WriteFile(s.paths.Metadata(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// Remove deletes the metadata file.
func (s *Store) Remove() error {
	return s.fs.Remove(s.paths.Metadata())
}

// WriteVimrc writes the shared Vim script.
func (s *Store) WriteVimrc(content string) error {
	return s.write(s.paths.Vimrc(), content)
}

// WriteIntelliJ writes the IdeaVim action script.
func (s *Store) WriteIntelliJ(content string) error {
	return s.write(s.paths.IntelliJ(), content)
}

// RemoveIntelliJ deletes the IdeaVim action script.
func (s *Store) RemoveIntelliJ() error {
	return s.fs.Remove(s.paths.IntelliJ())
}

// RemoveVimrc deletes the shared Vim script.
func (s *Store) RemoveVimrc() error {
	return s.fs.Remove(s.paths.Vimrc())
}

// RemoveDir deletes the namespace directory if nothing else lives in it,
// and reports whether it is gone.
func (s *Store) RemoveDir() bool {
	if err := s.fs.Remove(s.paths.Dir()); err != nil {
		return false
	}
	return !s.fs.Exists(s.paths.Dir())
}

func (s *Store) write(path, content string) error {
	if err := s.fs.MkdirAll(s.paths.Dir(), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.paths.Dir(), err)
	}
	if err := s.fs.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
