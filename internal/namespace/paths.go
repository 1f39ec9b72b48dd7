// Package namespace owns the migrator's own directory: generated scripts,
// install metadata, and the locations of the external files it touches.
package namespace

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Name is the application directory name.
const Name = "nvim-keymap-migrator"

// File names inside the namespace directory.
const (
	VimrcFile    = ".vimrc"
	IntelliJFile = "intellij.rc"
	MetadataFile = "metadata.json"
)

// Paths resolves every file location the migrator reads or writes.
type Paths struct {
	// ConfigHome is the user configuration root ($XDG_CONFIG_HOME).
	ConfigHome string
	// Home is the user's home directory.
	Home string
	// GOOS selects the platform layout for editor settings.
	GOOS string
	// AppData is %APPDATA% on Windows.
	AppData string
}

// Default returns the paths for the current user and platform.
func Default() Paths {
	return Paths{
		ConfigHome: xdg.ConfigHome,
		Home:       xdg.Home,
		GOOS:       runtime.GOOS,
		AppData:    os.Getenv("APPDATA"),
	}
}

// Dir is the namespace directory.
func (p Paths) Dir() string {
	return filepath.Join(p.ConfigHome, Name)
}

// Vimrc is the shared Vim script.
func (p Paths) Vimrc() string {
	return filepath.Join(p.Dir(), VimrcFile)
}

// IntelliJ is the generated IdeaVim action script.
func (p Paths) IntelliJ() string {
	return filepath.Join(p.Dir(), IntelliJFile)
}

// Metadata is the install metadata file.
func (p Paths) Metadata() string {
	return filepath.Join(p.Dir(), MetadataFile)
}

// ConfigFile is the migrator's own configuration file.
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Dir(), "config.toml")
}

// IdeaVimrc is the IdeaVim startup file.
func (p Paths) IdeaVimrc() string {
	return filepath.Join(p.Home, ".ideavimrc")
}

// NvimConfig is the default Neovim configuration root.
func (p Paths) NvimConfig() string {
	return filepath.Join(p.ConfigHome, "nvim")
}

// VSCodeSettings is the VS Code user settings file.
func (p Paths) VSCodeSettings() string {
	switch p.GOOS {
	case "darwin":
		return filepath.Join(p.Home, "Library", "Application Support", "Code", "User", "settings.json")
	case "windows":
		base := p.AppData
		if base == "" {
			base = filepath.Join(p.Home, "AppData", "Roaming")
		}
		return filepath.Join(base, "Code", "User", "settings.json")
	default:
		return filepath.Join(p.ConfigHome, "Code", "User", "settings.json")
	}
}
