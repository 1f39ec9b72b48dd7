package registry

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Target identifies an editor the registry has commands for.
type Target string

// Supported targets.
const (
	TargetVSCode   Target = "vscode"
	TargetIntelliJ Target = "intellij"
)

// Targets lists every supported target in a stable order.
func Targets() []Target {
	return []Target{TargetVSCode, TargetIntelliJ}
}

// ParseTarget validates a target name.
func ParseTarget(name string) (Target, bool) {
	switch Target(Normalize(name)) {
	case TargetVSCode:
		return TargetVSCode, true
	case TargetIntelliJ:
		return TargetIntelliJ, true
	}
	return "", false
}

//go:embed tables/*.toml
var embedded embed.FS

// mappingTables are merged in order; later tables win on duplicate intents.
var mappingTables = []string{
	"lsp.toml",
	"git.toml",
	"navigation.toml",
	"editing.toml",
}

const (
	aliasTable   = "aliases.toml"
	overlayAlias = "aliases"
)

// Registry is an immutable intent -> target -> command snapshot.
type Registry struct {
	mappings map[string]map[Target]string
	aliases  map[string]string
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fsys    fs.FS
	overlay string
}

// WithFS loads the tables from fsys instead of the embedded copy.
// fsys must contain the same file names under "tables/".
func WithFS(fsys fs.FS) Option {
	return func(o *loadOptions) {
		o.fsys = fsys
	}
}

// WithOverlay merges a user TOML file on top of the built-in tables.
// An empty path is ignored.
func WithOverlay(path string) Option {
	return func(o *loadOptions) {
		o.overlay = path
	}
}

// Load reads all mapping tables and the alias table.
// Any missing or corrupt table is an error.
func Load(opts ...Option) (*Registry, error) {
	o := loadOptions{fsys: embedded}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		mappings: make(map[string]map[Target]string),
		aliases:  make(map[string]string),
	}

	for _, name := range mappingTables {
		table, err := readTable(o.fsys, "tables/"+name)
		if err != nil {
			return nil, err
		}
		r.mergeMappings(table)
	}

	aliases, err := readAliases(o.fsys, "tables/"+aliasTable)
	if err != nil {
		return nil, err
	}
	r.mergeAliases(aliases)

	if o.overlay != "" {
		if err := r.loadOverlay(o.overlay); err != nil {
			return nil, err
		}
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	return r, nil
}

func readTable(fsys fs.FS, path string) (map[string]map[string]string, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, &LoadError{Table: path, Err: fmt.Errorf("%w: %v", ErrTableMissing, err)}
	}

	var table map[string]map[string]string
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, decodeError(path, err)
	}
	return table, nil
}

func readAliases(fsys fs.FS, path string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, &LoadError{Table: path, Err: fmt.Errorf("%w: %v", ErrTableMissing, err)}
	}

	var aliases map[string]string
	if err := toml.Unmarshal(data, &aliases); err != nil {
		return nil, decodeError(path, err)
	}
	return aliases, nil
}

// loadOverlay merges a user file. Tables are intents, except the reserved
// "aliases" table which extends the alias map.
func (r *Registry) loadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Table: path, Err: fmt.Errorf("%w: %v", ErrTableMissing, err)}
	}

	var table map[string]map[string]string
	if err := toml.Unmarshal(data, &table); err != nil {
		return decodeError(path, err)
	}

	if aliases, ok := table[overlayAlias]; ok {
		delete(table, overlayAlias)
		r.mergeAliases(aliases)
	}
	r.mergeMappings(table)
	return nil
}

func decodeError(path string, err error) error {
	le := &LoadError{Table: path, Err: fmt.Errorf("%w: %v", ErrTableCorrupt, err)}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		le.Line, le.Column = de.Position()
	}
	return le
}

func (r *Registry) mergeMappings(table map[string]map[string]string) {
	for intent, commands := range table {
		key := Normalize(intent)
		entry, ok := r.mappings[key]
		if !ok {
			entry = make(map[Target]string, len(commands))
			r.mappings[key] = entry
		}
		for target, cmd := range commands {
			if cmd == "" {
				continue
			}
			entry[Target(Normalize(target))] = cmd
		}
	}
}

func (r *Registry) mergeAliases(aliases map[string]string) {
	for label, intent := range aliases {
		r.aliases[Normalize(label)] = Normalize(intent)
	}
}

func (r *Registry) validate() error {
	for label, intent := range r.aliases {
		if _, ok := r.mappings[intent]; !ok {
			return &LoadError{
				Table: aliasTable,
				Err:   fmt.Errorf("%w: %q -> %q", ErrUnknownAliasTarget, label, intent),
			}
		}
	}
	return nil
}

// Resolve normalizes intent and follows the alias table once.
func (r *Registry) Resolve(intent string) string {
	key := Normalize(intent)
	if canonical, ok := r.aliases[key]; ok {
		return canonical
	}
	return key
}

// Lookup returns the command for intent on target.
func (r *Registry) Lookup(intent string, target Target) (string, bool) {
	if r == nil || intent == "" {
		return "", false
	}
	commands, ok := r.mappings[r.Resolve(intent)]
	if !ok {
		return "", false
	}
	cmd, ok := commands[target]
	return cmd, ok
}

// Alias returns the canonical intent for a free-text label.
func (r *Registry) Alias(label string) (string, bool) {
	if r == nil {
		return "", false
	}
	intent, ok := r.aliases[Normalize(label)]
	return intent, ok
}

// Has reports whether any table defines intent (after alias resolution).
func (r *Registry) Has(intent string) bool {
	if r == nil {
		return false
	}
	_, ok := r.mappings[r.Resolve(intent)]
	return ok
}

// Intents returns all mapped intents, sorted.
func (r *Registry) Intents() []string {
	intents := make([]string, 0, len(r.mappings))
	for intent := range r.mappings {
		intents = append(intents, intent)
	}
	sort.Strings(intents)
	return intents
}

// Len returns the number of mapped intents.
func (r *Registry) Len() int {
	return len(r.mappings)
}
