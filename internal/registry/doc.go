// Package registry holds the intent -> target command mapping tables.
//
// The tables ship embedded in the binary (one TOML file per domain:
// LSP, git, navigation, editing) together with an alias table that maps
// free-text labels and legacy intent names to canonical intents. A user
// overlay file with the same shape may be merged on top.
//
// A Registry is an immutable snapshot loaded once per run. Lookup is a
// pure, total function of (intent, target): a missing intent or a missing
// target command yields ("", false), never an error.
//
// # Usage
//
//	reg, err := registry.Load()
//	if err != nil {
//	    return err // a broken table is fatal
//	}
//	cmd, ok := reg.Lookup("lsp.definition", registry.TargetVSCode)
package registry
