// Package generator renders classified bindings into target artifacts.
//
// Three generators exist, all pure functions of their input:
//
//   - Vimrc renders every binding into a shared Vim script. Pure-Vim
//     bindings become live map directives; the rest are kept as comments
//     so the script always loads cleanly in a Vim emulator.
//   - IdeaVim renders bindings with a resolved intent as <Action>()
//     mappings for the IntelliJ Vim plugin.
//   - VSCode builds VSCodeVim keybinding groups (normal, visual, insert).
//
// The IDE generators add a catalogue of default bindings (Neovim's own
// LSP and comment defaults). Defaults never override the user: a default
// is skipped when the user already maps the same mode and lhs. Every
// VS Code entry carries the ManagedByField sentinel so the integration
// engine can tell its entries from the user's.
package generator
