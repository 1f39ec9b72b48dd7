// Package keymap defines the binding records that flow through the
// migrator: raw bindings captured from a Neovim configuration, and the
// classified bindings produced by the intent classifier.
//
// Raw bindings are immutable snapshots. Each record describes one
// (mode, lhs) pair; a binding defined for several modes at once is
// expected to arrive already expanded to one record per mode.
//
// # Loading
//
// Bindings can be read from JSON or YAML dumps, either as a bare array of
// records or as the capture payload written by the headless extractor:
//
//	{
//	  "keymaps": [{"mode": "n", "lhs": "<leader>ff", "rhs": "<Lua function>", ...}],
//	  "_meta": {"leader": " ", "config_path": "/home/me/.config/nvim"},
//	  "_warnings": []
//	}
package keymap
