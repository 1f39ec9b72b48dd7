// Package extract captures key bindings from a Neovim Lua configuration
// without running Neovim.
//
// The configuration is evaluated in a sandboxed gopher-lua state with a
// stub vim API. Calls to vim.keymap.set and vim.api.nvim_set_keymap are
// recorded; map commands passed to vim.cmd are parsed. require() loads
// modules from the configuration's lua/ directory and returns a recording
// proxy for anything else, so plugin calls such as
//
//	require("telescope.builtin").find_files()
//	harpoon:list():select(1)
//
// are observed as text. Callback mappings are probed after evaluation: the
// closure is called once and the proxy calls it makes become the binding's
// rhs_name. lazy.nvim plugin specs passed to require("lazy").setup have
// their keys captured and their config functions run.
//
// Errors in user Lua are reported as descriptor warnings. Extraction only
// fails when the entry file cannot be loaded and nothing was captured.
package extract
