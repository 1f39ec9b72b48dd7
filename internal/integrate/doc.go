// Package integrate merges generated artifacts into files the user owns
// and reverses the merge.
//
// Two kinds of target exist:
//
//   - Text files (e.g. ~/.ideavimrc) carry one managed block delimited by
//     BlockStart and BlockEnd. Install appends or replaces the block;
//     everything outside it is preserved verbatim.
//   - JSON settings files (VS Code settings.json) carry managed entries in
//     the VSCodeVim keybinding arrays, tagged with the ownership sentinel,
//     plus a few scalar settings that are only written when absent.
//
// Every write goes through fsys.FS, whose OS implementation replaces files
// atomically. Nothing here locks against concurrent installers.
package integrate
