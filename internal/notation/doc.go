// Package notation translates Vim key-sequence notation into the token
// lists understood by Vim-emulation layers in other editors.
//
// A left-hand side such as "<leader>ff" or "<C-h>" is read left to right:
//
//   - A plain character becomes a single-character token: "f" -> "f"
//   - A bracketed special key is looked up in a fixed table:
//     "<leader>" -> "<leader>", "<CR>" -> "enter", "<Esc>" -> "escape",
//     "<Tab>" -> "tab", "<Space>" -> "<space>", "<BS>" -> "backspace",
//     "<lt>" -> "<"
//   - A bracketed modifier chord is rewritten: "<C-h>" -> "ctrl+h",
//     "<S-x>" -> "shift+x", "<A-j>" -> "alt+j", "<C-S-p>" -> "ctrl+shift+p"
//
// Translation is all or nothing. An unterminated "<" or an unknown bracket
// token fails the whole sequence so the caller can send the binding to
// manual review instead of emitting a partial key stream.
package notation
