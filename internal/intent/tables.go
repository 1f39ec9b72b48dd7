package intent

import "regexp"

// commandRule matches an editor command name inside a command wrapper.
type commandRule struct {
	name *regexp.Regexp
	// intent is used when resolve is nil.
	intent string
	// resolve picks an intent from the command arguments.
	resolve func(args []string) string
}

var commandRules = []commandRule{
	{name: regexp.MustCompile(`^(Ex|Explore|Lexplore|Sexplore|Vexplore)!?$`), intent: "navigation.file_explorer"},
	{name: regexp.MustCompile(`^(Git|G)!?$`), resolve: gitSubcommand},
	{name: regexp.MustCompile(`^NvimTreeToggle!?$`), intent: "plugin.nvim_tree"},
	{name: regexp.MustCompile(`^Telescope$`), resolve: telescopePicker},
	{name: regexp.MustCompile(`^(w|write|update)!?$`), intent: "editing.save"},
}

// gitSubcommands are the porcelain arguments that refine a git intent.
var gitSubcommands = map[string]string{
	"push":   "git.push",
	"pull":   "git.pull",
	"commit": "git.commit",
	"add":    "git.add",
	"status": "git.status",
	"blame":  "git.blame",
}

func gitSubcommand(args []string) string {
	for _, arg := range args {
		if intent, ok := gitSubcommands[arg]; ok {
			return intent
		}
	}
	return "git.fugitive"
}

// telescopePickers maps builtin picker names to intents.
var telescopePickers = map[string]string{
	"find_files":                "navigation.find_files",
	"live_grep":                 "navigation.live_grep",
	"buffers":                   "navigation.buffers",
	"oldfiles":                  "navigation.recent_files",
	"help_tags":                 "navigation.help_tags",
	"grep_string":               "navigation.grep_string",
	"current_buffer_fuzzy_find": "navigation.buffer_search",
	"resume":                    "navigation.resume_search",
	"diagnostics":               "navigation.diagnostics",
	"keymaps":                   "navigation.keymaps",
	"command_history":           "navigation.command_history",
}

func telescopePicker(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return telescopePickers[args[0]]
}

// sourceRule scopes an lhs table to callbacks defined in one file.
type sourceRule struct {
	// fragment is matched against the lower-cased rhs_source.
	fragment string
	byLHS    map[string]string
	// byName resolves on the callback's function name.
	byName map[string]string
	// describe falls back to the description tier.
	describe bool
}

var sourceRules = []sourceRule{
	{
		fragment: "/core/plugins/harpoon.lua",
		byLHS: map[string]string{
			"<leader>a": "harpoon.add",
			"<leader>m": "harpoon.menu",
			"<C-h>":     "harpoon.select_1",
			"<C-j>":     "harpoon.select_2",
			"<C-k>":     "harpoon.select_3",
			"<C-l>":     "harpoon.select_4",
			"<C-a>":     "harpoon.prev",
			"<C-s>":     "harpoon.next",
		},
	},
	{
		fragment: "/core/keymaps.lua",
		byLHS: map[string]string{
			"<leader>G":   "git.fugitive",
			"<leader>gp":  "git.push",
			"<leader>gP":  "git.pull",
			"<leader>gac": "git.add",
			"<leader>gc":  "git.commit",
			"<leader>gs":  "git.status",
			"]t":          "todo.next",
			"[t":          "todo.prev",
		},
		describe: true,
	},
	{
		fragment: "/telescope/builtin/init.lua",
		describe: true,
	},
	{
		fragment: "/vim/lsp/buf.lua",
		byLHS: map[string]string{
			"<leader>f": "lsp.format",
		},
		byName: map[string]string{
			"definition":      "lsp.definition",
			"declaration":     "lsp.declaration",
			"implementation":  "lsp.implementation",
			"references":      "lsp.references",
			"hover":           "lsp.hover",
			"rename":          "lsp.rename",
			"code_action":     "lsp.code_action",
			"format":          "lsp.format",
			"signature_help":  "lsp.signature_help",
			"type_definition": "lsp.type_definition",
			"document_symbol": "lsp.document_symbol",
		},
	},
}

// patternRule recognizes a library call signature in the binding text.
type patternRule struct {
	pattern *regexp.Regexp
	// unless vetoes the match; RE2 has no negative lookahead.
	unless *regexp.Regexp
	intent string
}

func pattern(expr, intent string) patternRule {
	return patternRule{pattern: regexp.MustCompile(expr), intent: intent}
}

var gitWithSubcommand = regexp.MustCompile(`(?i)vim\.cmd\.Git.*\b(push|pull|commit|add|status|blame)\b`)

// patternRules are tested in order; the first match wins.
var patternRules = []patternRule{
	pattern(`vim\.lsp\.buf\.definition`, "lsp.definition"),
	pattern(`vim\.lsp\.buf\.declaration`, "lsp.declaration"),
	pattern(`vim\.lsp\.buf\.implementation`, "lsp.implementation"),
	pattern(`vim\.lsp\.buf\.references`, "lsp.references"),
	pattern(`vim\.lsp\.buf\.hover`, "lsp.hover"),
	pattern(`vim\.lsp\.buf\.rename`, "lsp.rename"),
	pattern(`vim\.lsp\.buf\.code_action`, "lsp.code_action"),
	pattern(`vim\.lsp\.buf\.format`, "lsp.format"),
	pattern(`vim\.lsp\.buf\.signature_help`, "lsp.signature_help"),
	pattern(`vim\.lsp\.buf\.type_definition`, "lsp.type_definition"),
	pattern(`vim\.lsp\.buf\.document_symbol`, "lsp.document_symbol"),
	pattern(`vim\.lsp\.buf\.add_workspace_folder`, "lsp.add_workspace_folder"),
	pattern(`vim\.lsp\.buf\.remove_workspace_folder`, "lsp.remove_workspace_folder"),
	pattern(`vim\.diagnostic\.goto_next`, "lsp.diagnostic_next"),
	pattern(`vim\.diagnostic\.goto_prev`, "lsp.diagnostic_prev"),
	pattern(`vim\.diagnostic\.setloclist`, "lsp.diagnostic_setloclist"),
	{
		pattern: regexp.MustCompile(`vim\.cmd\.Git\b`),
		unless:  gitWithSubcommand,
		intent:  "git.fugitive",
	},
	pattern(`(?i)vim\.cmd\.Git.*\bpush\b`, "git.push"),
	pattern(`(?i)vim\.cmd\.Git.*\bpull\b`, "git.pull"),
	pattern(`(?i)vim\.cmd\.Git.*\bcommit\b`, "git.commit"),
	pattern(`(?i)vim\.cmd\.Git.*\badd\b`, "git.add"),
	pattern(`(?i)vim\.cmd\.Git.*\bstatus\b`, "git.status"),
	pattern(`(?i)vim\.cmd\.Git.*\bblame\b`, "git.blame"),
	pattern(`telescope\.builtin\.find_files`, "navigation.find_files"),
	pattern(`telescope\.builtin\.live_grep`, "navigation.live_grep"),
	pattern(`telescope\.builtin\.buffers`, "navigation.buffers"),
	pattern(`telescope\.builtin\.oldfiles`, "navigation.recent_files"),
	pattern(`telescope\.builtin\.help_tags`, "navigation.help_tags"),
	pattern(`telescope\.builtin\.grep_string`, "navigation.grep_string"),
	pattern(`telescope\.builtin\.current_buffer_fuzzy_find`, "navigation.buffer_search"),
	pattern(`telescope\.builtin\.resume`, "navigation.resume_search"),
	pattern(`telescope\.builtin\.diagnostics`, "navigation.diagnostics"),
	pattern(`telescope\.builtin\.keymaps`, "navigation.keymaps"),
	pattern(`telescope\.builtin\.command_history`, "navigation.command_history"),
	pattern(`harpoon:list\(\):add\(\)`, "harpoon.add"),
	pattern(`harpoon:list\(\):select\(1\)`, "harpoon.select_1"),
	pattern(`harpoon:list\(\):select\(2\)`, "harpoon.select_2"),
	pattern(`harpoon:list\(\):select\(3\)`, "harpoon.select_3"),
	pattern(`harpoon:list\(\):select\(4\)`, "harpoon.select_4"),
	pattern(`harpoon:list\(\):prev\(\)`, "harpoon.prev"),
	pattern(`harpoon:list\(\):next\(\)`, "harpoon.next"),
	pattern(`harpoon\.ui:toggle_quick_menu`, "harpoon.menu"),
	pattern(`todo-comments\.jump_next`, "todo.next"),
	pattern(`todo-comments\.jump_prev`, "todo.prev"),
}

// descriptionAliases are exact normalized labels.
var descriptionAliases = map[string]string{
	"find files":       "navigation.find_files",
	"switch buffer":    "navigation.buffers",
	"buffers":          "navigation.buffers",
	"recent files":     "navigation.recent_files",
	"live grep":        "navigation.live_grep",
	"grep string":      "navigation.grep_string",
	"go to definition": "lsp.definition",
	"find references":  "lsp.references",
	"hover":            "lsp.hover",
	"rename":           "lsp.rename",
	"code action":      "lsp.code_action",
	"quick fix":        "lsp.code_action",
	"format":           "editing.format",
}

// fuzzyRule is a loose natural-language match on a normalized desc.
type fuzzyRule struct {
	pattern *regexp.Regexp
	intent  string
}

func fuzzy(expr, intent string) fuzzyRule {
	return fuzzyRule{pattern: regexp.MustCompile(expr), intent: intent}
}

var fuzzyRules = []fuzzyRule{
	fuzzy(`\b(find files?|file find)\b`, "navigation.find_files"),
	fuzzy(`\b(switch buffer|buffer list|buffers)\b`, "navigation.buffers"),
	fuzzy(`\b(recent files?)\b`, "navigation.recent_files"),
	fuzzy(`\b(live grep|grep \(root dir\)|grep)\b`, "navigation.live_grep"),
	fuzzy(`\b(search buffer|buffer search)\b`, "navigation.buffer_search"),
	fuzzy(`\b(help pages?|help tags?)\b`, "navigation.help_tags"),
	fuzzy(`\b(key maps?|keymaps?)\b`, "navigation.keymaps"),
	fuzzy(`\b(command history)\b`, "navigation.command_history"),
	fuzzy(`\b(word under cursor|grep string)\b`, "navigation.grep_string"),
	fuzzy(`\b(document diagnostics?|workspace diagnostics?|diagnostics?)\b`, "navigation.diagnostics"),
	fuzzy(`\b(resume( last)? search)\b`, "navigation.resume_search"),
	fuzzy(`\b(next todo comment|todo next)\b`, "todo.next"),
	fuzzy(`\b(previous todo comment|todo prev|todo previous)\b`, "todo.prev"),
	fuzzy(`\b(go to definition|goto definition)\b`, "lsp.definition"),
	fuzzy(`\b(find references|go to references)\b`, "lsp.references"),
	fuzzy(`^(hover|show hover|lsp hover)$`, "lsp.hover"),
	fuzzy(`^(rename|rename symbol|lsp rename)$`, "lsp.rename"),
	fuzzy(`^(code action|quick fix|lsp code action)$`, "lsp.code_action"),
	fuzzy(`^(format|format document|lsp format)$`, "editing.format"),
}
