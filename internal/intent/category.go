package intent

import (
	"strings"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
)

// Categorize derives the category of intent. Navigation intents reached
// through a todo-comments plugin count as plugin, not navigation.
func Categorize(intent string, b keymap.RawBinding) keymap.Category {
	switch {
	case intent == "":
		return keymap.CategoryUnknown
	case hasNamespace(intent, "harpoon", "todo", "plugin"):
		return keymap.CategoryPlugin
	case hasNamespace(intent, "lsp"):
		return keymap.CategoryLSP
	case hasNamespace(intent, "git"):
		return keymap.CategoryGit
	case hasNamespace(intent, "navigation"):
		if mentionsTodo(b) {
			return keymap.CategoryPlugin
		}
		return keymap.CategoryNavigation
	case hasNamespace(intent, "editing"):
		return keymap.CategoryEditing
	default:
		return keymap.CategoryUnknown
	}
}

func hasNamespace(intent string, namespaces ...string) bool {
	for _, ns := range namespaces {
		if strings.HasPrefix(intent, ns+".") {
			return true
		}
	}
	return false
}

func mentionsTodo(b keymap.RawBinding) bool {
	desc := strings.ToLower(b.Desc)
	if strings.Contains(desc, "todo") || strings.Contains(desc, "comment") {
		return true
	}
	return strings.Contains(strings.ToLower(b.RHSSource), "todo-comments")
}
