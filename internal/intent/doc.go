// Package intent classifies raw key bindings into catalogued intents.
//
// Classification runs an ordered list of tiers; the first tier that
// matches wins and the rest are skipped:
//
//  1. command    - "<cmd>X<CR>" / ":X<CR>" wrappers, matched on command name (high)
//  2. source     - callback provenance in a known config file, by lhs (high)
//  3. pattern    - library call signatures anywhere in rhs/source/name/desc (high)
//  4. description - direct alias of the normalized desc, then loose
//     natural-language rules (medium)
//
// If nothing matches the binding has no intent, low confidence and the
// unknown category. The category of a match is derived afterwards from
// the intent namespace.
//
// Every intent the classifier can emit is listed by Catalogue.
package intent
