// Package hint provides interactive completion for the REPL: object
// names at the start of an expression, chain methods after a dot and
// cached field names inside method parentheses.
package hint

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/soqlgen/soqlgen/schema"
)

// chainMethods are offered after the object name.
var chainMethods = []string{"select(", "where(", "orderBy(", "limit(", "open("}

// Hinter implements readline.AutoCompleter over the schema store.
type Hinter struct {
	store *schema.Store
	dmp   *diffmatchpatch.DiffMatchPatch
}

func NewHinter(store *schema.Store) *Hinter {
	return &Hinter{
		store: store,
		dmp:   diffmatchpatch.New(),
	}
}

// Do completes the word under the cursor. It returns the candidate
// suffixes and the length of the prefix they complete, per the readline
// AutoCompleter contract.
func (h *Hinter) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	prefix := lastWord(head)

	var candidates [][]rune
	for _, name := range h.candidatesFor(head, prefix) {
		if strings.HasPrefix(name, prefix) && name != prefix {
			candidates = append(candidates, []rune(name[len(prefix):]))
		}
	}
	return candidates, len(prefix)
}

// candidatesFor picks the completion universe from the cursor context:
// before the first dot the object names, inside unclosed parentheses the
// object's field names, otherwise the chain methods.
func (h *Hinter) candidatesFor(head, prefix string) []string {
	dot := strings.Index(head, ".")
	if dot < 0 {
		return h.store.Objects()
	}
	if insideParens(head) {
		return h.store.FieldsFor(head[:dot])
	}
	return chainMethods
}

// Object returns the object name already typed, if the line starts with
// a known object. The REPL uses it to prefetch field names while the
// user is still typing the rest of the chain.
func (h *Hinter) Object(line string) (string, bool) {
	dot := strings.Index(line, ".")
	if dot < 0 {
		return "", false
	}
	object := strings.TrimSpace(line[:dot])
	if !h.store.HasObject(object) {
		return "", false
	}
	return object, true
}

// Suggest returns the closest known object name when the given one is
// unknown, for "did you mean" messages. Distance is Levenshtein over the
// character diff; anything further than a third of the name away is not
// worth suggesting.
func (h *Hinter) Suggest(name string) (string, bool) {
	if name == "" || h.store.HasObject(name) {
		return "", false
	}

	threshold := len(name)/3 + 1
	best := ""
	bestDistance := threshold + 1
	for _, object := range h.store.Objects() {
		diffs := h.dmp.DiffMain(strings.ToLower(name), strings.ToLower(object), false)
		distance := h.dmp.DiffLevenshtein(diffs)
		if distance < bestDistance {
			best = object
			bestDistance = distance
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// lastWord returns the trailing run of characters after the last word
// boundary (whitespace, dot, parenthesis or comma).
func lastWord(s string) string {
	boundary := strings.LastIndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '.' || r == '(' || r == ',' || r == ')'
	})
	return s[boundary+1:]
}

func insideParens(s string) bool {
	return strings.Count(s, "(") > strings.Count(s, ")")
}
