// Package diag hosts the error-message registry described in spec.md §7: a
// table of Code -> {Title, Description, Suggestion} templates, loaded once
// from an embedded YAML document, plus the two rendering modes the CLI uses
// to print a diagnostic ("detailed", with a source snippet and caret, and
// "simple", a one-line summary).
package diag

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

// Code is an error code such as "L001" or "R005".
type Code string

// Entry is one registry record: title/description/suggestion templates,
// parameterized by {placeholder} substitutions supplied via a Diagnostic's
// Args.
type Entry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Suggestion  string `yaml:"suggestion"`
}

var registry map[Code]Entry

func init() {
	raw := map[string]Entry{}
	if err := yaml.Unmarshal(messagesYAML, &raw); err != nil {
		panic(fmt.Sprintf("internal/diag: invalid embedded registry: %v", err))
	}
	registry = make(map[Code]Entry, len(raw))
	for k, v := range raw {
		registry[Code(k)] = v
	}
}

// Lookup returns the registered entry for code, if any.
func Lookup(code Code) (Entry, bool) {
	e, ok := registry[code]
	return e, ok
}

// Codes returns every registered error code, sorted. Used by tests that want
// a deterministic listing.
func Codes() []Code {
	codes := maps.Keys(registry)
	slices.Sort(codes)
	return codes
}

// substitute replaces every {key} occurrence in tmpl with args[key]. Keys
// with no matching arg are left untouched, so a template can be rendered
// even when the caller only has a subset of its placeholders.
func substitute(tmpl string, args map[string]string) string {
	if len(args) == 0 {
		return tmpl
	}
	keys := maps.Keys(args)
	slices.Sort(keys)
	out := tmpl
	for _, k := range keys {
		out = strings.ReplaceAll(out, "{"+k+"}", args[k])
	}
	return out
}
