package codeblock

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Table maps code-block types to their ordered rules. The zero value is an
// empty table. A Table is never modified after construction.
type Table struct {
	rules map[string][]Rule
}

// NewTable builds a Table from rules, copying the input. Type names are
// matched case-insensitively.
func NewTable(rules map[string][]Rule) Table {
	copied := make(map[string][]Rule, len(rules))
	for name, list := range rules {
		copied[normalize(name)] = slices.Clone(list)
	}
	return Table{rules: copied}
}

func fenced(lang string) RegexRule {
	return Regex("(?s)```(?:" + lang + ")\\b[ \\t]*\\r?\\n?(.*?)\\r?\\n?```")
}

var (
	htmlWrapper = Regex(`(?is)(<html\b[^>]*>.*?</html>)`)
	tagSpan     = Regex(`(?s)(<[a-zA-Z!][^>]*>.*</[a-zA-Z][^>]*>)`)
)

var defaultTable = sync.OnceValue(func() Table {
	return NewTable(map[string][]Rule{
		"html": {fenced("html"), htmlWrapper, tagSpan},
		"twig": {fenced("twig"), htmlWrapper, tagSpan},
		"yaml": {fenced("yaml|yml")},
		"json": {fenced("json")},
		"css":  {fenced("css")},
	})
})

// DefaultTable returns the built-in rules for html, twig, yaml, json and css.
func DefaultTable() Table {
	return defaultTable()
}

// Lookup returns the rules for codeBlockType, or false when the type is not
// configured.
func (t Table) Lookup(codeBlockType string) ([]Rule, bool) {
	rules, ok := t.rules[normalize(codeBlockType)]
	if !ok {
		return nil, false
	}
	return slices.Clone(rules), true
}

// Types returns the configured type names, sorted.
func (t Table) Types() []string {
	return slices.Sorted(maps.Keys(t.rules))
}

// Merge returns a new table holding t's types and other's; a type present in
// both takes other's rules.
func (t Table) Merge(other Table) Table {
	merged := make(map[string][]Rule, len(t.rules)+len(other.rules))
	maps.Copy(merged, t.rules)
	maps.Copy(merged, other.rules)
	return Table{rules: merged}
}

// ExtractPayload applies the rules for codeBlockType to text in order and
// returns the first match. It reports false for an unknown type or when no
// rule matches.
func (t Table) ExtractPayload(text, codeBlockType string) (string, bool) {
	for _, rule := range t.rules[normalize(codeBlockType)] {
		if extracted, ok := rule.Match(text); ok {
			return extracted, true
		}
	}
	return "", false
}

// ExtractPayload extracts a code block using DefaultTable.
func ExtractPayload(text, codeBlockType string) (string, bool) {
	return DefaultTable().ExtractPayload(text, codeBlockType)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
