package codeblock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTable(t *testing.T) {
	table, err := ParseTable([]byte(`
types:
  php:
    - regex: "(?s)` + "```" + `php\\s*(.*?)` + "```" + `"
    - between:
        start: "<?php"
        end: "?>"
        include-start: true
        include-end: true
  Notes:
    - between:
        start: "  ---  "
        end: "---"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := table.Types(); len(got) != 2 || got[0] != "notes" || got[1] != "php" {
		t.Fatalf("unexpected types: %v", got)
	}

	got, ok := table.ExtractPayload("```php\necho 1;\n```", "php")
	if !ok || got != "echo 1;\n" {
		t.Errorf("regex rule: got %q (%v)", got, ok)
	}
	got, ok = table.ExtractPayload("a\n<?php\necho 2;\n?>\nz", "php")
	if !ok || got != "<?php\necho 2;\n?>" {
		t.Errorf("between rule: got %q (%v)", got, ok)
	}
	got, ok = table.ExtractPayload("---\nnote\n---", "notes")
	if !ok || got != "note\n" {
		t.Errorf("trimmed delimiters: got %q (%v)", got, ok)
	}
}

func TestParseTable_Empty(t *testing.T) {
	table, err := ParseTable(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Types()) != 0 {
		t.Errorf("expected no types, got %v", table.Types())
	}
}

func TestParseTable_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
		rule    bool
	}{
		{
			name:    "unknown rule kind",
			input:   "types:\n  x:\n    - glob: \"*.go\"\n",
			wantMsg: `unknown rule kind "glob"`,
			rule:    true,
		},
		{
			name:    "regex does not compile",
			input:   "types:\n  x:\n    - regex: \"(unclosed\"\n",
			wantMsg: "missing closing )",
			rule:    true,
		},
		{
			name:    "regex without capture group",
			input:   "types:\n  x:\n    - regex: \"abc\"\n",
			wantMsg: "no capture group",
			rule:    true,
		},
		{
			name:    "empty between delimiters",
			input:   "types:\n  x:\n    - between:\n        start: \"  \"\n        end: \"END\"\n",
			wantMsg: "non-empty start and end",
			rule:    true,
		},
		{
			name:    "both kinds in one entry",
			input:   "types:\n  x:\n    - regex: \"(a)\"\n      between:\n        start: a\n        end: b\n",
			wantMsg: "exclusive",
			rule:    true,
		},
		{
			name:    "empty entry",
			input:   "types:\n  x:\n    - {}\n",
			wantMsg: "expected regex or between",
			rule:    true,
		},
		{
			name:    "type without rules",
			input:   "types:\n  x: []\n",
			wantMsg: "has no rules",
			rule:    true,
		},
		{
			name:    "malformed yaml",
			input:   "types: [unclosed\n",
			wantMsg: "parse rule file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %v", tt.wantMsg, err)
			}
			if errors.Is(err, ErrInvalidRule) != tt.rule {
				t.Errorf("errors.Is(err, ErrInvalidRule) = %v, want %v", !tt.rule, tt.rule)
			}
		})
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("types:\n  css:\n    - regex: \"<style>(.*?)</style>\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := DefaultTable().Merge(table).ExtractPayload("<style>p{}</style>", "css")
	if !ok || got != "p{}" {
		t.Errorf("expected the file rule to replace the default css rule, got %q (%v)", got, ok)
	}

	if _, err := LoadTable(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("types:\n  x:\n    - regex: \"nogroup\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTable(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("expected the path in the error, got %v", err)
	}
}
