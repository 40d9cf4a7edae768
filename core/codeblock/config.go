package codeblock

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRule wraps every validation failure of a rule file.
var ErrInvalidRule = errors.New("invalid extraction rule")

// RuleSpec is one rule entry of a rule file: exactly one of Regex or
// Between is set.
type RuleSpec struct {
	Regex   string         `yaml:"regex"`
	Between *BetweenSpec   `yaml:"between"`
	Other   map[string]any `yaml:",inline"`
}

// BetweenSpec configures a BetweenRule.
type BetweenSpec struct {
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	IncludeStart bool   `yaml:"include-start"`
	IncludeEnd   bool   `yaml:"include-end"`
}

// RuleFile is the YAML document read by ParseTable.
type RuleFile struct {
	Types map[string][]RuleSpec `yaml:"types"`
}

// LoadTable reads and validates a YAML rule file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read rule file: %w", err)
	}
	table, err := ParseTable(data)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParseTable builds a Table from a YAML rule file. An empty document yields
// an empty table.
func ParseTable(data []byte) (Table, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Table{}, fmt.Errorf("parse rule file: %w", err)
	}
	return file.Compile()
}

// Compile validates every rule and returns the resulting Table.
func (f RuleFile) Compile() (Table, error) {
	rules := make(map[string][]Rule, len(f.Types))

	names := make([]string, 0, len(f.Types))
	for name := range f.Types {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return Table{}, fmt.Errorf("%w: empty type name", ErrInvalidRule)
		}
		specs := f.Types[name]
		if len(specs) == 0 {
			return Table{}, fmt.Errorf("%w: type %q has no rules", ErrInvalidRule, name)
		}
		compiled := make([]Rule, 0, len(specs))
		for i, spec := range specs {
			rule, err := spec.compile()
			if err != nil {
				return Table{}, fmt.Errorf("type %q rule %d: %w", name, i+1, err)
			}
			compiled = append(compiled, rule)
		}
		rules[name] = compiled
	}
	return NewTable(rules), nil
}

func (s RuleSpec) compile() (Rule, error) {
	if len(s.Other) > 0 {
		kinds := make([]string, 0, len(s.Other))
		for kind := range s.Other {
			kinds = append(kinds, kind)
		}
		slices.Sort(kinds)
		return nil, fmt.Errorf("%w: unknown rule kind %q", ErrInvalidRule, strings.Join(kinds, ", "))
	}

	switch {
	case s.Regex != "" && s.Between != nil:
		return nil, fmt.Errorf("%w: regex and between are exclusive", ErrInvalidRule)

	case s.Regex != "":
		pattern, err := regexp.Compile(s.Regex)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
		}
		if pattern.NumSubexp() == 0 {
			return nil, fmt.Errorf("%w: regex %q has no capture group", ErrInvalidRule, s.Regex)
		}
		return RegexRule{Pattern: pattern}, nil

	case s.Between != nil:
		start := strings.TrimSpace(s.Between.Start)
		end := strings.TrimSpace(s.Between.End)
		if start == "" || end == "" {
			return nil, fmt.Errorf("%w: between needs non-empty start and end", ErrInvalidRule)
		}
		return BetweenRule{
			Start:        start,
			End:          end,
			IncludeStart: s.Between.IncludeStart,
			IncludeEnd:   s.Between.IncludeEnd,
		}, nil

	default:
		return nil, fmt.Errorf("%w: expected regex or between", ErrInvalidRule)
	}
}
