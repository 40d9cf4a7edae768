package codeblock

import (
	"regexp"
	"strings"
)

// Rule extracts a payload from text.
type Rule interface {
	Match(text string) (string, bool)
}

// RegexRule returns the first capture group of its pattern's leftmost match.
type RegexRule struct {
	Pattern *regexp.Regexp
}

// Regex compiles pattern into a RegexRule and panics on error. Use it for
// patterns known at compile time.
func Regex(pattern string) RegexRule {
	return RegexRule{Pattern: regexp.MustCompile(pattern)}
}

func (r RegexRule) Match(text string) (string, bool) {
	if r.Pattern == nil {
		return "", false
	}
	match := r.Pattern.FindStringSubmatchIndex(text)
	if match == nil || len(match) < 4 || match[2] < 0 {
		return "", false
	}
	return text[match[2]:match[3]], true
}

func (r RegexRule) String() string {
	if r.Pattern == nil {
		return "regex()"
	}
	return "regex(" + r.Pattern.String() + ")"
}

// BetweenRule collects the lines between a start line and an end line. A
// line matches a delimiter when it equals it after trimming surrounding
// whitespace. Inner lines keep their line breaks; the delimiter lines
// themselves are included only when requested, the end line without its
// trailing break. Without an end line the rule does not match.
type BetweenRule struct {
	Start        string
	End          string
	IncludeStart bool
	IncludeEnd   bool
}

func (r BetweenRule) Match(text string) (string, bool) {
	var out strings.Builder
	inside := false

	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if !inside {
			if trimmed == r.Start {
				inside = true
				if r.IncludeStart {
					out.WriteString(line)
				}
			}
			continue
		}

		if trimmed == r.End {
			if r.IncludeEnd {
				out.WriteString(strings.TrimRight(line, "\r\n"))
			}
			return out.String(), true
		}
		out.WriteString(line)
	}
	return "", false
}

func (r BetweenRule) String() string {
	return "between(" + r.Start + ", " + r.End + ")"
}
