package parse

// Candidates returns the balanced JSON-like spans of text in order. A span
// starts at '{' or '[' and ends at the bracket that closes it; brackets inside
// double-quoted strings are ignored. Spans never overlap: scanning resumes
// after the end of each match. A start whose brackets are mismatched or never
// closed is discarded and scanning resumes at the next byte, so an inner span
// of an unterminated document is still found.
func Candidates(text string) []string {
	var candidates []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		end, ok := closingBracket(text, i)
		if !ok {
			continue
		}
		candidates = append(candidates, text[i:end+1])
		i = end
	}
	return candidates
}

// closingBracket returns the index of the bracket closing the one at start.
func closingBracket(text string, start int) (int, bool) {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false

	for j := start; j < len(text); j++ {
		c := text[j]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if stack[len(stack)-1] != c {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return j, true
			}
		}
	}
	return 0, false
}

// tail returns text from its first opening bracket to the end.
func tail(text string) (string, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] == '{' || text[i] == '[' {
			return text[i:], true
		}
	}
	return "", false
}
