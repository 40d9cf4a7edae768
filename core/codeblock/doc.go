// Package codeblock extracts fenced or tagged code blocks of a declared type
// from model output.
//
// A [Table] maps a code-block type ("html", "twig", "yaml", "json", "css")
// to an ordered list of [Rule] values; the first rule that matches wins. The
// built-in table tries, for html and twig, a fenced block with a language
// tag, then an <html> wrapper, then the span from the first opening tag to
// the last closing tag. yaml, json and css only have the fenced rule.
//
// Tables are immutable. [ParseTable] and [LoadTable] read additional rules
// from YAML, and [Table.Merge] layers them over [DefaultTable]:
//
//	types:
//	  php:
//	    - regex: "(?s)```php\\s*(.*?)```"
//	  section:
//	    - between:
//	        start: "---8<---"
//	        end: "--->8---"
//
// An [Extractor] applies a table to a payload. Streams are drained completely
// before matching, since a fence only resolves once its closing marker has
// arrived; when nothing matches the drained text comes back as a replay
// sequence.
package codeblock
