package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func runApp(t *testing.T, stdin string, args ...string) ([]report, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	if err := app.Run(context.Background(), append([]string{"chatdecode"}, args...)); err != nil {
		return nil, err
	}

	var reports []report
	decoder := json.NewDecoder(&stdout)
	for {
		var rep report
		err := decoder.Decode(&rep)
		if errors.Is(err, io.EOF) {
			return reports, nil
		}
		if err != nil {
			t.Fatalf("decoding output %q: %v", stdout.String(), err)
		}
		reports = append(reports, rep)
	}
}

func TestDecode_TextInputs(t *testing.T) {
	structured := writeFile(t, "structured.txt", `Sure: {"name": "Ada", "tags": ["x"]}`)
	plain := writeFile(t, "plain.txt", "no json here")

	reports, err := runApp(t, "", "decode", structured, plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []report{
		{Input: structured, Kind: "structured", Value: map[string]any{"name": "Ada", "tags": []any{"x"}}},
		{Input: plain, Kind: "echo", Text: "no json here"},
	}
	if diff := cmp.Diff(want, reports); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_ChunkedTextReplays(t *testing.T) {
	text := "a long answer without any document in it at all"
	reports, err := runApp(t, text, "decode", "--chunk", "4", "--probe-budget", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	rep := reports[0]
	if rep.Input != stdinName || rep.Kind != "replay" || rep.Probed != 3 || rep.Text != text {
		t.Errorf("unexpected report: %+v", rep)
	}
}

func TestDecode_SSEInput(t *testing.T) {
	transcript := "data: {\"choices\":[{\"delta\":{\"content\":\"{\\\"ok\\\"\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\": true}\"},\"finish_reason\":\"stop\"}]}\n\n" +
		"data: [DONE]\n\n"
	path := writeFile(t, "reply.sse", transcript)

	reports, err := runApp(t, "", "decode", "--format", "sse", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []report{{Input: path, Kind: "structured", Probed: 1, Value: map[string]any{"ok": true}}}
	if diff := cmp.Diff(want, reports); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_OpenAIResponse(t *testing.T) {
	path := writeFile(t, "response.json", `{"choices":[{"message":{"role":"assistant","content":"[1, 2]"},"finish_reason":"stop"}]}`)

	reports, err := runApp(t, "", "decode", "--format", "openai", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []report{{Input: path, Kind: "structured", Value: []any{1.0, 2.0}}}
	if diff := cmp.Diff(want, reports); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_HTMLWithMarkdown(t *testing.T) {
	path := writeFile(t, "page.txt", "Here you go:\n```html\n<h1>Title</h1>\n```\nEnjoy.")

	reports, err := runApp(t, "", "extract", "--type", "html", "--markdown", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	rep := reports[0]
	if rep.Kind != "extracted" || rep.Code != "<h1>Title</h1>" || rep.Markdown != "# Title" {
		t.Errorf("unexpected report: %+v", rep)
	}
}

func TestExtract_UnknownTypeEchoesStream(t *testing.T) {
	reports, err := runApp(t, "keep me whole", "extract", "--type", "cobol", "--chunk", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 || reports[0].Kind != "echo" || reports[0].Text != "keep me whole" {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func TestExtract_CustomRules(t *testing.T) {
	rules := writeFile(t, "rules.yaml", `types:
  sql:
    - between:
        start: "-- begin"
        end: "-- end"
`)
	input := writeFile(t, "query.txt", "intro\n-- begin\nSELECT 1;\n-- end\noutro")

	reports, err := runApp(t, "", "extract", "--type", "sql", "--rules", rules, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 || reports[0].Kind != "extracted" || reports[0].Code != "SELECT 1;\n" {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func TestTypes(t *testing.T) {
	rules := writeFile(t, "rules.yaml", "types:\n  sql:\n    - regex: \"(?s)```sql\\\\n(.*?)```\"\n")

	var stdout bytes.Buffer
	app := newApp(strings.NewReader(""), &stdout, io.Discard)
	if err := app.Run(context.Background(), []string{"chatdecode", "types", "--rules", rules}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"css", "html", "json", "sql", "twig", "yaml"}
	if diff := cmp.Diff(want, strings.Fields(stdout.String())); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"missing file", []string{"decode", missing}, missing},
		{"unknown format", []string{"decode", "--format", "xml", "-"}, `unknown input format "xml"`},
		{"negative chunk", []string{"decode", "--chunk=-1"}, "must not be negative"},
		{"chunk with sse", []string{"decode", "--format", "sse", "--chunk", "2"}, "only applies to text"},
		{"bad log level", []string{"decode", "--log-level", "loud"}, `unknown log level "loud"`},
		{"unknown logger", []string{"decode", "--logger", "logrus"}, `unknown logger "logrus"`},
		{"missing rules", []string{"extract", "--type", "x", "--rules", missing}, "loading rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		text string
		size int
		want []string
	}{
		{"abcdefg", 3, []string{"abc", "def", "g"}},
		{"héllo", 2, []string{"hé", "ll", "o"}},
		{"", 4, []string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, split(tt.text, tt.size)); diff != "" {
			t.Errorf("split(%q, %d) mismatch (-want +got):\n%s", tt.text, tt.size, diff)
		}
	}
}

func TestZapLevel(t *testing.T) {
	reports, err := runApp(t, `{"a": 1}`, "decode", "--logger", "zap", "--log-level", "error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 || reports[0].Kind != "structured" {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func TestDecode_AnthropicInputs(t *testing.T) {
	stream := writeFile(t, "reply.sse",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"plain words\"}}\n\n"+
			"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	message := writeFile(t, "message.json", `{"type":"message","content":[{"type":"text","text":"{\"n\": 2}"}]}`)

	reports, err := runApp(t, "", "decode", "--format", "anthropic-sse", stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 || reports[0].Kind != "replay" || reports[0].Text != "plain words" {
		t.Errorf("unexpected stream reports: %+v", reports)
	}

	reports, err = runApp(t, "", "decode", "--format", "anthropic", message)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []report{{Input: message, Kind: "structured", Value: map[string]any{"n": 2.0}}}
	if diff := cmp.Diff(want, reports); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
}
