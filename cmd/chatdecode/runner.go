package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	cli "github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/leofalp/chatdecode/core/codeblock"
	"github.com/leofalp/chatdecode/core/fragment"
	"github.com/leofalp/chatdecode/core/payload"
	"github.com/leofalp/chatdecode/internal/utils"
	"github.com/leofalp/chatdecode/providers/ai/anthropic"
	"github.com/leofalp/chatdecode/providers/ai/openai"
	"github.com/leofalp/chatdecode/providers/observability"
)

const (
	formatText         = "text"
	formatSSE          = "sse"
	formatOpenAI       = "openai"
	formatAnthropicSSE = "anthropic-sse"
	formatAnthropic    = "anthropic"

	stdinName = "-"
)

type processFunc func(ctx context.Context, p payload.Payload) (payload.Result, error)

// runner turns each input into a payload, applies a processFunc and prints
// one report per input, in argument order.
type runner struct {
	env      *environment
	format   string
	chunk    int
	markdown bool
	observer observability.Provider
	flush    func()
	stdin    []byte
}

// report is the JSON document printed for one input.
type report struct {
	Input    string `json:"input"`
	Kind     string `json:"kind"`
	Probed   int    `json:"probed,omitempty"`
	Value    any    `json:"value,omitempty"`
	Code     string `json:"code,omitempty"`
	Markdown string `json:"markdown,omitempty"`
	Text     string `json:"text,omitempty"`
}

func newRunner(ctx context.Context, env *environment, cmd *cli.Command) (*runner, error) {
	format := cmd.String("format")
	switch format {
	case formatText, formatSSE, formatOpenAI, formatAnthropicSSE, formatAnthropic:
	default:
		return nil, fmt.Errorf("unknown input format %q (want text, sse, openai, anthropic-sse or anthropic)", format)
	}

	chunk := int(cmd.Int("chunk"))
	if chunk < 0 {
		return nil, fmt.Errorf("--chunk must not be negative, got %d", chunk)
	}
	if chunk > 0 && format != formatText {
		return nil, fmt.Errorf("--chunk only applies to text input")
	}

	observer, flush, err := newObserver(env, cmd)
	if err != nil {
		return nil, err
	}
	observer.Debug(ctx, "chatdecode starting",
		observability.String(observability.AttrInputFormat, format),
		observability.Int("chunk", chunk),
	)

	return &runner{env: env, format: format, chunk: chunk, observer: observer, flush: flush}, nil
}

func (r *runner) close() {
	r.flush()
}

func (r *runner) run(ctx context.Context, inputs []string, process processFunc) error {
	if len(inputs) == 0 {
		inputs = []string{stdinName}
	}
	for _, input := range inputs {
		if input == stdinName {
			data, err := io.ReadAll(r.env.stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			r.stdin = data
			break
		}
	}

	ctx = observability.ContextWithObserver(ctx, r.observer)
	reports := make([]report, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		g.Go(func() error {
			rep, err := r.processOne(gctx, input, process)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rep := range reports {
		fmt.Fprintln(r.env.stdout, utils.JSONToString(rep, true))
	}
	return nil
}

func (r *runner) processOne(ctx context.Context, input string, process processFunc) (report, error) {
	p, err := r.open(ctx, input)
	if err != nil {
		return report{}, err
	}

	r.observer.Debug(ctx, "processing input",
		observability.String(observability.AttrInputPath, input),
		observability.String(observability.AttrPayloadKind, payload.Describe(p)),
	)

	result, err := process(ctx, p)
	if err != nil {
		return report{}, err
	}
	return r.render(input, result)
}

// open reads input according to the configured format. SSE files are read
// lazily and closed once their stream ends.
func (r *runner) open(ctx context.Context, input string) (payload.Payload, error) {
	switch r.format {
	case formatSSE, formatAnthropicSSE:
		body, err := r.reader(input)
		if err != nil {
			return nil, err
		}
		if r.format == formatAnthropicSSE {
			return payload.FromChatStream(anthropic.DecodeStream(ctx, body)), nil
		}
		return payload.FromChatStream(openai.DecodeStream(ctx, body)), nil
	}

	data, err := r.read(input)
	if err != nil {
		return nil, err
	}

	switch r.format {
	case formatOpenAI, formatAnthropic:
		decodeResponse := openai.DecodeResponse
		if r.format == formatAnthropic {
			decodeResponse = anthropic.DecodeResponse
		}
		response, err := decodeResponse(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return payload.FromChatResponse(response), nil
	}

	if r.chunk > 0 {
		return payload.Stream{Sequence: fragment.FromStrings(split(string(data), r.chunk)...)}, nil
	}
	return payload.Text(data), nil
}

func (r *runner) reader(input string) (io.Reader, error) {
	if input == stdinName {
		return bytes.NewReader(r.stdin), nil
	}
	return os.Open(input)
}

func (r *runner) read(input string) ([]byte, error) {
	if input == stdinName {
		return r.stdin, nil
	}
	return os.ReadFile(input)
}

// render turns a result into a report. Replays and echoed streams are
// drained here, so their upstream errors surface as the input's error.
func (r *runner) render(input string, result payload.Result) (report, error) {
	rep := report{Input: input, Kind: result.Kind.String(), Probed: result.Probed}

	switch result.Kind {
	case payload.KindStructured:
		rep.Value = result.Value

	case payload.KindExtracted:
		rep.Code = result.Code
		if r.markdown {
			markdown, err := codeblock.Markdown(result.Code)
			if err != nil {
				return report{}, fmt.Errorf("rendering markdown: %w", err)
			}
			rep.Markdown = markdown
		}

	case payload.KindReplay:
		text, err := fragment.Collect(result.Sequence)
		if err != nil {
			return report{}, err
		}
		rep.Text = text

	case payload.KindEcho:
		if stream, ok := result.Payload.(payload.Stream); ok {
			text, err := fragment.Collect(stream.Sequence)
			if err != nil {
				return report{}, err
			}
			rep.Text = text
			break
		}
		rep.Text = result.Text()
	}

	return rep, nil
}

// split cuts text into fragments of at most size runes.
func split(text string, size int) []string {
	runes := []rune(text)
	fragments := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		fragments = append(fragments, string(runes[start:end]))
	}
	return fragments
}
