// Command chatdecode runs the decoder and the code block extractor over
// recorded model output: plain text, or OpenAI chat-completions and
// Anthropic Messages bodies, streamed (SSE transcripts) or complete.
//
//	chatdecode decode reply.txt
//	chatdecode decode --format sse --probe-budget 4 transcript.sse
//	chatdecode decode --format anthropic-sse *.sse
//	chatdecode extract --type html --markdown page.txt
//	chatdecode types --rules rules.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	env := &environment{stdin: stdin, stdout: stdout, stderr: stderr}
	return &cli.Command{
		Name:      "chatdecode",
		Usage:     "Decode JSON and extract code blocks from chat model output",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			decodeCmd(env),
			extractCmd(env),
			typesCmd(env),
		},
	}
}

// environment holds the process streams so commands can be run in tests.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Input format: text, sse, openai, anthropic-sse or anthropic",
			Value:   formatText,
			Sources: cli.EnvVars("CHATDECODE_FORMAT"),
		},
		&cli.IntFlag{
			Name:  "chunk",
			Usage: "Split text input into fragments of N characters and process it as a stream",
		},
		&cli.StringFlag{
			Name:    "logger",
			Usage:   "Logging backend: slog or zap",
			Value:   loggerSlog,
			Sources: cli.EnvVars("CHATDECODE_LOGGER"),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Minimum log level: trace, debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "slog output format: compact, text or json",
		},
	}
}

func rulesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "rules",
		Usage:   "YAML rule file merged over the built-in extraction rules",
		Sources: cli.EnvVars("CHATDECODE_RULES"),
	}
}
