package main

import (
	"context"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/leofalp/chatdecode/core/codeblock"
	"github.com/leofalp/chatdecode/core/decode"
	"github.com/leofalp/chatdecode/core/payload"
)

func decodeCmd(env *environment) *cli.Command {
	flags := append(inputFlags(),
		&cli.IntFlag{
			Name:    "probe-budget",
			Usage:   "Fragments to inspect before replaying a stream unchanged",
			Value:   decode.DefaultProbeBudget,
			Sources: cli.EnvVars("CHATDECODE_PROBE_BUDGET"),
		},
		&cli.BoolFlag{Name: "repair", Usage: "Repair malformed JSON before giving up"},
	)

	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode the JSON document carried by each input",
		ArgsUsage: "[file...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := newRunner(ctx, env, cmd)
			if err != nil {
				return err
			}
			defer r.close()

			decoder := decode.New(
				decode.WithProbeBudget(int(cmd.Int("probe-budget"))),
				decode.WithRepair(cmd.Bool("repair")),
				decode.WithObserver(r.observer),
			)
			return r.run(ctx, cmd.Args().Slice(), func(ctx context.Context, p payload.Payload) (payload.Result, error) {
				return decoder.Decode(ctx, p)
			})
		},
	}
}

func extractCmd(env *environment) *cli.Command {
	flags := append(inputFlags(),
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Code block type to extract", Required: true},
		&cli.BoolFlag{Name: "markdown", Usage: "Render extracted html and twig payloads as Markdown"},
		rulesFlag(),
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract a typed code block from each input",
		ArgsUsage: "[file...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			table, err := loadTable(cmd.String("rules"))
			if err != nil {
				return err
			}

			r, err := newRunner(ctx, env, cmd)
			if err != nil {
				return err
			}
			defer r.close()

			codeBlockType := cmd.String("type")
			if cmd.Bool("markdown") && rendersMarkdown(codeBlockType) {
				r.markdown = true
			}

			extractor := codeblock.New(codeblock.WithTable(table), codeblock.WithObserver(r.observer))
			return r.run(ctx, cmd.Args().Slice(), func(ctx context.Context, p payload.Payload) (payload.Result, error) {
				return extractor.Extract(ctx, p, codeBlockType)
			})
		},
	}
}

func typesCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List the code block types known to the extractor",
		Flags: []cli.Flag{rulesFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			table, err := loadTable(cmd.String("rules"))
			if err != nil {
				return err
			}
			for _, name := range table.Types() {
				fmt.Fprintln(env.stdout, name)
			}
			return nil
		},
	}
}

func loadTable(path string) (codeblock.Table, error) {
	table := codeblock.DefaultTable()
	if path == "" {
		return table, nil
	}
	custom, err := codeblock.LoadTable(path)
	if err != nil {
		return codeblock.Table{}, fmt.Errorf("loading rules: %w", err)
	}
	return table.Merge(custom), nil
}

func rendersMarkdown(codeBlockType string) bool {
	switch strings.ToLower(strings.TrimSpace(codeBlockType)) {
	case "html", "twig":
		return true
	}
	return false
}
