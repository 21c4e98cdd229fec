package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/urfave/cli/v3"
)

func interactionsCommand() *cli.Command {
	var cfg config

	flags := append(globalFlags(&cfg), llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "interactions",
		Usage:     "Check potential interactions between two or more medications",
		ArgsUsage: "MEDICATION MEDICATION [MEDICATION...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogger()

			shell, err := cfg.newShell(ctx)
			if err != nil {
				return err
			}
			defer shell.close()

			for _, name := range c.Args().Slice() {
				if err := shell.interaction.Add(name); err != nil {
					return err
				}
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " Checking interactions..."
			sp.Start()
			report, err := shell.interaction.Check(ctx)
			sp.Stop()

			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s\n\n%s\n", report.Report, model.Disclaimer)
			return nil
		},
	}
}
