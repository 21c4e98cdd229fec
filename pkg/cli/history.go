package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	var (
		cfg   config
		clear bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "clear",
			Usage:       "Remove all history entries",
			Destination: &clear,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "history",
		Usage: "Show or clear past queries",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogger()

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			if clear {
				if err := repo.ClearHistory(ctx); err != nil {
					return err
				}
				fmt.Fprintln(c.Root().Writer, "History cleared.")
				return nil
			}

			items, err := repo.ListHistory(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(c.Root().Writer, "No history entries.")
				return nil
			}

			for _, item := range items {
				fmt.Fprintf(c.Root().Writer, "%s  [%s]  %s\n",
					item.CreatedAt.Format("2006-01-02 15:04:05"),
					item.Type,
					item.Label(),
				)
			}
			return nil
		},
	}
}
