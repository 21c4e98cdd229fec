package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var cfg config

	flags := append(globalFlags(&cfg), llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "ask",
		Usage: "Interactive medication lookup",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogger()

			shell, err := cfg.newShell(ctx)
			if err != nil {
				return err
			}
			defer shell.close()

			rl, err := readline.New("medication> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize prompt")
			}
			defer rl.Close()

			fmt.Fprintln(c.Root().Writer, "Enter a medication name for usage, side effect and dosage information.")
			fmt.Fprintln(c.Root().Writer, "Type 'exit' to quit.")

			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
						return nil
					}
					return goerr.Wrap(err, "failed to read input")
				}

				name := strings.TrimSpace(line)
				if name == "" {
					continue
				}
				if name == "exit" || name == "quit" {
					return nil
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " Looking up " + name + "..."
				sp.Start()
				info, err := shell.medication.Lookup(ctx, name)
				sp.Stop()

				if err != nil {
					fmt.Fprintf(c.Root().Writer, "Error: %s\n\n", err.Error())
					continue
				}

				printMedicationInfo(c.Root().Writer, info)
			}
		},
	}
}

func printMedicationInfo(w io.Writer, info *model.MedicationInfo) {
	fmt.Fprintf(w, "\nUses\n  %s\n", info.Uses)
	fmt.Fprintf(w, "\nSide Effects\n  %s\n", info.SideEffects)
	fmt.Fprintf(w, "\nDosage Guidelines\n  %s\n", info.DosageGuidelines)
	fmt.Fprintf(w, "\n%s\n\n", model.Disclaimer)
}
