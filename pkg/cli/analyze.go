package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/urfave/cli/v3"
)

func analyzeCommand() *cli.Command {
	var cfg config

	flags := append(globalFlags(&cfg), llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze an image of a prescription or medication label",
		ArgsUsage: "FILE",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogger()

			if c.Args().Len() != 1 {
				return goerr.New("exactly one image file is required")
			}
			path := c.Args().First()

			data, err := os.ReadFile(filepath.Clean(path))
			if err != nil {
				return goerr.Wrap(err, "failed to read file", goerr.V("path", path))
			}
			mimeType := mime.TypeByExtension(filepath.Ext(path))

			shell, err := cfg.newShell(ctx)
			if err != nil {
				return err
			}
			defer shell.close()

			if err := shell.document.SetFile(ctx, filepath.Base(path), mimeType, data); err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " Analyzing document..."
			sp.Start()
			analysis, err := shell.document.Analyze(ctx)
			sp.Stop()

			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s\n\n%s\n", analysis.Analysis, model.Disclaimer)
			return nil
		},
	}
}
