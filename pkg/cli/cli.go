package cli

import (
	"context"

	"github.com/medassist-app/medassist/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "medassist",
		Usage: "Pharmaceutical information assistant",
		Commands: []*cli.Command{
			serveCommand(),
			askCommand(),
			interactionsCommand(),
			analyzeCommand(),
			historyCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
