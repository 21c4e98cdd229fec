package cli

import (
	"context"

	"github.com/medassist-app/medassist/pkg/service/mcp"
	"github.com/medassist-app/medassist/pkg/service/query"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var cfg config

	flags := append(globalFlags(&cfg), llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "mcp",
		Usage: "Expose the assistant queries as MCP tools over stdio",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogger()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(query.New(gemini))
			return srv.Run(ctx)
		},
	}
}
