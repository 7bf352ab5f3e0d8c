package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/unified-analytics/internal/dispatch"
	"github.com/teemow/unified-analytics/internal/server"
)

func newCallCmd() *cobra.Command {
	var argsJSON string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Run one tool and print its JSON payload",
		Long: `Run a single analytics tool outside of MCP and print the payload the MCP
server would return. The command exits nonzero when the payload is an error.

Example:
  unified-analytics call gsc_top_queries --args '{"site":"mebelcenter","start_date":"2025-01-01","end_date":"2025-01-31","limit":10}'

Tools: ` + strings.Join(dispatch.ToolNames(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}

			ttl, err := durationFlagOrEnv(cmd, "cache-ttl", envCacheTTL)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			sc := server.NewServerContext(ctx, rt.sites,
				server.NewGoogleClientFactory(rt.loader, nil),
				server.WithLogger(rt.logger),
				server.WithCache(openCache(ctx, CacheConfig{
					URL: stringFlagOrEnv(cmd, "cache-url", envCacheURL),
					TTL: ttl,
				}, rt.logger)),
			)
			defer func() { _ = sc.Shutdown() }()

			return runCall(ctx, sc.Dispatcher(), args[0], argsJSON, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&argsJSON, "args", "{}", "Tool arguments as a JSON object")
	addCacheFlags(cmd)

	return cmd
}

// runCall decodes argsJSON, runs tool through d and writes the payload to out.
func runCall(ctx context.Context, d *dispatch.Dispatcher, tool, argsJSON string, out io.Writer) error {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return fmt.Errorf("invalid --args JSON: %w", err)
	}

	res := d.Call(ctx, tool, args)
	if _, err := fmt.Fprintln(out, res.Text); err != nil {
		return err
	}
	if res.IsError {
		return fmt.Errorf("%s failed", tool)
	}
	return nil
}
