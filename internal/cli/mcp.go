package cli

import (
	"fmt"
	"log"

	"github.com/mvp-joe/project-atlas/internal/analyzer"
	"github.com/mvp-joe/project-atlas/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpWatchFlag bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the project structure over MCP on stdio",
	Long: `Mcp analyzes the project once and serves read-only tools over the
result using the Model Context Protocol on stdio:

  atlas_modules       domain modules with labels and counts
  atlas_endpoints     HTTP endpoints with full paths, roles and DTOs
  atlas_dto           a DTO class and the endpoints that use it
  atlas_calls         injected-service calls made by a method
  atlas_search        keyword search over endpoints, DTOs and services
  atlas_dependencies  constructor-injection relationships and cycles

With --watch the served result is refreshed when sources change.
Logs go to stderr; stdout carries the protocol.
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVarP(&mcpWatchFlag, "watch", "w", false, "refresh the served result when sources change")
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	p, err := loadProject(projectDir)
	if err != nil {
		return err
	}
	live, err := newLiveAnalysis(p)
	if err != nil {
		return err
	}
	defer live.close()

	snap, err := live.analyze(ctx)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	srv, err := mcp.NewServer(ctx, snap, p.cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	if mcpWatchFlag {
		go func() {
			err := live.watch(ctx, func(next *analyzer.Snapshot) error {
				return srv.Update(ctx, next)
			})
			if err != nil {
				log.Printf("Watch disabled: %v", err)
			}
		}()
	}

	if !quietFlag {
		printSummary(cmd.ErrOrStderr(), snap, "")
	}
	return srv.Serve(ctx)
}
