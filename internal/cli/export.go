package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mvp-joe/project-atlas/internal/extract"
	"github.com/mvp-joe/project-atlas/internal/git"
	"github.com/mvp-joe/project-atlas/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportKeepFlag int
	exportListFlag bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Analyze the project and store the result in SQLite",
	Long: `Export runs a full analysis and stores it as a new run in the SQLite
database at output.database. Each run has its own id; older runs can be
pruned with --keep.

Examples:
  # Export and keep only the five newest runs
  atlas export --keep 5

  # List stored runs without analyzing
  atlas export --list
`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&exportKeepFlag, "keep", 0, "number of newest runs to keep (0 keeps all)")
	exportCmd.Flags().BoolVar(&exportListFlag, "list", false, "list stored runs and exit")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	p, err := loadProject(projectDir)
	if err != nil {
		return err
	}

	store, err := storage.Open(p.cfg.DatabasePath(p.rootDir))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if exportListFlag {
		return listRuns(cmd.OutOrStdout(), store)
	}
	_, err = exportProject(ctx, p, store, git.NewOperations(), exportKeepFlag, cmd.OutOrStdout(), quietFlag)
	return err
}

// exportProject analyzes p and stores the snapshot as a new run, returning
// its id. The run records the branch and commit reported by vcs.
func exportProject(ctx context.Context, p *project, store *storage.Store, vcs git.Operations, keep int, out io.Writer, quiet bool) (string, error) {
	progress := NewCLIProgressReporter(out, quiet)
	snap, err := p.analyze(ctx, extract.WithProgress(progress))
	if err != nil {
		return "", fmt.Errorf("analysis failed: %w", err)
	}

	runID, err := store.Export(ctx, snap, storage.RunMeta{
		GeneratedAt: time.Now().UTC(),
		RootDir:     p.rootDir,
		Strategy:    p.cfg.Structure.Strategy,
		Branch:      vcs.CurrentBranch(p.rootDir),
		Commit:      vcs.HeadCommit(p.rootDir),
		Labels:      p.cfg,
	})
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	pruned := 0
	if keep > 0 {
		if pruned, err = store.PruneRuns(keep); err != nil {
			return "", fmt.Errorf("failed to prune runs: %w", err)
		}
	}

	if !quiet {
		printSummary(out, snap, p.cfg.DatabasePath(p.rootDir))
		dimColor.Fprintf(out, "  Run %s", runID)
		if pruned > 0 {
			dimColor.Fprintf(out, " (pruned %d older runs)", pruned)
		}
		fmt.Fprintln(out)
	}
	return runID, nil
}

func listRuns(out io.Writer, store *storage.Store) error {
	runs, err := store.Runs()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored")
		return nil
	}
	for _, run := range runs {
		counts, err := store.RunCounts(run.ID)
		if err != nil {
			return fmt.Errorf("failed to count run %s: %w", run.ID, err)
		}
		fmt.Fprintf(out, "%s  %s  %s  %d controller methods, %d services, %d dto classes\n",
			run.ID, run.GeneratedAt.Format(time.RFC3339), run.Branch, counts["endpoints"], counts["services"], counts["dto_classes"])
	}
	return nil
}
