package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mvp-joe/project-atlas/internal/extract"
	"github.com/spf13/cobra"
)

var scanOutputFlag string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Analyze the project and write the JSON structure document",
	Long: `Scan extracts controllers, services, DTO classes and frontend exports,
links them, groups them by domain module and writes one JSON document.

Any unreadable or non-UTF-8 source file aborts the scan and leaves the
previous document untouched.

Examples:
  # Scan the current directory into .atlas/metadata.json
  atlas scan

  # Scan another project and write elsewhere
  atlas scan -C ../crm --output /tmp/crm.json
`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanOutputFlag, "output", "o", "", "output path (default is output.path from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	p, err := loadProject(projectDir)
	if err != nil {
		return err
	}
	_, err = scanProject(ctx, p, scanOutputFlag, cmd.OutOrStdout(), quietFlag)
	return err
}

// scanProject analyzes p and writes the document to output, or to the
// configured path when output is empty.
func scanProject(ctx context.Context, p *project, output string, out io.Writer, quiet bool) (*Document, error) {
	progress := NewCLIProgressReporter(out, quiet)
	snap, err := p.analyze(ctx, extract.WithProgress(progress))
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	if output == "" {
		output = p.cfg.OutputPath(p.rootDir)
	}
	doc := p.newDocument(snap)
	if err := writeDocument(output, doc); err != nil {
		return nil, err
	}

	if !quiet {
		printSummary(out, snap, output)
	}
	return doc, nil
}
