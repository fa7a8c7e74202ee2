package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mvp-joe/project-atlas/internal/analyzer"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// printSummary writes entity counts and any injection cycles.
func printSummary(w io.Writer, snap *analyzer.Snapshot, outputPath string) {
	counts := snap.Counts()

	successColor.Fprintf(w, "✓ Analysis complete: %d modules\n", counts.Modules)
	fmt.Fprintf(w, "  Controllers: %d (%d endpoints)\n", counts.Controllers, counts.Endpoints)
	fmt.Fprintf(w, "  Services:    %d\n", counts.Services)
	fmt.Fprintf(w, "  DTO classes: %d\n", counts.DtoClasses)
	fmt.Fprintf(w, "  Frontend:    %d exports\n", counts.Frontend)
	for _, cycle := range snap.Cycles {
		warnColor.Fprintf(w, "! Injection cycle: %s\n", strings.Join(cycle, " -> "))
	}
	if outputPath != "" {
		dimColor.Fprintf(w, "  Written to %s\n", outputPath)
	}
}
