package cli

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter shows a progress bar over one extraction pass.
type CLIProgressReporter struct {
	quiet     bool
	out       io.Writer
	fileBar   *progressbar.ProgressBar
	startTime time.Time
	processed int
}

// NewCLIProgressReporter creates a reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, out: out, startTime: time.Now()}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(total int) {
	c.processed = 0
	if c.quiet {
		return
	}
	log.Printf("Analyzing %d source files\n", total)

	c.fileBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string) {
	c.processed++
	if c.quiet || c.fileBar == nil {
		return
	}
	c.fileBar.Add(1)
}

// Processed returns the number of files seen in the current pass.
func (c *CLIProgressReporter) Processed() int {
	return c.processed
}

// Elapsed returns the time since the reporter was created.
func (c *CLIProgressReporter) Elapsed() time.Duration {
	return time.Since(c.startTime)
}
