package command

import (
	"context"
	"fmt"

	"github.com/tirnanog/itpack"
)

const (
	ExtractDescription = "Extract a .it pack"
	ExtractHelp        = ExtractDescription + "\n\n" +
		"Per-entry failures (wrong key, corruption) are reported and\n" +
		"skipped; the remaining entries still extract."
)

// Extract implements the `extract` subcommand.
type Extract struct {
	verboseOpts
	saltOpts

	Input     string   `short:"i" long:"input" required:"true" description:"Input pack file"`
	Output    string   `short:"o" long:"output" required:"true" description:"Output folder"`
	Filters   []string `short:"f" long:"filter" description:"Regexp filter on entry paths; multiple occurrences mean OR"`
	Overwrite bool     `long:"overwrite" description:"Overwrite existing files"`
	Workers   int      `long:"workers" description:"Worker count (default: number of CPUs)"`
}

// Execute runs the extraction.
func (c *Extract) Execute([]string) error {
	logger := c.logger()

	filters, err := itpack.CompileFilters(c.Filters)
	if err != nil {
		return err
	}
	openOpts, err := c.openOptions(logger)
	if err != nil {
		return err
	}

	a, err := itpack.Open(c.Input, openOpts...)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // read-only archive

	stats, err := a.ExtractTo(context.Background(), c.Output,
		itpack.ExtractWithFilters(filters),
		itpack.ExtractWithWorkers(c.Workers),
		itpack.ExtractWithOverwrite(c.Overwrite),
	)
	if err != nil {
		return err
	}

	fmt.Printf("extracted %d entries (%d skipped, %d already present)\n",
		stats.Extracted, stats.Skipped(), stats.Existing)
	for _, ee := range stats.Errors {
		fmt.Printf("  skipped %s: %v\n", ee.Path, ee.Err)
	}
	return nil
}
