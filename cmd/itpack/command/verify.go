package command

import (
	"context"
	"fmt"

	"github.com/tirnanog/itpack"
)

const (
	VerifyDescription = "Verify every entry of a .it pack"
	VerifyHelp        = VerifyDescription + "\n\n" +
		"Decodes and checksums all entries without writing anything."
)

// Verify implements the `verify` subcommand.
type Verify struct {
	verboseOpts
	saltOpts

	Input   string `short:"i" long:"input" required:"true" description:"Input pack file"`
	Workers int    `long:"workers" description:"Worker count (default: number of CPUs)"`
}

// Execute runs the verification.
func (c *Verify) Execute([]string) error {
	logger := c.logger()

	openOpts, err := c.openOptions(logger)
	if err != nil {
		return err
	}
	a, err := itpack.Open(c.Input, openOpts...)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // read-only archive

	stats, err := a.Verify(context.Background(), c.Workers)
	if err != nil {
		return err
	}

	fmt.Printf("verified %d/%d entries, data digest %s\n", stats.OK, a.Len(), a.DataDigest())
	for _, ee := range stats.Errors {
		fmt.Printf("  bad entry %s: %v\n", ee.Path, ee.Err)
	}
	if len(stats.Errors) > 0 {
		return fmt.Errorf("%d entries failed verification", len(stats.Errors))
	}
	return nil
}
