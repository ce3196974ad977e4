package command

import (
	"context"
	"fmt"

	"github.com/tirnanog/itpack"
)

const (
	PackDescription = "Create a .it pack from a folder"
	PackHelp        = PackDescription + "\n\n" +
		"Every input file is required: an unreadable file aborts the\n" +
		"build rather than producing an archive with missing content."
)

// Pack implements the `pack` subcommand.
type Pack struct {
	verboseOpts
	saltOpts

	Input        string   `short:"i" long:"input" required:"true" description:"Input folder to pack"`
	Output       string   `short:"o" long:"output" required:"true" description:"Output .it file name"`
	CompressExts []string `short:"f" long:"compress-format" description:"Extension to compress (default: txt xml dds pmg set raw)"`
	Workers      int      `long:"workers" description:"Worker count (default: number of CPUs)"`
}

// Execute runs the pack build.
func (c *Pack) Execute([]string) error {
	logger := c.logger()

	salts, err := c.loadSalts(logger)
	if err != nil {
		return err
	}

	opts := []itpack.CreateOption{
		itpack.CreateWithKey(c.Key),
		itpack.CreateWithSalts(salts),
		itpack.CreateWithWorkers(c.Workers),
		itpack.CreateWithLogger(logger),
	}
	if c.Name != "" {
		opts = append(opts, itpack.CreateWithName(c.Name))
	}
	if len(c.CompressExts) > 0 {
		opts = append(opts, itpack.CreateWithCompressExts(c.CompressExts))
	}

	stats, err := itpack.Create(context.Background(), c.Input, c.Output, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("packed %d files: %d bytes in, %d bytes stored (%d compressed, %d encrypted)\n",
		stats.Files, stats.OriginalBytes, stats.StoredBytes, stats.Compressed, stats.Encrypted)
	return nil
}
