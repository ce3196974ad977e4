package command

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tirnanog/itpack"
)

const (
	ListDescription = "Output the file list of a .it pack"
	ListHelp        = ListDescription + "\n\n" +
		"Writes one entry path per line, to stdout unless --output is set."
)

// List implements the `list` subcommand.
type List struct {
	verboseOpts
	saltOpts

	Input  string `short:"i" long:"input" required:"true" description:"Input pack file"`
	Output string `short:"o" long:"output" description:"List file name; stdout if not set"`
	Long   bool   `short:"l" long:"long" description:"Include method, sizes and checksum per entry"`
}

// Execute runs the listing.
func (c *List) Execute([]string) error {
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

	var out io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output) //nolint:gosec // user-provided path is intentional
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck // flushed below
		out = f
	}

	w := bufio.NewWriter(out)
	if c.Long {
		fmt.Fprintf(w, "# %s: %d entries, data digest %s\n", a.Name(), a.Len(), a.DataDigest())
	}
	for e := range a.Entries() {
		if c.Long {
			fmt.Fprintf(w, "%-20s %10d %10d %08x %s\n",
				e.Method, e.OriginalSize, e.StoredSize, e.CRC, e.Path)
		} else {
			fmt.Fprintln(w, e.Path)
		}
	}
	return w.Flush()
}
