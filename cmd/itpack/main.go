package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/tirnanog/itpack/cmd/itpack/command"
)

const name = "itpack"

func main() {
	// Optional .env for ITPACK_KEY / ITPACK_SALTS; absence is fine.
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	parser := flags.NewNamedParser(name, flags.Default)

	parser.AddCommand("extract", command.ExtractDescription, command.ExtractHelp,
		&command.Extract{})
	parser.AddCommand("list", command.ListDescription, command.ListHelp,
		&command.List{})
	parser.AddCommand("pack", command.PackDescription, command.PackHelp,
		&command.Pack{})
	parser.AddCommand("verify", command.VerifyDescription, command.VerifyHelp,
		&command.Verify{})

	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrCommandRequired {
			parser.WriteHelp(os.Stdout)
		}

		os.Exit(1)
	}
}
