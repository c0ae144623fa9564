package main

import (
	"github.com/alecthomas/kong"

	"beercomi.dev/BeerComi/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("BeerComi"), kong.Description("BeerComi is a beer and brewery review service."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
