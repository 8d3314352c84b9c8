// Package main provides the cli of the validation engine.
//
//	nemval state import --state state.db --file state.json
//	nemval validate --state state.db --txs txs.json --network testnet \
//	  --height 2000000 --metrics nemval.prom
//
// The process exits with a non-zero status when a transaction is rejected.
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/nemval/cli"
	"go.dedis.ch/nemval/cli/ucli"
	state "go.dedis.ch/nemval/core/state/kv/command"
	validation "go.dedis.ch/nemval/core/validation/service/command"
)

var builder cli.Builder = ucli.NewBuilder("nemval", nil)
var printer io.Writer = os.Stderr

func main() {
	err := run(os.Args, state.Initializer{}, validation.Initializer{})
	if err != nil {
		fmt.Fprintf(printer, "%+v\n", err)
		os.Exit(1)
	}
}

func run(args []string, inits ...cli.Initializer) error {
	for _, initializer := range inits {
		initializer.SetCommands(builder)
	}

	app := builder.Build()

	err := app.Run(args)
	if err != nil {
		return err
	}

	return nil
}
