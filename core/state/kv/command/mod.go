// Package command defines the cli commands to manage the persisted state.
package command

import (
	"os"

	"go.dedis.ch/nemval"
	"go.dedis.ch/nemval/cli"
	"go.dedis.ch/nemval/core/store/kv"
)

// Initializer implements the initializer of the state commands.
//
// - implements cli.Initializer
type Initializer struct{}

// SetCommands implements cli.Initializer.
func (i Initializer) SetCommands(builder cli.Builder) {
	action := action{
		printer:  os.Stdout,
		logger:   nemval.Logger,
		readFile: os.ReadFile,
		openDB:   kv.New,
	}

	cmd := builder.SetCommand("state")
	cmd.SetDescription("manage the state used by the validation")

	imp := cmd.SetSubCommand("import")
	imp.SetDescription("import a JSON document into the state database")
	imp.SetFlags(
		cli.StringFlag{
			Name:     "state",
			Usage:    "path to the state database, created if it does not exist",
			Required: true,
		},
		cli.StringFlag{
			Name:     "file",
			Usage:    "path to the JSON document",
			Required: true,
		},
	)
	imp.SetAction(action.importAction)

	show := cmd.SetSubCommand("account")
	show.SetDescription("print an account of the state database")
	show.SetFlags(
		cli.StringFlag{
			Name:     "state",
			Usage:    "path to the state database",
			Required: true,
		},
		cli.StringFlag{
			Name:     "address",
			Usage:    "address of the account",
			Required: true,
		},
	)
	show.SetAction(action.accountAction)

	ns := cmd.SetSubCommand("namespace")
	ns.SetDescription("print a namespace and its mosaics")
	ns.SetFlags(
		cli.StringFlag{
			Name:     "state",
			Usage:    "path to the state database",
			Required: true,
		},
		cli.StringFlag{
			Name:     "id",
			Usage:    "identifier of the namespace",
			Required: true,
		},
	)
	ns.SetAction(action.namespaceAction)
}
