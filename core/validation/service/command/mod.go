// Package command defines the cli command that validates a file of
// transactions against a persisted state.
package command

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/nemval"
	"go.dedis.ch/nemval/cli"
	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/store/kv"
)

// Initializer implements the initializer of the validation command.
//
// - implements cli.Initializer
type Initializer struct{}

// SetCommands implements cli.Initializer.
func (i Initializer) SetCommands(builder cli.Builder) {
	action := action{
		printer:      os.Stdout,
		logger:       nemval.Logger,
		readFile:     os.ReadFile,
		openDB:       kv.New,
		loadConfig:   config.Load,
		writeMetrics: writeMetrics,
	}

	cmd := builder.SetCommand("validate")
	cmd.SetDescription("validate a list of transactions against a state")
	cmd.SetFlags(
		cli.StringFlag{
			Name:     "state",
			Usage:    "path to the state database",
			Required: true,
		},
		cli.StringFlag{
			Name:     "txs",
			Usage:    "path to the JSON array of transactions",
			Required: true,
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "path to the YAML configuration, the network profile is used otherwise",
		},
		cli.StringFlag{
			Name:  "network",
			Usage: "profile of the network when no configuration is given: [mainnet | testnet]",
			Value: "mainnet",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "height of the block the transactions are validated for, the latest rules otherwise",
		},
		cli.BoolFlag{
			Name:  "verify",
			Usage: "verify the signatures of the transactions",
		},
		cli.StringFlag{
			Name:  "metrics",
			Usage: "if provided, write the Prometheus metrics to that file",
		},
	)
	cmd.SetAction(action.validateAction)
}

func writeMetrics(path string) error {
	registry := prometheus.NewRegistry()

	for _, c := range nemval.PromCollectors {
		err := registry.Register(c)
		if err != nil {
			return err
		}
	}

	return prometheus.WriteToTextfile(path, registry)
}
