package command

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"go.dedis.ch/nemval/cli"
	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/ledger"
	"go.dedis.ch/nemval/core/model"
	statekv "go.dedis.ch/nemval/core/state/kv"
	"go.dedis.ch/nemval/core/store/kv"
	"go.dedis.ch/nemval/core/txn/json"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/rules"
	"go.dedis.ch/nemval/core/validation/service"
	"go.dedis.ch/nemval/crypto/ed25519"
	"golang.org/x/xerrors"
)

// action defines the validation command. Defining the functions and the
// printer helps in testing the command.
type action struct {
	printer io.Writer
	logger  zerolog.Logger

	readFile     func(path string) ([]byte, error)
	openDB       func(path string) (kv.DB, error)
	loadConfig   func(path string) (config.Config, error)
	writeMetrics func(path string) error
}

func (a action) validateAction(flags cli.Flags) error {
	cfg, err := a.getConfig(flags)
	if err != nil {
		return xerrors.Errorf("failed to load config: %v", err)
	}

	data, err := a.readFile(flags.Path("txs"))
	if err != nil {
		return xerrors.Errorf("failed to read transactions: %v", err)
	}

	txs, err := json.DecodeBatch(data)
	if err != nil {
		return xerrors.Errorf("failed to decode transactions: %v", err)
	}

	db, err := a.openDB(flags.Path("state"))
	if err != nil {
		return xerrors.Errorf("failed to open state: %v", err)
	}

	defer db.Close()

	store, err := statekv.NewStore(db, statekv.WithLogger(a.logger))
	if err != nil {
		return xerrors.Errorf("failed to create store: %v", err)
	}

	opts := []service.Option{service.WithLogger(a.logger)}
	if flags.Bool("verify") {
		opts = append(opts, service.WithRuleOptions(rules.WithVerifier(ed25519.NewVerifier())))
	}

	height := model.MaxHeight
	if flags.Int("height") > 0 {
		height = model.Height(flags.Int("height"))
	}

	srvc := service.NewService(cfg, store, opts...)

	res, err := srvc.Validate(ledger.New(store), txs, validation.WithHeight(height))
	if err != nil {
		return xerrors.Errorf("failed to validate: %v", err)
	}

	err = store.Err()
	if err != nil {
		return xerrors.Errorf("failed to read state: %v", err)
	}

	rejected := 0

	for i, r := range res.GetTransactionResults() {
		fmt.Fprintf(a.printer, "%d\t%v\t%v\t%v\n", i, r.GetHash(), r.GetTransaction().GetKind(), r.GetVerdict())

		if !r.GetVerdict().IsSuccess() {
			rejected++
		}
	}

	if flags.Path("metrics") != "" {
		err = a.writeMetrics(flags.Path("metrics"))
		if err != nil {
			return xerrors.Errorf("failed to write metrics: %v", err)
		}
	}

	if rejected > 0 {
		return xerrors.Errorf("%d of %d transactions rejected", rejected, len(txs))
	}

	return nil
}

func (a action) getConfig(flags cli.Flags) (config.Config, error) {
	if flags.Path("config") != "" {
		return a.loadConfig(flags.Path("config"))
	}

	switch flags.String("network") {
	case "", model.MainNet.String():
		return config.Default(), nil
	case model.TestNet.String():
		return config.Testnet(), nil
	default:
		return config.Config{}, xerrors.Errorf("unknown network '%s'", flags.String("network"))
	}
}
