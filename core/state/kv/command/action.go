package command

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"go.dedis.ch/nemval/cli"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	statekv "go.dedis.ch/nemval/core/state/kv"
	"go.dedis.ch/nemval/core/store/kv"
	"golang.org/x/xerrors"
)

// action defines the state commands. Defining the functions and the printer
// helps in testing the commands.
type action struct {
	printer io.Writer
	logger  zerolog.Logger

	readFile func(path string) ([]byte, error)
	openDB   func(path string) (kv.DB, error)
}

func (a action) importAction(flags cli.Flags) error {
	data, err := a.readFile(flags.Path("file"))
	if err != nil {
		return xerrors.Errorf("failed to read document: %v", err)
	}

	var doc state.Document

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return xerrors.Errorf("failed to decode document: %v", err)
	}

	store, closer, err := a.openStore(flags.Path("state"))
	if err != nil {
		return err
	}

	defer closer.Close()

	err = store.Import(doc)
	if err != nil {
		return xerrors.Errorf("failed to import: %v", err)
	}

	fmt.Fprintf(a.printer, "imported %d accounts, %d namespaces, %d mosaics and %d hashes\n",
		len(doc.Accounts), len(doc.Namespaces), len(doc.Mosaics), len(doc.Hashes))

	return nil
}

func (a action) accountAction(flags cli.Flags) error {
	addr, err := model.ParseAddress(flags.String("address"))
	if err != nil {
		return xerrors.Errorf("invalid address: %v", err)
	}

	store, closer, err := a.openStore(flags.Path("state"))
	if err != nil {
		return err
	}

	defer closer.Close()

	acc := state.Account{
		Address:          addr,
		Balance:          store.Balance(addr),
		Cosigners:        store.Cosigners(addr),
		MinCosignatories: store.MinCosignatories(addr),
		CosignatoryOf:    store.CosignatoryOf(addr),
		RemoteLinks:      store.RemoteLinks(addr),
	}

	err = store.Err()
	if err != nil {
		return xerrors.Errorf("failed to read state: %v", err)
	}

	data, err := json.MarshalIndent(acc, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to encode account: %v", err)
	}

	fmt.Fprintln(a.printer, string(data))

	return nil
}

func (a action) namespaceAction(flags cli.Flags) error {
	id := model.NamespaceID(flags.String("id"))

	store, closer, err := a.openStore(flags.Path("state"))
	if err != nil {
		return err
	}

	defer closer.Close()

	entry, found := store.Namespace(id)
	mosaics := store.MosaicsOf(id)

	err = store.Err()
	if err != nil {
		return xerrors.Errorf("failed to read state: %v", err)
	}

	if !found {
		return xerrors.Errorf("namespace '%s' not found", id)
	}

	out := struct {
		Namespace model.NamespaceEntry `json:"namespace"`
		Mosaics   []model.MosaicEntry  `json:"mosaics"`
	}{
		Namespace: entry,
		Mosaics:   mosaics,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to encode namespace: %v", err)
	}

	fmt.Fprintln(a.printer, string(data))

	return nil
}

func (a action) openStore(path string) (*statekv.Store, io.Closer, error) {
	db, err := a.openDB(path)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to open state: %v", err)
	}

	store, err := statekv.NewStore(db, statekv.WithLogger(a.logger))
	if err != nil {
		db.Close()
		return nil, nil, xerrors.Errorf("failed to create store: %v", err)
	}

	return store, db, nil
}
