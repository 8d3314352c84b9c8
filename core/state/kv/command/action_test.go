package command

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/nemval/cli"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	statekv "go.dedis.ch/nemval/core/state/kv"
	"go.dedis.ch/nemval/core/store/kv"
	"go.dedis.ch/nemval/internal/testing/fake"
)

func TestImportAction(t *testing.T) {
	accs := fake.NewAccounts(0, 2)

	doc := state.Document{
		Accounts: []state.Account{
			{Address: accs[0].Address, Balance: 10, Cosigners: []model.Address{accs[1].Address}},
			{Address: accs[1].Address, Balance: 5, CosignatoryOf: []model.Address{accs[0].Address}},
		},
		Namespaces: []model.NamespaceEntry{{ID: "foo", Owner: accs[0].Address, Height: 1, Expiry: 100}},
		Mosaics: []model.MosaicEntry{
			{Definition: model.MosaicDefinition{Creator: accs[0].Address, ID: model.MosaicID{Namespace: "foo", Name: "bar"}}},
		},
		Hashes: []model.Hash{{1}},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	db := fake.NewInMemoryDB()
	out := new(bytes.Buffer)

	a := makeAction(out, db, data)

	err = a.importAction(cli.FlagSet{"state": "state.db", "file": "state.json"})
	require.NoError(t, err)
	require.Equal(t, "imported 2 accounts, 1 namespaces, 1 mosaics and 1 hashes\n", out.String())

	store, err := statekv.NewStore(db, statekv.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.Equal(t, model.Amount(10), store.Balance(accs[0].Address))
	require.True(t, store.HashExists(model.Hash{1}))

	out.Reset()

	err = a.accountAction(cli.FlagSet{"state": "state.db", "address": string(accs[0].Address)})
	require.NoError(t, err)

	var acc state.Account
	require.NoError(t, json.Unmarshal(out.Bytes(), &acc))
	require.Equal(t, model.Amount(10), acc.Balance)
	require.Equal(t, []model.Address{accs[1].Address}, acc.Cosigners)

	out.Reset()

	err = a.namespaceAction(cli.FlagSet{"state": "state.db", "id": "foo"})
	require.NoError(t, err)

	var ns struct {
		Namespace model.NamespaceEntry
		Mosaics   []model.MosaicEntry
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &ns))
	require.Equal(t, accs[0].Address, ns.Namespace.Owner)
	require.Len(t, ns.Mosaics, 1)
	require.Equal(t, "bar", ns.Mosaics[0].Definition.ID.Name)

	err = a.namespaceAction(cli.FlagSet{"state": "state.db", "id": "baz"})
	require.EqualError(t, err, "namespace 'baz' not found")
}

func TestImportAction_Failures(t *testing.T) {
	a := makeAction(io.Discard, fake.NewInMemoryDB(), nil)
	a.readFile = func(string) ([]byte, error) {
		return nil, fake.GetError()
	}

	err := a.importAction(cli.FlagSet{})
	require.EqualError(t, err, fake.Err("failed to read document"))

	a = makeAction(io.Discard, fake.NewInMemoryDB(), []byte("{"))

	err = a.importAction(cli.FlagSet{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode document")

	a = makeAction(io.Discard, fake.NewInMemoryDB(), []byte("{}"))
	a.openDB = func(string) (kv.DB, error) {
		return nil, fake.GetError()
	}

	err = a.importAction(cli.FlagSet{})
	require.EqualError(t, err, fake.Err("failed to open state"))

	db := fake.NewInMemoryDB()
	a = makeAction(io.Discard, db, []byte(`{"accounts": [{"address": "abc"}]}`))

	_, err = statekv.NewStore(db, statekv.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	db.ErrWrite = fake.GetError()

	err = a.importAction(cli.FlagSet{})
	require.EqualError(t, err,
		fake.Err("failed to import: failed to import accounts: account abc: failed to write"))
}

func TestAccountAction_Failures(t *testing.T) {
	a := makeAction(io.Discard, fake.NewInMemoryDB(), nil)

	err := a.accountAction(cli.FlagSet{"address": "abc"})
	require.EqualError(t, err, "invalid address: invalid address 'abc'")

	addr := string(fake.NewAccount(0).Address)

	a.openDB = func(string) (kv.DB, error) {
		return nil, fake.GetError()
	}

	err = a.accountAction(cli.FlagSet{"address": addr})
	require.EqualError(t, err, fake.Err("failed to open state"))

	db := fake.NewInMemoryDB()

	_, err = statekv.NewStore(db, statekv.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	db.ErrView = fake.GetError()

	a = makeAction(io.Discard, db, nil)

	err = a.accountAction(cli.FlagSet{"address": addr})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read state")
}

func TestNamespaceAction_Failures(t *testing.T) {
	a := makeAction(io.Discard, fake.NewInMemoryDB(), nil)
	a.openDB = func(string) (kv.DB, error) {
		return nil, fake.GetError()
	}

	err := a.namespaceAction(cli.FlagSet{"id": "foo"})
	require.EqualError(t, err, fake.Err("failed to open state"))

	db := fake.NewInMemoryDB()

	_, err = statekv.NewStore(db, statekv.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	db.ErrView = fake.GetError()

	a = makeAction(io.Discard, db, nil)

	err = a.namespaceAction(cli.FlagSet{"id": "foo"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read state")
}

func TestInitializer_SetCommands(t *testing.T) {
	builder := &fakeBuilder{}

	Initializer{}.SetCommands(builder)

	require.Equal(t, []string{"state", "import", "account", "namespace"}, builder.names)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeAction(out io.Writer, db kv.DB, data []byte) action {
	return action{
		printer: out,
		logger:  zerolog.Nop(),
		readFile: func(string) ([]byte, error) {
			return data, nil
		},
		openDB: func(string) (kv.DB, error) {
			return db, nil
		},
	}
}

type fakeBuilder struct {
	cli.Builder

	names []string
}

func (b *fakeBuilder) SetCommand(name string) cli.CommandBuilder {
	b.names = append(b.names, name)
	return fakeCommandBuilder{builder: b}
}

type fakeCommandBuilder struct {
	cli.CommandBuilder

	builder *fakeBuilder
}

func (fakeCommandBuilder) SetDescription(string) {}

func (fakeCommandBuilder) SetFlags(...cli.Flag) {}

func (fakeCommandBuilder) SetAction(cli.Action) {}

func (b fakeCommandBuilder) SetSubCommand(name string) cli.CommandBuilder {
	return b.builder.SetCommand(name)
}
