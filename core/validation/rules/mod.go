// Package rules implements the validation rules of the transactions and the
// factory that assembles them.
//
// Every rule is a stateless validator that reads the state snapshot given at
// construction and the debit predicates of the context. The rules are
// registered in a static table that maps each kind of transaction to the rules
// that apply to it. The rules that must also hold for the inner transaction of
// a multisig transaction are wrapped so that the children are validated with
// them.
package rules

import (
	"time"

	"github.com/rs/zerolog"
	"go.dedis.ch/nemval"
	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/aggregate"
	"go.dedis.ch/nemval/core/validation/fee"
)

// Verifier verifies the signature of a message by a public key.
type Verifier interface {
	Verify(pk model.PublicKey, msg, sig []byte) error
}

// Clock returns the current time.
type Clock func() time.Time

type options struct {
	clock    Clock
	verifier Verifier
	logger   zerolog.Logger
}

// Option is the type of the options to create the validators.
type Option func(*options)

// WithClock sets the time source of the rule that rejects the transactions
// from the future.
func WithClock(clock Clock) Option {
	return func(opts *options) {
		opts.clock = clock
	}
}

// WithVerifier enables the verification of the signatures.
func WithVerifier(v Verifier) Option {
	return func(opts *options) {
		opts.verifier = v
	}
}

// WithLogger sets the logger of the factory.
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// Rule is a validator and the kinds of transaction it applies to. A rule
// without any kind applies to every kind.
type Rule struct {
	Validator validation.SingleValidator
	Kinds     []txn.Kind
}

// Registry is a static table of the rules that apply to each kind of
// transaction.
//
// - implements validation.SingleValidator
type Registry struct {
	table map[txn.Kind]aggregate.Validator
}

// NewRegistry builds the table of the rules. The rules of a kind keep the
// order of the arguments.
func NewRegistry(rules ...Rule) Registry {
	builders := make(map[txn.Kind]*aggregate.Builder)
	for _, kind := range txn.Kinds() {
		builders[kind] = aggregate.NewBuilder()
	}

	for _, rule := range rules {
		kinds := rule.Kinds
		if len(kinds) == 0 {
			kinds = txn.Kinds()
		}

		for _, kind := range kinds {
			builders[kind].Add(rule.Validator)
		}
	}

	table := make(map[txn.Kind]aggregate.Validator, len(builders))
	for kind, builder := range builders {
		table[kind] = builder.Build()
	}

	return Registry{table: table}
}

// Len returns the number of rules that apply to the kind.
func (r Registry) Len(kind txn.Kind) int {
	return r.table[kind].Len()
}

// Validate implements validation.SingleValidator. A transaction of an unknown
// kind is rejected.
func (r Registry) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	v, found := r.table[tx.GetKind()]
	if !found {
		return validation.FailureUnknown
	}

	return v.Validate(tx, ctx)
}

// Levies returns a levy lookup that reads the mosaics of the snapshot.
func Levies(s state.Snapshot) txn.LevyLookup {
	return func(id model.MosaicID) *model.MosaicLevy {
		entry, found := s.Mosaic(id)
		if !found {
			return nil
		}

		return entry.Definition.Levy
	}
}

// NewTransactionValidator returns the validator of the transactions of the
// network described by the configuration. The batch rules are included and
// see a single transaction as a batch of one.
func NewTransactionValidator(cfg config.Config, snapshot state.Snapshot, opts ...Option) aggregate.Validator {
	o := options{
		clock:  time.Now,
		logger: nemval.Logger,
	}

	for _, opt := range opts {
		opt(&o)
	}

	fees := fee.NewCalculator(cfg.Forks, snapshot)

	entity := []Rule{
		{Validator: NewDeadline()},
		{Validator: NewNonFutureEntity(o.clock, cfg.Limits.FutureTolerance)},
	}

	if o.verifier != nil {
		entity = append(entity, Rule{Validator: NewSignature(o.verifier)})
	}

	nested := []Rule{
		{Validator: NewVersion(cfg.Forks)},
		{Validator: NewNetwork(cfg.NetworkID())},
		{Validator: NewNemesisSink(cfg.Accounts.Nemesis)},
		{Validator: aggregate.NewHeightGated(cfg.Forks.TreasuryReissuance, NewFeeSinkSigner(cfg))},
		{Validator: NewMinimumFee(fees)},
		{Validator: NewRemoteNonOperational(snapshot, cfg.Forks, cfg.Limits.RemoteHarvestingDelay)},
		{Validator: NewTransfer(cfg), Kinds: []txn.Kind{txn.KindTransfer}},
		{Validator: NewMosaicBag(snapshot, cfg.Limits.MaxMosaicTransfers), Kinds: []txn.Kind{txn.KindTransfer}},
		{
			Validator: NewImportanceTransfer(snapshot, cfg.Limits.RemoteHarvestingDelay),
			Kinds:     []txn.Kind{txn.KindImportanceTransfer},
		},
		{
			Validator: aggregate.NewHeightGated(cfg.Forks.RemoteAccount, NewRemoteInUse(snapshot)),
			Kinds:     []txn.Kind{txn.KindImportanceTransfer},
		},
		{
			Validator: NewCosignatoryModification(snapshot),
			Kinds:     []txn.Kind{txn.KindMultisigAggregateModification},
		},
		{
			Validator: NewCosignatoryRange(snapshot, cfg.Limits.MaxCosigners),
			Kinds:     []txn.Kind{txn.KindMultisigAggregateModification},
		},
		{Validator: NewProvisionNamespace(snapshot, cfg), Kinds: []txn.Kind{txn.KindProvisionNamespace}},
		{
			Validator: NewMosaicDefinitionCreation(snapshot, cfg),
			Kinds:     []txn.Kind{txn.KindMosaicDefinitionCreation},
		},
		{Validator: NewMosaicSupplyChange(snapshot), Kinds: []txn.Kind{txn.KindMosaicSupplyChange}},
	}

	account := []Rule{
		{Validator: NewMultisigNonOperational(snapshot)},
		{Validator: NewMultisigSigner(snapshot), Kinds: []txn.Kind{txn.KindMultisig}},
		{Validator: NewMultisigCosignatures(fees), Kinds: []txn.Kind{txn.KindMultisig}},
		{Validator: NewMultisigQuorum(snapshot), Kinds: []txn.Kind{txn.KindMultisig}},
		{Validator: NewBalance(snapshot)},
		{Validator: NewMosaicBalance(snapshot)},
	}

	builder := aggregate.NewBuilder().
		Add(NewRegistry(entity...)).
		Add(aggregate.NewChildAware(NewRegistry(nested...))).
		Add(NewRegistry(account...))

	for _, batch := range batchRules(cfg, snapshot) {
		builder.AddBatch(batch)
	}

	v := builder.Build()

	o.logger.Debug().
		Str("network", cfg.Network).
		Int("validators", v.Len()).
		Bool("signatures", o.verifier != nil).
		Msg("transaction validator ready")

	return v
}

// NewBatchValidator returns a validator that only applies the batch rules.
func NewBatchValidator(cfg config.Config, snapshot state.Snapshot) aggregate.Validator {
	builder := aggregate.NewBuilder()

	for _, batch := range batchRules(cfg, snapshot) {
		builder.AddBatch(batch)
	}

	return builder.Build()
}

func batchRules(cfg config.Config, snapshot state.Snapshot) []validation.BatchValidator {
	return []validation.BatchValidator{
		NewBatchSize(cfg.Limits.MaxBatchTransactions),
		NewUniqueHashes(snapshot),
		NewConflictingMultisigModification(),
		NewConflictingMosaicCreation(),
		NewConflictingImportanceTransfer(),
		NewTransferToRemote(),
	}
}
