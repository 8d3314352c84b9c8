// Package service implements the validation service that processes a list of
// candidate transactions against a running ledger.
//
// Each transaction is validated alone, then together with the transactions
// already accepted in the same run so that the batch rules see the whole list.
// An accepted transaction is committed to the ledger before the next one is
// validated, which means a transaction sees the balances left by the previous
// ones.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.dedis.ch/nemval"
	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/ledger"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/rules"
	"golang.org/x/xerrors"
)

var (
	promVerdicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nemval_validation_verdicts",
		Help: "number of verdicts returned by the validation service",
	}, []string{"verdict"})

	promBatch = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nemval_validation_batch_size",
		Help:    "number of transactions submitted to the validation service",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 120, 250, 500},
	})
)

func init() {
	nemval.PromCollectors = append(nemval.PromCollectors, promVerdicts, promBatch)
}

type template struct {
	logger    zerolog.Logger
	ruleOpts  []rules.Option
	validator validation.SingleValidator
	batch     validation.BatchValidator
}

// Option is the type of the options to create a service.
type Option func(*template)

// WithLogger sets the logger of the service.
func WithLogger(logger zerolog.Logger) Option {
	return func(tmpl *template) {
		tmpl.logger = logger
	}
}

// WithRuleOptions forwards the options to the factory of the transaction
// validator.
func WithRuleOptions(opts ...rules.Option) Option {
	return func(tmpl *template) {
		tmpl.ruleOpts = append(tmpl.ruleOpts, opts...)
	}
}

// WithValidators replaces the validators built from the configuration.
func WithValidators(single validation.SingleValidator, batch validation.BatchValidator) Option {
	return func(tmpl *template) {
		tmpl.validator = single
		tmpl.batch = batch
	}
}

// Service is the validation service of a list of transactions.
type Service struct {
	validator validation.SingleValidator
	batch     validation.BatchValidator
	logger    zerolog.Logger
}

// NewService creates a validation service for the network of the
// configuration. The validators read the given snapshot, which must be the
// snapshot of the ledgers passed to Validate.
func NewService(cfg config.Config, snapshot state.Snapshot, opts ...Option) Service {
	tmpl := template{
		logger: nemval.Logger,
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	if tmpl.validator == nil {
		ruleOpts := append([]rules.Option{rules.WithLogger(tmpl.logger)}, tmpl.ruleOpts...)
		tmpl.validator = rules.NewTransactionValidator(cfg, snapshot, ruleOpts...)
	}

	if tmpl.batch == nil {
		tmpl.batch = rules.NewBatchValidator(cfg, snapshot)
	}

	return Service{
		validator: tmpl.validator,
		batch:     tmpl.batch,
		logger:    tmpl.logger,
	}
}

// Validate processes the list of transactions in order and commits the
// accepted ones to the ledger. It returns the verdict of each transaction. An
// error is returned only when the ledger cannot apply the effects of an
// accepted transaction, in which case the ledger keeps the effects of the
// transactions before it.
func (s Service) Validate(l *ledger.Ledger, txs []txn.Transaction,
	opts ...validation.ContextOption) (Result, error) {

	logger := s.logger.With().Str("run", xid.New().String()).Logger()

	promBatch.Observe(float64(len(txs)))

	ctx := l.Context(opts...)
	levies := rules.Levies(l.Snapshot())

	results := make([]TransactionResult, len(txs))
	accepted := make([]txn.Transaction, 0, len(txs))

	for i, tx := range txs {
		hash, err := txn.Hash(tx)
		if err != nil {
			return Result{}, xerrors.Errorf("failed to hash tx #%d: %v", i, err)
		}

		verdict := s.validator.Validate(tx, ctx)

		if verdict.IsSuccess() {
			candidate := append(accepted[:len(accepted):len(accepted)], tx)

			verdict = s.batch.ValidateBatch([]validation.Group{{
				Context:      ctx,
				Transactions: candidate,
			}})
		}

		promVerdicts.WithLabelValues(verdict.String()).Inc()

		results[i] = NewTransactionResult(tx, hash, verdict)

		if !verdict.IsSuccess() {
			logger.Warn().
				Int("index", i).
				Str("hash", hash.Short()).
				Stringer("kind", tx.GetKind()).
				Stringer("verdict", verdict).
				Msg("transaction rejected")

			continue
		}

		err = l.Commit(tx.GetNotifications(levies))
		if err != nil {
			return Result{}, xerrors.Errorf("failed to commit tx %v: %v", hash.Short(), err)
		}

		accepted = append(accepted, tx)

		logger.Debug().
			Int("index", i).
			Str("hash", hash.Short()).
			Stringer("kind", tx.GetKind()).
			Msg("transaction accepted")
	}

	logger.Info().
		Int("total", len(txs)).
		Int("accepted", len(accepted)).
		Msg("batch validated")

	return NewResult(results), nil
}
