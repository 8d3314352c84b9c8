// Package validation defines the validators that decide whether transactions
// may be admitted to the ledger.
//
// A validator is a pure function of a transaction, or of a batch of
// transactions, and a context that carries the block height and the debit
// predicates of the caller-owned ledger. Every outcome is a Verdict value and
// expected rule violations are never reported as errors.
package validation

import (
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/txn"
)

// NativeDebitPredicate tells if an account can be debited of an amount of
// native currency.
type NativeDebitPredicate interface {
	CanDebit(addr model.Address, amount model.Amount) bool
}

// MosaicDebitPredicate tells if an account can be debited of a quantity of a
// mosaic.
type MosaicDebitPredicate interface {
	CanDebitMosaic(addr model.Address, id model.MosaicID, q model.Quantity) bool
}

// NativeDebitFunc is an adapter to use a function as a native debit
// predicate.
//
// - implements validation.NativeDebitPredicate
type NativeDebitFunc func(model.Address, model.Amount) bool

// CanDebit implements validation.NativeDebitPredicate.
func (fn NativeDebitFunc) CanDebit(addr model.Address, amount model.Amount) bool {
	return fn(addr, amount)
}

// MosaicDebitFunc is an adapter to use a function as a mosaic debit
// predicate.
//
// - implements validation.MosaicDebitPredicate
type MosaicDebitFunc func(model.Address, model.MosaicID, model.Quantity) bool

// CanDebitMosaic implements validation.MosaicDebitPredicate.
func (fn MosaicDebitFunc) CanDebitMosaic(addr model.Address, id model.MosaicID, q model.Quantity) bool {
	return fn(addr, id, q)
}

// Context is the environment of a validation.
type Context struct {
	height model.Height
	native NativeDebitPredicate
	mosaic MosaicDebitPredicate
}

// ContextOption is the type of the options to create a context.
type ContextOption func(*Context)

// WithHeight sets the height of the block that will include the
// transactions. Without it, the height is unbounded.
func WithHeight(h model.Height) ContextOption {
	return func(ctx *Context) {
		ctx.height = h
	}
}

// NewContext returns a new context. It panics if a predicate is missing as it
// is a misuse of the engine.
func NewContext(native NativeDebitPredicate, mosaic MosaicDebitPredicate,
	opts ...ContextOption) Context {

	if native == nil || mosaic == nil {
		panic("validation context requires both debit predicates")
	}

	ctx := Context{
		height: model.MaxHeight,
		native: native,
		mosaic: mosaic,
	}

	for _, opt := range opts {
		opt(&ctx)
	}

	return ctx
}

// Height returns the height of the block that will include the transactions.
func (ctx Context) Height() model.Height {
	return ctx.height
}

// Native returns the native debit predicate.
func (ctx Context) Native() NativeDebitPredicate {
	return ctx.native
}

// Mosaic returns the mosaic debit predicate.
func (ctx Context) Mosaic() MosaicDebitPredicate {
	return ctx.mosaic
}

// SingleValidator validates one transaction.
type SingleValidator interface {
	Validate(tx txn.Transaction, ctx Context) Verdict
}

// Group is a list of transactions sharing the same context.
type Group struct {
	Context      Context
	Transactions []txn.Transaction
}

// BatchValidator validates the transactions of a candidate block together.
type BatchValidator interface {
	ValidateBatch(groups []Group) Verdict
}

// SingleFunc is an adapter to use a function as a single validator.
//
// - implements validation.SingleValidator
type SingleFunc func(txn.Transaction, Context) Verdict

// Validate implements validation.SingleValidator.
func (fn SingleFunc) Validate(tx txn.Transaction, ctx Context) Verdict {
	return fn(tx, ctx)
}

// BatchFunc is an adapter to use a function as a batch validator.
//
// - implements validation.BatchValidator
type BatchFunc func([]Group) Verdict

// ValidateBatch implements validation.BatchValidator.
func (fn BatchFunc) ValidateBatch(groups []Group) Verdict {
	return fn(groups)
}

// AllTransactions returns the transactions of every group in order.
func AllTransactions(groups []Group) []txn.Transaction {
	var res []txn.Transaction

	for _, group := range groups {
		res = append(res, group.Transactions...)
	}

	return res
}
