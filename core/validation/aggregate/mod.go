// Package aggregate composes validators.
//
// The aggregate runs its validators in registration order and combines the
// verdicts with the precedence failure, neutral and success. It returns on
// the first failure, but a neutral verdict does not stop the evaluation: a
// later failure still overrides it.
package aggregate

import (
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
)

// Validator is an ordered composition of single and batch validators.
//
// - implements validation.SingleValidator
// - implements validation.BatchValidator
type Validator struct {
	singles []validation.SingleValidator
	batches []validation.BatchValidator
}

// Builder collects the validators of an aggregate.
type Builder struct {
	singles []validation.SingleValidator
	batches []validation.BatchValidator
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a single transaction validator.
func (b *Builder) Add(v validation.SingleValidator) *Builder {
	b.singles = append(b.singles, v)
	return b
}

// AddBatch appends a batch validator.
func (b *Builder) AddBatch(v validation.BatchValidator) *Builder {
	b.batches = append(b.batches, v)
	return b
}

// Build returns the aggregate of the validators added so far.
func (b *Builder) Build() Validator {
	return Validator{
		singles: append([]validation.SingleValidator{}, b.singles...),
		batches: append([]validation.BatchValidator{}, b.batches...),
	}
}

// Len returns the number of single and batch validators.
func (v Validator) Len() int {
	return len(v.singles) + len(v.batches)
}

// Validate implements validation.SingleValidator. The batch validators see the
// transaction as a batch of one.
func (v Validator) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	res := validation.Success

	for _, single := range v.singles {
		res = res.Merge(single.Validate(tx, ctx))
		if res.IsFailure() {
			return res
		}
	}

	groups := []validation.Group{{Context: ctx, Transactions: []txn.Transaction{tx}}}

	return v.validateBatches(res, groups)
}

// ValidateBatch implements validation.BatchValidator. Every transaction goes
// through the single validators with the context of its group, then the batch
// validators see the whole list.
func (v Validator) ValidateBatch(groups []validation.Group) validation.Verdict {
	res := validation.Success

	for _, group := range groups {
		for _, tx := range group.Transactions {
			for _, single := range v.singles {
				res = res.Merge(single.Validate(tx, group.Context))
				if res.IsFailure() {
					return res
				}
			}
		}
	}

	return v.validateBatches(res, groups)
}

func (v Validator) validateBatches(res validation.Verdict, groups []validation.Group) validation.Verdict {
	for _, batch := range v.batches {
		res = res.Merge(batch.ValidateBatch(groups))
		if res.IsFailure() {
			return res
		}
	}

	return res
}

// ChildAware validates a transaction and then each of its children with the
// same validator and context.
//
// - implements validation.SingleValidator
type ChildAware struct {
	validator validation.SingleValidator
}

// NewChildAware returns a validator that also validates the children.
func NewChildAware(v validation.SingleValidator) ChildAware {
	return ChildAware{validator: v}
}

// Validate implements validation.SingleValidator. It stops at the first
// verdict that is not a success.
func (v ChildAware) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	res := v.validator.Validate(tx, ctx)
	if !res.IsSuccess() {
		return res
	}

	for _, child := range tx.GetChildren() {
		res = v.validator.Validate(child, ctx)
		if !res.IsSuccess() {
			return res
		}
	}

	return res
}

// HeightGated bypasses a validator below the height at which its rule takes
// effect.
//
// - implements validation.SingleValidator
type HeightGated struct {
	height    model.Height
	validator validation.SingleValidator
}

// NewHeightGated returns a validator that succeeds while the context height
// is strictly below the effective height and delegates afterwards.
func NewHeightGated(height model.Height, v validation.SingleValidator) HeightGated {
	return HeightGated{
		height:    height,
		validator: v,
	}
}

// Validate implements validation.SingleValidator.
func (v HeightGated) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	if ctx.Height() < v.height {
		return validation.Success
	}

	return v.validator.Validate(tx, ctx)
}
