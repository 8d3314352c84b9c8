package rules

import (
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
)

// Balance replays the native currency effects of the transaction in order and
// asks the predicate of the context before each debit.
//
// - implements validation.SingleValidator
type Balance struct {
	levies txn.LevyLookup
}

// NewBalance returns a new native balance rule.
func NewBalance(snapshot state.Snapshot) Balance {
	return Balance{levies: Levies(snapshot)}
}

// Validate implements validation.SingleValidator.
func (v Balance) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	if !replayNative(tx.GetNotifications(v.levies), ctx.Native()) {
		return validation.FailureInsufficientBalance
	}

	return validation.Success
}

// replayNative applies the notifications to a running delta per account. A
// debit that leaves the delta of the account negative must be covered by the
// predicate.
func replayNative(notifications []txn.Notification, pred validation.NativeDebitPredicate) bool {
	debits := make(map[model.Address]model.Amount)
	credits := make(map[model.Address]model.Amount)

	debit := func(addr model.Address, amount model.Amount) bool {
		if credits[addr] >= amount {
			credits[addr] -= amount
			return true
		}

		debits[addr] += amount - credits[addr]
		credits[addr] = 0

		return pred.CanDebit(addr, debits[addr])
	}

	for _, n := range notifications {
		switch n.Kind {
		case txn.BalanceTransfer:
			if !debit(n.Sender, n.Amount) {
				return false
			}

			credits[n.Recipient] += n.Amount
		case txn.BalanceDebit:
			if !debit(n.Sender, n.Amount) {
				return false
			}
		case txn.BalanceCredit:
			credits[n.Recipient] += n.Amount
		}
	}

	return true
}

// MosaicBalance replays the mosaic transfers of the transaction in order and
// asks the predicate of the context before each debit.
//
// - implements validation.SingleValidator
type MosaicBalance struct {
	levies txn.LevyLookup
}

// NewMosaicBalance returns a new mosaic balance rule.
func NewMosaicBalance(snapshot state.Snapshot) MosaicBalance {
	return MosaicBalance{levies: Levies(snapshot)}
}

// Validate implements validation.SingleValidator.
func (v MosaicBalance) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	for _, t := range append([]txn.Transaction{tx}, tx.GetChildren()...) {
		transfer, ok := t.(txn.Transfer)
		if ok && !transfer.QuantitiesInRange(v.levies) {
			return validation.FailureInsufficientBalance
		}
	}

	if !replayMosaics(tx.GetNotifications(v.levies), ctx.Mosaic()) {
		return validation.FailureInsufficientBalance
	}

	return validation.Success
}

type mosaicAccount struct {
	addr model.Address
	id   model.MosaicID
}

func replayMosaics(notifications []txn.Notification, pred validation.MosaicDebitPredicate) bool {
	debits := make(map[mosaicAccount]model.Quantity)
	credits := make(map[mosaicAccount]model.Quantity)

	for _, n := range notifications {
		if n.Kind != txn.MosaicTransfer {
			continue
		}

		from := mosaicAccount{addr: n.Sender, id: n.Mosaic}

		if credits[from] >= n.Quantity {
			credits[from] -= n.Quantity
		} else {
			debits[from] += n.Quantity - credits[from]
			credits[from] = 0

			if !pred.CanDebitMosaic(n.Sender, n.Mosaic, debits[from]) {
				return false
			}
		}

		credits[mosaicAccount{addr: n.Recipient, id: n.Mosaic}] += n.Quantity
	}

	return true
}
