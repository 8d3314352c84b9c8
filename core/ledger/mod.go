// Package ledger implements the running ledger of a batch validation.
//
// The ledger reads the balances of a snapshot and keeps the effects of the
// admitted transactions on top of it, so that a transaction sees the balances
// left by the previous ones of the same batch. The snapshot itself is never
// modified.
package ledger

import (
	"sort"

	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"golang.org/x/xerrors"
)

type mosaicKey struct {
	addr model.Address
	id   model.MosaicID
}

// Ledger is a set of balances over a snapshot. It is not safe for concurrent
// use.
//
// - implements validation.NativeDebitPredicate
// - implements validation.MosaicDebitPredicate
type Ledger struct {
	snapshot state.Snapshot
	native   map[model.Address]model.Amount
	mosaics  map[mosaicKey]model.Quantity
}

// New returns an empty ledger over the snapshot.
func New(snapshot state.Snapshot) *Ledger {
	return &Ledger{
		snapshot: snapshot,
		native:   make(map[model.Address]model.Amount),
		mosaics:  make(map[mosaicKey]model.Quantity),
	}
}

// Snapshot returns the snapshot under the ledger.
func (l *Ledger) Snapshot() state.Snapshot {
	return l.snapshot
}

// Balance returns the current native balance of the account.
func (l *Ledger) Balance(addr model.Address) model.Amount {
	amount, found := l.native[addr]
	if found {
		return amount
	}

	return l.snapshot.Balance(addr)
}

// MosaicBalance returns the current balance of the account for the mosaic.
// The native currency is reported in micro units.
func (l *Ledger) MosaicBalance(addr model.Address, id model.MosaicID) model.Quantity {
	if id.IsXem() {
		return model.Quantity(l.Balance(addr))
	}

	q, found := l.mosaics[mosaicKey{addr: addr, id: id}]
	if found {
		return q
	}

	return l.snapshot.MosaicBalance(addr, id)
}

// CanDebit implements validation.NativeDebitPredicate.
func (l *Ledger) CanDebit(addr model.Address, amount model.Amount) bool {
	return l.Balance(addr) >= amount
}

// CanDebitMosaic implements validation.MosaicDebitPredicate.
func (l *Ledger) CanDebitMosaic(addr model.Address, id model.MosaicID, q model.Quantity) bool {
	return l.MosaicBalance(addr, id) >= q
}

// Context returns a validation context backed by the ledger.
func (l *Ledger) Context(opts ...validation.ContextOption) validation.Context {
	return validation.NewContext(l, l, opts...)
}

// Commit applies the notifications in order. It returns an error and leaves
// the ledger untouched if a debit cannot be covered.
func (l *Ledger) Commit(notifications []txn.Notification) error {
	native := make(map[model.Address]model.Amount)
	mosaics := make(map[mosaicKey]model.Quantity)

	balance := func(addr model.Address) model.Amount {
		amount, found := native[addr]
		if !found {
			amount = l.Balance(addr)
		}

		return amount
	}

	mosaicBalance := func(key mosaicKey) model.Quantity {
		q, found := mosaics[key]
		if !found {
			q = l.MosaicBalance(key.addr, key.id)
		}

		return q
	}

	for i, n := range notifications {
		switch n.Kind {
		case txn.BalanceTransfer, txn.BalanceDebit:
			current := balance(n.Sender)
			if current < n.Amount {
				return xerrors.Errorf("notification %d: insufficient balance for %v: %d < %d",
					i, n.Sender, current, n.Amount)
			}

			native[n.Sender] = current - n.Amount

			if n.Kind == txn.BalanceTransfer {
				native[n.Recipient] = balance(n.Recipient) + n.Amount
			}
		case txn.BalanceCredit:
			native[n.Recipient] = balance(n.Recipient) + n.Amount
		case txn.MosaicTransfer:
			from := mosaicKey{addr: n.Sender, id: n.Mosaic}

			current := mosaicBalance(from)
			if current < n.Quantity {
				return xerrors.Errorf("notification %d: insufficient mosaic '%v' for %v: %d < %d",
					i, n.Mosaic, n.Sender, current, n.Quantity)
			}

			mosaics[from] = current - n.Quantity

			to := mosaicKey{addr: n.Recipient, id: n.Mosaic}
			mosaics[to] = mosaicBalance(to) + n.Quantity
		default:
			return xerrors.Errorf("notification %d: unknown kind %d", i, n.Kind)
		}
	}

	for addr, amount := range native {
		l.native[addr] = amount
	}

	for key, q := range mosaics {
		l.mosaics[key] = q
	}

	return nil
}

// Touched returns the accounts whose balances differ from the snapshot, in
// lexicographic order.
func (l *Ledger) Touched() []model.Address {
	seen := make(map[model.Address]struct{})

	for addr := range l.native {
		seen[addr] = struct{}{}
	}

	for key := range l.mosaics {
		seen[key.addr] = struct{}{}
	}

	res := make([]model.Address, 0, len(seen))
	for addr := range seen {
		res = append(res, addr)
	}

	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })

	return res
}
