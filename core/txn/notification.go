package txn

import (
	"go.dedis.ch/nemval/core/model"
)

// NotificationKind is the kind of effect described by a notification.
type NotificationKind uint8

const (
	// BalanceTransfer moves native currency from the sender to the recipient.
	BalanceTransfer NotificationKind = iota + 1
	// BalanceDebit removes native currency from the sender.
	BalanceDebit
	// BalanceCredit adds native currency to the recipient.
	BalanceCredit
	// MosaicTransfer moves a mosaic from the sender to the recipient.
	MosaicTransfer
)

// Notification is one effect of a transaction on the balances.
type Notification struct {
	Kind      NotificationKind
	Sender    model.Address
	Recipient model.Address
	Amount    model.Amount
	Mosaic    model.MosaicID
	Quantity  model.Quantity
}

// NewBalanceTransfer returns a transfer of native currency.
func NewBalanceTransfer(from, to model.Address, amount model.Amount) Notification {
	return Notification{
		Kind:      BalanceTransfer,
		Sender:    from,
		Recipient: to,
		Amount:    amount,
	}
}

// NewBalanceDebit returns a debit of native currency.
func NewBalanceDebit(from model.Address, amount model.Amount) Notification {
	return Notification{
		Kind:   BalanceDebit,
		Sender: from,
		Amount: amount,
	}
}

// NewBalanceCredit returns a credit of native currency.
func NewBalanceCredit(to model.Address, amount model.Amount) Notification {
	return Notification{
		Kind:      BalanceCredit,
		Recipient: to,
		Amount:    amount,
	}
}

// NewMosaicTransfer returns a transfer of a quantity of a mosaic.
func NewMosaicTransfer(from, to model.Address, id model.MosaicID, q model.Quantity) Notification {
	return Notification{
		Kind:      MosaicTransfer,
		Sender:    from,
		Recipient: to,
		Mosaic:    id,
		Quantity:  q,
	}
}
