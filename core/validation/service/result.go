// This file contains the implementation of the result returned by the service.

package service

import (
	"encoding/binary"
	"io"

	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"golang.org/x/xerrors"
)

// TransactionResult is the result of a transaction processing. It contains the
// transaction and the verdict of the validation.
type TransactionResult struct {
	tx      txn.Transaction
	hash    model.Hash
	verdict validation.Verdict
}

// NewTransactionResult creates a new transaction result for the provided
// transaction.
func NewTransactionResult(tx txn.Transaction, hash model.Hash, verdict validation.Verdict) TransactionResult {
	return TransactionResult{
		tx:      tx,
		hash:    hash,
		verdict: verdict,
	}
}

// GetTransaction returns the transaction associated to the result.
func (res TransactionResult) GetTransaction() txn.Transaction {
	return res.tx
}

// GetHash returns the hash of the transaction.
func (res TransactionResult) GetHash() model.Hash {
	return res.hash
}

// GetVerdict returns the verdict of the validation.
func (res TransactionResult) GetVerdict() validation.Verdict {
	return res.verdict
}

// GetStatus returns true if the transaction has been accepted, otherwise false
// with the reason.
func (res TransactionResult) GetStatus() (bool, string) {
	if res.verdict.IsSuccess() {
		return true, ""
	}

	return false, res.verdict.String()
}

// Result is the result of the validation of a list of transactions.
type Result struct {
	txs []TransactionResult
}

// NewResult creates a new result from a list of transaction results.
func NewResult(results []TransactionResult) Result {
	return Result{
		txs: results,
	}
}

// GetTransactionResults returns the transaction results in the order of the
// submission.
func (r Result) GetTransactionResults() []TransactionResult {
	return append([]TransactionResult{}, r.txs...)
}

// Accepted returns the accepted transactions in order.
func (r Result) Accepted() []txn.Transaction {
	var res []txn.Transaction

	for _, tx := range r.txs {
		if tx.verdict.IsSuccess() {
			res = append(res, tx.tx)
		}
	}

	return res
}

// AllAccepted returns true when every transaction has been accepted.
func (r Result) AllAccepted() bool {
	for _, tx := range r.txs {
		if !tx.verdict.IsSuccess() {
			return false
		}
	}

	return true
}

// Fingerprint writes a deterministic binary representation of the result:
// the fingerprint of each transaction followed by its verdict.
func (r Result) Fingerprint(w io.Writer) error {
	for _, res := range r.txs {
		err := res.tx.Fingerprint(w)
		if err != nil {
			return xerrors.Errorf("couldn't fingerprint tx: %v", err)
		}

		buffer := make([]byte, 4)
		binary.BigEndian.PutUint32(buffer, uint32(res.verdict))

		_, err = w.Write(buffer)
		if err != nil {
			return xerrors.Errorf("couldn't write verdict: %v", err)
		}
	}

	return nil
}
