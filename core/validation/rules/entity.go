package rules

import (
	"time"

	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/fee"
)

// Deadline checks that the deadline is after the timestamp and at most one
// day later.
//
// - implements validation.SingleValidator
type Deadline struct{}

// NewDeadline returns a new deadline rule.
func NewDeadline() Deadline {
	return Deadline{}
}

// Validate implements validation.SingleValidator.
func (Deadline) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	h := tx.GetHeader()

	if h.Deadline <= h.Timestamp {
		return validation.FailurePastDeadline
	}

	if uint64(h.Deadline) > uint64(h.Timestamp)+model.SecondsPerDay {
		return validation.FailureFutureDeadline
	}

	return validation.Success
}

// NonFutureEntity rejects the transactions with a timestamp too far in the
// future of the local clock.
//
// - implements validation.SingleValidator
type NonFutureEntity struct {
	clock     Clock
	tolerance time.Duration
}

// NewNonFutureEntity returns a new rule using the clock.
func NewNonFutureEntity(clock Clock, tolerance time.Duration) NonFutureEntity {
	return NonFutureEntity{
		clock:     clock,
		tolerance: tolerance,
	}
}

// Validate implements validation.SingleValidator.
func (v NonFutureEntity) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	limit := model.TimeInstantOf(v.clock().Add(v.tolerance))

	if tx.GetHeader().Timestamp > limit {
		return validation.FailureTimestampTooFarInFuture
	}

	return validation.Success
}

// Signature verifies the signature of the transaction and of the
// cosignatures of a multisig transaction.
//
// - implements validation.SingleValidator
type Signature struct {
	verifier Verifier
}

// NewSignature returns a new signature rule.
func NewSignature(v Verifier) Signature {
	return Signature{verifier: v}
}

// Validate implements validation.SingleValidator.
func (v Signature) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	data, err := txn.SigningBytes(tx)
	if err != nil {
		return validation.FailureSignatureNotVerifiable
	}

	h := tx.GetHeader()

	err = v.verifier.Verify(h.Signer, data, h.Signature)
	if err != nil {
		return validation.FailureSignatureNotVerifiable
	}

	multisig, ok := tx.(txn.Multisig)
	if !ok {
		return validation.Success
	}

	for _, cosig := range multisig.Cosignatures {
		data, err := cosigningBytes(cosig)
		if err != nil {
			return validation.FailureSignatureNotVerifiable
		}

		err = v.verifier.Verify(cosig.Signer, data, cosig.Signature)
		if err != nil {
			return validation.FailureSignatureNotVerifiable
		}
	}

	return validation.Success
}

// Version checks the version of the transactions against the forks that
// introduced them.
//
// - implements validation.SingleValidator
type Version struct {
	forks config.Forks
}

// NewVersion returns a new version rule.
func NewVersion(forks config.Forks) Version {
	return Version{forks: forks}
}

// Validate implements validation.SingleValidator.
func (v Version) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	version := tx.GetHeader().Version
	h := ctx.Height()

	switch tx.GetKind() {
	case txn.KindMultisigAggregateModification:
		return v.check(version, 2, h, v.forks.MultisigMOfN, 2,
			validation.FailureMultisigV2AggregateModificationBeforeFork)
	case txn.KindTransfer:
		return v.check(version, 2, h, v.forks.Mosaics, 2, validation.FailureTransactionBeforeSecondFork)
	case txn.KindProvisionNamespace, txn.KindMosaicDefinitionCreation, txn.KindMosaicSupplyChange:
		return v.check(version, 1, h, v.forks.Mosaics, 1, validation.FailureTransactionBeforeSecondFork)
	default:
		return v.check(version, 1, 0, 0, 0, validation.Success)
	}
}

// check accepts the versions up to max, with the versions from gated onward
// only accepted from the fork.
func (Version) check(version, max uint8, h, fork model.Height, gated uint8,
	early validation.Verdict) validation.Verdict {

	if version == 0 || version > max {
		return validation.FailureEntityInvalidVersion
	}

	if gated > 0 && version >= gated && h < fork {
		return early
	}

	return validation.Success
}

// Network checks that the transaction and the accounts it touches belong to
// the network.
//
// - implements validation.SingleValidator
type Network struct {
	network model.NetworkID
}

// NewNetwork returns a new network rule.
func NewNetwork(network model.NetworkID) Network {
	return Network{network: network}
}

// Validate implements validation.SingleValidator.
func (v Network) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	if tx.GetHeader().Network != v.network {
		return validation.FailureWrongNetwork
	}

	for _, addr := range tx.GetOtherAccounts() {
		network, ok := addr.Network()
		if !ok || network != v.network {
			return validation.FailureWrongNetwork
		}
	}

	return validation.Success
}

// NemesisSink rejects the transactions of the nemesis account after the
// nemesis block.
//
// - implements validation.SingleValidator
type NemesisSink struct {
	nemesis model.Address
}

// NewNemesisSink returns a new rule for the nemesis account.
func NewNemesisSink(nemesis model.Address) NemesisSink {
	return NemesisSink{nemesis: nemesis}
}

// Validate implements validation.SingleValidator.
func (v NemesisSink) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	if ctx.Height() > 1 && tx.GetHeader().SignerAddress() == v.nemesis {
		return validation.FailureNemesisAfterNemesisBlock
	}

	return validation.Success
}

// FeeSinkSigner rejects the transactions signed by the accounts collecting
// the rental and creation fees.
//
// - implements validation.SingleValidator
type FeeSinkSigner struct {
	cfg config.Config
}

// NewFeeSinkSigner returns a new rule for the fee sinks.
func NewFeeSinkSigner(cfg config.Config) FeeSinkSigner {
	return FeeSinkSigner{cfg: cfg}
}

// Validate implements validation.SingleValidator.
func (v FeeSinkSigner) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	if v.cfg.IsSink(tx.GetHeader().SignerAddress()) {
		return validation.FailureTransactionNotAllowedForMultisig
	}

	return validation.Success
}

// MinimumFee checks the fee of the transaction against the fee schedule.
//
// - implements validation.SingleValidator
type MinimumFee struct {
	fees fee.Calculator
}

// NewMinimumFee returns a new fee rule.
func NewMinimumFee(fees fee.Calculator) MinimumFee {
	return MinimumFee{fees: fees}
}

// Validate implements validation.SingleValidator. The fee of a transfer of an
// unknown mosaic cannot be computed and the mosaic is reported unknown.
func (v MinimumFee) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	valid, err := v.fees.IsValid(tx, ctx.Height())
	if err != nil {
		return validation.FailureMosaicUnknown
	}

	if !valid {
		return validation.FailureInsufficientFee
	}

	return validation.Success
}
