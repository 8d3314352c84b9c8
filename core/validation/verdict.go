package validation

import (
	"fmt"
)

// Verdict is the outcome of a validation.
type Verdict int

// The numbering is part of the interface with the block-building layer and
// must not change.
const (
	Neutral Verdict = 0
	Success Verdict = 1

	FailureUnknown                  Verdict = 2
	FailurePastDeadline             Verdict = 3
	FailureFutureDeadline           Verdict = 4
	FailureInsufficientBalance      Verdict = 5
	FailureMessageTooLarge          Verdict = 6
	FailureHashExists               Verdict = 7
	FailureSignatureNotVerifiable   Verdict = 8
	FailureTimestampTooFarInPast    Verdict = 9
	FailureTimestampTooFarInFuture  Verdict = 10
	FailureTooManyTransactions      Verdict = 15
	FailureSelfSignedTransaction    Verdict = 16
	FailureInsufficientFee          Verdict = 17
	FailureNemesisAfterNemesisBlock Verdict = 18
	FailureWrongNetwork             Verdict = 20
	FailureEntityInvalidVersion     Verdict = 22

	FailureMultisigV2AggregateModificationBeforeFork Verdict = 41
	FailureTransactionBeforeSecondFork               Verdict = 42

	FailureDestinationAccountHasPreexistingBalance Verdict = 62
	FailureImportanceTransferInProgress            Verdict = 63
	FailureImportanceTransferNeedsToBeDeactivated  Verdict = 64
	FailureImportanceTransferIsNotActive           Verdict = 65
	FailureTransactionNotAllowedForRemote          Verdict = 66
	FailureDestinationAccountInUse                 Verdict = 67

	FailureMultisigNotACosigner                Verdict = 71
	FailureMultisigInvalidCosigners            Verdict = 72
	FailureMultisigNoMatchingMultisig          Verdict = 73
	FailureTransactionNotAllowedForMultisig    Verdict = 74
	FailureMultisigAlreadyACosigner            Verdict = 75
	FailureMultisigMismatchedSignature         Verdict = 76
	FailureMultisigModificationMultipleDeletes Verdict = 77
	FailureMultisigModificationRedundant       Verdict = 78
	FailureConflictingMultisigModification     Verdict = 79
	FailureTooManyMultisigCosigners            Verdict = 80
	FailureMultisigAccountCannotBeCosigner     Verdict = 81
	FailureMultisigMinCosignatoriesOutOfRange  Verdict = 82

	FailureNamespaceUnknown              Verdict = 121
	FailureNamespaceAlreadyExists        Verdict = 122
	FailureNamespaceExpired              Verdict = 123
	FailureNamespaceOwnerConflict        Verdict = 124
	FailureNamespaceInvalidName          Verdict = 125
	FailureNamespaceInvalidRentalFeeSink Verdict = 126
	FailureNamespaceInvalidRentalFee     Verdict = 127
	FailureNamespaceProvisionTooEarly    Verdict = 128
	FailureNamespaceNotClaimable         Verdict = 129

	FailureMosaicUnknown                Verdict = 141
	FailureMosaicModificationNotAllowed Verdict = 142
	FailureMosaicCreatorConflict        Verdict = 143
	FailureMosaicSupplyImmutable        Verdict = 144
	FailureMosaicMaxSupplyExceeded      Verdict = 145
	FailureMosaicSupplyNegative         Verdict = 146
	FailureMosaicNotTransferable        Verdict = 147
	FailureMosaicDivisibilityViolated   Verdict = 148
	FailureConflictingMosaicCreation    Verdict = 149
	FailureMosaicInvalidCreationFeeSink Verdict = 150
	FailureMosaicInvalidCreationFee     Verdict = 151
	FailureTooManyMosaicTransfers       Verdict = 152
	FailureMosaicLevyUnknown            Verdict = 153
	FailureMosaicLevyNotTransferable    Verdict = 154
	FailureMosaicAlreadyExists          Verdict = 155
)

var verdictNames = map[Verdict]string{
	Neutral: "NEUTRAL",
	Success: "SUCCESS",

	FailureUnknown:                  "FAILURE_UNKNOWN",
	FailurePastDeadline:             "FAILURE_PAST_DEADLINE",
	FailureFutureDeadline:           "FAILURE_FUTURE_DEADLINE",
	FailureInsufficientBalance:      "FAILURE_INSUFFICIENT_BALANCE",
	FailureMessageTooLarge:          "FAILURE_MESSAGE_TOO_LARGE",
	FailureHashExists:               "FAILURE_HASH_EXISTS",
	FailureSignatureNotVerifiable:   "FAILURE_SIGNATURE_NOT_VERIFIABLE",
	FailureTimestampTooFarInPast:    "FAILURE_TIMESTAMP_TOO_FAR_IN_PAST",
	FailureTimestampTooFarInFuture:  "FAILURE_TIMESTAMP_TOO_FAR_IN_FUTURE",
	FailureTooManyTransactions:      "FAILURE_TOO_MANY_TRANSACTIONS",
	FailureSelfSignedTransaction:    "FAILURE_SELF_SIGNED_TRANSACTION",
	FailureInsufficientFee:          "FAILURE_INSUFFICIENT_FEE",
	FailureNemesisAfterNemesisBlock: "FAILURE_NEMESIS_ACCOUNT_TRANSACTION_AFTER_NEMESIS_BLOCK",
	FailureWrongNetwork:             "FAILURE_WRONG_NETWORK",
	FailureEntityInvalidVersion:     "FAILURE_ENTITY_INVALID_VERSION",

	FailureMultisigV2AggregateModificationBeforeFork: "FAILURE_MULTISIG_V2_AGGREGATE_MODIFICATION_BEFORE_FORK",
	FailureTransactionBeforeSecondFork:               "FAILURE_TRANSACTION_BEFORE_SECOND_FORK",

	FailureDestinationAccountHasPreexistingBalance: "FAILURE_DESTINATION_ACCOUNT_HAS_PREEXISTING_BALANCE_TRANSFER",
	FailureImportanceTransferInProgress:            "FAILURE_IMPORTANCE_TRANSFER_IN_PROGRESS",
	FailureImportanceTransferNeedsToBeDeactivated:  "FAILURE_IMPORTANCE_TRANSFER_NEEDS_TO_BE_DEACTIVATED",
	FailureImportanceTransferIsNotActive:           "FAILURE_IMPORTANCE_TRANSFER_IS_NOT_ACTIVE",
	FailureTransactionNotAllowedForRemote:          "FAILURE_TRANSACTION_NOT_ALLOWED_FOR_REMOTE",
	FailureDestinationAccountInUse:                 "FAILURE_DESTINATION_ACCOUNT_IN_USE",

	FailureMultisigNotACosigner:                "FAILURE_MULTISIG_NOT_A_COSIGNER",
	FailureMultisigInvalidCosigners:            "FAILURE_MULTISIG_INVALID_COSIGNERS",
	FailureMultisigNoMatchingMultisig:          "FAILURE_MULTISIG_NO_MATCHING_MULTISIG",
	FailureTransactionNotAllowedForMultisig:    "FAILURE_TRANSACTION_NOT_ALLOWED_FOR_MULTISIG",
	FailureMultisigAlreadyACosigner:            "FAILURE_MULTISIG_ALREADY_A_COSIGNER",
	FailureMultisigMismatchedSignature:         "FAILURE_MULTISIG_MISMATCHED_SIGNATURE",
	FailureMultisigModificationMultipleDeletes: "FAILURE_MULTISIG_MODIFICATION_MULTIPLE_DELETES",
	FailureMultisigModificationRedundant:       "FAILURE_MULTISIG_MODIFICATION_REDUNDANT_MODIFICATIONS",
	FailureMultisigAccountCannotBeCosigner:     "FAILURE_MULTISIG_ACCOUNT_CANNOT_BE_COSIGNER",
	FailureConflictingMultisigModification:     "FAILURE_CONFLICTING_MULTISIG_MODIFICATION",
	FailureTooManyMultisigCosigners:            "FAILURE_TOO_MANY_MULTISIG_COSIGNERS",
	FailureMultisigMinCosignatoriesOutOfRange:  "FAILURE_MULTISIG_MIN_COSIGNATORIES_OUT_OF_RANGE",

	FailureNamespaceUnknown:              "FAILURE_NAMESPACE_UNKNOWN",
	FailureNamespaceAlreadyExists:        "FAILURE_NAMESPACE_ALREADY_EXISTS",
	FailureNamespaceExpired:              "FAILURE_NAMESPACE_EXPIRED",
	FailureNamespaceOwnerConflict:        "FAILURE_NAMESPACE_OWNER_CONFLICT",
	FailureNamespaceInvalidName:          "FAILURE_NAMESPACE_INVALID_NAME",
	FailureNamespaceInvalidRentalFeeSink: "FAILURE_NAMESPACE_INVALID_RENTAL_FEE_SINK",
	FailureNamespaceInvalidRentalFee:     "FAILURE_NAMESPACE_INVALID_RENTAL_FEE",
	FailureNamespaceProvisionTooEarly:    "FAILURE_NAMESPACE_PROVISION_TOO_EARLY",
	FailureNamespaceNotClaimable:         "FAILURE_NAMESPACE_NOT_CLAIMABLE",

	FailureMosaicUnknown:                "FAILURE_MOSAIC_UNKNOWN",
	FailureMosaicModificationNotAllowed: "FAILURE_MOSAIC_MODIFICATION_NOT_ALLOWED",
	FailureMosaicCreatorConflict:        "FAILURE_MOSAIC_CREATOR_CONFLICT",
	FailureMosaicSupplyImmutable:        "FAILURE_MOSAIC_SUPPLY_IMMUTABLE",
	FailureMosaicMaxSupplyExceeded:      "FAILURE_MOSAIC_MAX_SUPPLY_EXCEEDED",
	FailureMosaicSupplyNegative:         "FAILURE_MOSAIC_SUPPLY_NEGATIVE",
	FailureMosaicNotTransferable:        "FAILURE_MOSAIC_NOT_TRANSFERABLE",
	FailureMosaicDivisibilityViolated:   "FAILURE_MOSAIC_DIVISIBILITY_VIOLATED",
	FailureConflictingMosaicCreation:    "FAILURE_CONFLICTING_MOSAIC_CREATION",
	FailureMosaicInvalidCreationFeeSink: "FAILURE_MOSAIC_INVALID_CREATION_FEE_SINK",
	FailureMosaicInvalidCreationFee:     "FAILURE_MOSAIC_INVALID_CREATION_FEE",
	FailureTooManyMosaicTransfers:       "FAILURE_TOO_MANY_MOSAIC_TRANSFERS",
	FailureMosaicLevyUnknown:            "FAILURE_MOSAIC_LEVY_UNKNOWN",
	FailureMosaicLevyNotTransferable:    "FAILURE_MOSAIC_LEVY_NOT_TRANSFERABLE",
	FailureMosaicAlreadyExists:          "FAILURE_MOSAIC_ALREADY_EXISTS",
}

// String implements fmt.Stringer.
func (v Verdict) String() string {
	name, found := verdictNames[v]
	if !found {
		return fmt.Sprintf("VERDICT_%d", int(v))
	}

	return name
}

// IsSuccess returns true for the success verdict only.
func (v Verdict) IsSuccess() bool {
	return v == Success
}

// IsFailure returns true for any failure.
func (v Verdict) IsFailure() bool {
	return v != Success && v != Neutral
}

// Merge combines the verdict with the next one with the precedence failure,
// neutral and then success. The first failure wins.
func (v Verdict) Merge(next Verdict) Verdict {
	switch {
	case v.IsFailure():
		return v
	case next.IsFailure():
		return next
	case v == Neutral || next == Neutral:
		return Neutral
	default:
		return Success
	}
}

// ParseVerdict returns the verdict of the given name.
func ParseVerdict(name string) (Verdict, bool) {
	for v, n := range verdictNames {
		if n == name {
			return v, true
		}
	}

	return 0, false
}
