package rules

import (
	"regexp"

	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/fee"
)

const (
	maxRootLength     = 16
	maxSublevelLength = 64
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

var reservedParts = map[string]struct{}{
	"nem": {}, "user": {}, "account": {}, "org": {}, "com": {}, "biz": {},
	"net": {}, "edu": {}, "mil": {}, "gov": {}, "info": {},
}

// ProvisionNamespace checks the provisioning and the renewal of namespaces.
//
// - implements validation.SingleValidator
type ProvisionNamespace struct {
	snapshot state.Snapshot
	cfg      config.Config
}

// NewProvisionNamespace returns a new namespace rule.
func NewProvisionNamespace(snapshot state.Snapshot, cfg config.Config) ProvisionNamespace {
	return ProvisionNamespace{
		snapshot: snapshot,
		cfg:      cfg,
	}
}

// Validate implements validation.SingleValidator.
func (v ProvisionNamespace) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	provision, ok := tx.(txn.ProvisionNamespace)
	if !ok {
		return validation.Success
	}

	h := ctx.Height()
	id := provision.ResultingNamespace()
	root := id.IsRoot()
	signer := provision.SignerAddress()

	if !isValidPart(provision.NewPart, root) {
		return validation.FailureNamespaceInvalidName
	}

	for _, part := range id.Parts() {
		_, reserved := reservedParts[part]
		if reserved {
			return validation.FailureNamespaceNotClaimable
		}
	}

	existing, found := v.snapshot.Namespace(id)
	if found {
		if !root {
			return validation.FailureNamespaceAlreadyExists
		}

		if !canRenew(existing, signer, h) {
			return validation.FailureNamespaceProvisionTooEarly
		}
	}

	if !root {
		parent, found, active := lookupNamespace(v.snapshot, provision.Parent, h)
		if !found {
			return validation.FailureNamespaceUnknown
		}

		if !active {
			return validation.FailureNamespaceExpired
		}

		if parent.Owner != signer {
			return validation.FailureNamespaceOwnerConflict
		}
	}

	if provision.RentalFeeSink != v.cfg.Accounts.NamespaceLessor {
		return validation.FailureNamespaceInvalidRentalFeeSink
	}

	if provision.RentalFee < fee.MinimumRentalFee(v.cfg.Forks, h, root) {
		return validation.FailureNamespaceInvalidRentalFee
	}

	return validation.Success
}

// canRenew returns true if the root namespace can be provisioned again. The
// owner can renew it during the last month before it expires or any time
// after. Another account must wait for a month after the expiration.
func canRenew(entry model.NamespaceEntry, signer model.Address, h model.Height) bool {
	if entry.Owner == signer {
		return entry.Expiry.Sub(h) <= model.BlocksPerMonth
	}

	return h >= entry.Expiry && h.Sub(entry.Expiry) >= model.BlocksPerMonth
}

func isValidPart(part string, root bool) bool {
	max := maxSublevelLength
	if root {
		max = maxRootLength
	}

	return len(part) <= max && namePattern.MatchString(part)
}
