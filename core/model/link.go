package model

// LinkMode is the action of an importance transfer.
type LinkMode uint8

const (
	// LinkActivate delegates the harvesting to the remote account.
	LinkActivate LinkMode = 1
	// LinkDeactivate stops the delegation.
	LinkDeactivate LinkMode = 2
)

// String implements fmt.Stringer.
func (m LinkMode) String() string {
	switch m {
	case LinkActivate:
		return "activate"
	case LinkDeactivate:
		return "deactivate"
	default:
		return "unknown"
	}
}

// LinkRole tells which side of the delegation an account is on.
type LinkRole uint8

const (
	// HarvestingRemotely is the role of the owner that delegates.
	HarvestingRemotely LinkRole = 1
	// RemoteHarvester is the role of the remote account.
	RemoteHarvester LinkRole = 2
)

// RemoteLink is one event of the remote harvesting history of an account.
type RemoteLink struct {
	Linked Address  `json:"linked"`
	Height Height   `json:"height"`
	Mode   LinkMode `json:"mode"`
	Role   LinkRole `json:"role"`
}

// RemoteLinks is the ordered history of links of an account, the latest last.
type RemoteLinks []RemoteLink

// Current returns the latest link if any.
func (l RemoteLinks) Current() (RemoteLink, bool) {
	if len(l) == 0 {
		return RemoteLink{}, false
	}

	return l[len(l)-1], true
}

// IsRemote returns true when the account acts as a remote harvester at the
// height. A deactivated remote stays a remote until the delay expires. When
// strict is true, any remote link makes the account a remote whatever its
// mode.
func (l RemoteLinks) IsRemote(h Height, delay uint64, strict bool) bool {
	link, ok := l.Current()
	if !ok || link.Role != RemoteHarvester {
		return false
	}

	return link.Mode == LinkActivate || strict || h.Sub(link.Height) < delay
}
