package model

import (
	"strings"
)

// NamespaceID is the dot-separated fully qualified name of a namespace, for
// instance "alice.vouchers".
type NamespaceID string

// Parts returns the levels of the namespace.
func (id NamespaceID) Parts() []string {
	if id == "" {
		return nil
	}

	return strings.Split(string(id), ".")
}

// Level returns the depth of the namespace, zero being a root.
func (id NamespaceID) Level() int {
	return strings.Count(string(id), ".")
}

// IsRoot returns true when the namespace has no parent.
func (id NamespaceID) IsRoot() bool {
	return !strings.Contains(string(id), ".")
}

// Root returns the root namespace.
func (id NamespaceID) Root() NamespaceID {
	return NamespaceID(id.Parts()[0])
}

// Parent returns the parent namespace, or false when the namespace is a root.
func (id NamespaceID) Parent() (NamespaceID, bool) {
	idx := strings.LastIndexByte(string(id), '.')
	if idx < 0 {
		return "", false
	}

	return id[:idx], true
}

// Child returns the namespace that has the part below id. An empty id
// produces a root namespace.
func (id NamespaceID) Child(part string) NamespaceID {
	if id == "" {
		return NamespaceID(part)
	}

	return NamespaceID(string(id) + "." + part)
}

// NamespaceEntry is the state of a provisioned namespace.
type NamespaceEntry struct {
	ID     NamespaceID `json:"id"`
	Owner  Address     `json:"owner"`
	Height Height      `json:"height"`
	// Expiry is the first height at which the namespace is no longer active.
	// Sublevels share the expiry of their root.
	Expiry Height `json:"expiry"`
}

// IsActive returns true if the namespace is active at the height.
func (e NamespaceEntry) IsActive(h Height) bool {
	return e.Height <= h && h < e.Expiry
}
