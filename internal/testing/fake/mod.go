// Package fake provides fake implementations and helpers commonly used by the
// unit tests of the repository.
// The implementations offer configuration to return errors when it is needed by
// the unit test and it is also possible to record the call of functions of an
// object in some cases.
package fake

import (
	"fmt"

	"go.dedis.ch/nemval/core/model"
	"golang.org/x/xerrors"
)

var fakeErr = xerrors.New("fake error")

// GetError returns the fake error.
func GetError() error {
	return fakeErr
}

// Err returns the expected error message for a wrapped fake error.
func Err(msg string) string {
	return fmt.Sprintf("%s: %v", msg, fakeErr)
}

// Call is a tool to keep track of a function calls.
type Call struct {
	calls [][]interface{}
}

// Get returns the nth call ith parameter.
func (c *Call) Get(n, i int) interface{} {
	return c.calls[n][i]
}

// Len returns the number of calls.
func (c *Call) Len() int {
	if c == nil {
		return 0
	}

	return len(c.calls)
}

// Add adds a call to the list.
func (c *Call) Add(args ...interface{}) {
	if c == nil {
		return
	}

	c.calls = append(c.calls, args)
}

// Account is a test account with a deterministic public key on the test
// network.
type Account struct {
	Key     model.PublicKey
	Address model.Address
}

// NewAccount returns the account of index i. The same index always produces
// the same account.
func NewAccount(i int) Account {
	pk := model.PublicKey{0xfe, byte(i), byte(i >> 8)}

	return Account{
		Key:     pk,
		Address: model.NewAddress(model.TestNet, pk),
	}
}

// NewAccounts returns n distinct accounts starting at the index.
func NewAccounts(from, n int) []Account {
	res := make([]Account, n)
	for i := range res {
		res[i] = NewAccount(from + i)
	}

	return res
}

// BadWriter is a writer that always returns an error.
type BadWriter struct{}

// Write implements io.Writer.
func (BadWriter) Write([]byte) (int, error) {
	return 0, fakeErr
}
