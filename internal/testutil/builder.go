// Package testutil builds contracts for tests in other packages.
package testutil

import (
	"testing"

	"github.com/zjrosen/contractmeta/internal/domain/contract"
)

// NewDeployed runs a contract through every stage with the given options.
func NewDeployed(t *testing.T, name string, opts ...ContractOption) *contract.Deployed {
	t.Helper()
	data := defaultContract(name)
	for _, opt := range opts {
		opt(&data)
	}

	var builderOpts []contract.Option
	if data.id != "" {
		builderOpts = append(builderOpts, contract.WithID(data.id))
	}
	b := contract.New(data.name, builderOpts...)
	for _, a := range data.authors {
		b = b.WithAuthor(a)
	}
	return b.Validate().OnDeploy(data.hook())
}
