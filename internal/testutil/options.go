package testutil

import "github.com/zjrosen/contractmeta/internal/domain/contract"

// contractData holds everything needed to build a test contract.
type contractData struct {
	name      string
	id        string
	authors   []string
	timestamp string
	signer    string
	extra     map[string]string
}

func defaultContract(name string) contractData {
	return contractData{name: name}
}

// ContractOption configures a test contract.
type ContractOption func(*contractData)

// ID sets the builder correlation ID.
func ID(id string) ContractOption {
	return func(c *contractData) { c.id = id }
}

// Author adds a WithAuthor call. Repeat to exercise overwrites.
func Author(author string) ContractOption {
	return func(c *contractData) { c.authors = append(c.authors, author) }
}

// DeployedAt sets the deploy timestamp written by the hook.
func DeployedAt(date string) ContractOption {
	return func(c *contractData) { c.timestamp = date }
}

// SignedBy sets the signer written by the hook.
func SignedBy(addr string) ContractOption {
	return func(c *contractData) { c.signer = addr }
}

// Extra adds a key written by the deploy hook.
func Extra(key, value string) ContractOption {
	return func(c *contractData) {
		if c.extra == nil {
			c.extra = map[string]string{}
		}
		c.extra[key] = value
	}
}

func (c contractData) hook() contract.DeployHook {
	hooks := []contract.DeployHook{}
	if c.timestamp != "" {
		hooks = append(hooks, contract.Set(contract.KeyTimestamp, c.timestamp))
	}
	if c.signer != "" {
		hooks = append(hooks, contract.Signer(c.signer))
	}
	for k, v := range c.extra {
		hooks = append(hooks, contract.Set(k, v))
	}
	return contract.Chain(hooks...)
}
