package presentation

import (
	"sort"

	"github.com/zjrosen/contractmeta/internal/domain/contract"
)

// EntryDTO is a single metadata key/value pair.
type EntryDTO struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// ContractDTO represents a deployed contract for presentation.
type ContractDTO struct {
	Name     string            `json:"name" yaml:"name"`
	ID       string            `json:"id,omitempty" yaml:"id,omitempty"`
	Stage    string            `json:"stage" yaml:"stage"`
	Metadata map[string]string `json:"metadata" yaml:"metadata"`
}

// SortedEntries returns the metadata ordered by key.
func (c ContractDTO) SortedEntries() []EntryDTO {
	return SortedEntries(c.Metadata)
}

// SortedEntries returns m's entries ordered by key.
func SortedEntries(m map[string]string) []EntryDTO {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]EntryDTO, len(keys))
	for i, k := range keys {
		entries[i] = EntryDTO{Key: k, Value: m[k]}
	}
	return entries
}

// FromHandle converts a deployed contract to a DTO, reading the metadata
// through h. h must be a registry handle of d.
func FromHandle(d *contract.Deployed, h *contract.Handle) ContractDTO {
	return ContractDTO{
		Name:     d.Name(),
		ID:       d.ID(),
		Stage:    d.Stage().String(),
		Metadata: h.Snapshot(),
	}
}
