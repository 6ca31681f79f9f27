package testutil

import (
	"testing"

	"github.com/zjrosen/contractmeta/internal/domain/contract"
)

// TokenXMetadata is the metadata produced by TokenX.
func TokenXMetadata() map[string]string {
	return map[string]string{
		"author":    "azaM",
		"validated": "true",
		"status":    "deployed",
		"timestamp": "2025-06-28",
		"signer":    "0xDEADBEEF",
	}
}

// TokenX builds the reference contract: author azaM, deployed 2025-06-28,
// signed by 0xDEADBEEF.
func TokenX(t *testing.T, opts ...ContractOption) *contract.Deployed {
	t.Helper()
	base := []ContractOption{Author("azaM"), DeployedAt("2025-06-28"), SignedBy("0xDEADBEEF")}
	return NewDeployed(t, "TokenX", append(base, opts...)...)
}
