// Package explorer formats block-explorer links for transaction digests.
package explorer

import (
	"fmt"

	"github.com/deeparb/deeparb/internal/asset"
)

const (
	mainnetBase = "https://suivision.xyz/txblock/%s"
	testnetBase = "https://testnet.suivision.xyz/txblock/%s"
)

// URL returns the explorer link for a transaction digest on the given
// network. Unknown networks fall back to the testnet explorer.
func URL(network asset.Network, digest string) string {
	if network == asset.NetworkMainnet {
		return fmt.Sprintf(mainnetBase, digest)
	}
	return fmt.Sprintf(testnetBase, digest)
}
