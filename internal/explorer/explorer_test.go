package explorer

import (
	"testing"

	"github.com/deeparb/deeparb/internal/asset"
)

func TestURL(t *testing.T) {
	digest := "9WzSQpwEXsPsiTDz9sQy2j6vXRG3YsJRGBF7yNT6XbAF"

	tests := []struct {
		name    string
		network asset.Network
		want    string
	}{
		{
			name:    "mainnet",
			network: asset.NetworkMainnet,
			want:    "https://suivision.xyz/txblock/" + digest,
		},
		{
			name:    "testnet",
			network: asset.NetworkTestnet,
			want:    "https://testnet.suivision.xyz/txblock/" + digest,
		},
		{
			name:    "unknown_falls_back_to_testnet",
			network: asset.Network("devnet"),
			want:    "https://testnet.suivision.xyz/txblock/" + digest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URL(tt.network, digest); got != tt.want {
				t.Fatalf("URL = %s, want %s", got, tt.want)
			}
		})
	}
}
