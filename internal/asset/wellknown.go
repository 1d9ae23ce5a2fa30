package asset

import "github.com/deeparb/deeparb/internal/apperror"

// Venue contract addresses per network.
const (
	MainnetPackageID  Address = "0x2c8d603bc51326b8c13cef9dd07031a408a48dddb541963357661df5d3204809"
	MainnetRegistryID Address = "0xaf16199a2dff736e9f07a845f23c5da6df6f756eddb631aed9d24a93efc4549d"

	TestnetPackageID  Address = "0x984757fc7c0e6dd5f15c2c66e881dd6e5aca98b725f3dbd83c445e057ebb790a"
	TestnetRegistryID Address = "0x7c256cbb10bc55980346b0cdfa752f3c5044abc611c9d8aa1bae4e4d8446cd4f"
)

// Oracle price feed ids, mainnet.
const (
	feedSUIUSD  Address = "0x801dbc2f0053d34734814b2d6df491ce7807a725fe9a01ad74a07e9c51396c37"
	feedUSDCUSD Address = "0x5dec622733a204ca27f5a90d8c2fad453cc6665186fd5dff13a83d0b6c9027ab"
	feedDEEPUSD Address = "0x8c7f3a322b94cc69db2a2fbf1cb719e65bf22406ea7ac53747bee0533a9baa7a"
	feedWALUSD  Address = "0xeba0732395fae9dec4bae12e52760b35fc1c5671e2da8b449c9af4efe5d54341"
)

// Mainnet assets.
var (
	mainnetSUI  = NewAssetWithFeed("SUI", "0x2::sui::SUI", 9, feedSUIUSD)
	mainnetUSDC = NewAssetWithFeed("USDC",
		"0xdba34672e30cb065b1f93e3ab55318768fd6fef66c15942c9f7cb846e2f900e7::usdc::USDC", 6, feedUSDCUSD)
	mainnetDEEP = NewAssetWithFeed("DEEP",
		"0xdeeb7a4662eec9f2f3def03fb937a663dddaa2e215b8078a284d026b7946c270::deep::DEEP", 6, feedDEEPUSD)
	mainnetWAL = NewAssetWithFeed("WAL",
		"0x356a26eb9e012a68958082340d4c4116e7f55615cf27affcff209cf0ae544f59::wal::WAL", 9, feedWALUSD)
	mainnetNS = NewAsset("NS",
		"0x5145494a5f5100e645e4b0aa950fa6b68f614e8c59e17bc5ded3495123a79178::ns::NS", 6)
)

// Mainnet pools.
var mainnetPools = []*Pool{
	NewPool("SUI_USDC", "0xe05dafb5133bcffb8d59f4e12465dc0e9faeaa05e3e342a08fe135800e3e4407", mainnetSUI, mainnetUSDC),
	NewPool("DEEP_SUI", "0xb663828d6217467c8a1838a03793da896cbe745b150ebd57d82f814ca579fc22", mainnetDEEP, mainnetSUI),
	NewPool("DEEP_USDC", "0xf948981b806057580f91622417534f491da5f61aeaf33d0ed8e69fd5691c95ce", mainnetDEEP, mainnetUSDC),
	NewPool("WAL_USDC", "0x56a1c985c1f1123181d6b881714793689321ba24301b3585eec427436eb1c76d", mainnetWAL, mainnetUSDC),
	NewPool("WAL_SUI", "0x81f5339934c83ea19dd6bcc75c52e83509629a5f71d3257428c2ce47cc94d08b", mainnetWAL, mainnetSUI),
	NewPool("NS_USDC", "0x0c0fdd4008740d81a8a7d4281322aee71a1b62c449eb5b142656753d89ebc060", mainnetNS, mainnetUSDC),
}

// Mainnet margin pools (assets lendable for leveraged positions).
var mainnetMarginPools = []*MarginPool{
	NewMarginPool("0x60ada1ed332d1a32ba8e1a2e9dc49d4a75c747bbdf2b10df39a8a9e21cf10b22", mainnetSUI),
	NewMarginPool("0x02fa5e8b2a7d3c1e09cf008b2f20e3bbc07d99d14b79dfbd19e9b4f2c81d7a45", mainnetUSDC),
	NewMarginPool("0x9b0e7c11b51570d70fdfd6b8a2aedeb5a6cf2e38d83b52c0ca9a22cf6117247d", mainnetDEEP),
}

// Testnet assets. Same symbols, testnet-deployed types, no WAL/NS.
var (
	testnetSUI  = NewAssetWithFeed("SUI", "0x2::sui::SUI", 9, feedSUIUSD)
	testnetUSDC = NewAssetWithFeed("USDC",
		"0xa1ec7fc00a6f40db9693ad1415d0c193ad3906494428cf252621037bd7117e29::usdc::USDC", 6, feedUSDCUSD)
	testnetDEEP = NewAssetWithFeed("DEEP",
		"0x36dbef866a1d62bf7328989a10fb2f07d769f4ee587c0de4a0a256e57e0a58a8::deep::DEEP", 6, feedDEEPUSD)
)

var testnetPools = []*Pool{
	NewPool("SUI_USDC", "0x520c89c6c78c566eed0ebf24f854a8c22d8fdd06a6f16ad01f108dad7f1baaea", testnetSUI, testnetUSDC),
	NewPool("DEEP_SUI", "0x1fa6aaa9b014dcce9cf41a6f1e8f71cb15af43c8e661a0f01066e4b332b622d4", testnetDEEP, testnetSUI),
	NewPool("DEEP_USDC", "0xd1a0cfdcf24a2b29bf0b84b6fcd1e2dcb2e3b1e5d6b0c89a1da2c1fd4a6e1b8c", testnetDEEP, testnetUSDC),
}

var testnetMarginPools = []*MarginPool{
	NewMarginPool("0x40c33ba90b0b5b44d0f6ec56bb0ec29bdd46a0b6c0f2f0c11c3e2b8e97c7f9da", testnetSUI),
	NewMarginPool("0x7de2cbb11e80094b38e79a93e7dcdbe4c768ab5a2ed2f2d03dd6c464fc3a5a20", testnetUSDC),
	NewMarginPool("0xc1b2e0e44b62e3cfa2a3a8c4dfb6d1f24b1e5cb1f8d2b1a7f0a9b3c4d5e6f708", testnetDEEP),
}

func buildRegistry(network Network, packageID, registryID Address, assets []*Asset, pools []*Pool, margin []*MarginPool) *Registry {
	r := NewRegistry(network, packageID, registryID)
	for _, a := range assets {
		r.RegisterAsset(a)
	}
	for _, p := range pools {
		r.RegisterPool(p)
	}
	for _, m := range margin {
		r.RegisterMarginPool(m)
	}
	return r
}

// MainnetRegistry returns a registry populated with the mainnet tables.
func MainnetRegistry() *Registry {
	return buildRegistry(NetworkMainnet, MainnetPackageID, MainnetRegistryID,
		[]*Asset{mainnetSUI, mainnetUSDC, mainnetDEEP, mainnetWAL, mainnetNS},
		mainnetPools, mainnetMarginPools)
}

// TestnetRegistry returns a registry populated with the testnet tables.
func TestnetRegistry() *Registry {
	return buildRegistry(NetworkTestnet, TestnetPackageID, TestnetRegistryID,
		[]*Asset{testnetSUI, testnetUSDC, testnetDEEP},
		testnetPools, testnetMarginPools)
}

// ForNetwork returns the registry for the given network.
func ForNetwork(network Network) (*Registry, error) {
	switch network {
	case NetworkMainnet:
		return MainnetRegistry(), nil
	case NetworkTestnet:
		return TestnetRegistry(), nil
	default:
		return nil, apperror.Configuration("unknown network " + string(network))
	}
}
