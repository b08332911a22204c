package config

import (
	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/ledger"
)

// Mainnet returns the production deployment catalog.
func Mainnet() *Network {
	params := contract.Params{
		MinimumFee:         100_000,
		MinimumProtocolFee: 200_000,
		ProtocolTreasury:   "d87a9fd8799f581c5d87ebacd1b26282675a61a1cde3e8c64282677739abb58124138e9c05ffff",
		MinUtxoValue:       0,
	}

	stakes := []string{
		"1e3ef6f3295e88c97a5871b06a5d28ccb588ab150aa7cb86b8db9194",
		"3a3fd4ba4ccfeab2baf6138b8f058fc755ea60d6e45955694b1080e7",
		"5671059290d40700a0e9fc57062d233c7fee6f34a6deeef6146a62d0",
		"fe71e984dff3b560194f7996797ed99004d8cadc35f2a9e6465a3da8",
		"a0cc2a5387f159b3abd8039280234735379c396b44c97d12f1953e33",
		"ec6abc758d5afa264584ec41c18c806c72f23ed63ce7242e9c00a876",
		"1602fdafa14ab4a5b9ce11f2764e67daa0051afa064cc9682bc4803a",
		"b7270c51bfbd729e9ad455fba0895d81c6be9e694b7e9a6ab86363b1",
		"de83e4278c5667080451998e7d5ac2de4e607591b021eec7752cd4d7",
		"cedc368fa1e902bc41cfdac0031f7763cad0e35cf614240ee2a5807a",
	}

	treasury := &contract.Contract{
		Kind:   contract.KindTreasury,
		Active: true,
		Hash:   "2ebc898f717d90206abe59b91c5e54fbae8744e16d4abe5a521f8588",
		Params: params,
		Stakes: stakes,
	}

	contracts := []*contract.Contract{
		{
			Kind:     contract.KindOffer,
			Active:   true,
			Hash:     "f93ccc5c684e2d936d6a5b21fb54fa14de86c62adccf916f31d0bf95",
			Params:   params,
			Stakes:   stakes,
			Treasury: treasury,
		},
		{
			Kind:     contract.KindInstantBuy,
			Active:   true,
			Hash:     "ceb5d9e9b6a10ecea85712a32cd1ecc21245b24af76416855f130c68",
			Params:   params,
			Stakes:   stakes,
			Treasury: treasury,
		},
		treasury,
	}
	for _, hash := range stakes {
		contracts = append(contracts, &contract.Contract{
			Kind:   contract.KindStake,
			Active: true,
			Hash:   hash,
			Params: params,
		})
	}
	contracts = append(contracts,
		&contract.Contract{
			Kind:   contract.KindLock,
			Active: true,
			Hash:   "0cd44c1b26fd2ade79fa46092c90ef5b5897beec85c49c4bbf2eee04",
			Params: params,
		},
		// jpg.store V4 listings, settled through the adapter validator.
		&contract.Contract{
			Kind:   contract.KindExternal,
			Active: true,
			Hash:   "c727443d77df6cff95dca383994f4c3024d03ff56b02ecc22b0f3f65",
			Params: params,
			External: &contract.ExternalParams{
				FeeAddress: ledger.ScriptAddress(
					"84cc25ea4c29951d40b443b95bbc5676bc425470f96376d1984af9ab",
					"2c967f4bd28944b06462e13c5e3f5d5fa6e03f8567569438cd833e6d",
				),
				FeeNum: 1,
				FeeDen: 49,
			},
		},
	)

	return &Network{
		Name:        "mainnet",
		APIURL:      "https://api-mainnet-prod.jamonbread.tech/api/",
		TokenPolicy: "5d87ebacd1b26282675a61a1cde3e8c64282677739abb58124138e9c",
		TokenName:   "4a6f42",
		TokenCount:  5,
		MinLovelace: 2_000_000,
		Registry:    contract.NewRegistry(contracts...),
	}
}
