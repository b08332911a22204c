package config

import (
	"github.com/JamOnBread/contract-lib/contract"
)

// Preprod returns the test-network catalog. It carries two trading
// epochs: the first is retired but still resolvable so stale listings
// can be cancelled, the second is active.
func Preprod() *Network {
	protocolTreasury := "d87a9fd8799f581c74ce41370dd9103615c8399c51f47ecee980467ecbfcfbec5b59d09a0affff"

	params1 := contract.Params{
		MinimumFee:         100_000,
		MinimumProtocolFee: 200_000,
		ProtocolTreasury:   protocolTreasury,
		MinUtxoValue:       2_000_000,
	}
	params2 := contract.Params{
		MinimumFee:         10_000,
		MinimumProtocolFee: 200_000,
		ProtocolTreasury:   protocolTreasury,
		MinUtxoValue:       0,
	}

	stakes1 := []string{
		"75f706c9cfb759c05c77e7db13a45c6706a0caabee576e3ca11a49bd",
		"d75e5d7b05677da8fcf1559604b78f1a04a4efe66824c3c120872531",
		"b5fdcab47fb13552725674580ac5913897ff98ab345d66e4659272f2",
		"989f9f230efa5a7d3df32768f80edf1a0f0c9228917dfe4ba58e8887",
		"ffaa991f62323723573304e589186b76782ac85f4c778e2fb9961703",
		"18a756323a406e37d1d0f0ea1b5d226cfc1c8ed724cd94b85d605dfb",
		"55d0b42920a5c68e822e092cc1fcc80cf8c0e2d1cb12ba4cf6a34190",
		"47ad55d8a36a2a587a21e03111cf9bf145d3d527fcf18cc837db257a",
		"27c2dbbe7194e6ffaaa6f0e1fbf5fa0ef4cb87ea32c007511c4cbd81",
		"94eebf3c0b56eca658e08d5acbdc57fa4f01b58d554e9e6d330f2b3f",
	}
	stakes2 := []string{
		"2d0437ac8574af53e288c6f94b5f035ed8707cdfda578781f28898a7",
		"8e14a5944460cc0b197e180afa39d8b52d9d4dd5661781400da9e30b",
		"6b28b736446c4a6715d30184a75894f742303fac435bff1b4f6ddb17",
		"9cdfec494102f1e6056ee0e442539c28f5810db16a1131c60c7700bf",
		"d9b5bc90c4f94194a028230eeb572bb3da3ac014821863e36e9169df",
		"752ed9ec307438cd6a899d46c45bc383e8cb4ee3a69cb094b9f9f76b",
		"568c765023efa4a80370f2b3b053ef736c7570e306811ed4e11bdc03",
		"cfbcf92dc4aa5d8b613a7c691b16e8c4a31c0cbcd7fbd20b7f8e72e9",
		"e0cdd5a501f2e830b0efe41d859cc4ad7eb6cb2cdf71aec9d4e99b2f",
		"979c9e53d0241ad183fe777220c6a4483989a3406d278d5634336c53",
	}

	treasury1 := &contract.Contract{
		Kind:   contract.KindTreasury,
		Active: false,
		Hash:   "f7f2958d98792704d6cfce73c446f9b0a6f3c1b8db78c57a0c7aa202",
		Params: params1,
		Stakes: stakes1,
	}
	treasury2 := &contract.Contract{
		Kind:   contract.KindTreasury,
		Active: true,
		Hash:   "ef6e317b484f0d85b1401a222d8531398d356ced04c92f2bb0bcba3c",
		Params: params2,
		Stakes: stakes2,
	}

	contracts := []*contract.Contract{
		{
			Kind:     contract.KindOffer,
			Active:   false,
			Hash:     "ac12c9aadf9d65e96332cb35d3876b98fae94dffe90ff5c45df650ed",
			Params:   params1,
			Stakes:   stakes1,
			Treasury: treasury1,
		},
		{
			Kind:     contract.KindInstantBuy,
			Active:   false,
			Hash:     "cc572503d64165b8ef1bb3d0c311b83924483cfff55ea74d0b3370b3",
			Params:   params1,
			Stakes:   stakes1,
			Treasury: treasury1,
		},
		treasury1,
		{
			Kind:     contract.KindOffer,
			Active:   true,
			Hash:     "dceb58fd964029a1d4375de842a2384b6265decbd2db8f130182c078",
			Params:   params2,
			Stakes:   stakes2,
			Treasury: treasury2,
		},
		{
			Kind:     contract.KindInstantBuy,
			Active:   true,
			Hash:     "a2ffaa464e61a2d1d93d898d156bbb3ae033a202d77b768f97a119c3",
			Params:   params2,
			Stakes:   stakes2,
			Treasury: treasury2,
		},
		treasury2,
	}
	for _, hash := range stakes1 {
		contracts = append(contracts, &contract.Contract{
			Kind:   contract.KindStake,
			Active: false,
			Hash:   hash,
			Params: params1,
		})
	}
	contracts = append(contracts, &contract.Contract{
		Kind:   contract.KindLock,
		Active: true,
		Hash:   "cb3fb529db5886437c2dc452dfb30e0826cf6befd6dfd5d171dbb692",
		Params: params1,
	})
	for _, hash := range stakes2 {
		contracts = append(contracts, &contract.Contract{
			Kind:   contract.KindStake,
			Active: true,
			Hash:   hash,
			Params: params2,
		})
	}

	return &Network{
		Name:        "preprod",
		APIURL:      "https://api-testnet-prod.jamonbread.tech/api/",
		TokenPolicy: "74ce41370dd9103615c8399c51f47ecee980467ecbfcfbec5b59d09a",
		TokenName:   "556e69717565",
		TokenCount:  1,
		MinLovelace: 2_000_000,
		Registry:    contract.NewRegistry(contracts...),
	}
}
