// Package config holds the per-network deployment catalogs and the
// file/environment configuration loader. A catalog is plain data: it is
// resolved once at startup into an immutable registry value and passed
// into every operation, never read from ambient globals.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/JamOnBread/contract-lib/contract"
)

// Network is one deployment environment: the marketplace API endpoint,
// the protocol token identity and the contract registry.
type Network struct {
	Name        string
	APIURL      string
	TokenPolicy string
	TokenName   string
	TokenCount  uint64
	// MinLovelace is the minimum value of any created protocol output.
	MinLovelace uint64
	Registry    *contract.Registry
}

// ForName returns the built-in catalog for a network name.
func ForName(name string) (*Network, error) {
	switch strings.ToLower(name) {
	case "mainnet":
		return Mainnet(), nil
	case "preprod":
		return Preprod(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
}

type fileContract struct {
	Kind       string   `mapstructure:"kind"`
	Active     bool     `mapstructure:"active"`
	Hash       string   `mapstructure:"hash"`
	Stakes     []string `mapstructure:"stakes"`
	Treasury   string   `mapstructure:"treasury"` // hash of the linked treasury contract
	MinimumFee uint64   `mapstructure:"minimum_fee"`
	MinimumProtocolFee uint64 `mapstructure:"minimum_protocol_fee"`
	ProtocolTreasury   string `mapstructure:"protocol_treasury"`
	MinUtxoValue       uint64 `mapstructure:"min_utxo_value"`
}

type fileConfig struct {
	Network     string         `mapstructure:"network"`
	APIURL      string         `mapstructure:"api_url"`
	TokenPolicy string         `mapstructure:"token_policy"`
	TokenName   string         `mapstructure:"token_name"`
	TokenCount  uint64         `mapstructure:"token_count"`
	MinLovelace uint64         `mapstructure:"min_lovelace"`
	Contracts   []fileContract `mapstructure:"contracts"`
}

var kindNames = map[string]contract.Kind{
	"treasury":   contract.KindTreasury,
	"instantbuy": contract.KindInstantBuy,
	"offer":      contract.KindOffer,
	"stake":      contract.KindStake,
	"lock":       contract.KindLock,
	"external":   contract.KindExternal,
}

// Load reads configuration from the given file (YAML, JSON or TOML by
// extension) and the JOB_* environment, layered over the named network's
// built-in catalog. A custom contracts list replaces the catalog
// entirely; scalar fields override individually.
func Load(path string) (*Network, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("JOB")
	v.AutomaticEnv()
	// AutomaticEnv only surfaces keys viper already knows about, so every
	// overridable scalar needs a default for the JOB_* overlay to reach it.
	v.SetDefault("network", "mainnet")
	v.SetDefault("api_url", "")
	v.SetDefault("token_policy", "")
	v.SetDefault("token_name", "")
	v.SetDefault("token_count", 0)
	v.SetDefault("min_lovelace", 0)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	network, err := ForName(fc.Network)
	if err != nil {
		return nil, err
	}
	if fc.APIURL != "" {
		network.APIURL = fc.APIURL
	}
	if fc.TokenPolicy != "" {
		network.TokenPolicy = fc.TokenPolicy
	}
	if fc.TokenName != "" {
		network.TokenName = fc.TokenName
	}
	if fc.TokenCount != 0 {
		network.TokenCount = fc.TokenCount
	}
	if fc.MinLovelace != 0 {
		network.MinLovelace = fc.MinLovelace
	}
	if len(fc.Contracts) > 0 {
		registry, err := buildRegistry(fc.Contracts)
		if err != nil {
			return nil, err
		}
		network.Registry = registry
	}
	return network, nil
}

func buildRegistry(entries []fileContract) (*contract.Registry, error) {
	treasuries := make(map[string]*contract.Contract)
	contracts := make([]*contract.Contract, 0, len(entries))

	for _, e := range entries {
		kind, ok := kindNames[strings.ToLower(e.Kind)]
		if !ok {
			return nil, fmt.Errorf("%w: contract kind %q", ErrInvalid, e.Kind)
		}
		if e.Hash == "" {
			return nil, fmt.Errorf("%w: contract without hash", ErrInvalid)
		}
		c := &contract.Contract{
			Kind:   kind,
			Active: e.Active,
			Hash:   e.Hash,
			Stakes: e.Stakes,
			Params: contract.Params{
				MinimumFee:         e.MinimumFee,
				MinimumProtocolFee: e.MinimumProtocolFee,
				ProtocolTreasury:   strings.ToLower(e.ProtocolTreasury),
				MinUtxoValue:       e.MinUtxoValue,
			},
		}
		contracts = append(contracts, c)
		if kind == contract.KindTreasury {
			treasuries[c.Hash] = c
		}
	}
	// Second pass so treasury links work regardless of list order.
	for i, e := range entries {
		if e.Treasury == "" {
			continue
		}
		t, ok := treasuries[e.Treasury]
		if !ok {
			return nil, fmt.Errorf("%w: unknown treasury %s", ErrInvalid, e.Treasury)
		}
		contracts[i].Treasury = t
	}
	return contract.NewRegistry(contracts...), nil
}
