// Package config defines the network parameters of the validation engine:
// the network identifier, the fork heights that change the rules, the special
// accounts and the limits.
//
// A configuration is loaded from a YAML file on top of the mainnet defaults.
package config

import (
	"os"
	"time"

	"go.dedis.ch/nemval/core/model"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// Forks are the heights at which the rules change.
type Forks struct {
	MultisigMOfN       model.Height `yaml:"multisigMOfN"`
	Mosaics            model.Height `yaml:"mosaics"`
	FirstFee           model.Height `yaml:"firstFee"`
	RemoteAccount      model.Height `yaml:"remoteAccount"`
	MosaicRedefinition model.Height `yaml:"mosaicRedefinition"`
	SecondFee          model.Height `yaml:"secondFee"`
	TreasuryReissuance model.Height `yaml:"treasuryReissuance"`
}

// Accounts are the special accounts of the network.
type Accounts struct {
	Nemesis               model.Address `yaml:"nemesis"`
	NamespaceLessor       model.Address `yaml:"namespaceLessor"`
	MosaicCreationFeeSink model.Address `yaml:"mosaicCreationFeeSink"`
}

// Limits bound the content of the transactions and the batches.
type Limits struct {
	FutureTolerance       time.Duration `yaml:"futureTolerance"`
	MaxBatchTransactions  int           `yaml:"maxBatchTransactions"`
	MaxMosaicTransfers    int           `yaml:"maxMosaicTransfers"`
	MaxCosigners          int           `yaml:"maxCosigners"`
	RemoteHarvestingDelay uint64        `yaml:"remoteHarvestingDelay"`
}

// Config is the configuration of the engine.
type Config struct {
	Network  string   `yaml:"network"`
	Forks    Forks    `yaml:"forks"`
	Accounts Accounts `yaml:"accounts"`
	Limits   Limits   `yaml:"limits"`
}

var defaultLimits = Limits{
	FutureTolerance:       10 * time.Second,
	MaxBatchTransactions:  120,
	MaxMosaicTransfers:    10,
	MaxCosigners:          32,
	RemoteHarvestingDelay: model.BlocksPerDay,
}

// Default returns the configuration of the main network.
func Default() Config {
	return Config{
		Network: model.MainNet.String(),
		Forks: Forks{
			MultisigMOfN:       92_000,
			Mosaics:            440_000,
			FirstFee:           875_000,
			RemoteAccount:      1_025_000,
			MosaicRedefinition: 1_110_000,
			SecondFee:          1_250_000,
			TreasuryReissuance: 1_998_000,
		},
		Accounts: Accounts{
			Nemesis:               "NANEMOABLAGR72AZ2RV3V4ZHDCXW25XQ73O7OBT5",
			NamespaceLessor:       "NAMESPACEWH4MKFMBCVFERDPOOP4FK7MTBXDPZZA",
			MosaicCreationFeeSink: "NBMOSAICOD4F54EE5CDMR23CCBGOAM2XSIUX6TRS",
		},
		Limits: defaultLimits,
	}
}

// Testnet returns the configuration of the test network.
func Testnet() Config {
	return Config{
		Network: model.TestNet.String(),
		Forks: Forks{
			MultisigMOfN:       90_000,
			Mosaics:            180_000,
			FirstFee:           572_500,
			RemoteAccount:      830_000,
			MosaicRedefinition: 871_500,
			SecondFee:          975_000,
			TreasuryReissuance: 1_600_000,
		},
		Accounts: Accounts{
			Nemesis:               "TBULEAUG2CZQISUR442HWA6UAKGWIXHDABJVIPS4",
			NamespaceLessor:       "TAMESPACEWH4MKFMBCVFERDPOOP4FK7MTDJEYP35",
			MosaicCreationFeeSink: "TBMOSAICOD4F54EE5CDMR23CCBGOAM2XSJBR5OLC",
		},
		Limits: defaultLimits,
	}
}

// Load reads the YAML file. The profile of the network named in the file is
// used for the missing values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to read config: %v", err)
	}

	return Parse(data)
}

// Parse decodes the YAML document on top of the profile of its network.
func Parse(data []byte) (Config, error) {
	var header struct {
		Network string `yaml:"network"`
	}

	err := yaml.Unmarshal(data, &header)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to decode config: %v", err)
	}

	cfg := Default()
	if header.Network == model.TestNet.String() {
		cfg = Testnet()
	}

	err = yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to decode config: %v", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, xerrors.Errorf("invalid config: %v", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is consistent.
func (c Config) Validate() error {
	network, err := model.ParseNetwork(c.Network)
	if err != nil {
		return err
	}

	accounts := map[string]model.Address{
		"nemesis":               c.Accounts.Nemesis,
		"namespaceLessor":       c.Accounts.NamespaceLessor,
		"mosaicCreationFeeSink": c.Accounts.MosaicCreationFeeSink,
	}

	for name, addr := range accounts {
		n, ok := addr.Network()
		if !ok || n != network {
			return xerrors.Errorf("account %s '%s' is not an address of %v", name, addr, network)
		}
	}

	f := c.Forks
	if f.FirstFee > f.SecondFee {
		return xerrors.Errorf("first fee fork %d is after the second %d", f.FirstFee, f.SecondFee)
	}

	if c.Limits.MaxCosigners <= 0 || c.Limits.MaxMosaicTransfers <= 0 ||
		c.Limits.MaxBatchTransactions <= 0 {
		return xerrors.New("limits must be positive")
	}

	return nil
}

// NetworkID returns the identifier of the network. It must only be called on
// a valid configuration.
func (c Config) NetworkID() model.NetworkID {
	network, err := model.ParseNetwork(c.Network)
	if err != nil {
		panic("invalid network in config: " + c.Network)
	}

	return network
}

// MaxMessageSize returns the largest message of a transfer at the height.
func (c Config) MaxMessageSize(h model.Height) int {
	switch {
	case h < c.Forks.MultisigMOfN:
		return 96
	case h < c.Forks.RemoteAccount:
		return 160
	default:
		return 1024
	}
}

// IsSink returns true for the accounts collecting the rental and creation
// fees.
func (c Config) IsSink(addr model.Address) bool {
	return addr == c.Accounts.NamespaceLessor || addr == c.Accounts.MosaicCreationFeeSink
}
