package main

import (
	"io/ioutil"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao/memorybcao"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type config struct {
	Port     int                 `yaml:"port"`
	Prefix   string              `yaml:"prefix"` // The route prefix of the relay
	Fees     *ledger.FeeSchedule `yaml:"fees"`
	Accounts []*accountSeed      `yaml:"accounts"`
}

type accountSeed struct {
	ID        string `yaml:"id"`
	PublicKey string `yaml:"publicKey"` // The path to the PEM-encoded public key
	Balance   uint64 `yaml:"balance"`
}

func loadConfig(filePath string) (*config, error) {
	fileBytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read config file")
	}

	conf := &config{}
	if err = yaml.Unmarshal(fileBytes, conf); err != nil {
		return nil, errors.Wrap(err, "cannot load config file")
	}

	if conf.Port == 0 {
		conf.Port = 8090
	}
	if conf.Prefix == "" {
		conf.Prefix = "/api/v1/ledger"
	}
	if conf.Fees == nil {
		fees := ledger.DefaultFeeSchedule()
		conf.Fees = &fees
	}

	return conf, nil
}

// newSeededLedger creates an in-process ledger holding the seeded accounts.
func newSeededLedger(conf *config) (*memorybcao.MemoryLedger, error) {
	memoryLedger := memorybcao.NewMemoryLedger(*conf.Fees)
	for _, seed := range conf.Accounts {
		pubKeyPem, err := ioutil.ReadFile(seed.PublicKey)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read the public key of account '%v'", seed.ID)
		}

		if _, err = memoryLedger.CreateAccount(seed.ID, string(pubKeyPem), seed.Balance); err != nil {
			return nil, errors.Wrapf(err, "cannot create account '%v'", seed.ID)
		}
	}

	return memoryLedger, nil
}
