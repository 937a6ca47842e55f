// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/sized"
)

// Configuration - the cli's configuration file
type Configuration struct {
	Network string                 `json:"network"`
	Node    fullnode.Configuration `json:"node"`
	Fee     uint64                 `json:"fee"`
	Wallet  Wallet                 `json:"wallet"`
}

// Wallet - the master seed sealed under the password
type Wallet struct {
	Fingerprint sized.Bytes48 `json:"public_key"`
	Data        string        `json:"data"`
	Salt        string        `json:"salt"`
}

// New - empty configuration for a network
func New(network string) (*Configuration, error) {
	if !chain.Valid(network) {
		return nil, errors.Wrapf(fault.ErrInvalidNetwork, "network: %q", network)
	}
	return &Configuration{
		Network: network,
	}, nil
}

// Load - read a configuration file
func Load(filename string) (*Configuration, error) {

	filename, err := filepath.Abs(filepath.Clean(filename))
	if nil != err {
		return nil, err
	}

	f, err := os.Open(filename)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	options := &Configuration{}
	if err := json.NewDecoder(f).Decode(options); nil != err {
		return nil, errors.Wrapf(err, "configuration: %q", filename)
	}
	if !chain.Valid(options.Network) {
		return nil, errors.Wrapf(fault.ErrInvalidNetwork, "network: %q", options.Network)
	}
	return options, nil
}

// Save - write through a temporary file keeping the previous version
// as a backup
func Save(filename string, configuration *Configuration) error {

	tempFile := filename + ".new"
	previousFile := filename + ".bk"

	os.Remove(tempFile)

	data, err := json.MarshalIndent(configuration, "", "  ")
	if nil != err {
		return err
	}
	data = append(data, '\n')

	file, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if nil != err {
		return err
	}
	_, err = file.Write(data)
	if closeErr := file.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		os.Remove(tempFile)
		return err
	}

	err = os.Remove(previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	err = os.Rename(filename, previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tempFile, filename)
}

// Initialised - a seed is stored
func (config *Configuration) Initialised() bool {
	return "" != config.Wallet.Data
}

// SetSeed - seal a master seed under password
func (config *Configuration) SetSeed(seed []byte, password string) error {
	if config.Initialised() {
		return fault.ErrAlreadyInitialised
	}

	master, err := bls.KeyGen(seed)
	if nil != err {
		return err
	}

	salt, key, err := hashPassword(password)
	if nil != err {
		return err
	}

	encrypted, err := encryptData(hex.EncodeToString(seed), key)
	if nil != err {
		return err
	}

	config.Wallet = Wallet{
		Fingerprint: master.PublicKey(),
		Data:        encrypted,
		Salt:        salt.String(),
	}
	return nil
}

// Master - unseal the master key
func (config *Configuration) Master(password string) (*bls.SecretKey, error) {
	if !config.Initialised() {
		return nil, fault.ErrNotInitialised
	}

	salt := new(Salt)
	if err := salt.UnmarshalText([]byte(config.Wallet.Salt)); nil != err {
		return nil, err
	}

	key, err := generateKey(password, salt)
	if nil != err {
		return nil, err
	}

	s, err := decryptData(config.Wallet.Data, key)
	if nil != err {
		return nil, err
	}
	seed, err := hex.DecodeString(s)
	if nil != err {
		return nil, err
	}

	master, err := bls.KeyGen(seed)
	if nil != err {
		return nil, err
	}
	if master.PublicKey() != config.Wallet.Fingerprint {
		return nil, fault.ErrInvalidPassword
	}
	return master, nil
}
