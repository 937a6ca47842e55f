// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// names of all chains
const (
	Mainnet   = "mainnet"
	Testnet11 = "testnet11"
	Simulator = "simulator"
)

// Parameters - consensus values the wallet needs to build spends
type Parameters struct {
	Name                   string
	GenesisChallenge       sized.Bytes32
	AggSigMeAdditionalData sized.Bytes32
	AddressPrefix          string
	RPCPort                int
}

var parameters = map[string]*Parameters{}

func init() {
	add := func(name string, genesis sized.Bytes32, prefix string, port int) {
		parameters[name] = &Parameters{
			Name:                   name,
			GenesisChallenge:       genesis,
			AggSigMeAdditionalData: genesis,
			AddressPrefix:          prefix,
			RPCPort:                port,
		}
	}
	add(Mainnet, mustHex("ccd5bb71183532bff220ba46c268991a3ff07eb358e8255a65c30a2dce0e5fbb"), "xch", 8555)
	add(Testnet11, mustHex("37a90eb5185a9c4439a91ddc98bbadce7b4feba060d50116a067de66bf236615"), "txch", 8555)
	add(Simulator, sized.Hash([]byte("plotnft simulator genesis")), "txch", 8555)
}

func mustHex(s string) sized.Bytes32 {
	b, err := sized.Bytes32FromHex(s)
	if nil != err {
		panic("bad chain constant: " + s)
	}
	return b
}

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Mainnet, Testnet11, Simulator:
		return true
	default:
		return false
	}
}

// Get - parameters of a named chain
func Get(name string) (*Parameters, error) {
	p, ok := parameters[name]
	if !ok {
		return nil, fault.ErrInvalidNetwork
	}
	return p, nil
}
