// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/sized"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// fixed seed so every run derives the same keys
var seed = []byte("plotnft fixture seed: 0123456789abcdef")

// SetupTestLogger - log to a throw away directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// Parameters - the simulator chain
func Parameters() *chain.Parameters {
	p, err := chain.Get(chain.Simulator)
	if nil != err {
		panic(err)
	}
	return p
}

// MasterKey - deterministic master secret key
func MasterKey() *bls.SecretKey {
	sk, err := bls.KeyGen(seed)
	if nil != err {
		panic(err)
	}
	return sk
}

// Key - a deterministic key distinct for each tag
func Key(tag string) *bls.SecretKey {
	h := sized.Hash(seed, []byte(tag))
	sk, err := bls.KeyGen(h[:])
	if nil != err {
		panic(err)
	}
	return sk
}
