// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/sized"
)

const (
	launcherOne = "0x1111111111111111111111111111111111111111111111111111111111111111"
	launcherTwo = "2222222222222222222222222222222222222222222222222222222222222222"
)

const testConfigurationFile = `
local M = {}
M.data_directory = "."
M.network = network or "mainnet"
M.launchers = {
    "` + launcherOne + `",
    "` + launcherTwo + `",
    "` + launcherOne + `",
}
M.refresh_interval = "30s"
M.node = {
    url = node_url,
}
M.logging = {
    size = 1048576,
    count = 2,
    levels = {
        DEFAULT = "error",
    },
}
return M
`

func writeConfiguration(t *testing.T, content string) (string, func()) {
	dir, err := ioutil.TempDir("", "plotnftd")
	assert.Nil(t, err, "temp dir")
	name := filepath.Join(dir, "plotnftd.conf")
	assert.Nil(t, ioutil.WriteFile(name, []byte(content), 0600), "write configuration")
	return name, func() {
		os.RemoveAll(dir)
	}
}

func TestGetConfiguration(t *testing.T) {
	name, cleanup := writeConfiguration(t, testConfigurationFile)
	defer cleanup()

	options, err := getConfiguration(name, map[string]string{
		"network":  "Simulator",
		"node_url": "",
	})
	assert.Nil(t, err, "configuration")

	dir := filepath.Dir(name)
	assert.Equal(t, filepath.Clean(dir), options.DataDirectory, "data directory")
	assert.Equal(t, "simulator", options.Network, "network not normalised")
	assert.Equal(t, filepath.Join(dir, "data", "simulator.leveldb"), options.Database.Name, "database")
	assert.Equal(t, filepath.Join(dir, defaultSeedFile), options.SeedFile, "seed file")
	assert.Equal(t, filepath.Join(dir, "log"), options.Logging.Directory, "log directory")
	assert.Equal(t, defaultLogFile, options.Logging.File, "log file")
	assert.Equal(t, 2, options.Logging.Count, "log count")
	assert.Equal(t, 30*time.Second, options.refresh, "refresh")
	assert.Equal(t, 5*time.Minute, options.expiry, "default expiry")
	assert.True(t, options.simulated(), "simulator without url")

	info, err := os.Stat(options.Database.Directory)
	assert.Nil(t, err, "database directory not created")
	assert.True(t, info.IsDir(), "database directory")

	ids, err := options.launcherIDs()
	assert.Nil(t, err, "launcher ids")
	one, _ := sized.Bytes32FromHex(launcherOne)
	two, _ := sized.Bytes32FromHex(launcherTwo)
	assert.Equal(t, []sized.Bytes32{one, two}, ids, "duplicates not removed")
}

func TestGetConfigurationWithNode(t *testing.T) {
	name, cleanup := writeConfiguration(t, testConfigurationFile)
	defer cleanup()

	options, err := getConfiguration(name, map[string]string{
		"network":  "simulator",
		"node_url": "https://localhost:8555",
	})
	assert.Nil(t, err, "configuration")
	assert.False(t, options.simulated(), "url ignored")
	assert.Equal(t, defaultNodeTimeout, options.Node.Timeout, "default timeout")
}

func TestGetConfigurationErrors(t *testing.T) {
	items := []struct {
		content string
		message string
	}{
		{`return { data_directory = ".", network = "nonet" }`, "unknown network"},
		{`return { data_directory = "" }`, "blank data directory"},
		{`return { data_directory = ".", launchers = { "0x12" } }`, "short launcher"},
		{`return { data_directory = ".", refresh_interval = "often" }`, "bad interval"},
		{`return { data_directory = ".", refresh_interval = "0s" }`, "zero interval"},
		{`return { data_directory = ".", database = { name = "a/b.leveldb" } }`, "database path"},
		{`return { data_directory = ".", logging = { file = "x/y.log" } }`, "log path"},
		{`return "not a table"`, "not a table"},
	}

	for _, item := range items {
		name, cleanup := writeConfiguration(t, item.content)
		_, err := getConfiguration(name, nil)
		assert.NotNil(t, err, item.message)
		cleanup()
	}
}

func TestSeedFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "plotnftd-seed")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "seed")
	assert.Nil(t, makeSeedFile(name), "make seed")
	assert.NotNil(t, makeSeedFile(name), "existing seed replaced")

	first, err := readSeedFile(name)
	assert.Nil(t, err, "read seed")
	second, err := readSeedFile(name)
	assert.Nil(t, err, "read seed again")
	assert.Equal(t, first.PublicKey(), second.PublicKey(), "seed gives different keys")

	assert.Nil(t, ioutil.WriteFile(name, []byte("xyz\n"), 0600), "corrupt")
	_, err = readSeedFile(name)
	assert.NotNil(t, err, "corrupt seed accepted")
}
