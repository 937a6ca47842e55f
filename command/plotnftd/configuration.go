// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/configuration"
	"github.com/poolkeeper/plotnft/constants"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/sized"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultSeedFile = "plotnftd.seed"

	defaultLevelDBDirectory = "data"

	defaultLogDirectory = "log"
	defaultLogFile      = "plotnftd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultNodeTimeout = "30s"
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// SimulatorType - in-memory node used when no node url is given on
// the simulator network
type SimulatorType struct {
	Listen string `gluamapper:"listen" json:"listen"`
	Fund   uint64 `gluamapper:"fund" json:"fund"`
}

// Configuration - the daemon's configuration file
type Configuration struct {
	DataDirectory   string                 `gluamapper:"data_directory" json:"data_directory"`
	PidFile         string                 `gluamapper:"pidfile" json:"pidfile"`
	Network         string                 `gluamapper:"network" json:"network"`
	SeedFile        string                 `gluamapper:"seed_file" json:"seed_file"`
	Launchers       []string               `gluamapper:"launchers" json:"launchers"`
	RefreshInterval string                 `gluamapper:"refresh_interval" json:"refresh_interval"`
	CacheExpiry     string                 `gluamapper:"cache_expiry" json:"cache_expiry"`
	Database        DatabaseType           `gluamapper:"database" json:"database"`
	Node            fullnode.Configuration `gluamapper:"node" json:"node"`
	Simulator       SimulatorType          `gluamapper:"simulator" json:"simulator"`
	Logging         logger.Configuration   `gluamapper:"logging" json:"logging"`

	refresh time.Duration
	expiry  time.Duration
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	options := &Configuration{

		DataDirectory:   defaultDataDirectory,
		PidFile:         "", // no PidFile by default
		Network:         chain.Mainnet,
		SeedFile:        defaultSeedFile,
		RefreshInterval: constants.RefreshInterval.String(),
		CacheExpiry:     constants.PlotNftCacheExpiry.String(),

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      "", // from the network name
		},

		Node: fullnode.Configuration{
			Timeout: defaultNodeTimeout,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); nil != err {
		return nil, err
	}

	options.Network = strings.ToLower(options.Network)
	if !chain.Valid(options.Network) {
		return nil, errors.Errorf("network: %q is not supported", options.Network)
	}
	if "" == options.Database.Name {
		options.Database.Name = options.Network + ".leveldb"
	}

	if _, err := options.launcherIDs(); nil != err {
		return nil, err
	}

	options.refresh, err = time.ParseDuration(options.RefreshInterval)
	if nil != err {
		return nil, errors.Wrapf(err, "refresh_interval: %q", options.RefreshInterval)
	}
	if options.refresh <= 0 {
		return nil, errors.Errorf("refresh_interval: %q must be positive", options.RefreshInterval)
	}
	options.expiry, err = time.ParseDuration(options.CacheExpiry)
	if nil != err {
		return nil, errors.Wrapf(err, "cache_expiry: %q", options.CacheExpiry)
	}

	options.DataDirectory, err = configuration.DataDirectory(configurationFileName, options.DataDirectory)
	if nil != err {
		return nil, err
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.SeedFile,
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Node.CertificateFile,
		&options.Node.KeyFile,
		&options.Node.CAFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// fail if any of these are not simple file names, then add the
	// corresponding directory
	options.Database.Name, err = configuration.PlainName(options.Database.Directory, options.Database.Name)
	if nil != err {
		return nil, err
	}
	if _, err := configuration.PlainName(options.Logging.Directory, options.Logging.File); nil != err {
		return nil, err
	}

	return options, nil
}

// decoded launcher ids, duplicates removed
func (c *Configuration) launcherIDs() ([]sized.Bytes32, error) {
	seen := make(map[sized.Bytes32]struct{}, len(c.Launchers))
	ids := make([]sized.Bytes32, 0, len(c.Launchers))
	for _, s := range c.Launchers {
		id, err := sized.Bytes32FromHex(strings.TrimSpace(s))
		if nil != err {
			return nil, errors.Wrapf(err, "launcher: %q", s)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// use the in-memory node
func (c *Configuration) simulated() bool {
	return chain.Simulator == c.Network && "" == c.Node.URL
}
