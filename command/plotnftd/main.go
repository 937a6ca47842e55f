// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/poolkeeper/plotnft/background"
	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/chainsim"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/puzzle/structural"
	"github.com/poolkeeper/plotnft/storage"
	"github.com/poolkeeper/plotnft/wallet"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "define", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'D'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// variables made visible to the configuration file
	variables := make(map[string]string)
	for _, d := range options["define"] {
		kv := strings.SplitN(d, "=", 2)
		if 2 != len(kv) || "" == kv[0] {
			exitwithstatus.Message("%s: define: %q is not KEY=VALUE", program, d)
		}
		variables[kv[0]] = kv[1]
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, variables)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	parameters, err := chain.Get(theConfiguration.Network)
	if nil != err {
		log.Criticalf("network: %q error: %s", theConfiguration.Network, err)
		exitwithstatus.Message("network: %q error: %s", theConfiguration.Network, err)
	}

	// general info
	log.Infof("network: %s", parameters.Name)
	log.Infof("database: %q", theConfiguration.Database.Name)

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(log, arguments, theConfiguration) {
		return
	}

	master, err := readSeedFile(theConfiguration.SeedFile)
	if nil != err {
		log.Criticalf("seed file: %q error: %s", theConfiguration.SeedFile, err)
		exitwithstatus.Message("seed file: %q error: %s", theConfiguration.SeedFile, err)
	}

	driver := structural.New()

	// connect to a full node or run an in-memory one
	var node fullnode.Gateway
	var simulator *chainsim.Node
	if theConfiguration.simulated() {
		log.Warn("using the in-memory simulator node")
		simulator = chainsim.New(logger.New("chainsim"), driver, parameters)
		node = simulator
	} else {
		log.Infof("node: %q", theConfiguration.Node.URL)
		client, err := fullnode.New(logger.New("fullnode"), theConfiguration.Node)
		if nil != err {
			log.Criticalf("full node error: %s", err)
			exitwithstatus.Message("full node error: %s", err)
		}
		node = client
	}

	w, err := wallet.New(logger.New("wallet"), node, driver, parameters, master)
	if nil != err {
		log.Criticalf("wallet initialise error: %s", err)
		exitwithstatus.Message("wallet initialise error: %s", err)
	}
	w.SetRecorder(storage.Recorder{})
	w.SetCache(theConfiguration.expiry)

	if nil != simulator {
		if theConfiguration.Simulator.Fund > 0 {
			record := simulator.Farm(w.ChangePuzzleHash(), theConfiguration.Simulator.Fund)
			log.Infof("simulator funded: %s  amount: %d", record.Name(), record.Coin.Amount)
		}
		if "" != theConfiguration.Simulator.Listen {
			server := &http.Server{
				Addr:    theConfiguration.Simulator.Listen,
				Handler: simulator.Handler(),
			}
			go func() {
				log.Warnf("simulator listener on: %s", theConfiguration.Simulator.Listen)
				err := server.ListenAndServe()
				if http.ErrServerClosed != err {
					log.Criticalf("simulator listener error: %s", err)
				}
			}()
			defer server.Close()
		}
	}

	launchers, _ := theConfiguration.launcherIDs()
	m := newMonitor(logger.New("monitor"), w, launchers)

	watcher, err := newFileWatcher(logger.New("watcher"), configurationFile, func() {
		c, err := getConfiguration(configurationFile, variables)
		if nil != err {
			log.Errorf("configuration reload error: %s", err)
			return
		}
		ids, err := c.launcherIDs()
		if nil != err {
			log.Errorf("configuration reload error: %s", err)
			return
		}
		m.setLaunchers(ids)
	})
	if nil != err {
		log.Criticalf("watcher initialise error: %s", err)
		exitwithstatus.Message("watcher initialise error: %s", err)
	}

	processes := background.Processes{
		&background.Periodic{Interval: theConfiguration.refresh, Task: m.sync},
		&background.Periodic{Interval: theConfiguration.refresh, Task: m.refresh},
		watcher,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	register := background.Start(processes, ctx)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	cancel()
	register.Stop()
}
