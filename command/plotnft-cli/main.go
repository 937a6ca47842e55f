// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/command/plotnft-cli/configuration"
)

type metadata struct {
	file       string
	config     *configuration.Configuration
	parameters *chain.Parameters
	save       bool
	verbose    bool
	e          io.Writer
	w          io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "plotnft-cli"
	app.Usage = "inspect and move plot nfts between pools"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "network, n",
			Value: chain.Mainnet,
			Usage: " use `NETWORK` [mainnet|testnet11|simulator]",
		},
		cli.StringFlag{
			Name:  "password, p",
			Value: "",
			Usage: " wallet `PASSWORD`",
		},
		cli.StringFlag{
			Name:   "config, c",
			Value:  "",
			Usage:  " configuration `FILE` instead of the default",
			EnvVar: "PLOTNFT_CLI_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "setup",
			Usage:     "initialise plotnft-cli configuration",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "node, u",
					Value: "",
					Usage: "*full node rpc `URL`",
				},
				cli.StringFlag{
					Name:  "certificate",
					Value: "",
					Usage: " client certificate `FILE`",
				},
				cli.StringFlag{
					Name:  "key",
					Value: "",
					Usage: " client key `FILE`",
				},
				cli.StringFlag{
					Name:  "ca",
					Value: "",
					Usage: " certificate authority `FILE`",
				},
				cli.StringFlag{
					Name:  "timeout",
					Value: "30s",
					Usage: " rpc `DURATION`",
				},
				cli.StringFlag{
					Name:  "seed, s",
					Value: "",
					Usage: " existing master seed `HEX` (default: new random seed)",
				},
				cli.Uint64Flag{
					Name:  "fee, f",
					Value: 0,
					Usage: " default transaction fee `MOJOS`",
				},
			},
			Action: runSetup,
		},
		{
			Name:      "show",
			Usage:     "show the current state of plot nfts",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "launcher, l",
					Value: "",
					Usage: " launcher `ID` (default: every plot nft of the wallet)",
				},
			},
			Action: runShow,
		},
		{
			Name:      "scrounge",
			Usage:     "search the wallet keys for plot nfts",
			ArgsUsage: " ",
			Flags:     []cli.Flag{},
			Action:    runScrounge,
		},
		{
			Name:      "join",
			Usage:     "farm a plot nft to a pool",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "launcher, l",
					Value: "",
					Usage: "*launcher `ID`",
				},
				cli.StringFlag{
					Name:  "pool-url, u",
					Value: "",
					Usage: "*pool `URL`",
				},
				cli.StringFlag{
					Name:  "target, t",
					Value: "",
					Usage: "*pool reward `ADDRESS` or puzzle hash",
				},
				cli.UintFlag{
					Name:  "lock-height, r",
					Value: 100,
					Usage: " relative lock height `BLOCKS`",
				},
				cli.StringFlag{
					Name:  "fee, f",
					Value: "",
					Usage: " transaction fee `MOJOS` (default: from configuration)",
				},
			},
			Action: runJoin,
		},
		{
			Name:      "leave",
			Usage:     "leave the pool and return to self pooling",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "launcher, l",
					Value: "",
					Usage: "*launcher `ID`",
				},
				cli.StringFlag{
					Name:  "fee, f",
					Value: "",
					Usage: " transaction fee `MOJOS` (default: from configuration)",
				},
			},
			Action: runLeave,
		},
		{
			Name:      "owner-key",
			Usage:     "find the wallet key that owns a plot nft",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "launcher, l",
					Value: "",
					Usage: "*launcher `ID`",
				},
			},
			Action: runOwnerKey,
		},
		{
			Name:      "status",
			Usage:     "full node and wallet status",
			ArgsUsage: " ",
			Flags:     []cli.Flag{},
			Action:    runStatus,
		},
		{
			Name:      "address",
			Usage:     "wallet receive address, or convert between address and puzzle hash",
			ArgsUsage: "\n   (+ = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "puzzle-hash, x",
					Value: "",
					Usage: "+encode puzzle `HASH` as an address",
				},
				cli.StringFlag{
					Name:  "decode, d",
					Value: "",
					Usage: "+decode `ADDRESS` to a puzzle hash",
				},
			},
			Action: runAddress,
		},
		{
			Name:      "version",
			Usage:     "display plotnft-cli version",
			ArgsUsage: " ",
			Action:    runVersion,
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		if "" == command || "version" == command || "help" == command || "h" == command {
			return nil
		}

		network := c.GlobalString("network")
		parameters, err := chain.Get(network)
		if nil != err {
			return fmt.Errorf("network: %q can only be mainnet/testnet11/simulator", network)
		}

		file := c.GlobalString("config")
		if "" == file {
			p := os.Getenv("XDG_CONFIG_HOME")
			if "" == p {
				return fmt.Errorf("XDG_CONFIG_HOME environment is not set")
			}
			dir, err := checkFileExists(p)
			if nil != err {
				return err
			}
			if !dir {
				return fmt.Errorf("not a directory: %q", p)
			}
			file = path.Join(p, app.Name, network+"-"+app.Name+".json")
		}

		if verbose {
			fmt.Fprintf(e, "file: %q\n", file)
		}

		m := &metadata{
			file:       file,
			parameters: parameters,
			save:       false,
			verbose:    verbose,
			e:          e,
			w:          w,
		}

		if "setup" == command {
			// do not run setup if there is an existing configuration
			if _, err := checkFileExists(file); nil == err {
				return fmt.Errorf("not overwriting existing configuration: %q", file)
			}

		} else {

			if verbose {
				fmt.Fprintf(e, "reading config file: %s\n", file)
			}

			config, err := configuration.Load(file)
			if nil != err {
				return err
			}
			if config.Network != parameters.Name {
				return fmt.Errorf("configuration: %q is for network: %q", file, config.Network)
			}
			m.config = config
		}

		c.App.Metadata["config"] = m

		return initialiseLogger(path.Dir(file), verbose)
	}

	// update the configuration if required
	app.After = func(c *cli.Context) error {
		e := c.App.ErrWriter
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		defer logger.Finalise()
		if m.save {
			if c.GlobalBool("verbose") {
				fmt.Fprintf(e, "updating config file: %s\n", m.file)
			}
			err := configuration.Save(m.file, m.config)
			if nil != err {
				return err
			}
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// log next to the configuration file, to the console as well when verbose
func initialiseLogger(dir string, verbose bool) error {
	logDirectory := path.Join(dir, "log")
	if err := os.MkdirAll(logDirectory, 0o750); nil != err {
		return err
	}

	level := "warn"
	if verbose {
		level = "info"
	}
	return logger.Initialise(logger.Configuration{
		Directory: logDirectory,
		File:      "plotnft-cli.log",
		Size:      1024 * 1024,
		Count:     10,
		Console:   verbose,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
