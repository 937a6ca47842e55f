// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"
	"time"

	"github.com/poolkeeper/plotnft/background"
)

type heartbeat struct {
	beats int
}

func (h *heartbeat) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-shutdown:
			fmt.Printf("%v: stopped after %d beats\n", args, h.beats)
			return
		case <-ticker.C:
			h.beats += 1
		}
	}
}

func Example() {
	processes := background.Processes{
		&heartbeat{},
		&background.Periodic{
			Interval: time.Minute,
			Task: func(args interface{}) {
				fmt.Printf("%v: refresh\n", args)
			},
		},
	}

	p := background.Start(processes, "plotnftd")
	time.Sleep(50 * time.Millisecond)
	p.Stop()
}
