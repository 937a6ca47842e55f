// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/sized"
)

// the parts of the wallet the monitor drives
type tracker interface {
	ResolvePlotNft(ctx context.Context, launcherID sized.Bytes32) (*pool.PlotNft, error)
	Sync(ctx context.Context) error
}

// keeps the watched launchers up to date
type monitor struct {
	sync.Mutex

	log       *logger.L
	wallet    tracker
	launchers []sized.Bytes32
	states    map[sized.Bytes32]pool.MembershipState
}

func newMonitor(log *logger.L, wallet tracker, launchers []sized.Bytes32) *monitor {
	m := &monitor{
		log:    log,
		wallet: wallet,
		states: make(map[sized.Bytes32]pool.MembershipState),
	}
	m.setLaunchers(launchers)
	return m
}

// replace the watched list
func (m *monitor) setLaunchers(launchers []sized.Bytes32) {
	m.Lock()
	defer m.Unlock()

	m.launchers = append([]sized.Bytes32(nil), launchers...)
	keep := make(map[sized.Bytes32]pool.MembershipState, len(launchers))
	for _, id := range m.launchers {
		if s, ok := m.states[id]; ok {
			keep[id] = s
		}
	}
	m.states = keep
	m.log.Infof("watching: %d launchers", len(m.launchers))
}

func (m *monitor) watched() []sized.Bytes32 {
	m.Lock()
	defer m.Unlock()
	return append([]sized.Bytes32(nil), m.launchers...)
}

// last state seen for a launcher
func (m *monitor) state(launcherID sized.Bytes32) (pool.MembershipState, bool) {
	m.Lock()
	defer m.Unlock()
	s, ok := m.states[launcherID]
	return s, ok
}

// resolve every watched launcher, reporting membership changes
func (m *monitor) refresh(args interface{}) {
	ctx := args.(context.Context)

	for _, id := range m.watched() {
		if nil != ctx.Err() {
			return
		}
		nft, err := m.wallet.ResolvePlotNft(ctx, id)
		if nil != err {
			if fault.IsErrNotFound(err) {
				m.log.Warnf("launcher: %s  error: %s", id, err)
			} else {
				m.log.Errorf("launcher: %s  error: %s", id, err)
			}
			continue
		}

		current := nft.PoolState.State
		m.Lock()
		previous, seen := m.states[id]
		m.states[id] = current
		m.Unlock()

		if seen && previous != current {
			m.log.Warnf("launcher: %s  changed: %s -> %s", id, previous, current)
		}
		if pool.LeavingPool == current {
			m.log.Infof("launcher: %s  leaving: %q  lock height: %d", id, nft.PoolState.PoolURL, nft.PoolState.RelativeLockHeight)
		}
	}
}

// rescan the wallet's coins
func (m *monitor) sync(args interface{}) {
	ctx := args.(context.Context)
	if err := m.wallet.Sync(ctx); nil != err && nil == ctx.Err() {
		m.log.Errorf("wallet sync error: %s", err)
	}
}
