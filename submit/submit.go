// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package submit

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/constants"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
)

// Confirmation - the singleton created by a confirmed travel
type Confirmation struct {
	Status    fullnode.TxStatus `json:"status"`
	Singleton coin.CoinRecord   `json:"singleton"`
	Parent    coin.CoinRecord   `json:"parent"`
	Attempts  int               `json:"attempts"`
}

// Monitor - pushes a bundle and waits for the new singleton
type Monitor struct {
	log  *logger.L
	node fullnode.Gateway

	Interval        time.Duration
	MaximumAttempts int
}

// New - monitor with the default polling schedule
func New(log *logger.L, node fullnode.Gateway) *Monitor {
	return &Monitor{
		log:             log,
		node:            node,
		Interval:        constants.ConfirmationInterval,
		MaximumAttempts: constants.ConfirmationAttempts,
	}
}

// SingletonAddition - the first addition carrying the singleton amount
func SingletonAddition(additions []coin.Coin) (coin.Coin, error) {
	for _, c := range additions {
		if coin.SingletonAmount == c.Amount {
			return c, nil
		}
	}
	return coin.Coin{}, fault.ErrNoSingletonAddition
}

// SubmitAndConfirm - push the bundle then poll until singleton exists
// on chain and its parent shows as spent
//
// additions are those of the bundle, the singleton is the first of
// them with the singleton amount
func (m *Monitor) SubmitAndConfirm(ctx context.Context, bundle *coin.SpendBundle, additions []coin.Coin) (*Confirmation, error) {
	singleton, err := SingletonAddition(additions)
	if nil != err {
		return nil, err
	}

	status, err := m.node.PushTx(ctx, bundle)
	if nil != err {
		return nil, err
	}

	name := bundle.Name()
	switch status {
	case fullnode.TxSuccess:
		m.log.Infof("bundle: %s  accepted  singleton: %s", name, singleton.Name())
	case fullnode.TxPending:
		m.log.Warnf("bundle: %s  pending", name)
		return nil, errors.Wrapf(fault.ErrSubmissionPending, "bundle: %s", name)
	default:
		m.log.Errorf("bundle: %s  status: %s", name, status)
		return nil, errors.Wrapf(fault.ErrSubmissionFailed, "bundle: %s  status: %s", name, status)
	}

	return m.waitFor(ctx, singleton, status)
}

// Confirm - poll for a singleton from an already accepted bundle
func (m *Monitor) Confirm(ctx context.Context, singleton coin.Coin) (*Confirmation, error) {
	return m.waitFor(ctx, singleton, fullnode.TxSuccess)
}

func (m *Monitor) waitFor(ctx context.Context, singleton coin.Coin, status fullnode.TxStatus) (*Confirmation, error) {
	id := singleton.Name()
	delay := time.NewTimer(0)
	defer delay.Stop()

	for attempt := 1; attempt <= m.MaximumAttempts; attempt += 1 {
		if err := ctx.Err(); nil != err {
			return nil, errors.Wrapf(fault.ErrConfirmationTimeout, "singleton: %s  %s", id, err)
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(fault.ErrConfirmationTimeout, "singleton: %s  %s", id, ctx.Err())
		case <-delay.C:
		}
		delay.Reset(m.Interval)

		record, parent, err := m.query(ctx, singleton)
		if nil != err {
			m.log.Warnf("singleton: %s  attempt: %d  query error: %s", id, attempt, err)
			continue
		}
		if nil == record || nil == parent || !parent.Spent {
			m.log.Debugf("singleton: %s  attempt: %d  not confirmed", id, attempt)
			continue
		}

		m.log.Infof("singleton: %s  confirmed at: %d  attempts: %d", id, record.ConfirmedBlockIndex, attempt)
		return &Confirmation{
			Status:    status,
			Singleton: *record,
			Parent:    *parent,
			Attempts:  attempt,
		}, nil
	}
	m.log.Errorf("singleton: %s  not confirmed after: %d attempts", id, m.MaximumAttempts)
	return nil, errors.Wrapf(fault.ErrConfirmationTimeout, "singleton: %s  attempts: %d", id, m.MaximumAttempts)
}

func (m *Monitor) query(ctx context.Context, singleton coin.Coin) (*coin.CoinRecord, *coin.CoinRecord, error) {
	record, err := m.node.GetCoinRecordByName(ctx, singleton.Name())
	if nil != err || nil == record {
		return nil, nil, err
	}
	parent, err := m.node.GetCoinRecordByName(ctx, singleton.ParentCoinInfo)
	if nil != err {
		return nil, nil, err
	}
	return record, parent, nil
}
