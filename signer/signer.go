// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"context"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/keychain"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/sized"
)

// Signer - turns coin spends into signed bundles
type Signer struct {
	log            *logger.L
	evaluator      puzzle.Evaluator
	additionalData sized.Bytes32
}

// New - signer for one network
func New(log *logger.L, evaluator puzzle.Evaluator, additionalData sized.Bytes32) *Signer {
	return &Signer{
		log:            log,
		evaluator:      evaluator,
		additionalData: additionalData,
	}
}

// Sign - bundle of a single spend
func (s *Signer) Sign(ctx context.Context, spend coin.CoinSpend, lookup keychain.KeyLookup) (*coin.SpendBundle, error) {
	return s.SignSpends(ctx, []coin.CoinSpend{spend}, lookup)
}

// SignSpends - one bundle with a signature for every AGG_SIG condition
func (s *Signer) SignSpends(ctx context.Context, spends []coin.CoinSpend, lookup keychain.KeyLookup) (*coin.SpendBundle, error) {
	signatures := make([]sized.Bytes96, 0, len(spends))
	for _, spend := range spends {
		targets, err := s.evaluator.RequiredSignatures(spend, s.additionalData)
		if nil != err {
			return nil, err
		}
		for _, target := range targets {
			sk, err := lookup.SecretKeyFor(ctx, target.PublicKey)
			if nil != err {
				return nil, errors.Wrapf(err, "coin: %s", spend.Coin.Name())
			}
			if sk.PublicKey() != target.PublicKey {
				return nil, errors.Wrapf(fault.ErrNoKeyForPublicKey, "lookup returned wrong key for: %s", target.PublicKey)
			}
			signature, err := sk.Sign(target.Message)
			if nil != err {
				return nil, err
			}
			signatures = append(signatures, signature)
		}
	}

	aggregated := bls.InfinitySignature()
	if 0 != len(signatures) {
		var err error
		aggregated, err = bls.Aggregate(signatures...)
		if nil != err {
			return nil, err
		}
	}

	bundle := &coin.SpendBundle{
		CoinSpends:          append([]coin.CoinSpend{}, spends...),
		AggregatedSignature: aggregated,
	}
	s.log.Debugf("signed bundle: %s  spends: %d  signatures: %d", bundle.Name(), len(spends), len(signatures))
	return bundle, nil
}

// Verify - the aggregated signature covers every spend of the bundle
func (s *Signer) Verify(bundle *coin.SpendBundle) error {
	pks := make([]sized.Bytes48, 0, len(bundle.CoinSpends))
	messages := make([][]byte, 0, len(bundle.CoinSpends))
	for _, spend := range bundle.CoinSpends {
		targets, err := s.evaluator.RequiredSignatures(spend, s.additionalData)
		if nil != err {
			return err
		}
		for _, target := range targets {
			pks = append(pks, target.PublicKey)
			messages = append(messages, target.Message)
		}
	}
	if !bls.AggregateVerify(pks, messages, bundle.AggregatedSignature) {
		return fault.ErrInvalidSignature
	}
	return nil
}

// Aggregate - concatenate spends and combine signatures
//
// the result must be submitted as one unit
func Aggregate(bundles ...*coin.SpendBundle) (*coin.SpendBundle, error) {
	result := &coin.SpendBundle{}
	signatures := make([]sized.Bytes96, 0, len(bundles))
	for _, b := range bundles {
		if nil == b {
			continue
		}
		result.CoinSpends = append(result.CoinSpends, b.CoinSpends...)
		signatures = append(signatures, b.AggregatedSignature)
	}
	if 0 == len(signatures) {
		result.AggregatedSignature = bls.InfinitySignature()
		return result, nil
	}
	aggregated, err := bls.Aggregate(signatures...)
	if nil != err {
		return nil, err
	}
	result.AggregatedSignature = aggregated
	return result, nil
}
