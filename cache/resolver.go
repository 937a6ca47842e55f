// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"

	"github.com/poolkeeper/plotnft/counter"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/sized"
)

// Source - resolves a plot nft from the chain
type Source interface {
	Resolve(ctx context.Context, launcherID sized.Bytes32) (*pool.PlotNft, error)
}

// Resolver - a Source with an expiring memory of previous results
type Resolver struct {
	log    *logger.L
	node   fullnode.Gateway
	source Source
	items  *gocache.Cache

	hits   counter.Counter
	misses counter.Counter
}

// NewResolver - expiry of zero disables expiry
func NewResolver(log *logger.L, node fullnode.Gateway, source Source, expiry time.Duration) *Resolver {
	cleanup := 2 * expiry
	if expiry <= 0 {
		expiry = gocache.NoExpiration
		cleanup = 0
	}
	return &Resolver{
		log:    log,
		node:   node,
		source: source,
		items:  gocache.New(expiry, cleanup),
	}
}

// Resolve - cached plot nft if its singleton is still unspent
func (r *Resolver) Resolve(ctx context.Context, launcherID sized.Bytes32) (*pool.PlotNft, error) {
	key := launcherID.String()

	if obj, found := r.items.Get(key); found {
		cached := obj.(pool.PlotNft)
		record, err := r.node.GetCoinRecordByName(ctx, cached.SingletonCoin.Name())
		if nil != err {
			return nil, err
		}
		if nil != record && !record.Spent {
			r.hits.Increment()
			return &cached, nil
		}
		r.log.Debugf("launcher: %s  stale tip: %s", launcherID, cached.SingletonCoin.Name())
		r.items.Delete(key)
	}

	r.misses.Increment()
	nft, err := r.source.Resolve(ctx, launcherID)
	if nil != err {
		return nil, err
	}
	r.items.SetDefault(key, *nft)
	return nft, nil
}

// Invalidate - drop the entry of a launcher
func (r *Resolver) Invalidate(launcherID sized.Bytes32) {
	r.items.Delete(launcherID.String())
}

// Flush - drop everything
func (r *Resolver) Flush() {
	r.items.Flush()
}

// Size - number of cached entries, including expired ones not yet cleaned
func (r *Resolver) Size() int {
	return r.items.ItemCount()
}

// Hits - lookups answered from the cache
func (r *Resolver) Hits() uint64 {
	return r.hits.Uint64()
}

// Misses - lookups that walked the lineage
func (r *Resolver) Misses() uint64 {
	return r.misses.Uint64()
}
