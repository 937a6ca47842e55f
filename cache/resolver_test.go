// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/cache"
	"github.com/poolkeeper/plotnft/fixtures"
	"github.com/poolkeeper/plotnft/lineage"
	"github.com/poolkeeper/plotnft/pool"
)

func newResolver(c *fixtures.Chain, expiry time.Duration) *cache.Resolver {
	log := logger.New(fixtures.LogCategory)
	return cache.NewResolver(log, c.Node, lineage.New(log, c.Node, c.Driver), expiry)
}

func TestCachedResolution(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	owner := fixtures.Key("owner")
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(owner))
	assert.Nil(t, err, "launch")

	r := newResolver(c, time.Minute)
	ctx := context.Background()

	first, err := r.Resolve(ctx, l.LauncherID())
	assert.Nil(t, err, "first resolve")
	assert.Equal(t, uint64(0), r.Hits(), "hits after first")
	assert.Equal(t, uint64(1), r.Misses(), "misses after first")
	assert.Equal(t, 1, r.Size(), "size")

	before := c.Node.Queries()
	second, err := r.Resolve(ctx, l.LauncherID())
	assert.Nil(t, err, "second resolve")
	assert.Equal(t, first, second, "cached value differs")
	assert.Equal(t, uint64(1), r.Hits(), "hits after second")
	assert.Equal(t, uint64(1), c.Node.Queries()-before, "a hit costs one query")
}

func TestStaleEntryIsReplaced(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	owner := fixtures.Key("owner")
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(owner))
	assert.Nil(t, err, "launch")

	r := newResolver(c, time.Minute)
	ctx := context.Background()

	_, err = r.Resolve(ctx, l.LauncherID())
	assert.Nil(t, err, "first resolve")

	assert.Nil(t, c.Travel(l, owner, fixtures.FarmingTo(l.State, "https://one.example.com", 10)), "join")

	nft, err := r.Resolve(ctx, l.LauncherID())
	assert.Nil(t, err, "resolve after travel")
	assert.Equal(t, pool.FarmingToPool, nft.PoolState.State, "stale state returned")
	assert.Equal(t, uint64(2), r.Misses(), "stale entry counted as hit")
	assert.Equal(t, uint64(0), r.Hits(), "hits")
}

func TestInvalidateAndFlush(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	wallet := fixtures.Key("wallet")
	owner := fixtures.Key("owner")
	one, err := c.Launch(wallet, c.SelfPooling(owner))
	assert.Nil(t, err, "launch one")
	two, err := c.Launch(wallet, c.SelfPooling(owner))
	assert.Nil(t, err, "launch two")

	r := newResolver(c, 0)
	ctx := context.Background()
	_, err = r.Resolve(ctx, one.LauncherID())
	assert.Nil(t, err, "resolve one")
	_, err = r.Resolve(ctx, two.LauncherID())
	assert.Nil(t, err, "resolve two")
	assert.Equal(t, 2, r.Size(), "size")

	r.Invalidate(one.LauncherID())
	assert.Equal(t, 1, r.Size(), "size after invalidate")

	_, err = r.Resolve(ctx, one.LauncherID())
	assert.Nil(t, err, "resolve again")
	assert.Equal(t, uint64(3), r.Misses(), "invalidated entry not walked again")

	r.Flush()
	assert.Equal(t, 0, r.Size(), "size after flush")
}

func TestExpiry(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(fixtures.Key("owner")))
	assert.Nil(t, err, "launch")

	r := newResolver(c, 20*time.Millisecond)
	ctx := context.Background()
	_, err = r.Resolve(ctx, l.LauncherID())
	assert.Nil(t, err, "first resolve")

	time.Sleep(50 * time.Millisecond)

	_, err = r.Resolve(ctx, l.LauncherID())
	assert.Nil(t, err, "resolve after expiry")
	assert.Equal(t, uint64(2), r.Misses(), "expired entry used")
}

func TestResolveErrorIsNotCached(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	launcherID, err := c.LaunchUnspent(fixtures.Key("wallet"))
	assert.Nil(t, err, "unspent launcher")

	r := newResolver(c, time.Minute)
	_, err = r.Resolve(context.Background(), launcherID)
	assert.NotNil(t, err, "unspent launcher resolved")
	assert.Equal(t, 0, r.Size(), "error cached")
}
