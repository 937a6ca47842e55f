// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keychain

import (
	"context"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/constants"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// DefaultSearchBound - owner indices tried when no bound is configured
const DefaultSearchBound = constants.OwnerKeySearchBound

// Resolver - find owner keys by bounded search of the owner branch
type Resolver struct {
	sync.Mutex

	log    *logger.L
	master *bls.SecretKey
	bound  uint32

	// m/12381/8444/5, derived on first use
	branch *bls.SecretKey

	// keys already found
	found map[sized.Bytes48]foundKey
}

type foundKey struct {
	index uint32
	key   *bls.SecretKey
}

// NewResolver - zero bound selects the default
func NewResolver(log *logger.L, master *bls.SecretKey, bound uint32) *Resolver {
	if 0 == bound {
		bound = DefaultSearchBound
	}
	return &Resolver{
		log:    log,
		master: master,
		bound:  bound,
		found:  make(map[sized.Bytes48]foundKey),
	}
}

// Bound - number of indices searched
func (r *Resolver) Bound() uint32 {
	return r.bound
}

// FindOwnerKey - first owner key in [0, bound) whose public key is target
func (r *Resolver) FindOwnerKey(target sized.Bytes48) (*bls.SecretKey, error) {
	_, sk, err := r.search(context.Background(), target)
	return sk, err
}

// FindOwnerKeyIndex - as FindOwnerKey also returning the index
func (r *Resolver) FindOwnerKeyIndex(target sized.Bytes48) (uint32, *bls.SecretKey, error) {
	return r.search(context.Background(), target)
}

// SecretKeyFor - KeyLookup over the owner branch
func (r *Resolver) SecretKeyFor(ctx context.Context, pk sized.Bytes48) (*bls.SecretKey, error) {
	_, sk, err := r.search(ctx, pk)
	return sk, err
}

func (r *Resolver) search(ctx context.Context, target sized.Bytes48) (uint32, *bls.SecretKey, error) {
	r.Lock()
	defer r.Unlock()

	if f, ok := r.found[target]; ok {
		return f.index, f.key, nil
	}

	if nil == r.branch {
		branch, err := r.master.DerivePath([]uint32{purpose, coinType, OwnerBranch})
		if nil != err {
			return 0, nil, err
		}
		r.branch = branch
	}

	for i := uint32(0); i < r.bound; i += 1 {
		if err := ctx.Err(); nil != err {
			return 0, nil, err
		}
		sk, err := r.branch.DeriveChild(i)
		if nil != err {
			return 0, nil, err
		}
		if target == sk.PublicKey() {
			r.log.Debugf("owner key: %s found at index: %d", target, i)
			r.found[target] = foundKey{index: i, key: sk}
			return i, sk, nil
		}
	}

	r.log.Warnf("owner key: %s not within first: %d indices", target, r.bound)
	return 0, nil, errors.Wrapf(fault.ErrOwnerKeyNotFound, "bound: %d", r.bound)
}

// Known - a key found by an earlier search
func (r *Resolver) Known(pk sized.Bytes48) (*bls.SecretKey, bool) {
	r.Lock()
	defer r.Unlock()
	f, ok := r.found[pk]
	return f.key, ok
}
