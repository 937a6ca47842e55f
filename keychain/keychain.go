// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keychain

import (
	"context"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// derivation path m/12381/8444/branch/index
const (
	purpose  = 12381
	coinType = 8444
)

// branches of the derivation tree
const (
	WalletBranch   = 2
	OwnerBranch    = 5
	PoolAuthBranch = 6
)

// KeyLookup - source of the secret key for a public key
type KeyLookup interface {
	SecretKeyFor(ctx context.Context, pk sized.Bytes48) (*bls.SecretKey, error)
}

// LookupFunc - adapt a function to KeyLookup
type LookupFunc func(ctx context.Context, pk sized.Bytes48) (*bls.SecretKey, error)

// SecretKeyFor - call the function
func (f LookupFunc) SecretKeyFor(ctx context.Context, pk sized.Bytes48) (*bls.SecretKey, error) {
	return f(ctx, pk)
}

// FixedKey - a single supplied key
type FixedKey struct {
	key *bls.SecretKey
	pk  sized.Bytes48
}

// NewFixedKey - lookup that only knows one key
func NewFixedKey(sk *bls.SecretKey) *FixedKey {
	return &FixedKey{
		key: sk,
		pk:  sk.PublicKey(),
	}
}

// SecretKeyFor - the key if it matches
func (k *FixedKey) SecretKeyFor(ctx context.Context, pk sized.Bytes48) (*bls.SecretKey, error) {
	if pk != k.pk {
		return nil, fault.ErrNoKeyForPublicKey
	}
	return k.key, nil
}

func path(branch uint32, index uint32) []uint32 {
	return []uint32{purpose, coinType, branch, index}
}

// OwnerKey - singleton owner key m/12381/8444/5/index
func OwnerKey(master *bls.SecretKey, index uint32) (*bls.SecretKey, error) {
	return master.DerivePath(path(OwnerBranch, index))
}

// WalletKey - hardened wallet key m/12381/8444/2/index
func WalletKey(master *bls.SecretKey, index uint32) (*bls.SecretKey, error) {
	return master.DerivePath(path(WalletBranch, index))
}

// WalletKeyUnhardened - unhardened wallet key m/12381/8444/2/index
func WalletKeyUnhardened(master *bls.SecretKey, index uint32) *bls.SecretKey {
	return master.DerivePathUnhardened(path(WalletBranch, index))
}

// PoolAuthKey - pool authentication key m/12381/8444/6/index
func PoolAuthKey(master *bls.SecretKey, index uint32) (*bls.SecretKey, error) {
	return master.DerivePath(path(PoolAuthBranch, index))
}
