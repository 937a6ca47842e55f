// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bls

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"github.com/poolkeeper/plotnft/fault"
)

// MinimumSeedLength - key generation needs at least this much entropy
const MinimumSeedLength = 32

const (
	keyGenSalt    = "BLS-SIG-KEYGEN-SALT-"
	okmLength     = 48
	lamportChunks = 255
)

// KeyGen - master secret key from a seed (EIP-2333 HKDF_mod_r)
func KeyGen(seed []byte) (*SecretKey, error) {
	if len(seed) < MinimumSeedLength {
		return nil, fault.ErrInvalidSecretKey
	}
	return hkdfModR(seed)
}

func hkdfModR(ikm []byte) (*SecretKey, error) {
	input := make([]byte, len(ikm)+1)
	copy(input, ikm)

	info := []byte{0, okmLength}
	salt := []byte(keyGenSalt)
	k := new(big.Int)
	for 0 == k.Sign() {
		s := sha256.Sum256(salt)
		salt = s[:]

		prk := hkdf.Extract(sha256.New, input, salt)
		okm := make([]byte, okmLength)
		if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, info), okm); nil != err {
			return nil, err
		}
		k.SetBytes(okm)
		k.Mod(k, groupOrder)
	}
	return &SecretKey{k: *k}, nil
}

// DeriveChild - hardened child key (EIP-2333 Lamport construction)
func (sk *SecretKey) DeriveChild(index uint32) (*SecretKey, error) {
	salt := make([]byte, 4)
	binary.BigEndian.PutUint32(salt, index)

	ikm := sk.Bytes()
	notIKM := make([]byte, len(ikm))
	for i, b := range ikm {
		notIKM[i] = ^b
	}

	lamportPK := sha256.New()
	for _, secret := range [][]byte{ikm, notIKM} {
		prk := hkdf.Extract(sha256.New, secret, salt)
		okm := make([]byte, lamportChunks*sha256.Size)
		if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, nil), okm); nil != err {
			return nil, err
		}
		for i := 0; i < lamportChunks; i += 1 {
			chunk := sha256.Sum256(okm[i*sha256.Size : (i+1)*sha256.Size])
			lamportPK.Write(chunk[:])
		}
	}
	return hkdfModR(lamportPK.Sum(nil))
}

// DeriveChildUnhardened - child = sk + sha256(pk || index) mod r
//
// the matching public key can be derived without the secret key
func (sk *SecretKey) DeriveChildUnhardened(index uint32) *SecretKey {
	pk := sk.PublicKey()
	buffer := make([]byte, len(pk)+4)
	copy(buffer, pk[:])
	binary.BigEndian.PutUint32(buffer[len(pk):], index)
	digest := sha256.Sum256(buffer)

	offset := new(big.Int).SetBytes(digest[:])
	return secretKeyFromInt(offset.Add(offset, &sk.k))
}

// DerivePath - apply DeriveChild for each index in turn
func (sk *SecretKey) DerivePath(path []uint32) (*SecretKey, error) {
	key := sk
	for _, index := range path {
		child, err := key.DeriveChild(index)
		if nil != err {
			return nil, err
		}
		key = child
	}
	return key, nil
}

// DerivePathUnhardened - apply DeriveChildUnhardened for each index in turn
func (sk *SecretKey) DerivePathUnhardened(path []uint32) *SecretKey {
	key := sk
	for _, index := range path {
		key = key.DeriveChildUnhardened(index)
	}
	return key
}
