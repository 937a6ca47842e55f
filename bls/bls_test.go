// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bls_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// EIP-2333 test case 0
const (
	eipSeed     = "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04"
	eipMaster   = "6083874454709270928345386274498605044986640685124978867557563392430687146096"
	eipChild0   = "20397789859736650942317412262472558107875392172444076792671091975210932703118"
	eipChildIdx = 0
)

func decimal(t *testing.T, sk *bls.SecretKey) string {
	return new(big.Int).SetBytes(sk.Bytes()).String()
}

func testKey(t *testing.T, fill byte) *bls.SecretKey {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = fill
	}
	sk, err := bls.KeyGen(seed)
	assert.Nil(t, err, "keygen")
	return sk
}

func TestKeyGenVector(t *testing.T) {
	seed, _ := hex.DecodeString(eipSeed)
	master, err := bls.KeyGen(seed)
	assert.Nil(t, err, "keygen")
	assert.Equal(t, eipMaster, decimal(t, master), "master key")

	child, err := master.DeriveChild(eipChildIdx)
	assert.Nil(t, err, "derive child")
	assert.Equal(t, eipChild0, decimal(t, child), "child key")
}

func TestKeyGenShortSeed(t *testing.T) {
	_, err := bls.KeyGen([]byte("too short"))
	assert.Equal(t, fault.ErrInvalidSecretKey, err, "short seed")
	assert.True(t, fault.IsErrInput(err), "short seed is an input error")
	assert.False(t, fault.IsErrInvalid(err), "short seed is not invalid data")
}

func TestSecretKeyBytes(t *testing.T) {
	sk := testKey(t, 1)
	b := sk.Bytes()
	assert.Equal(t, bls.SecretKeyLength, len(b), "length")

	sk2, err := bls.SecretKeyFromBytes(b)
	assert.Nil(t, err, "from bytes")
	assert.Equal(t, sk.PublicKey(), sk2.PublicKey(), "same public key")

	_, err = bls.SecretKeyFromBytes(b[1:])
	assert.Equal(t, fault.ErrInvalidSecretKey, err, "short")

	all := make([]byte, 32)
	for i := range all {
		all[i] = 0xff
	}
	_, err = bls.SecretKeyFromBytes(all)
	assert.Equal(t, fault.ErrInvalidSecretKey, err, "above group order")
	assert.True(t, fault.IsErrInput(err), "above group order is an input error")
}

func TestInvalidPublicKey(t *testing.T) {
	var pk sized.Bytes48
	err := bls.ValidatePublicKey(pk)
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "all zero public key")
	assert.True(t, fault.IsErrInput(err), "bad public key is an input error")

	// compressed point at infinity
	pk[0] = 0xc0
	err = bls.ValidatePublicKey(pk)
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "infinity public key")
	assert.True(t, fault.IsErrInput(err), "infinity is an input error")
}

func TestSignVerify(t *testing.T) {
	sk := testKey(t, 2)
	pk := sk.PublicKey()
	assert.Nil(t, bls.ValidatePublicKey(pk), "valid public key")

	message := []byte("travel")
	sig, err := sk.Sign(message)
	assert.Nil(t, err, "sign")
	assert.True(t, bls.Verify(pk, message, sig), "verify")
	assert.False(t, bls.Verify(pk, []byte("other"), sig), "wrong message")

	other := testKey(t, 3).PublicKey()
	assert.False(t, bls.Verify(other, message, sig), "wrong key")
}

func TestAggregate(t *testing.T) {
	sk1 := testKey(t, 4)
	sk2 := testKey(t, 5)
	m1 := []byte("singleton")
	m2 := []byte("fee")

	s1, err := sk1.Sign(m1)
	assert.Nil(t, err, "sign 1")
	s2, err := sk2.Sign(m2)
	assert.Nil(t, err, "sign 2")

	agg, err := bls.Aggregate(s1, s2)
	assert.Nil(t, err, "aggregate")

	pks := []sized.Bytes48{sk1.PublicKey(), sk2.PublicKey()}
	assert.True(t, bls.AggregateVerify(pks, [][]byte{m1, m2}, agg), "aggregate verify")
	assert.False(t, bls.AggregateVerify(pks, [][]byte{m2, m1}, agg), "swapped messages")
	assert.False(t, bls.AggregateVerify(pks[:1], [][]byte{m1}, agg), "missing signer")

	empty, err := bls.Aggregate()
	assert.Nil(t, err, "empty aggregate")
	assert.Equal(t, bls.InfinitySignature(), empty, "identity")
	assert.Equal(t, byte(0xc0), empty[0], "infinity flag")
	assert.True(t, bls.AggregateVerify(nil, nil, empty), "empty set")
}

func TestDerivation(t *testing.T) {
	master := testKey(t, 6)

	h1, err := master.DerivePath([]uint32{12381, 8444, 5, 0})
	assert.Nil(t, err, "hardened path")
	h2, err := master.DerivePath([]uint32{12381, 8444, 5, 0})
	assert.Nil(t, err, "hardened path again")
	assert.Equal(t, h1.PublicKey(), h2.PublicKey(), "deterministic")

	h3, err := master.DerivePath([]uint32{12381, 8444, 5, 1})
	assert.Nil(t, err, "next index")
	assert.NotEqual(t, h1.PublicKey(), h3.PublicKey(), "indices differ")

	u1 := master.DerivePathUnhardened([]uint32{12381, 8444, 5, 0})
	assert.NotEqual(t, h1.PublicKey(), u1.PublicKey(), "hardened differs from unhardened")
	assert.Equal(t, u1.PublicKey(), master.DerivePathUnhardened([]uint32{12381, 8444, 5, 0}).PublicKey(), "unhardened deterministic")
}
