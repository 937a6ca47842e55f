// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bls

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// domain separation tag of the augmented scheme
var augSchemeDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_AUG_")

// SecretKeyLength - bytes in a serialised secret key
const SecretKeyLength = 32

var (
	groupOrder  = fr.Modulus()
	g1Generator bls12381.G1Affine
)

func init() {
	_, _, g1Generator, _ = bls12381.Generators()
}

// SecretKey - a scalar modulo the group order
type SecretKey struct {
	k big.Int
}

// SecretKeyFromBytes - 32 byte big endian scalar, must be below the group order
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	if SecretKeyLength != len(b) {
		return nil, fault.ErrInvalidSecretKey
	}
	sk := &SecretKey{}
	sk.k.SetBytes(b)
	if sk.k.Cmp(groupOrder) >= 0 {
		return nil, fault.ErrInvalidSecretKey
	}
	return sk, nil
}

func secretKeyFromInt(k *big.Int) *SecretKey {
	sk := &SecretKey{}
	sk.k.Mod(k, groupOrder)
	return sk
}

// Bytes - 32 byte big endian form
func (sk *SecretKey) Bytes() []byte {
	b := make([]byte, SecretKeyLength)
	return sk.k.FillBytes(b)
}

// PublicKey - the G1 point sk·G
func (sk *SecretKey) PublicKey() sized.Bytes48 {
	var p bls12381.G1Affine
	p.ScalarMultiplication(&g1Generator, &sk.k)
	return sized.Bytes48(p.Bytes())
}

// Sign - augmented scheme signature: sk·H(pk || message)
func (sk *SecretKey) Sign(message []byte) (sized.Bytes96, error) {
	pk := sk.PublicKey()
	h, err := bls12381.HashToG2(augment(pk, message), augSchemeDST)
	if nil != err {
		return sized.Bytes96{}, err
	}
	var sig bls12381.G2Affine
	sig.ScalarMultiplication(&h, &sk.k)
	return sized.Bytes96(sig.Bytes()), nil
}

func augment(pk sized.Bytes48, message []byte) []byte {
	m := make([]byte, 0, len(pk)+len(message))
	m = append(m, pk[:]...)
	return append(m, message...)
}

// ValidatePublicKey - check that bytes are a compressed point in the group
func ValidatePublicKey(pk sized.Bytes48) error {
	_, err := publicKeyPoint(pk)
	return err
}

func publicKeyPoint(pk sized.Bytes48) (*bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if _, err := p.SetBytes(pk[:]); nil != err {
		return nil, fault.ErrInvalidPublicKey
	}
	if p.IsInfinity() {
		return nil, fault.ErrInvalidPublicKey
	}
	return &p, nil
}

func signaturePoint(sig sized.Bytes96) (*bls12381.G2Affine, error) {
	var p bls12381.G2Affine
	if _, err := p.SetBytes(sig[:]); nil != err {
		return nil, fault.ErrInvalidSignature
	}
	return &p, nil
}

// InfinitySignature - the identity element, signature of an empty set
func InfinitySignature() sized.Bytes96 {
	var p bls12381.G2Affine
	return sized.Bytes96(p.Bytes())
}

// Aggregate - sum of signatures
func Aggregate(signatures ...sized.Bytes96) (sized.Bytes96, error) {
	var sum bls12381.G2Jac
	sum.FromAffine(&bls12381.G2Affine{})
	for _, s := range signatures {
		p, err := signaturePoint(s)
		if nil != err {
			return sized.Bytes96{}, err
		}
		sum.AddMixed(p)
	}
	var result bls12381.G2Affine
	result.FromJacobian(&sum)
	return sized.Bytes96(result.Bytes()), nil
}

// Verify - single augmented signature
func Verify(pk sized.Bytes48, message []byte, sig sized.Bytes96) bool {
	return AggregateVerify([]sized.Bytes48{pk}, [][]byte{message}, sig)
}

// AggregateVerify - check one aggregated signature over (pk, message) pairs
//
// e(pk_1, H(pk_1||m_1)) · … · e(-G, sig) == 1
func AggregateVerify(pks []sized.Bytes48, messages [][]byte, sig sized.Bytes96) bool {
	if len(pks) != len(messages) {
		return false
	}
	s, err := signaturePoint(sig)
	if nil != err {
		return false
	}

	if 0 == len(pks) {
		return s.IsInfinity()
	}

	g1 := make([]bls12381.G1Affine, 0, len(pks)+1)
	g2 := make([]bls12381.G2Affine, 0, len(pks)+1)
	for i, pk := range pks {
		p, err := publicKeyPoint(pk)
		if nil != err {
			return false
		}
		h, err := bls12381.HashToG2(augment(pk, messages[i]), augSchemeDST)
		if nil != err {
			return false
		}
		g1 = append(g1, *p)
		g2 = append(g2, h)
	}

	var negG1 bls12381.G1Affine
	negG1.Neg(&g1Generator)
	g1 = append(g1, negG1)
	g2 = append(g2, *s)

	ok, err := bls12381.PairingCheck(g1, g2)
	return nil == err && ok
}
