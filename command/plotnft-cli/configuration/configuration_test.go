// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
)

func TestEncryptDecrypt(t *testing.T) {

	plainText := "The Quick Brown Fox Jumps Over The Lazy Dog"

	passwords := []string{"test", "123", "444", "m,erRGhtk%$33ug62sd al/fajfb.adv"}

	for _, password := range passwords {
		salt, key, err := hashPassword(password)
		assert.Nil(t, err, "hash password")

		encrypted, err := encryptData(plainText, key)
		assert.Nil(t, err, "encrypt")

		again, err := encryptData(plainText, key)
		assert.Nil(t, err, "encrypt again")
		assert.NotEqual(t, encrypted, again, "nonce reused")

		key2, err := generateKey(password, salt)
		assert.Nil(t, err, "generate key")

		decrypted, err := decryptData(encrypted, key2)
		assert.Nil(t, err, "decrypt")
		assert.Equal(t, plainText, decrypted, "plain text")

		wrong, err := generateKey(password+"x", salt)
		assert.Nil(t, err, "generate wrong key")
		_, err = decryptData(encrypted, wrong)
		assert.Equal(t, fault.ErrInvalidPassword, err, "wrong password decrypted")
	}
}

func TestEncryptLimits(t *testing.T) {
	_, key, err := hashPassword("password")
	assert.Nil(t, err, "hash password")

	_, err = encryptData("short", key)
	assert.Equal(t, fault.ErrInvalidLength, err, "short data")

	_, err = decryptData("00", key)
	assert.Equal(t, fault.ErrTruncatedData, err, "short ciphertext")

	_, err = decryptData("not hex", key)
	assert.NotNil(t, err, "bad hex")
}

func TestSalt(t *testing.T) {
	salt, err := MakeSalt()
	assert.Nil(t, err, "make salt")

	text, err := salt.MarshalText()
	assert.Nil(t, err, "marshal")
	assert.Equal(t, salt.String(), string(text), "text")

	salt2 := new(Salt)
	assert.Nil(t, salt2.UnmarshalText(text), "unmarshal")
	assert.Equal(t, *salt, *salt2, "round trip")

	assert.Equal(t, fault.ErrInvalidLength, salt2.UnmarshalText([]byte("0102")), "short salt")
}

func TestSeedAndSave(t *testing.T) {
	dir, err := ioutil.TempDir("", "plotnft-cli")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	_, err = New("nonet")
	assert.Equal(t, fault.ErrInvalidNetwork, errors.Cause(err), "bad network accepted")

	config, err := New("simulator")
	assert.Nil(t, err, "new")
	config.Node = fullnode.Configuration{URL: "http://localhost:8555", Timeout: "10s"}
	config.Fee = 5

	_, err = config.Master("password")
	assert.Equal(t, fault.ErrNotInitialised, err, "master before seed")

	seed := []byte("0123456789abcdef0123456789abcdef")
	assert.Nil(t, config.SetSeed(seed, "password"), "set seed")
	assert.Equal(t, fault.ErrAlreadyInitialised, config.SetSeed(seed, "password"), "seed replaced")

	name := filepath.Join(dir, "simulator-plotnft-cli.json")
	assert.Nil(t, Save(name, config), "first save")
	assert.Nil(t, Save(name, config), "second save")
	_, err = os.Stat(name + ".bk")
	assert.Nil(t, err, "no backup")

	loaded, err := Load(name)
	assert.Nil(t, err, "load")
	assert.Equal(t, config, loaded, "loaded")

	master, err := loaded.Master("password")
	assert.Nil(t, err, "master")
	assert.Equal(t, config.Wallet.Fingerprint, master.PublicKey(), "fingerprint")

	_, err = loaded.Master("wrong")
	assert.Equal(t, fault.ErrInvalidPassword, err, "wrong password")
}
