// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sized_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

const launcherHex = "ccd5bb71183532bff220ba46c268991a3ff07eb358e8255a65c30a2dce0e5fbb"

func TestBytes32Text(t *testing.T) {
	for _, s := range []string{launcherHex, "0x" + launcherHex} {
		b, err := sized.Bytes32FromHex(s)
		assert.Nil(t, err, "decode: %s", s)
		assert.Equal(t, "0x"+launcherHex, b.String(), "string form")
	}

	_, err := sized.Bytes32FromHex("0x1234")
	assert.Equal(t, fault.ErrInvalidLength, err, "short value")

	_, err = sized.Bytes32FromHex("zz")
	assert.Equal(t, fault.ErrInvalidHexString, err, "bad hex")
}

func TestJSON(t *testing.T) {
	type holder struct {
		ID   sized.Bytes32 `json:"id"`
		Key  sized.Bytes48 `json:"key"`
		Data sized.Hex     `json:"data"`
	}

	input := fmt.Sprintf(`{"id":"%s","key":"0x%096x","data":"ff0180"}`, launcherHex, 7)
	var h holder
	err := json.Unmarshal([]byte(input), &h)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, byte(0xcc), h.ID[0], "id first byte")
	assert.Equal(t, byte(7), h.Key[47], "key last byte")
	assert.Equal(t, sized.Hex{0xff, 0x01, 0x80}, h.Data, "data")

	out, err := json.Marshal(h)
	assert.Nil(t, err, "marshal")
	assert.Contains(t, string(out), `"id":"0x`+launcherHex+`"`, "id output")
	assert.Contains(t, string(out), `"data":"0xff0180"`, "data output")
}

func TestHash(t *testing.T) {
	// sha256("abc")
	expected := "0xba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	assert.Equal(t, expected, sized.Hash([]byte("a"), []byte("bc")).String(), "split input")
	assert.Equal(t, expected, sized.Hash([]byte("abc")).String(), "single input")
}
