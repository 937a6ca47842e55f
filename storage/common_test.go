// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/storage"
)

const databaseFileName = "test.leveldb"

func removeFiles() {
	os.RemoveAll(databaseFileName)
}

func setup(t *testing.T) {
	removeFiles()
	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	storage.Finalise()
	removeFiles()
}

// raw elements in key order
func elements(pairs ...string) []storage.Element {
	output := make([]storage.Element, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		output = append(output, storage.Element{
			Key:   []byte(pairs[i]),
			Value: []byte(pairs[i+1]),
		})
	}
	return output
}

func fetchAll(t *testing.T, p *storage.PoolHandle) []storage.Element {
	data, err := p.NewFetchCursor().Fetch(1000)
	assert.Nil(t, err, "fetch")
	return data
}
