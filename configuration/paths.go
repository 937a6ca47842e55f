// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// EnsureAbsolute - ensure the path is absolute
// if not, prepend the directory to make absolute path
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// DataDirectory - resolve the configured data directory
//
// "." selects the directory holding the configuration file, the
// result must already exist
func DataDirectory(configurationFileName string, directory string) (string, error) {
	if "" == directory || "~" == directory {
		return "", errors.Errorf("path: %q is not a valid directory", directory)
	}
	if "." == directory {
		directory, _ = filepath.Split(configurationFileName)
	}
	directory = filepath.Clean(directory)

	// this directory must exist - i.e. must be created prior to running
	fileInfo, err := os.Stat(directory)
	if nil != err {
		return "", err
	}
	if !fileInfo.IsDir() {
		return "", errors.Errorf("path: %q is not a directory", directory)
	}
	return directory, nil
}

// PlainName - fail unless name is a plain file name, then place it in
// directory
func PlainName(directory string, name string) (string, error) {
	switch filepath.Dir(name) {
	case "", ".":
		return EnsureAbsolute(directory, name), nil
	default:
		return "", errors.Errorf("files: %q is not plain name", name)
	}
}
