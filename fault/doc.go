// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Errors are grouped into classes (not found, invalid data, invalid
// input, structural integrity, rejected submission, timeout, ...) and
// each class has an IsErrXXX predicate that also sees through errors
// wrapped with github.com/pkg/errors.
package fault
