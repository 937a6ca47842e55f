// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/fault"
)

var (
	ErrExistsOne    = fault.ExistsError("exists one ")
	ErrExistsTwo    = fault.ExistsError("exists two")
	ErrInputOne     = fault.InputError("input one")
	ErrIntegrityOne = fault.IntegrityError("integrity one")
	ErrInvalidOne   = fault.InvalidError("invalid one")
	ErrInvalidTwo   = fault.InvalidError("invalid two")
	ErrNotFoundOne  = fault.NotFoundError("not found one")
	ErrNotFoundTwo  = fault.NotFoundError("not found two")
	ErrProcessOne   = fault.ProcessError("process one")
	ErrRejectedOne  = fault.RejectedError("rejected one")
	ErrTimeoutOne   = fault.TimeoutError("timeout one")
)

// test that the various errors can be subclassed
func TestClasses(t *testing.T) {
	errorList := []struct {
		err       error
		exists    bool
		input     bool
		integrity bool
		invalid   bool
		notFound  bool
		process   bool
		rejected  bool
		timeout   bool
	}{
		{ErrExistsOne, true, false, false, false, false, false, false, false},
		{ErrExistsTwo, true, false, false, false, false, false, false, false},
		{ErrInputOne, false, true, false, false, false, false, false, false},
		{ErrIntegrityOne, false, false, true, false, false, false, false, false},
		{ErrInvalidOne, false, false, false, true, false, false, false, false},
		{ErrInvalidTwo, false, false, false, true, false, false, false, false},
		{ErrNotFoundOne, false, false, false, false, true, false, false, false},
		{ErrNotFoundTwo, false, false, false, false, true, false, false, false},
		{ErrProcessOne, false, false, false, false, false, true, false, false},
		{ErrRejectedOne, false, false, false, false, false, false, true, false},
		{ErrTimeoutOne, false, false, false, false, false, false, false, true},

		// wrapping keeps the class
		{errors.Wrap(ErrNotFoundOne, "context"), false, false, false, false, true, false, false, false},
		{errors.Wrapf(errors.Wrap(ErrIntegrityOne, "inner"), "outer: %d", 1), false, false, true, false, false, false, false, false},

		// plain errors belong to no class
		{errors.New("plain"), false, false, false, false, false, false, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInput(err) != e.input {
			t.Errorf("%d: expected 'input' == %v for err = %v", i, e.input, err)
		}
		if fault.IsErrIntegrity(err) != e.integrity {
			t.Errorf("%d: expected 'integrity' == %v for err = %v", i, e.integrity, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrRejected(err) != e.rejected {
			t.Errorf("%d: expected 'rejected' == %v for err = %v", i, e.rejected, err)
		}
		if fault.IsErrTimeout(err) != e.timeout {
			t.Errorf("%d: expected 'timeout' == %v for err = %v", i, e.timeout, err)
		}
	}
}
