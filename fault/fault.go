// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"github.com/pkg/errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InputError GenericError
type IntegrityError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RejectedError GenericError
type TimeoutError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised       = ExistsError("already initialised")
	ErrTravelInProgress         = ExistsError("travel already in progress")
	ErrCannotTransition         = InputError("cannot transition to requested state")
	ErrInsufficientFunds        = InputError("insufficient funds")
	ErrInvalidPassword          = InputError("invalid password")
	ErrInvalidPublicKey         = InputError("invalid public key")
	ErrInvalidSecretKey         = InputError("invalid secret key")
	ErrLockHeightNotReached     = InputError("relative lock height not reached")
	ErrNoKeyForPublicKey        = InputError("no key for public key")
	ErrNotInitialised           = InputError("not initialised")
	ErrPasswordMismatch         = InputError("passwords do not match")
	ErrRequiredConnect          = InputError("connect is required")
	ErrRequiredLauncherID       = InputError("launcher id is required")
	ErrRequiredPoolURL          = InputError("pool url is required")
	ErrBundleRemovalMismatch    = IntegrityError("bundle removal does not match singleton")
	ErrInnerPuzzleUnchanged     = IntegrityError("new inner puzzle equals old inner puzzle")
	ErrMissingPriorAdditions    = IntegrityError("prior spend has no additions")
	ErrParentMismatch           = IntegrityError("travel spend parent does not match prior spend")
	ErrPuzzleHashMismatch       = IntegrityError("full puzzle hash does not match singleton coin")
	ErrSingletonIDMismatch      = IntegrityError("travel spend coin does not match prior singleton")
	ErrBadPoolStateVersion      = InvalidError("bad pool state version")
	ErrCannotDecodeExtraData    = InvalidError("cannot decode launcher extra data")
	ErrCannotDecodeState        = InvalidError("cannot decode pool state")
	ErrInvalidAddress           = InvalidError("invalid address")
	ErrInvalidCount             = InvalidError("invalid count")
	ErrInvalidCursor            = InvalidError("invalid cursor")
	ErrInvalidHexString         = InvalidError("invalid hex string")
	ErrInvalidLength            = InvalidError("invalid length")
	ErrInvalidMembershipState   = InvalidError("invalid membership state")
	ErrInvalidNetwork           = InvalidError("invalid network")
	ErrInvalidProgram           = InvalidError("invalid program")
	ErrInvalidPuzzle            = InvalidError("invalid puzzle")
	ErrInvalidSignature         = InvalidError("invalid signature")
	ErrInvalidSolution          = InvalidError("invalid solution")
	ErrLauncherNotSpent         = InvalidError("launcher coin is not spent")
	ErrMissingPoolState         = InvalidError("launcher spend has no pool state")
	ErrPoolURLTooLong           = InvalidError("pool url is too long")
	ErrProgramTooDeep           = InvalidError("program nesting is too deep")
	ErrTruncatedData            = InvalidError("truncated data")
	ErrUnexpectedTrailingData   = InvalidError("unexpected trailing data")
	ErrCoinNotFound             = NotFoundError("coin not found")
	ErrLauncherNotFound         = NotFoundError("launcher coin not found")
	ErrNoSingletonChild         = NotFoundError("no singleton child")
	ErrNoSingletonAddition      = NotFoundError("no singleton addition")
	ErrOwnerKeyNotFound         = NotFoundError("owner key not found")
	ErrPlotNftNotFound          = NotFoundError("plot nft not found")
	ErrSpendNotFound            = NotFoundError("coin spend not found")
	ErrTransactionNotFound      = NotFoundError("transaction not found")
	ErrDatabaseVersion          = ProcessError("incompatible database version")
	ErrNodeRequestFailed        = ProcessError("full node request failed")
	ErrNodeResponseUnsuccessful = ProcessError("full node response unsuccessful")
	ErrSubmissionFailed         = RejectedError("submission failed")
	ErrSubmissionPending        = RejectedError("submission pending")
	ErrConfirmationTimeout      = TimeoutError("confirmation timed out")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InputError) Error() string     { return string(e) }
func (e IntegrityError) Error() string { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RejectedError) Error() string  { return string(e) }
func (e TimeoutError) Error() string   { return string(e) }

// determine the class of an error
//
// wrapped errors are unwrapped to their cause first
func IsErrExists(e error) bool    { _, ok := errors.Cause(e).(ExistsError); return ok }
func IsErrInput(e error) bool     { _, ok := errors.Cause(e).(InputError); return ok }
func IsErrIntegrity(e error) bool { _, ok := errors.Cause(e).(IntegrityError); return ok }
func IsErrInvalid(e error) bool   { _, ok := errors.Cause(e).(InvalidError); return ok }
func IsErrNotFound(e error) bool  { _, ok := errors.Cause(e).(NotFoundError); return ok }
func IsErrProcess(e error) bool   { _, ok := errors.Cause(e).(ProcessError); return ok }
func IsErrRejected(e error) bool  { _, ok := errors.Cause(e).(RejectedError); return ok }
func IsErrTimeout(e error) bool   { _, ok := errors.Cause(e).(TimeoutError); return ok }
