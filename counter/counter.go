// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Counter - an atomic counter
type Counter uint64

// Increment - add one, returns the new value
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Decrement - subtract one, returns the new value
func (ic *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(ic), ^uint64(0))
}

// Uint64 - current value
func (ic *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(ic))
}

// IsZero - true if the counter is zero
func (ic *Counter) IsZero() bool {
	return 0 == ic.Uint64()
}

// Set - counters created on first use by name
type Set struct {
	sync.RWMutex
	counters map[string]*Counter
}

// Get - the counter for name
func (s *Set) Get(name string) *Counter {
	s.RLock()
	c, ok := s.counters[name]
	s.RUnlock()
	if ok {
		return c
	}

	s.Lock()
	defer s.Unlock()
	if nil == s.counters {
		s.counters = make(map[string]*Counter)
	}
	c, ok = s.counters[name]
	if !ok {
		c = new(Counter)
		s.counters[name] = c
	}
	return c
}

// Increment - add one to the named counter
func (s *Set) Increment(name string) uint64 {
	return s.Get(name).Increment()
}

// Total - sum of all counters
func (s *Set) Total() uint64 {
	s.RLock()
	defer s.RUnlock()
	total := uint64(0)
	for _, c := range s.counters {
		total += c.Uint64()
	}
	return total
}

// Names - sorted names of all counters
func (s *Set) Names() []string {
	s.RLock()
	defer s.RUnlock()
	names := make([]string, 0, len(s.counters))
	for name := range s.counters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot - current values by name
func (s *Set) Snapshot() map[string]uint64 {
	s.RLock()
	defer s.RUnlock()
	values := make(map[string]uint64, len(s.counters))
	for name, c := range s.counters {
		values[name] = c.Uint64()
	}
	return values
}
