// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package memo

import (
	"container/list"
	"fmt"
	"strings"
)

// Policy selects which entry is evicted when a Cache grows past its limit.
type Policy int

const (
	// PolicyFIFO evicts the earliest inserted entry.
	PolicyFIFO Policy = iota
	// PolicyLFU evicts the entry with the fewest hits, earliest insertion
	// first. The entry being inserted is never the victim.
	PolicyLFU
	// PolicyLRU evicts the least recently used entry.
	PolicyLRU
)

var policyNames = map[Policy]string{
	PolicyFIFO: "fifo",
	PolicyLFU:  "lfu",
	PolicyLRU:  "lru",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a policy name (case-insensitive) to its Policy.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// PolicyNames lists the accepted policy names in declaration order.
func PolicyNames() []string {
	return []string{
		policyNames[PolicyFIFO],
		policyNames[PolicyLFU],
		policyNames[PolicyLRU],
	}
}

func (p Policy) valid() bool {
	_, ok := policyNames[p]
	return ok
}

// countsHits reports whether a hit raises the entry's usage counter.
func (p Policy) countsHits() bool {
	return p == PolicyLFU
}

// victim picks the element to evict from order, never choosing keep. Front
// of order is the most recently used entry. Must be called with the cache
// lock held.
func (p Policy) victim(order *list.List, keep *list.Element) *list.Element {
	if p == PolicyLRU {
		for el := order.Back(); el != nil; el = el.Prev() {
			if el != keep {
				return el
			}
		}
		return nil
	}

	// Lowest counter wins, earliest insertion breaks ties.
	var victim *list.Element
	var vu, vs uint64
	for el := order.Front(); el != nil; el = el.Next() {
		if el == keep {
			continue
		}
		uses, seq := el.Value.(ranked).rank()
		if victim == nil || uses < vu || (uses == vu && seq < vs) {
			victim, vu, vs = el, uses, seq
		}
	}
	return victim
}

// ranked is implemented by cache entries so victim selection does not depend
// on the cached value type.
type ranked interface {
	rank() (uses uint64, seq uint64)
}
