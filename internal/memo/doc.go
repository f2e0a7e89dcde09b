// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package memo provides a bounded memoization cache that sits in front of an
// expensive or side-effecting producer function.
//
// # Keys
//
// A call is identified by its Args: an ordered list of positional values and
// a set of named values. KeyOf turns Args into a canonical Key. Named values
// are sorted by name, so the order in which they were supplied never matters.
// Every value is encoded together with its dynamic type, so 1 and "1" map to
// different keys. Values are rendered in Go syntax, so two structs that share
// a String form but differ in a field are still different keys.
//
// # Eviction
//
// A Cache holds at most MaxEntries results. When an insertion pushes the
// count over that limit, exactly one entry is evicted, chosen by the Policy:
//
//   - PolicyFIFO (default) evicts the entry that has been resident longest.
//     Usage counters are never raised on hits.
//   - PolicyLFU raises an entry's usage counter on every hit and evicts the
//     entry with the lowest counter. Ties go to the earliest insertion. The
//     entry being inserted takes no part in the choice, so with MaxEntries 1
//     a new key always replaces the old one however often it was hit.
//   - PolicyLRU evicts the entry that was least recently inserted or hit.
//
// The value just produced is never the one evicted.
//
// # Concurrency
//
// A Cache is safe for concurrent use. Concurrent misses on the same key are
// coalesced so the producer runs once and every waiting caller receives its
// result. A producer that fails leaves no entry behind and its error is
// returned to the caller unchanged.
package memo
