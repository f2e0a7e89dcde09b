// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package memo

// Stats is a point-in-time view of a Cache's counters.
type Stats struct {
	Hits      uint64 `json:"hits" yaml:"hits"`
	Misses    uint64 `json:"misses" yaml:"misses"`
	Coalesced uint64 `json:"coalesced" yaml:"coalesced"`
	Failures  uint64 `json:"failures" yaml:"failures"`
	Evictions uint64 `json:"evictions" yaml:"evictions"`
	Entries   int    `json:"entries" yaml:"entries"`
}

// Requests is the number of Call invocations that completed.
func (s Stats) Requests() uint64 {
	return s.Hits + s.Misses + s.Coalesced
}

// HitRate is the fraction of requests served without running the producer.
// Coalesced requests count as served.
func (s Stats) HitRate() float64 {
	total := s.Requests()
	if total == 0 {
		return 0
	}
	return float64(s.Hits+s.Coalesced) / float64(total)
}
