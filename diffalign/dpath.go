// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import (
	"sort"

	"github.com/grailbio/base/log"
)

// dpathRecord is one explored (distance, diagonal) pair.  (x1,y1) is where
// the path enters diagonal k and (x2,y2) where its snake ends.  preK is the
// diagonal of the d-1 record this one descends from.
type dpathRecord struct {
	d, k, preK     int32
	x1, y1, x2, y2 int32
}

// dpathStore is an append-only list of records.  Records are added in
// increasing (d, k) order, so lookups are binary searches.
type dpathStore struct {
	recs  []dpathRecord
	limit int
}

func (s *dpathStore) reset(limit int) {
	s.recs = s.recs[:0]
	s.limit = limit
}

// add appends r.  It returns false, and drops r, once the store is full.
func (s *dpathStore) add(r dpathRecord) bool {
	if len(s.recs) >= s.limit {
		return false
	}
	if n := len(s.recs); n > 0 {
		last := s.recs[n-1]
		if r.d < last.d || (r.d == last.d && r.k <= last.k) {
			log.Panicf("diffalign: d-path record (%d,%d) added after (%d,%d)", r.d, r.k, last.d, last.k)
		}
	}
	s.recs = append(s.recs, r)
	return true
}

// find returns the record for (d, k).
func (s *dpathStore) find(d, k int) (dpathRecord, bool) {
	d32, k32 := int32(d), int32(k)
	i := sort.Search(len(s.recs), func(i int) bool {
		r := &s.recs[i]
		return r.d > d32 || (r.d == d32 && r.k >= k32)
	})
	if i < len(s.recs) && s.recs[i].d == d32 && s.recs[i].k == k32 {
		return s.recs[i], true
	}
	return dpathRecord{}, false
}

func (s *dpathStore) len() int { return len(s.recs) }

type waypoint struct {
	x, y int
}
