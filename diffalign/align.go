// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/longread/dnaseq"
)

// Align computes an alignment of query and target that passes through
// anchor, extending as far as the sequences agree in both directions.  It
// returns false if no alignment meets the thresholds in p.  On success the
// aligned strings in the Result alias session buffers.
func (s *Session) Align(query, target dnaseq.Seq, anchor Anchor, p Params) (Result, bool) {
	if anchor.QOff < 0 || anchor.QOff >= query.Len() || anchor.TOff < 0 || anchor.TOff >= target.Len() {
		return Result{}, false
	}
	s.reset(query, target, anchor)
	s.extendChunks(dnaseq.Backward)
	s.check("left extension")

	// The right end of the left extension sits at the unverified anchor.
	// Cut it back to a confirmed exact run before extending right from
	// there.  With no such run, start over from the anchor and verify the
	// left end afterwards instead.
	leftSafe := true
	if !s.trimRight() {
		s.reset(query, target, anchor)
		leftSafe = false
	}
	s.extendChunks(dnaseq.Forward)
	if !leftSafe && !s.trimLeft() {
		return Result{}, false
	}
	s.check("right extension")

	r := s.result()
	if r.Len() == 0 || r.Identity < p.MinIdentity-s.opts.IdentitySlack {
		return Result{}, false
	}
	if p.Finish {
		right := s.finish(dnaseq.Forward)
		left := s.finish(dnaseq.Backward)
		s.check("finish")
		if right || left {
			r = s.result()
		}
	}
	if log.At(log.Debug) {
		log.Debug.Printf("diffalign: anchor (%d,%d): %v", anchor.QOff, anchor.TOff, r)
	}
	if r.Len() < p.MinLength || r.Identity < p.MinIdentity {
		return Result{}, false
	}
	if s.opts.CheckInvariants {
		if err := ValidateResult(r, query, target); err != nil {
			log.Panicf("diffalign: result for anchor (%d,%d): %v", anchor.QOff, anchor.TOff, err)
		}
	}
	return r, true
}
