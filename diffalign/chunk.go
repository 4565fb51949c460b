// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/longread/dnaseq"
)

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// views returns the unaligned remainders of the query and target beyond the
// committed alignment in direction dir.
func (s *Session) views(dir dnaseq.Direction) (q, t dnaseq.View) {
	if dir == dnaseq.Forward {
		return dnaseq.NewView(s.q, s.qend, dnaseq.Forward), dnaseq.NewView(s.t, s.tend, dnaseq.Forward)
	}
	return dnaseq.NewView(s.q, s.qoff, dnaseq.Backward), dnaseq.NewView(s.t, s.toff, dnaseq.Backward)
}

// lastExactRun returns the start of the MatchRun exact columns closest to the
// end of the aligned strings, or -1.
func lastExactRun(qAln, tAln []byte) int {
	run := 0
	for i := len(qAln) - 1; i >= 0; i-- {
		if !exactColumn(qAln, tAln, i) {
			run = 0
			continue
		}
		if run++; run == MatchRun {
			return i
		}
	}
	return -1
}

// firstExactRun returns the start of the MatchRun exact columns closest to
// the beginning of the aligned strings, or -1.
func firstExactRun(qAln, tAln []byte) int {
	run := 0
	for i := range qAln {
		if !exactColumn(qAln, tAln, i) {
			run = 0
			continue
		}
		if run++; run == MatchRun {
			return i - MatchRun + 1
		}
	}
	return -1
}

// window picks the lengths of the next query and target windows given the
// remaining lengths.
func (s *Session) window(qRest, tRest int) (wq, wt int, final bool) {
	scale := 1 + s.opts.FinalChunkSlack
	if minInt(qRest, tRest) > int(float64(s.opts.ChunkSize)*scale) {
		return s.opts.ChunkSize, s.opts.ChunkSize, false
	}
	wq = minInt(qRest, int(float64(tRest)*scale))
	wt = minInt(tRest, int(float64(qRest)*scale))
	return maxInt(wq, 1), maxInt(wt, 1), true
}

// extendChunks grows the committed alignment in direction dir one window at
// a time, cutting each window's alignment at its last exact run so that
// the next window restarts from an unambiguous point.
func (s *Session) extendChunks(dir dnaseq.Direction) {
	sc := &s.scratch
	for nChunk := 0; ; nChunk++ {
		qv, tv := s.views(dir)
		if qv.Len() == 0 || tv.Len() == 0 {
			return
		}
		wq, wt, final := s.window(qv.Len(), tv.Len())
		qw, tw := qv.Limit(wq), tv.Limit(wt)
		bandTol := int(s.opts.BandFraction * float64(maxInt(wq, wt)))
		ok := s.diff(qw, tw, bandTol)
		if s.opts.CheckInvariants {
			if err := ValidateScratch(sc, qw, tw); err != nil {
				log.Panicf("diffalign: %s chunk %d: %v", dir, nChunk, err)
			}
		}
		anchor := -1
		if ok {
			anchor = lastExactRun(sc.QAln, sc.TAln)
		}
		if anchor < 0 {
			// Nothing trustworthy in this window; keep only the exact prefix.
			n := dnaseq.CommonPrefix(qw, tw)
			if n > 0 {
				s.colQ = s.colQ[:0]
				for i := 0; i < n; i++ {
					s.colQ = append(s.colQ, qw.Decode(i))
				}
				s.commitColumns(dir, s.colQ, s.colQ)
			}
			return
		}
		diverged := wq-sc.QEnd > s.opts.DivergenceResidual && wt-sc.TEnd > s.opts.DivergenceResidual
		if final || diverged || anchor == 0 {
			end := anchor + MatchRun
			s.commitColumns(dir, sc.QAln[:end], sc.TAln[:end])
			return
		}
		s.commitColumns(dir, sc.QAln[:anchor], sc.TAln[:anchor])
	}
}
