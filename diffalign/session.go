// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/simd"
	"github.com/grailbio/longread/dnaseq"
	"github.com/grailbio/longread/extend"
)

// Session holds the working state for aligning one (query, target, anchor)
// triple at a time.  Buffers grow as needed and are reused across calls.
//
// Thread compatible: create one Session per worker.
type Session struct {
	opts Opts

	q, t dnaseq.Seq
	// qa and ta hold the committed aligned strings.  [qoff,qend) and
	// [toff,tend) are the sequence ranges they cover.
	qa, ta     arena
	qoff, qend int
	toff, tend int

	u, v    []int
	path    dpathStore
	wps     []waypoint
	scratch Scratch

	colQ, colT []byte
	tmp        []byte

	finisher *extend.Aligner
}

// NewSession creates a Session.
func NewSession(opts Opts) *Session {
	return &Session{
		opts:     opts,
		finisher: extend.New(opts.Extend),
	}
}

// Opts returns the session's options.
func (s *Session) Opts() Opts { return s.opts }

// reset forgets any previous alignment and positions the session at anchor.
func (s *Session) reset(q, t dnaseq.Seq, a Anchor) {
	s.q, s.t = q, t
	front := a.QOff + a.TOff
	back := (q.Len() - a.QOff) + (t.Len() - a.TOff)
	s.qa.reset(front, back)
	s.ta.reset(front, back)
	s.qoff, s.qend = a.QOff, a.QOff
	s.toff, s.tend = a.TOff, a.TOff
}

// nonGap counts the sequence symbols in an aligned string.
func nonGap(aln []byte) int {
	n := 0
	for _, c := range aln {
		if c != dnaseq.GapChar {
			n++
		}
	}
	return n
}

// exactColumn reports whether column i of the aligned strings is a match.
func exactColumn(qAln, tAln []byte, i int) bool {
	return qAln[i] == tAln[i] && qAln[i] != dnaseq.GapChar
}

// reversed copies p into s.tmp in reverse order.
func (s *Session) reversed(p []byte) []byte {
	if cap(s.tmp) < len(p) {
		s.tmp = make([]byte, len(p))
	}
	s.tmp = s.tmp[:len(p)]
	simd.Reverse8(s.tmp, p)
	return s.tmp
}

// commitColumns appends view-order columns to the committed alignment on
// the side given by dir.
func (s *Session) commitColumns(dir dnaseq.Direction, qCols, tCols []byte) {
	nq, nt := nonGap(qCols), nonGap(tCols)
	if dir == dnaseq.Forward {
		s.qa.pushBack(qCols)
		s.ta.pushBack(tCols)
		s.qend += nq
		s.tend += nt
		return
	}
	s.qa.pushFront(s.reversed(qCols))
	s.ta.pushFront(s.reversed(tCols))
	s.qoff -= nq
	s.toff -= nt
}

// dropColumns removes n columns from the end given by dir.
func (s *Session) dropColumns(dir dnaseq.Direction, n int) {
	if dir == dnaseq.Forward {
		qb, tb := s.qa.bytes(), s.ta.bytes()
		s.qend -= nonGap(qb[len(qb)-n:])
		s.tend -= nonGap(tb[len(tb)-n:])
		s.qa.popBack(n)
		s.ta.popBack(n)
		return
	}
	s.qoff += nonGap(s.qa.bytes()[:n])
	s.toff += nonGap(s.ta.bytes()[:n])
	s.qa.popFront(n)
	s.ta.popFront(n)
}

// check validates the session when invariant checking is enabled.
func (s *Session) check(stage string) {
	if !s.opts.CheckInvariants {
		return
	}
	if err := ValidateSession(s); err != nil {
		log.Panicf("diffalign: after %s: %v", stage, err)
	}
}
