// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/longread/dnaseq"
)

// renderCigar appends the columns described by cigar over views q and t to
// s.colQ and s.colT, in view order.
func (s *Session) renderCigar(cigar sam.Cigar, q, t dnaseq.View) {
	s.colQ, s.colT = s.colQ[:0], s.colT[:0]
	qi, ti := 0, 0
	for _, co := range cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			for k := 0; k < n; k++ {
				s.colQ = append(s.colQ, q.Decode(qi))
				s.colT = append(s.colT, t.Decode(ti))
				qi++
				ti++
			}
		case sam.CigarInsertion:
			for k := 0; k < n; k++ {
				s.colQ = append(s.colQ, q.Decode(qi))
				s.colT = append(s.colT, dnaseq.GapChar)
				qi++
			}
		case sam.CigarDeletion:
			for k := 0; k < n; k++ {
				s.colQ = append(s.colQ, dnaseq.GapChar)
				s.colT = append(s.colT, t.Decode(ti))
				ti++
			}
		}
	}
}

// finish re-aligns the last MatchRun committed columns on the dir side plus
// the overhang beyond them with the affine-gap finisher, and splices the
// result in.  The session is unchanged unless finish returns true.
func (s *Session) finish(dir dnaseq.Direction) bool {
	n := s.qa.len()
	if n < MatchRun {
		return false
	}
	qRest, tRest := s.views(dir)
	shorter := minInt(qRest.Len(), tRest.Len())
	if shorter == 0 || shorter > s.opts.MaxOverhang {
		return false
	}
	longest := int(float64(shorter)*(1+s.opts.FinalChunkSlack)) + MatchRun

	// The finisher restarts MatchRun columns inside the committed alignment.
	var qRet, tRet int
	var qv, tv dnaseq.View
	if dir == dnaseq.Forward {
		qRet, tRet = nonGap(s.qa.bytes()[n-MatchRun:]), nonGap(s.ta.bytes()[n-MatchRun:])
		qv = dnaseq.NewView(s.q, s.qend-qRet, dnaseq.Forward)
		tv = dnaseq.NewView(s.t, s.tend-tRet, dnaseq.Forward)
	} else {
		qRet, tRet = nonGap(s.qa.bytes()[:MatchRun]), nonGap(s.ta.bytes()[:MatchRun])
		qv = dnaseq.NewView(s.q, s.qoff+qRet, dnaseq.Backward)
		tv = dnaseq.NewView(s.t, s.toff+tRet, dnaseq.Backward)
	}
	qv = qv.Limit(qRet + minInt(qRest.Len(), longest))
	tv = tv.Limit(tRet + minInt(tRest.Len(), longest))

	res := s.finisher.Extend(qv, tv)
	if len(res.Cigar) == 0 || res.QLen < qRet || res.TLen < tRet {
		return false
	}
	s.renderCigar(res.Cigar, qv, tv)
	s.dropColumns(dir, MatchRun)
	s.commitColumns(dir, s.colQ, s.colT)
	return true
}
