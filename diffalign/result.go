// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import (
	"fmt"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/longread/dnaseq"
)

// Result is an accepted alignment.  [QOff,QEnd) and [TOff,TEnd) are the
// aligned query and target ranges.  QAln and TAln are the equal-length,
// gap-padded aligned strings.
//
// QAln and TAln alias Session buffers and are only valid until the next
// Align call on the same Session; use Clone to keep them.
type Result struct {
	QOff, QEnd int
	TOff, TEnd int
	QAln, TAln []byte
	// Identity is the percentage of columns that are matches.
	Identity float64
	Matches  int
	// Dist is the number of columns that are not matches.
	Dist int
	// Score is Len()*MatchReward + Matches*MismatchPenalty.
	//
	// TODO(upstream): the penalty is applied to the match count, not the
	// mismatch count.  Kept for output compatibility until that is confirmed
	// or fixed.
	Score int
}

// Len returns the number of alignment columns.
func (r Result) Len() int { return len(r.QAln) }

// Clone returns a copy of r that does not share memory with the session.
func (r Result) Clone() Result {
	r.QAln = append([]byte(nil), r.QAln...)
	r.TAln = append([]byte(nil), r.TAln...)
	return r
}

// Cigar renders the alignment with the query as the read and the target as
// the reference.  Mismatch columns are reported as M.
func (r Result) Cigar() sam.Cigar {
	var cigar sam.Cigar
	var (
		cur sam.CigarOpType
		n   int
	)
	for i := range r.QAln {
		op := sam.CigarMatch
		switch {
		case r.QAln[i] == dnaseq.GapChar:
			op = sam.CigarDeletion
		case r.TAln[i] == dnaseq.GapChar:
			op = sam.CigarInsertion
		}
		if n > 0 && op != cur {
			cigar = append(cigar, sam.NewCigarOp(cur, n))
			n = 0
		}
		cur = op
		n++
	}
	if n > 0 {
		cigar = append(cigar, sam.NewCigarOp(cur, n))
	}
	return cigar
}

// String implements fmt.Stringer.
func (r Result) String() string {
	return fmt.Sprintf("q[%d,%d) t[%d,%d) len=%d id=%.2f dist=%d score=%d",
		r.QOff, r.QEnd, r.TOff, r.TEnd, r.Len(), r.Identity, r.Dist, r.Score)
}

// summarize fills in the statistics of a result from its aligned strings.
func (s *Session) summarize(r *Result) {
	r.Matches = 0
	for i := range r.QAln {
		if exactColumn(r.QAln, r.TAln, i) {
			r.Matches++
		}
	}
	n := len(r.QAln)
	r.Dist = n - r.Matches
	r.Identity = 0
	if n > 0 {
		r.Identity = 100 * float64(r.Matches) / float64(n)
	}
	r.Score = n*s.opts.MatchReward + r.Matches*s.opts.MismatchPenalty
}

// result snapshots the committed alignment.
func (s *Session) result() Result {
	r := Result{
		QOff: s.qoff, QEnd: s.qend,
		TOff: s.toff, TEnd: s.tend,
		QAln: s.qa.bytes(), TAln: s.ta.bytes(),
	}
	s.summarize(&r)
	return r
}
