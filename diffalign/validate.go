// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/longread/dnaseq"
)

func integrityf(format string, args ...interface{}) error {
	return errors.E(errors.Integrity, fmt.Sprintf(format, args...))
}

// checkStrand verifies that aln, with gaps removed, spells the n symbols
// returned by at(0), at(1), ...
func checkStrand(name string, aln []byte, n int, at func(int) byte) error {
	i := 0
	for col, c := range aln {
		if c == dnaseq.GapChar {
			continue
		}
		if i >= n {
			return integrityf("%s: aligned string holds more than %d symbols", name, n)
		}
		if want := at(i); c != want {
			return integrityf("%s: column %d is %c, sequence has %c at offset %d", name, col, c, want, i)
		}
		i++
	}
	if i != n {
		return integrityf("%s: aligned string holds %d symbols, want %d", name, i, n)
	}
	return nil
}

func checkColumns(qAln, tAln []byte) error {
	if len(qAln) != len(tAln) {
		return integrityf("aligned lengths differ: query %d, target %d", len(qAln), len(tAln))
	}
	for i := range qAln {
		if qAln[i] == dnaseq.GapChar && tAln[i] == dnaseq.GapChar {
			return integrityf("column %d is a gap on both strands", i)
		}
	}
	return nil
}

// ValidateScratch checks a banded diff result against the windows it was
// computed from.
func ValidateScratch(sc *Scratch, q, t dnaseq.View) error {
	if err := checkColumns(sc.QAln, sc.TAln); err != nil {
		return err
	}
	if sc.QEnd > q.Len() || sc.TEnd > t.Len() {
		return integrityf("scratch end (%d,%d) beyond window (%d,%d)", sc.QEnd, sc.TEnd, q.Len(), t.Len())
	}
	if err := checkStrand("query", sc.QAln, sc.QEnd, q.Decode); err != nil {
		return err
	}
	return checkStrand("target", sc.TAln, sc.TEnd, t.Decode)
}

// ValidateSession checks the committed alignment of s against its
// sequences.
func ValidateSession(s *Session) error {
	return validateAlignment(s.qa.bytes(), s.ta.bytes(), s.q, s.t, s.qoff, s.qend, s.toff, s.tend, false)
}

// ValidateResult checks a final alignment against the sequences it was
// computed from.
func ValidateResult(r Result, q, t dnaseq.Seq) error {
	if err := validateAlignment(r.QAln, r.TAln, q, t, r.QOff, r.QEnd, r.TOff, r.TEnd, true); err != nil {
		return err
	}
	matches := 0
	for i := range r.QAln {
		if exactColumn(r.QAln, r.TAln, i) {
			matches++
		}
	}
	if matches != r.Matches || len(r.QAln)-matches != r.Dist {
		return integrityf("result claims %d matches and distance %d, alignment has %d matches in %d columns",
			r.Matches, r.Dist, matches, len(r.QAln))
	}
	return nil
}

func validateAlignment(qAln, tAln []byte, q, t dnaseq.Seq, qoff, qend, toff, tend int, strict bool) error {
	if err := checkColumns(qAln, tAln); err != nil {
		return err
	}
	if qoff < 0 || qoff > qend || qend > q.Len() {
		return integrityf("bad query range [%d,%d) for length %d", qoff, qend, q.Len())
	}
	if toff < 0 || toff > tend || tend > t.Len() {
		return integrityf("bad target range [%d,%d) for length %d", toff, tend, t.Len())
	}
	if strict && len(qAln) > 0 && (qoff == qend || toff == tend) {
		return integrityf("non-empty alignment with empty range: query [%d,%d), target [%d,%d)", qoff, qend, toff, tend)
	}
	if err := checkStrand("query", qAln, qend-qoff, func(i int) byte { return q.Decode(qoff + i) }); err != nil {
		return err
	}
	return checkStrand("target", tAln, tend-toff, func(i int) byte { return t.Decode(toff + i) })
}
