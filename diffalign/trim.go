// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import "github.com/grailbio/longread/dnaseq"

// trimRight cuts the committed alignment just after the exact run closest to
// its right end.  The run itself is kept, so trimming a trimmed alignment is a
// no-op.  It returns false if there is no exact run.
func (s *Session) trimRight() bool {
	qb, tb := s.qa.bytes(), s.ta.bytes()
	i := lastExactRun(qb, tb)
	if i < 0 {
		return false
	}
	if drop := len(qb) - (i + MatchRun); drop > 0 {
		s.dropColumns(dnaseq.Forward, drop)
	}
	return true
}

// trimLeft is the mirror image of trimRight.
func (s *Session) trimLeft() bool {
	i := firstExactRun(s.qa.bytes(), s.ta.bytes())
	if i < 0 {
		return false
	}
	if i > 0 {
		s.dropColumns(dnaseq.Backward, i)
	}
	return true
}
