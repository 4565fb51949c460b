// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/longread/dnaseq"
)

// Scratch is the output of one banded diff call.  Columns are in view order:
// column 0 is adjacent to the views' origin, so the alignment always starts at
// logical offset 0 of both windows.  QEnd and TEnd are the logical offsets
// just past its last column.
type Scratch struct {
	QAln, TAln     []byte
	QEnd, TEnd     int
	Dist           int
	ReachedEnd     bool
	PathsExhausted bool
}

func (sc *Scratch) reset() {
	sc.QAln = sc.QAln[:0]
	sc.TAln = sc.TAln[:0]
	sc.QEnd, sc.TEnd = 0, 0
	sc.Dist = 0
	sc.ReachedEnd = false
	sc.PathsExhausted = false
}

// Len returns the number of alignment columns.
func (sc *Scratch) Len() int { return len(sc.QAln) }

func growInts(a []int, n int) []int {
	if cap(a) < n {
		return make([]int, n)
	}
	return a[:n]
}

// diff runs the banded O(ND) search for the longest common extension of q and
// t starting at their logical offset 0.  Mismatches are expressed as an
// insertion plus a deletion.  The search stops as soon as one window is
// consumed; otherwise it stops when the distance budget runs out or the band
// widens past 2*bandTol, and the best partial match is returned.  The result
// is left in s.scratch.  diff returns false if the alignment is empty.
func (s *Session) diff(q, t dnaseq.View, bandTol int) bool {
	sc := &s.scratch
	sc.reset()
	qLen, tLen := q.Len(), t.Len()
	if qLen == 0 || tLen == 0 {
		return false
	}
	maxD := int(s.opts.DistFraction * float64(qLen+tLen))
	if maxD < 1 {
		maxD = 1
	}
	off := maxD + 1
	s.u = growInts(s.u, 2*maxD+3)
	s.v = growInts(s.v, 2*maxD+3)
	u, v := s.u, s.v
	v[1+off] = 0
	s.path.reset(s.opts.MaxPathRecords)

	var (
		minK, maxK   = 0, 0
		bestM        = -1
		bestD, bestK = 0, 0
		done         = false
	)
	for d := 0; d <= maxD && !done; d++ {
		if maxK-minK > 2*bandTol {
			break
		}
		for k := minK; k <= maxK; k += 2 {
			var x, preK int
			if k == minK || (k != maxK && v[k-1+off] < v[k+1+off]) {
				preK = k + 1
				x = v[k+1+off]
			} else {
				preK = k - 1
				x = v[k-1+off] + 1
			}
			y := x - k
			x1, y1 := x, y
			for x < qLen && y < tLen && q.At(x) == t.At(y) {
				x++
				y++
			}
			if !s.path.add(dpathRecord{
				d: int32(d), k: int32(k), preK: int32(preK),
				x1: int32(x1), y1: int32(y1), x2: int32(x), y2: int32(y),
			}) {
				sc.PathsExhausted = true
				done = true
				break
			}
			v[k+off] = x
			u[k+off] = x + y
			if x+y > bestM {
				bestM, bestD, bestK = x+y, d, k
			}
			if x >= qLen || y >= tLen {
				sc.ReachedEnd = true
				bestM, bestD, bestK = x+y, d, k
				done = true
				break
			}
		}
		if done {
			break
		}
		newMin, newMax := maxK+1, minK-1
		for k := minK; k <= maxK; k += 2 {
			if u[k+off] >= bestM-bandTol {
				if k < newMin {
					newMin = k
				}
				newMax = k
			}
		}
		if newMin > newMax {
			break
		}
		minK, maxK = newMin-1, newMax+1
	}
	if bestM <= 0 {
		return false
	}
	s.backtrace(q, t, bestD, bestK)
	sc.Dist = bestD
	return sc.Len() > 0
}

// backtrace walks preK links from (d, k) down to d=0, then replays the
// waypoints from the origin and renders the columns into s.scratch.
func (s *Session) backtrace(q, t dnaseq.View, d, k int) {
	sc := &s.scratch
	s.wps = s.wps[:0]
	for ; d >= 0; d-- {
		r, ok := s.path.find(d, k)
		if !ok {
			log.Panicf("diffalign: missing d-path record (%d,%d)", d, k)
		}
		s.wps = append(s.wps,
			waypoint{int(r.x2), int(r.y2)},
			waypoint{int(r.x1), int(r.y1)})
		k = int(r.preK)
	}
	cx, cy := 0, 0
	for i := len(s.wps) - 1; i >= 0; i-- {
		w := s.wps[i]
		switch {
		case w.x == cx && w.y == cy:
		case w.x == cx:
			for ; cy < w.y; cy++ {
				sc.QAln = append(sc.QAln, dnaseq.GapChar)
				sc.TAln = append(sc.TAln, t.Decode(cy))
			}
		case w.y == cy:
			for ; cx < w.x; cx++ {
				sc.QAln = append(sc.QAln, q.Decode(cx))
				sc.TAln = append(sc.TAln, dnaseq.GapChar)
			}
		default:
			if w.x-cx != w.y-cy {
				log.Panicf("diffalign: non-diagonal snake (%d,%d)->(%d,%d)", cx, cy, w.x, w.y)
			}
			for ; cx < w.x; cx++ {
				sc.QAln = append(sc.QAln, q.Decode(cx))
				sc.TAln = append(sc.TAln, t.Decode(cy))
				cy++
			}
		}
		cx, cy = w.x, w.y
	}
	sc.QEnd, sc.TEnd = cx, cy
}
