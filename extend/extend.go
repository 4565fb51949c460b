// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package extend implements an affine-gap extension aligner with X-drop
// termination.  Alignments are anchored at offset 0 of both inputs and end
// wherever the score peaks, so it is suited to mopping up short unaligned
// overhangs next to an already-trusted alignment.
package extend

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/longread/dnaseq"
)

// Opts holds the scoring scheme.  All values are non-negative; a gap of
// length l costs GapOpen + l*GapExtend.
type Opts struct {
	Match     int
	Mismatch  int
	GapOpen   int
	GapExtend int
	// XDrop stops the extension once every live cell scores more than XDrop
	// below the best score seen so far.
	XDrop int
}

// DefaultOpts are the scores used for long-read overhangs.
var DefaultOpts = Opts{
	Match:     2,
	Mismatch:  4,
	GapOpen:   4,
	GapExtend: 2,
	XDrop:     400,
}

// Result describes one extension.  QLen and TLen are the number of query and
// target bases covered by Cigar.  An empty Cigar means no extension scored
// above zero.
type Result struct {
	Score int
	QLen  int
	TLen  int
	Cigar sam.Cigar
}

const negInf = int32(-1 << 29)

// Traceback bits.  The low two bits select the source of H.
const (
	tbDiag  = 0
	tbE     = 1
	tbF     = 2
	tbExtE  = 4
	tbExtF  = 8
	tbHMask = 3
)

// Aligner holds reusable DP buffers.  Thread compatible: use one per
// goroutine.
type Aligner struct {
	opts Opts

	hPrev, hCur []int32
	fPrev, fCur []int32

	tb     []byte
	rowOff []int // offset of row i in tb
	rowLo  []int // first column stored for row i

	ops []sam.CigarOpType
}

// New creates an Aligner.
func New(opts Opts) *Aligner {
	return &Aligner{opts: opts}
}

// Opts returns the scoring options.
func (a *Aligner) Opts() Opts { return a.opts }

func (a *Aligner) reset(tLen int) {
	if cap(a.hPrev) < tLen+1 {
		a.hPrev = make([]int32, tLen+1)
		a.hCur = make([]int32, tLen+1)
		a.fPrev = make([]int32, tLen+1)
		a.fCur = make([]int32, tLen+1)
	}
	a.hPrev, a.hCur = a.hPrev[:tLen+1], a.hCur[:tLen+1]
	a.fPrev, a.fCur = a.fPrev[:tLen+1], a.fCur[:tLen+1]
	a.tb = a.tb[:0]
	a.rowOff = a.rowOff[:0]
	a.rowLo = a.rowLo[:0]
	a.ops = a.ops[:0]
}

func max32(x, y int32) int32 {
	if x > y {
		return x
	}
	return y
}

// Extend aligns q against t starting at logical offset 0 of both views.  The
// returned Cigar is in view order: for Backward views, the first op is the
// one adjacent to the views' origin.  The Cigar aliases an internal buffer
// only until the next call.
func (a *Aligner) Extend(q, t dnaseq.View) Result {
	qLen, tLen := q.Len(), t.Len()
	if qLen == 0 || tLen == 0 {
		return Result{}
	}
	a.reset(tLen)
	var (
		match    = int32(a.opts.Match)
		mismatch = -int32(a.opts.Mismatch)
		gapOE    = int32(a.opts.GapOpen + a.opts.GapExtend)
		gapE     = int32(a.opts.GapExtend)
		xdrop    = int32(a.opts.XDrop)
		best     = int32(0)
		bestI    = 0
		bestJ    = 0
	)

	// Row 0: only gaps in the query.
	a.rowOff = append(a.rowOff, 0)
	a.rowLo = append(a.rowLo, 0)
	a.hPrev[0], a.fPrev[0] = 0, negInf
	a.tb = append(a.tb, tbDiag)
	prevLo, prevHi := 0, 0
	for j := 1; j <= tLen; j++ {
		h := -int32(a.opts.GapOpen) - int32(j)*gapE
		if h < -xdrop {
			break
		}
		a.hPrev[j], a.fPrev[j] = h, negInf
		d := byte(tbE)
		if j > 1 {
			d |= tbExtE
		}
		a.tb = append(a.tb, d)
		prevHi = j
	}

	for i := 1; i <= qLen; i++ {
		qBase := q.At(i - 1)
		a.rowOff = append(a.rowOff, len(a.tb))
		a.rowLo = append(a.rowLo, prevLo)
		var (
			e      = negInf
			hLeft  = negInf
			newLo  = -1
			newHi  = -1
			rowMax = negInf
			rowArg = 0
			j      = prevLo
		)
		for ; j <= tLen; j++ {
			inPrev := j <= prevHi
			if !inPrev && j > prevHi+1 && max32(hLeft-gapOE, e-gapE) < best-xdrop {
				break
			}
			var d byte
			// E: gap in the query, consumes target.
			eOpen, eExt := hLeft-gapOE, e-gapE
			if eExt > eOpen && j > prevLo {
				e = eExt
				d |= tbExtE
			} else {
				e = eOpen
			}
			if j == prevLo {
				e = negInf
			}
			// F: gap in the target, consumes query.
			f := negInf
			if inPrev {
				fOpen, fExt := a.hPrev[j]-gapOE, a.fPrev[j]-gapE
				if fExt > fOpen {
					f = fExt
					d |= tbExtF
				} else {
					f = fOpen
				}
			}
			h := negInf
			if j > prevLo && j-1 <= prevHi {
				diag := a.hPrev[j-1]
				if diag > negInf {
					if qBase == t.At(j-1) {
						h = diag + match
					} else {
						h = diag + mismatch
					}
				}
			}
			if e > h {
				h = e
				d = (d &^ tbHMask) | tbE
			}
			if f > h {
				h = f
				d = (d &^ tbHMask) | tbF
			}
			if h < best-xdrop || h <= negInf/2 {
				h, e, f = negInf, negInf, negInf
			} else {
				if newLo < 0 {
					newLo = j
				}
				newHi = j
				if h > rowMax {
					rowMax, rowArg = h, j
				}
			}
			a.hCur[j], a.fCur[j] = h, f
			a.tb = append(a.tb, d)
			hLeft = h
		}
		if newLo < 0 {
			break
		}
		if rowMax > best {
			best, bestI, bestJ = rowMax, i, rowArg
		}
		a.hPrev, a.hCur = a.hCur, a.hPrev
		a.fPrev, a.fCur = a.fCur, a.fPrev
		prevLo, prevHi = newLo, newHi
	}
	if bestI == 0 && bestJ == 0 {
		return Result{}
	}
	return Result{
		Score: int(best),
		QLen:  bestI,
		TLen:  bestJ,
		Cigar: a.traceback(bestI, bestJ),
	}
}

func (a *Aligner) tbAt(i, j int) byte {
	return a.tb[a.rowOff[i]+j-a.rowLo[i]]
}

// traceback walks from (i, j) back to the origin and returns the run-length
// encoded operations in forward order.
func (a *Aligner) traceback(i, j int) sam.Cigar {
	const (
		stateH = iota
		stateE
		stateF
	)
	state := stateH
	for i > 0 && j > 0 {
		d := a.tbAt(i, j)
		switch state {
		case stateH:
			switch d & tbHMask {
			case tbDiag:
				a.ops = append(a.ops, sam.CigarMatch)
				i--
				j--
			case tbE:
				state = stateE
			default:
				state = stateF
			}
		case stateE:
			a.ops = append(a.ops, sam.CigarDeletion)
			if d&tbExtE == 0 {
				state = stateH
			}
			j--
		case stateF:
			a.ops = append(a.ops, sam.CigarInsertion)
			if d&tbExtF == 0 {
				state = stateH
			}
			i--
		}
	}
	for ; i > 0; i-- {
		a.ops = append(a.ops, sam.CigarInsertion)
	}
	for ; j > 0; j-- {
		a.ops = append(a.ops, sam.CigarDeletion)
	}
	var cigar sam.Cigar
	for k := len(a.ops) - 1; k >= 0; {
		op, n := a.ops[k], 0
		for k >= 0 && a.ops[k] == op {
			n++
			k--
		}
		cigar = append(cigar, sam.NewCigarOp(op, n))
	}
	return cigar
}
