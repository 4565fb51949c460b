// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dnaseq

// Direction selects how a View walks the underlying sequence.
type Direction uint8

const (
	// Forward views read increasing positions starting at the origin.
	Forward Direction = iota
	// Backward views read decreasing positions starting just before the
	// origin.
	Backward
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// View is a window over a Seq addressed by logical offsets 0, 1, 2, ...
//
// For a Forward view, logical offset i is physical position origin+i, and the
// view extends to the end of the sequence (or limit bases, whichever is
// less).  For a Backward view, logical offset i is physical position
// origin-1-i, and the view extends to position 0.  Views let one piece of
// code extend alignments in either direction without copying or reversing
// sequence data.
type View struct {
	seq    Seq
	origin int
	n      int
	dir    Direction
}

// NewView creates a view of seq starting at origin, walking in direction
// dir.  origin must be in [0, seq.Len()].
func NewView(seq Seq, origin int, dir Direction) View {
	if origin < 0 || origin > seq.Len() {
		panic("dnaseq.NewView: origin out of range")
	}
	v := View{seq: seq, origin: origin, dir: dir}
	if dir == Forward {
		v.n = seq.Len() - origin
	} else {
		v.n = origin
	}
	return v
}

// Len returns the number of readable bases.
func (v View) Len() int { return v.n }

// Physical maps logical offset i to a physical sequence position.
func (v View) Physical(i int) int {
	if v.dir == Forward {
		return v.origin + i
	}
	return v.origin - 1 - i
}

// At returns the 2-bit code at logical offset i.
func (v View) At(i int) byte {
	return v.seq.At(v.Physical(i))
}

// Decode returns the ASCII base at logical offset i.
func (v View) Decode(i int) byte {
	return Alphabet[v.At(i)]
}

// Limit returns a view truncated to at most n bases.
func (v View) Limit(n int) View {
	if n < v.n {
		v.n = n
	}
	return v
}

// CommonPrefix returns the number of leading logical offsets at which a and b
// hold the same base, up to min(a.Len(), b.Len()).
func CommonPrefix(a, b View) int {
	n := a.n
	if b.n < n {
		n = b.n
	}
	i := 0
	for i < n && a.At(i) == b.At(i) {
		i++
	}
	return i
}
