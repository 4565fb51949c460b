// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package dnaseq defines the immutable 2-bit packed nucleotide sequence used
// by the aligner, and direction-aware views over it.
package dnaseq

import (
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/longread/biosimd"
)

// Alphabet maps symbol codes (A=0, C=1, G=2, T=3) to their ASCII
// representation.  The trailing '-' is the gap of aligned strings; it never
// occurs in a Seq.
const Alphabet = "ACGT-"

// GapChar is the ASCII gap character in aligned strings.
const GapChar = '-'

// Seq is an immutable 2-bit packed sequence over {A,C,G,T}.  The zero value
// is an empty sequence.
type Seq struct {
	packed []byte
	n      int
}

// FromASCII packs an ASCII nucleotide string.  Lowercase bases are accepted;
// any non-ACGT byte is stored as A.
func FromASCII(ascii []byte) Seq {
	packed := make([]byte, biosimd.Packed2bitLen(len(ascii)))
	biosimd.ASCIITo2bit(packed, ascii)
	return Seq{packed: packed, n: len(ascii)}
}

// FromString is FromASCII for strings.
func FromString(s string) Seq {
	return FromASCII(gunsafe.StringToBytes(s))
}

// Len returns the number of bases.
func (s Seq) Len() int { return s.n }

// At returns the 2-bit code of base i.
func (s Seq) At(i int) byte {
	return biosimd.Get2bit(s.packed, i)
}

// Decode returns the ASCII base at position i.
func (s Seq) Decode(i int) byte {
	return Alphabet[s.At(i)]
}

// AppendASCII appends the ASCII representation of bases [start, end) to dst.
func (s Seq) AppendASCII(dst []byte, start, end int) []byte {
	n := len(dst)
	if cap(dst)-n < end-start {
		grown := make([]byte, n, n+end-start)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:n+end-start]
	biosimd.Unpack2bitToASCIISubset(dst[n:], s.packed, start, end)
	return dst
}

// Substring returns bases [start, end) as an ASCII string.
func (s Seq) Substring(start, end int) string {
	return gunsafe.BytesToString(s.AppendASCII(nil, start, end))
}

// String returns the whole sequence in ASCII.
func (s Seq) String() string {
	return s.Substring(0, s.n)
}
