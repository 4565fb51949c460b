// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

import "fmt"

// asciiTo2bitTable maps 'A'/'a' to 0, 'C'/'c' to 1, 'G'/'g' to 2, 'T'/'t' to
// 3.  Everything else maps to 0.
var asciiTo2bitTable = [...]byte{
	0, 0, 0, 1, 3, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

// TwoBitASCIITable maps 2-bit base codes to their capitalized ASCII
// representations.
var TwoBitASCIITable = [4]byte{'A', 'C', 'G', 'T'}

// Packed2bitLen returns the number of bytes needed to store nBase 2-bit
// bases.
func Packed2bitLen(nBase int) int {
	return (nBase + 3) >> 2
}

// ASCIITo2bit sets the bytes in dst[] as follows:
//   if pos is congruent to 0 mod 4, little-endian bits 0-1 of dst[pos / 4] :=
//     0 if src[pos] == 'A'/'a'
//     1 if src[pos] == 'C'/'c'
//     2 if src[pos] == 'G'/'g'
//     3 if src[pos] == 'T'/'t'
//   similarly, if pos is congruent to 1 mod 4, src[pos] controls bits 2-3 of
//   dst[pos / 4], etc.
//   trailing high bits of the last byte are set to zero.
// It panics if len(dst) != (len(src) + 3) / 4.
//
// WARNING: This does not verify that all input characters are in {'A', 'C',
// 'G', 'T', 'a', 'c', 'g', 't'}.  Anything else is encoded as 'A'.
func ASCIITo2bit(dst, src []byte) {
	srcLen := len(src)
	if len(dst) != (srcLen+3)>>2 {
		panic("ASCIITo2bit() requires len(dst) == (len(src) + 3) / 4.")
	}
	nDstFullByte := srcLen >> 2
	dstRem := srcLen & 3
	for dstPos := 0; dstPos < nDstFullByte; dstPos++ {
		dst[dstPos] = asciiTo2bitTable[src[4*dstPos]] |
			(asciiTo2bitTable[src[4*dstPos+1]] << 2) |
			(asciiTo2bitTable[src[4*dstPos+2]] << 4) |
			(asciiTo2bitTable[src[4*dstPos+3]] << 6)
	}
	if dstRem != 0 {
		lastByte := asciiTo2bitTable[src[nDstFullByte*4]]
		if dstRem != 1 {
			lastByte |= asciiTo2bitTable[src[nDstFullByte*4+1]] << 2
			if dstRem != 2 {
				lastByte |= asciiTo2bitTable[src[nDstFullByte*4+2]] << 4
			}
		}
		dst[nDstFullByte] = lastByte
	}
}

// Get2bit returns the 2-bit code of base pos in a packed array.
func Get2bit(src []byte, pos int) byte {
	return (src[pos>>2] >> (uint(pos&3) << 1)) & 3
}

// Unpack2bitToASCIISubset sets dst[i] := TwoBitASCIITable[base startPos+i of
// src] for i in [0, endPos - startPos).  On cleaned input, this is the
// inverse of ASCIITo2bit().
// It panics if len(dst) != endPos - startPos, startPos < 0, or
// len(src) * 4 < endPos.
func Unpack2bitToASCIISubset(dst, src []byte, startPos, endPos int) {
	if (startPos < 0) || (startPos > endPos) || (len(src)*4 < endPos) {
		errstr := fmt.Sprintf("Unpack2bitToASCIISubset() requires 0 <= startPos <= endPos <= 4 * len(src).\n  len(src) = %d\n  startPos = %d\n  endPos = %d\n", len(src), startPos, endPos)
		panic(errstr)
	}
	if len(dst) != endPos-startPos {
		errstr := fmt.Sprintf("Unpack2bitToASCIISubset() requires len(dst) == endPos - startPos.\n  len(dst) = %d\n  startPos = %d\n  endPos = %d\n", len(dst), startPos, endPos)
		panic(errstr)
	}
	pos := startPos
	for ; pos < endPos && pos&3 != 0; pos++ {
		dst[pos-startPos] = TwoBitASCIITable[Get2bit(src, pos)]
	}
	for ; pos+4 <= endPos; pos += 4 {
		srcByte := src[pos>>2]
		out := dst[pos-startPos : pos-startPos+4]
		out[0] = TwoBitASCIITable[srcByte&3]
		out[1] = TwoBitASCIITable[(srcByte>>2)&3]
		out[2] = TwoBitASCIITable[(srcByte>>4)&3]
		out[3] = TwoBitASCIITable[srcByte>>6]
	}
	for ; pos < endPos; pos++ {
		dst[pos-startPos] = TwoBitASCIITable[Get2bit(src, pos)]
	}
}
