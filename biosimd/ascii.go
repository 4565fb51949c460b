// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

var (
	// cleanASCIISeqTable capitalizes a/c/g/t and maps everything else to 'N'.
	cleanASCIISeqTable [256]byte
	// revComp8Table complements A/C/G/T (either case) into capitalized
	// T/G/C/A, and maps everything else to 'N'.
	revComp8Table [256]byte
)

func init() {
	for i := range cleanASCIISeqTable {
		cleanASCIISeqTable[i] = 'N'
		revComp8Table[i] = 'N'
	}
	const acgt, tgca = "ACGT", "TGCA"
	for i := 0; i < 4; i++ {
		upper, lower := acgt[i], acgt[i]+('a'-'A')
		cleanASCIISeqTable[upper] = upper
		cleanASCIISeqTable[lower] = upper
		revComp8Table[upper] = tgca[i]
		revComp8Table[lower] = tgca[i]
	}
}

// CleanASCIISeqInplace capitalizes 'a'/'c'/'g'/'t', and replaces everything
// non-ACGT with 'N'.
func CleanASCIISeqInplace(ascii8 []byte) {
	for pos, ascii8Byte := range ascii8 {
		ascii8[pos] = cleanASCIISeqTable[ascii8Byte]
	}
}

// ReverseComp8NoValidate writes the reverse-complement of src[] to dst[],
// assuming src is using ASCII encoding.  'A'/'a' maps to 'T', 'C'/'c' to 'G',
// 'G'/'g' to 'C', 'T'/'t' to 'A', and everything else to 'N'.
//
// It panics if len(dst) != len(src).
func ReverseComp8NoValidate(dst, src []byte) {
	nByte := len(src)
	if len(dst) != nByte {
		panic("ReverseComp8NoValidate requires len(dst) == len(src).")
	}
	for idx, invIdx := 0, nByte-1; idx != nByte; idx, invIdx = idx+1, invIdx-1 {
		dst[idx] = revComp8Table[src[invIdx]]
	}
}
