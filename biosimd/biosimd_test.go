// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/grailbio/base/simd"
	"github.com/grailbio/longread/biosimd"
	"github.com/grailbio/testutil/expect"
)

var twoBitToASCIITable = [...]byte{'A', 'C', 'G', 'T', 'a', 'c', 'g', 't'}

func asciiTo2bitSlow(dst, src []byte) {
	for i := range dst {
		dst[i] = 0
	}
	for pos, b := range src {
		var code byte
		switch b {
		case 'C', 'c':
			code = 1
		case 'G', 'g':
			code = 2
		case 'T', 't':
			code = 3
		}
		dst[pos>>2] |= code << (uint(pos&3) << 1)
	}
}

func TestASCIITo2bit(t *testing.T) {
	maxSrcSize := 500
	maxDstSize := (maxSrcSize + 3) >> 2
	nIter := 200
	srcArr := simd.MakeUnsafe(maxSrcSize)
	dst1Arr := simd.MakeUnsafe(maxDstSize)
	// +1 so we can always append sentinel
	dst2Arr := simd.MakeUnsafe(maxDstSize + 1)
	for iter := 0; iter < nIter; iter++ {
		dstSliceStart := rand.Intn(maxDstSize)
		srcSliceStart := dstSliceStart * 4
		srcSliceEnd := srcSliceStart + rand.Intn(maxSrcSize-srcSliceStart)
		dstSliceEnd := (srcSliceEnd + 3) >> 2
		srcSlice := srcArr[srcSliceStart:srcSliceEnd]
		for ii := range srcSlice {
			srcSlice[ii] = twoBitToASCIITable[rand.Intn(8)]
		}
		dst1Slice := dst1Arr[dstSliceStart:dstSliceEnd]
		dst2Slice := dst2Arr[dstSliceStart:dstSliceEnd]
		asciiTo2bitSlow(dst1Slice, srcSlice)
		sentinel := byte(rand.Intn(256))
		dst2Arr[dstSliceEnd] = sentinel
		biosimd.ASCIITo2bit(dst2Slice, srcSlice)
		if !bytes.Equal(dst1Slice, dst2Slice) {
			t.Fatal("Mismatched ASCIITo2bit result.")
		}
		if dst2Arr[dstSliceEnd] != sentinel {
			t.Fatal("ASCIITo2bit clobbered an extra byte.")
		}
	}
}

func TestUnpack2bitRoundTrip(t *testing.T) {
	for iter := 0; iter < 200; iter++ {
		n := rand.Intn(300)
		src := make([]byte, n)
		for i := range src {
			src[i] = biosimd.TwoBitASCIITable[rand.Intn(4)]
		}
		packed := make([]byte, biosimd.Packed2bitLen(n))
		biosimd.ASCIITo2bit(packed, src)
		start := 0
		if n > 0 {
			start = rand.Intn(n)
		}
		end := start + rand.Intn(n-start+1)
		dst := make([]byte, end-start)
		biosimd.Unpack2bitToASCIISubset(dst, packed, start, end)
		if !bytes.Equal(dst, src[start:end]) {
			t.Fatalf("unpack [%d,%d): got %s, want %s", start, end, dst, src[start:end])
		}
		for pos := start; pos < end; pos++ {
			expect.EQ(t, biosimd.TwoBitASCIITable[biosimd.Get2bit(packed, pos)], src[pos])
		}
	}
}

func TestCleanASCIISeqInplace(t *testing.T) {
	seq := []byte("acgtNnRxACGT")
	biosimd.CleanASCIISeqInplace(seq)
	expect.EQ(t, string(seq), "ACGTNNNNACGT")
}

func TestReverseComp(t *testing.T) {
	src := []byte("AACGTtgcaN")
	dst := make([]byte, len(src))
	biosimd.ReverseComp8NoValidate(dst, src)
	expect.EQ(t, string(dst), "NTGCAACGTT")
}
