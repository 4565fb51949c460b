// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dnaseq_test

import (
	"testing"

	"github.com/grailbio/longread/dnaseq"
	"github.com/grailbio/testutil/expect"
)

func TestSeqRoundTrip(t *testing.T) {
	for _, s := range []string{"", "A", "ACG", "ACGT", "GATTACAGATTACA", "acgtACGT"} {
		seq := dnaseq.FromString(s)
		expect.EQ(t, seq.Len(), len(s))
		want := []byte(s)
		for i := range want {
			if want[i] >= 'a' {
				want[i] -= 'a' - 'A'
			}
		}
		expect.EQ(t, seq.String(), string(want))
	}
	expect.EQ(t, dnaseq.FromString("ANNT").String(), "AAAT")
}

func TestViewDirections(t *testing.T) {
	seq := dnaseq.FromString("ACGTTGCA")
	fwd := dnaseq.NewView(seq, 2, dnaseq.Forward)
	expect.EQ(t, fwd.Len(), 6)
	expect.EQ(t, fwd.Decode(0), byte('G'))
	expect.EQ(t, fwd.Decode(5), byte('A'))

	bwd := dnaseq.NewView(seq, 3, dnaseq.Backward)
	expect.EQ(t, bwd.Len(), 3)
	expect.EQ(t, bwd.Decode(0), byte('G'))
	expect.EQ(t, bwd.Decode(2), byte('A'))
	expect.EQ(t, bwd.Physical(1), 1)

	expect.EQ(t, fwd.Limit(2).Len(), 2)
	expect.EQ(t, fwd.Limit(100).Len(), 6)
}

func TestCommonPrefix(t *testing.T) {
	a := dnaseq.FromString("ACGTACGTTT")
	b := dnaseq.FromString("ACGTACGAAA")
	expect.EQ(t, dnaseq.CommonPrefix(dnaseq.NewView(a, 0, dnaseq.Forward), dnaseq.NewView(b, 0, dnaseq.Forward)), 7)
	// Reading leftwards from the ends, the sequences disagree immediately.
	expect.EQ(t, dnaseq.CommonPrefix(dnaseq.NewView(a, 10, dnaseq.Backward), dnaseq.NewView(b, 10, dnaseq.Backward)), 0)
	expect.EQ(t, dnaseq.CommonPrefix(dnaseq.NewView(a, 7, dnaseq.Backward), dnaseq.NewView(b, 7, dnaseq.Backward)), 7)
}
