package fastq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

const fq = `@m54006_170918_183001/4194370/ccs pass=3
ACGTNNacgtRYAC
+
AAAAAEEEEEEE#E
@m54006_170918_183001/4194371/ccs
GGGGCCCCAAAATTTT
+
EEEEEEEEEEEEEEEE
`

func stringScanner(s string, fields Field) *Scanner {
	return NewScanner(bytes.NewReader([]byte(s)), fields)
}

func scanErr(s string) error {
	scan := stringScanner(s, All)
	var r Read
	for scan.Scan(&r) {
	}
	return scan.Err()
}

func TestFASTQ(t *testing.T) {
	s := stringScanner(fq, All)
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	expect.EQ(t, r.Name, "m54006_170918_183001/4194370/ccs")
	expect.EQ(t, string(r.Seq), "ACGTNNACGTNNAC")
	expect.EQ(t, string(r.Qual), "AAAAAEEEEEEE#E")
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	expect.EQ(t, r.Name, "m54006_170918_183001/4194371/ccs")
	expect.EQ(t, string(r.Seq), "GGGGCCCCAAAATTTT")
	expect.False(t, s.Scan(&r))
	expect.NoError(t, s.Err())
}

func TestFields(t *testing.T) {
	s := stringScanner(fq, Name|Seq)
	var r Read
	expect.True(t, s.Scan(&r))
	expect.EQ(t, r.Name, "m54006_170918_183001/4194370/ccs")
	expect.EQ(t, len(r.Seq), 14)
	expect.EQ(t, len(r.Qual), 0)
}

func TestBadFASTQ(t *testing.T) {
	if got, want := errors.Cause(scanErr("12312#")), ErrInvalid; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := errors.Cause(scanErr("@1234\n123")), ErrShort; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := errors.Cause(scanErr("@1234\nACGT\n-\nEEEE\n")), ErrInvalid; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	err := scanErr("@1234\nACGT\n+\nEEE\n")
	expect.HasSubstr(t, err.Error(), "4 bases but 3 qualities")
}

func TestLongRead(t *testing.T) {
	seq := strings.Repeat("ACGT", 100000)
	s := stringScanner("@long\n"+seq+"\n+\n"+strings.Repeat("E", len(seq))+"\n", All)
	var r Read
	expect.True(t, s.Scan(&r))
	expect.EQ(t, string(r.Seq), seq)
	expect.NoError(t, s.Err())
}
