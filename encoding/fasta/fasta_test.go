package fasta_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/longread/encoding/fasta"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

var fastaData = "\n>seq1\n" + "ACGTA\ncgtac\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n\n" + "ANRT\n" + ">empty\n"

func TestScanner(t *testing.T) {
	sc := fasta.NewScanner(strings.NewReader(fastaData))
	var names, seqs []string
	for sc.Scan() {
		rec := sc.Record()
		names = append(names, rec.Name)
		seqs = append(seqs, string(rec.Seq))
	}
	assert.NoError(t, sc.Err())
	expect.EQ(t, names, []string{"seq1", "seq2", "empty"})
	expect.EQ(t, seqs, []string{"ACGTACGTACGT", "ACGTANNT", ""})
	expect.False(t, sc.Scan())
}

func TestReadAll(t *testing.T) {
	recs, err := fasta.ReadAll(strings.NewReader(fastaData))
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 3)
	expect.EQ(t, recs[1].Name, "seq2")

	recs, err = fasta.ReadAll(strings.NewReader(""))
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 0)
}

func TestMalformed(t *testing.T) {
	_, err := fasta.ReadAll(strings.NewReader("ACGT\n>seq1\nACGT\n"))
	expect.HasSubstr(t, err.Error(), "before the first header")

	_, err = fasta.ReadAll(strings.NewReader(">a\nAC\n>a\nGT\n"))
	expect.HasSubstr(t, err.Error(), "duplicate sequence name")

	_, err = fasta.ReadAll(strings.NewReader("> x\nAC\n"))
	expect.HasSubstr(t, err.Error(), "empty sequence name")
}

func TestLongLines(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	const n = 200000
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = "ACGT"[r.Intn(4)]
	}
	var buf bytes.Buffer
	buf.WriteString(">long\n")
	buf.Write(seq)
	buf.WriteString("\n>wrapped\n")
	for i := 0; i < n; i += 60 {
		end := i + 60
		if end > n {
			end = n
		}
		buf.Write(seq[i:end])
		buf.WriteByte('\n')
	}
	recs, err := fasta.ReadAll(&buf)
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 2)
	expect.True(t, bytes.Equal(recs[0].Seq, seq))
	expect.True(t, bytes.Equal(recs[1].Seq, seq))
}
