// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/longread/biosimd"
	"github.com/grailbio/longread/diffalign"
	"github.com/grailbio/longread/dnaseq"
	"github.com/grailbio/longread/encoding/fasta"
	"github.com/grailbio/longread/encoding/fastq"
	"github.com/grailbio/longread/seed"
	"github.com/klauspost/compress/gzip"
)

type runOpts struct {
	queryPath, targetPath string
	outPath               string
	parallelism           int

	opts   diffalign.Opts
	params diffalign.Params
	seeds  seed.Opts
}

// readSeqs reads all records of a possibly compressed FASTA or FASTQ file.
// The format is chosen by the first byte of the data.
func readSeqs(ctx context.Context, path string) ([]fasta.Record, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	br := bufio.NewReader(r)
	var recs []fasta.Record
	if b, _ := br.Peek(1); len(b) == 1 && b[0] == '@' {
		recs, err = readFASTQ(br)
	} else {
		recs, err = fasta.ReadAll(br)
	}
	once := errors.Once{}
	once.Set(err)
	once.Set(in.Close(ctx))
	if err := once.Err(); err != nil {
		return nil, errors.E(err, "read", path)
	}
	return recs, nil
}

func readFASTQ(r io.Reader) ([]fasta.Record, error) {
	var (
		recs []fasta.Record
		read fastq.Read
	)
	sc := fastq.NewScanner(r, fastq.Name|fastq.Seq)
	for sc.Scan(&read) {
		recs = append(recs, fasta.Record{Name: read.Name, Seq: read.Seq})
	}
	return recs, sc.Err()
}

// resultWriter serializes alignment lines from concurrent workers.
type resultWriter struct {
	mu  sync.Mutex
	w   *tsv.Writer
	err errors.Once
	n   int
}

// hit is one accepted alignment, in forward query coordinates.
type hit struct {
	query   *fasta.Record
	target  *fasta.Record
	reverse bool
	res     diffalign.Result
}

func (rw *resultWriter) write(h hit) {
	qLen := len(h.query.Seq)
	qStart, qEnd, strand := h.res.QOff, h.res.QEnd, "+"
	if h.reverse {
		qStart, qEnd, strand = qLen-h.res.QEnd, qLen-h.res.QOff, "-"
	}
	cigar := h.res.Cigar().String()

	rw.mu.Lock()
	defer rw.mu.Unlock()
	w := rw.w
	w.WriteString(h.query.Name)
	w.WriteUint32(uint32(qLen))
	w.WriteUint32(uint32(qStart))
	w.WriteUint32(uint32(qEnd))
	w.WriteString(strand)
	w.WriteString(h.target.Name)
	w.WriteUint32(uint32(len(h.target.Seq)))
	w.WriteUint32(uint32(h.res.TOff))
	w.WriteUint32(uint32(h.res.TEnd))
	w.WriteUint32(uint32(h.res.Matches))
	w.WriteUint32(uint32(h.res.Len()))
	w.WriteString(strconv.FormatFloat(h.res.Identity, 'f', 2, 64))
	w.WriteUint32(uint32(h.res.Dist))
	w.WriteString(strconv.Itoa(h.res.Score))
	w.WriteString(cigar)
	rw.err.Set(w.EndLine())
	rw.n++
}

// alignQuery aligns both strands of one query against its seed candidates.
func alignQuery(sess *diffalign.Session, idx *seed.Index, q *fasta.Record, targets []fasta.Record,
	packed []dnaseq.Seq, rc []byte, params diffalign.Params, out *resultWriter) []byte {
	if cap(rc) < len(q.Seq) {
		rc = make([]byte, len(q.Seq))
	}
	rc = rc[:len(q.Seq)]
	biosimd.ReverseComp8NoValidate(rc, q.Seq)
	for _, reverse := range []bool{false, true} {
		bases := q.Seq
		if reverse {
			bases = rc
		}
		cands := idx.Candidates(bases)
		if len(cands) == 0 {
			continue
		}
		qseq := dnaseq.FromASCII(bases)
		for _, c := range cands {
			res, ok := sess.Align(qseq, packed[c.TargetID], diffalign.Anchor{QOff: c.QOff, TOff: c.TOff}, params)
			if !ok {
				continue
			}
			out.write(hit{query: q, target: &targets[c.TargetID], reverse: reverse, res: res})
		}
	}
	return rc
}

func createOutput(ctx context.Context, path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "create", path)
	}
	w := out.Writer(ctx)
	if !strings.HasSuffix(path, ".gz") {
		return w, func() error { return out.Close(ctx) }, nil
	}
	gz := gzip.NewWriter(w)
	return gz, func() error {
		once := errors.Once{}
		once.Set(gz.Close())
		once.Set(out.Close(ctx))
		return once.Err()
	}, nil
}

// align runs the whole pipeline: read inputs, seed, align and write.
func align(ctx context.Context, run runOpts) error {
	targets, err := readSeqs(ctx, run.targetPath)
	if err != nil {
		return err
	}
	queries, err := readSeqs(ctx, run.queryPath)
	if err != nil {
		return err
	}
	log.Printf("read %d queries, %d targets", len(queries), len(targets))

	targetSeqs := make([][]byte, len(targets))
	packed := make([]dnaseq.Seq, len(targets))
	for i := range targets {
		targetSeqs[i] = targets[i].Seq
		packed[i] = dnaseq.FromASCII(targets[i].Seq)
	}
	idx, err := seed.NewIndex(targetSeqs, run.seeds)
	if err != nil {
		return err
	}

	w, closeOut, err := createOutput(ctx, run.outPath)
	if err != nil {
		return err
	}
	out := &resultWriter{w: tsv.NewWriter(w)}

	parallelism := run.parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	var next int64
	err = traverse.Each(parallelism, func(int) error {
		sess := diffalign.NewSession(run.opts)
		var rc []byte
		for {
			qi := int(atomic.AddInt64(&next, 1) - 1)
			if qi >= len(queries) {
				return nil
			}
			rc = alignQuery(sess, idx, &queries[qi], targets, packed, rc, run.params, out)
			if (qi+1)%10000 == 0 {
				log.Printf("aligned %d queries", qi+1)
			}
		}
	})
	once := errors.Once{}
	once.Set(err)
	once.Set(out.err.Err())
	once.Set(out.w.Flush())
	once.Set(closeOut())
	if err := once.Err(); err != nil {
		return err
	}
	log.Printf("wrote %d alignments", out.n)
	return nil
}
