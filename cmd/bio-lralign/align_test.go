// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/grailbio/longread/biosimd"
	"github.com/grailbio/longread/diffalign"
	"github.com/grailbio/longread/seed"
	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	ctx := context.Background()
	out, err := file.Create(ctx, path)
	require.NoError(t, err)
	w := out.Writer(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(w)
		_, err = gz.Write(data)
		require.NoError(t, err)
		require.NoError(t, gz.Close())
	} else {
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, out.Close(ctx))
}

func readLines(t *testing.T, path string) []string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() // nolint: errcheck
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := ioutil.ReadAll(gz)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	sort.Strings(lines)
	return lines
}

func TestAlignEndToEnd(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	r := rand.New(rand.NewSource(0))
	target := make([]byte, 3000)
	for i := range target {
		target[i] = "ACGT"[r.Intn(4)]
	}
	decoy := make([]byte, 2000)
	for i := range decoy {
		decoy[i] = "ACGT"[r.Intn(4)]
	}
	fwd := target[500:2500]
	rev := make([]byte, 1200)
	biosimd.ReverseComp8NoValidate(rev, target[1000:2200])

	var targets, queries bytes.Buffer
	targets.WriteString(">decoy\n" + string(decoy) + "\n>chr1 test target\n" + string(target) + "\n")
	queries.WriteString(">read1\n" + string(fwd) + "\n>read2\n" + string(rev) + "\n")
	targetPath := filepath.Join(tempDir, "targets.fa.gz")
	queryPath := filepath.Join(tempDir, "queries.fa")
	outPath := filepath.Join(tempDir, "out.tsv.gz")
	writeFile(t, targetPath, targets.Bytes())
	writeFile(t, queryPath, queries.Bytes())

	opts := diffalign.DefaultOpts
	opts.CheckInvariants = true
	err := align(context.Background(), runOpts{
		queryPath:   queryPath,
		targetPath:  targetPath,
		outPath:     outPath,
		parallelism: 2,
		opts:        opts,
		params:      diffalign.DefaultParams,
		seeds:       seed.DefaultOpts,
	})
	require.NoError(t, err)
	lines := readLines(t, outPath)
	require.Equal(t, 2, len(lines))
	assert.Equal(t, "read1\t2000\t0\t2000\t+\tchr1\t3000\t500\t2500\t2000\t2000\t100.00\t0\t-4000\t2000M", lines[0])
	assert.Equal(t, "read2\t1200\t0\t1200\t-\tchr1\t3000\t1000\t2200\t1200\t1200\t100.00\t0\t-2400\t1200M", lines[1])
}

func TestAlignMissingInput(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	err := align(context.Background(), runOpts{
		queryPath:  filepath.Join(tempDir, "nonexistent.fa"),
		targetPath: filepath.Join(tempDir, "nonexistent.fa"),
		opts:       diffalign.DefaultOpts,
		params:     diffalign.DefaultParams,
		seeds:      seed.DefaultOpts,
	})
	assert.Error(t, err)
}

func TestReadSeqsFASTQ(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "reads.fq.gz")
	writeFile(t, path, []byte("@r1 ch=3\nACGTTn\n+\nEEEEEE\n@r2\nGG\n+\nEE\n"))
	recs, err := readSeqs(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, len(recs))
	assert.Equal(t, "r1", recs[0].Name)
	assert.Equal(t, "ACGTTN", string(recs[0].Seq))
	assert.Equal(t, "r2", recs[1].Name)
	assert.Equal(t, "GG", string(recs[1].Seq))
}
