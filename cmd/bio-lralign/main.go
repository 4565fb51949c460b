// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

// bio-lralign aligns long reads against a set of target sequences.
//
// Usage:
//
//   bio-lralign [flags] queries.fa[.gz] targets.fa[.gz]
//
// Either input may also be FASTQ, detected by a leading '@'.
//
// For every query, candidate (target, anchor) pairs on both strands are found
// by k-mer voting and each candidate is aligned outward from its anchor.
// Accepted alignments are written as one TSV line each:
//
//   qname qlen qstart qend strand tname tlen tstart tend matches alnlen identity dist score cigar
//
// Query coordinates are always on the forward strand of the query.

import (
	"flag"
	"runtime"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/longread/diffalign"
	"github.com/grailbio/longread/seed"
)

func main() {
	var (
		opts   = diffalign.DefaultOpts
		params = diffalign.DefaultParams
		seeds  = seed.DefaultOpts
		run    runOpts
	)
	flag.IntVar(&params.MinLength, "min-len", diffalign.DefaultParams.MinLength, "Minimum number of alignment columns")
	flag.Float64Var(&params.MinIdentity, "min-identity", diffalign.DefaultParams.MinIdentity, "Minimum percent identity of an alignment")
	flag.BoolVar(&params.Finish, "finish", diffalign.DefaultParams.Finish, "Align unresolved overhangs with the affine-gap finisher")
	flag.BoolVar(&opts.CheckInvariants, "check-invariants", false, "Validate alignments at every stage. Slow; for debugging")
	flag.IntVar(&opts.ChunkSize, "chunk-size", diffalign.DefaultOpts.ChunkSize, "Window length of one banded diff call")
	flag.IntVar(&seeds.KmerLength, "kmer", seed.DefaultOpts.KmerLength, "Seed k-mer length")
	flag.IntVar(&seeds.MaxCandidates, "max-candidates", seed.DefaultOpts.MaxCandidates, "Maximum number of targets tried per query strand")
	flag.IntVar(&seeds.MinHits, "min-hits", seed.DefaultOpts.MinHits, "Minimum number of k-mer hits for a candidate")
	flag.IntVar(&run.parallelism, "parallelism", runtime.NumCPU(), "Number of alignment workers")
	flag.StringVar(&run.outPath, "out", "", "Output TSV path. Compressed if it ends in .gz. Defaults to stdout")
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		log.Fatalf("exactly two arguments (<queries.fa> <targets.fa>) are required, got %v", flag.Args())
	}
	run.queryPath, run.targetPath = flag.Arg(0), flag.Arg(1)
	run.opts, run.params, run.seeds = opts, params, seeds
	ctx := vcontext.Background()
	if err := align(ctx, run); err != nil {
		log.Fatal(err)
	}
	log.Printf("All done")
}
