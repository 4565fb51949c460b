// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package seed finds candidate (target, anchor) pairs for a query read by
// voting shared k-mers by diagonal.
package seed

import (
	"sort"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Opts configures an Index.
type Opts struct {
	// KmerLength is the k-mer length, in [1, 32].
	KmerLength int
	// NumShards is the number of independently built hash tables.
	NumShards int
	// MaxOccurrences drops k-mers that occur more often than this across all
	// targets.  Such k-mers are repeats and make poor anchors.
	MaxOccurrences int
	// MinHits is the minimum number of k-mer hits on one diagonal band for a
	// target to become a candidate.
	MinHits int
	// MaxCandidates caps the number of candidates returned per query.
	MaxCandidates int
	// DiagonalBand is the width of the diagonal buckets hits are voted into.
	DiagonalBand int
}

// DefaultOpts are the default index options.
var DefaultOpts = Opts{
	KmerLength:     15,
	NumShards:      64,
	MaxOccurrences: 64,
	MinHits:        3,
	MaxCandidates:  5,
	DiagonalBand:   256,
}

const invalidBits = uint8(255)

var asciiToBits [256]uint8

func init() {
	for i := range asciiToBits {
		asciiToBits[i] = invalidBits
	}
	asciiToBits['A'], asciiToBits['a'] = 0, 0
	asciiToBits['C'], asciiToBits['c'] = 1, 1
	asciiToBits['G'], asciiToBits['g'] = 2, 2
	asciiToBits['T'], asciiToBits['t'] = 3, 3
}

// forEachKmer calls cb for every k-mer of seq that contains only ACGT.
func forEachKmer(seq []byte, k int, cb func(pos int, kmer uint64)) {
	mask := ^(^uint64(0) << uint(2*k))
	var (
		kmer  uint64
		valid int // number of trailing ACGT bases in kmer
	)
	for i, c := range seq {
		b := asciiToBits[c]
		if b == invalidBits {
			valid = 0
			kmer = 0
			continue
		}
		kmer = ((kmer << 2) | uint64(b)) & mask
		if valid++; valid >= k {
			cb(i-k+1, kmer)
		}
	}
}

func hashKmer(kmer uint64) uint64 {
	return farm.Hash64WithSeed(nil, kmer)
}

type hit struct {
	target int32
	pos    int32
}

type posKmer struct {
	kmer uint64
	pos  int32
}

// Index maps k-mers of a set of target sequences to their positions.  It is
// immutable once built.  Thread safe.
type Index struct {
	opts   Opts
	shards []map[uint64][]hit
}

// NewIndex indexes targets.  Each target is an ASCII sequence; bases other
// than ACGT never take part in a k-mer.
func NewIndex(targets [][]byte, opts Opts) (*Index, error) {
	if opts.KmerLength < 1 || opts.KmerLength > 32 {
		return nil, errors.E(errors.Invalid, "seed: k-mer length must be in [1,32]")
	}
	if opts.NumShards < 1 {
		return nil, errors.E(errors.Invalid, "seed: need at least one shard")
	}
	nShards := opts.NumShards
	// Split every target's k-mers by shard, then build the shards in
	// parallel.
	perTarget := make([][][]posKmer, len(targets))
	err := traverse.Each(len(targets), func(ti int) error {
		buckets := make([][]posKmer, nShards)
		forEachKmer(targets[ti], opts.KmerLength, func(pos int, kmer uint64) {
			s := hashKmer(kmer) % uint64(nShards)
			buckets[s] = append(buckets[s], posKmer{kmer: kmer, pos: int32(pos)})
		})
		perTarget[ti] = buckets
		return nil
	})
	if err != nil {
		return nil, err
	}
	idx := &Index{opts: opts, shards: make([]map[uint64][]hit, nShards)}
	err = traverse.Each(nShards, func(s int) error {
		m := map[uint64][]hit{}
		for ti, buckets := range perTarget {
			for _, pk := range buckets[s] {
				m[pk.kmer] = append(m[pk.kmer], hit{target: int32(ti), pos: pk.pos})
			}
		}
		for kmer, hits := range m {
			if len(hits) > opts.MaxOccurrences {
				delete(m, kmer)
			}
		}
		idx.shards[s] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	if log.At(log.Debug) {
		n := 0
		for _, m := range idx.shards {
			n += len(m)
		}
		log.Debug.Printf("seed: indexed %d targets, %d distinct k-mers", len(targets), n)
	}
	return idx, nil
}

// Opts returns the options the index was built with.
func (idx *Index) Opts() Opts { return idx.opts }

func (idx *Index) lookup(kmer uint64) []hit {
	return idx.shards[hashKmer(kmer)%uint64(len(idx.shards))][kmer]
}

// Candidate is a target that shares enough k-mers with a query.  QOff and
// TOff are the start of one shared k-mer, picked from the middle of the
// best-supported diagonal band.
type Candidate struct {
	TargetID int
	QOff     int
	TOff     int
	Hits     int
}

type vote struct {
	target int32
	band   int32
	qpos   int32
	tpos   int32
}

// Candidates returns up to MaxCandidates targets that share at least MinHits
// k-mers with query on one diagonal band, best-supported first.  At most one
// candidate is reported per target.
func (idx *Index) Candidates(query []byte) []Candidate {
	band := idx.opts.DiagonalBand
	if band < 1 {
		band = 1
	}
	var votes []vote
	forEachKmer(query, idx.opts.KmerLength, func(qpos int, kmer uint64) {
		for _, h := range idx.lookup(kmer) {
			diag := int(h.pos) - qpos
			b := diag / band
			if diag < 0 && diag%band != 0 {
				b--
			}
			votes = append(votes, vote{target: h.target, band: int32(b), qpos: int32(qpos), tpos: h.pos})
		}
	})
	sort.Slice(votes, func(i, j int) bool {
		vi, vj := votes[i], votes[j]
		if vi.target != vj.target {
			return vi.target < vj.target
		}
		if vi.band != vj.band {
			return vi.band < vj.band
		}
		return vi.qpos < vj.qpos
	})
	var cands []Candidate
	for i := 0; i < len(votes); {
		j := i + 1
		for j < len(votes) && votes[j].target == votes[i].target && votes[j].band == votes[i].band {
			j++
		}
		if n := j - i; n >= idx.opts.MinHits {
			mid := votes[i+n/2]
			c := Candidate{TargetID: int(mid.target), QOff: int(mid.qpos), TOff: int(mid.tpos), Hits: n}
			if k := len(cands); k > 0 && cands[k-1].TargetID == c.TargetID {
				if c.Hits > cands[k-1].Hits {
					cands[k-1] = c
				}
			} else {
				cands = append(cands, c)
			}
		}
		i = j
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Hits > cands[j].Hits })
	if len(cands) > idx.opts.MaxCandidates {
		cands = cands[:idx.opts.MaxCandidates]
	}
	return cands
}
