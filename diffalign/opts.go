// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import "github.com/grailbio/longread/extend"

// MatchRun is the number of consecutive exact columns that make a safe cut
// point.
const MatchRun = 8

// Opts controls buffer sizing and the heuristics of the aligner.  Options are
// fixed for the lifetime of a Session.
type Opts struct {
	// ChunkSize is the window length fed to one banded diff call.
	ChunkSize int
	// FinalChunkSlack widens the last window so that it can swallow the rest
	// of both sequences.  A window is final once the shorter remainder is at
	// most ChunkSize*(1+FinalChunkSlack).
	FinalChunkSlack float64
	// MaxPathRecords caps the d-path store of one banded diff call.  Running
	// out is treated like exhausting the distance budget.
	MaxPathRecords int
	// DivergenceResidual stops chunked extension when both sides of a chunk
	// leave more than this many symbols unaligned.
	DivergenceResidual int
	// MaxOverhang is the longest overhang (shorter side) handed to the
	// finisher.
	MaxOverhang int
	// BandFraction sets the band tolerance as a fraction of the longer
	// window.
	BandFraction float64
	// DistFraction sets the maximum diff distance as a fraction of the summed
	// window lengths.
	DistFraction float64
	// IdentitySlack is how far (in percentage points) below the caller's
	// minimum identity an unfinished alignment may be and still go on to the
	// finisher.
	IdentitySlack float64

	MatchReward     int
	MismatchPenalty int

	// Extend configures the overhang finisher.
	Extend extend.Opts

	// CheckInvariants runs the validator at every stage boundary and panics
	// on a violation.  It is meant for tests and debugging.
	CheckInvariants bool
}

// DefaultOpts are the options used by the bio-lralign tool.
var DefaultOpts = Opts{
	ChunkSize:          500,
	FinalChunkSlack:    0.2,
	MaxPathRecords:     4 << 20,
	DivergenceResidual: 30,
	MaxOverhang:        1000,
	BandFraction:       0.3,
	DistFraction:       0.3,
	IdentitySlack:      2.0,
	MatchReward:        2,
	MismatchPenalty:    -4,
	Extend:             extend.DefaultOpts,
}

// Params are the per-call acceptance thresholds.
type Params struct {
	// MinLength is the minimum number of alignment columns.
	MinLength int
	// MinIdentity is the minimum percent identity, in [0, 100].
	MinIdentity float64
	// Finish enables the affine-gap overhang finisher.
	Finish bool
}

// DefaultParams are the thresholds used by the bio-lralign tool.
var DefaultParams = Params{
	MinLength:   500,
	MinIdentity: 70,
	Finish:      true,
}

// Anchor is a point believed to be a true correspondence between the query
// and the target.
type Anchor struct {
	QOff, TOff int
}
