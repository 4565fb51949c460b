// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides byte-array kernels for the sequence encodings used
// by the long-read aligner: ASCII cleaning and reverse-complementing, and
// conversion between ASCII and the 2-bit packed representation (four bases
// per byte, little-endian within the byte).
//
// See base/simd/doc.go for more comments on the overall design.
package biosimd
