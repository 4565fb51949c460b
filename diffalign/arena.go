// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diffalign

import "github.com/grailbio/base/log"

const arenaPad = 64

// arena is a byte buffer that grows in both directions from an origin.  The
// live bytes are buf[lo:hi].  Growth reallocates and recenters; the capacity
// never shrinks.
type arena struct {
	buf    []byte
	lo, hi int
}

// reset empties the arena, making room for at least front bytes before the
// origin and back bytes after it.
func (a *arena) reset(front, back int) {
	need := front + back + 2*arenaPad
	if cap(a.buf) < need {
		a.buf = make([]byte, need)
	}
	a.buf = a.buf[:cap(a.buf)]
	a.lo = front + arenaPad
	if slack := len(a.buf) - need; slack > 0 {
		a.lo += slack / 2
	}
	a.hi = a.lo
}

func (a *arena) len() int { return a.hi - a.lo }

// bytes returns the live bytes.  The slice is valid until the next mutation.
func (a *arena) bytes() []byte { return a.buf[a.lo:a.hi] }

func (a *arena) grow(front, back int) {
	n := a.len()
	half := len(a.buf)/2 + arenaPad
	buf := make([]byte, half+front+n+back+half)
	lo := half + front
	copy(buf[lo:], a.buf[a.lo:a.hi])
	a.buf, a.lo, a.hi = buf, lo, lo+n
}

// pushBack appends p after the live bytes.
func (a *arena) pushBack(p []byte) {
	if a.hi+len(p) > len(a.buf) {
		a.grow(0, len(p))
	}
	copy(a.buf[a.hi:], p)
	a.hi += len(p)
}

// pushFront inserts p before the live bytes; afterwards bytes() starts with
// p.
func (a *arena) pushFront(p []byte) {
	if a.lo < len(p) {
		a.grow(len(p), 0)
	}
	a.lo -= len(p)
	copy(a.buf[a.lo:], p)
}

func (a *arena) popBack(n int) {
	if n < 0 || n > a.len() {
		log.Panicf("arena.popBack: %d of %d bytes", n, a.len())
	}
	a.hi -= n
}

func (a *arena) popFront(n int) {
	if n < 0 || n > a.len() {
		log.Panicf("arena.popFront: %d of %d bytes", n, a.len())
	}
	a.lo += n
}
