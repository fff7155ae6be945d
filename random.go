// The MIT License
//
// Copyright (c) 2017-2018 by the author(s)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//
// Author(s):
//   - Andreas Oeldemann <andreas.oeldemann@tum.de>
//
// Description:
//
// Process-wide pseudorandom number source shared by every component except
// the Address Generators, which keep their own Lehmer stream so that
// address allocation stays stable when unrelated call counts shift.

package flowsynth

import "math/rand"

// Rand is the shared source of randomness used by the Packet-Size
// Distributor, the encapsulation-selection heuristic and the timestamp
// assignment step. It wraps math/rand so that tests can substitute a
// deterministic stub by constructing their own *Rand around a fixed-seed
// source instead of going through SeedGlobal.
type Rand struct {
	src *rand.Rand
}

// NewRand creates a Rand seeded with the given value.
func NewRand(seed uint32) *Rand {
	return &Rand{src: rand.New(rand.NewSource(int64(seed)))}
}

// RandomDouble returns a uniformly distributed float64 in [lo, hi).
func (r *Rand) RandomDouble(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.src.Float64()*(hi-lo)
}

// RandomUInt returns a uniformly distributed integer in [lo, hi], inclusive
// on both ends.
func (r *Rand) RandomUInt(lo, hi uint64) uint64 {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	if span == 0 {
		// lo=0, hi=MaxUint64: span overflowed to 0, fall back to the full
		// 64 bit range
		return uint64(r.src.Int63()) | (uint64(r.src.Int63()) << 62)
	}
	return lo + uint64(r.src.Int63n(int64(span)))
}

// Shuffle randomizes the order of seq in place using the Fisher-Yates
// algorithm driven by this Rand.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	r.src.Shuffle(n, swap)
}

// FillBytes fills b with pseudorandom bytes, used to synthesize payload
// content that does not need to be cryptographically unpredictable.
func (r *Rand) FillBytes(b []byte) {
	r.src.Read(b)
}

// DefaultRand is the process-wide instance every in-scope component other
// than the Address Generators draws from. It must be initialized once via
// SeedGlobal before planning begins; a nil DefaultRand is a programmer
// error and components that dereference it will panic, treating an
// impossible precondition as fatal rather than routing it through an
// ordinary error return.
var DefaultRand *Rand

// SeedGlobal seeds (or reseeds) the shared RandomGenerator instance.
// NewEngine calls this once per run with the user-supplied seed.
func SeedGlobal(seed uint32) {
	DefaultRand = NewRand(seed)
}
