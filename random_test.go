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

package flowsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomDoubleWithinBounds(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 1000; i++ {
		v := r.RandomDouble(10, 20)
		assert.GreaterOrEqual(t, v, 10.0)
		assert.Less(t, v, 20.0)
	}
}

func TestRandomDoubleDegenerateRange(t *testing.T) {
	r := NewRand(7)
	assert.Equal(t, 5.0, r.RandomDouble(5, 5))
	assert.Equal(t, 5.0, r.RandomDouble(5, 4))
}

func TestRandomUIntInclusiveBounds(t *testing.T) {
	r := NewRand(7)
	seenLo, seenHi := false, false
	for i := 0; i < 2000; i++ {
		v := r.RandomUInt(3, 5)
		assert.GreaterOrEqual(t, v, uint64(3))
		assert.LessOrEqual(t, v, uint64(5))
		if v == 3 {
			seenLo = true
		}
		if v == 5 {
			seenHi = true
		}
	}
	assert.True(t, seenLo)
	assert.True(t, seenHi)
}

func TestRandomUIntDegenerateRange(t *testing.T) {
	r := NewRand(7)
	assert.Equal(t, uint64(9), r.RandomUInt(9, 9))
	assert.Equal(t, uint64(9), r.RandomUInt(9, 3))
}

func TestSeedGlobalIsDeterministic(t *testing.T) {
	SeedGlobal(123)
	a := DefaultRand.RandomUInt(0, 1_000_000)
	SeedGlobal(123)
	b := DefaultRand.RandomUInt(0, 1_000_000)
	assert.Equal(t, a, b)
}
