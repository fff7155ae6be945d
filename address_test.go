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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddressGeneratorRejectsInvalidSeed(t *testing.T) {
	_, err := NewAddressGenerator(0)
	assert.ErrorIs(t, err, ErrInvalidSeed)

	_, err = NewAddressGenerator(LehmerModulus)
	assert.ErrorIs(t, err, ErrInvalidSeed)

	g, err := NewAddressGenerator(1)
	require.NoError(t, err)
	assert.NotNil(t, g)

	g, err = NewAddressGenerator(LehmerPeriod)
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestAddressGeneratorIPv4FirstDraw(t *testing.T) {
	g, err := NewAddressGenerator(1)
	require.NoError(t, err)

	ip := g.GenerateIPv4()
	got := fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
	assert.Equal(t, "0.0.188.143", got)
}

func TestAddressGeneratorDeterministic(t *testing.T) {
	g1, err := NewAddressGenerator(42)
	require.NoError(t, err)
	g2, err := NewAddressGenerator(42)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.Equal(t, g1.GenerateMac(), g2.GenerateMac())
	}
}

func TestAddressGeneratorDoesNotRepeatWithinPeriod(t *testing.T) {
	g, err := NewAddressGenerator(1)
	require.NoError(t, err)

	seen := make(map[uint32]bool)
	for i := 0; i < 5000; i++ {
		v := g.next()
		assert.False(t, seen[v], "value repeated before period exhaustion at draw %d", i)
		seen[v] = true
	}
}
