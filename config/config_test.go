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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aoeldemann/flowsynth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesFullConfig(t *testing.T) {
	path := writeConfig(t, `
encapsulation:
  - probability: 0.7
    layers:
      - vlan_id: 100
  - probability: 0.3
    layers:
      - mpls_label: 12345
ipv4:
  ranges:
    - "10.0.0.0/8"
  fragmentation:
    probability: 0.1
    min_size_to_fragment: 1400
ipv6:
  ranges:
    - "fd00::/8"
  fragmentation:
    probability: 0.05
    min_size_to_fragment: 1400
size_intervals:
  - from: 64
    to: 128
    prob: 0.5
  - from: 128
    to: 1500
    prob: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Encapsulation, 2)
	require.Len(t, cfg.Encapsulation[0].Layers, 1)
	require.NotNil(t, cfg.Encapsulation[0].Layers[0].VlanID)
	assert.Equal(t, uint16(100), *cfg.Encapsulation[0].Layers[0].VlanID)
	require.NotNil(t, cfg.Encapsulation[1].Layers[0].MplsLabel)
	assert.Equal(t, uint32(12345), *cfg.Encapsulation[1].Layers[0].MplsLabel)

	require.Len(t, cfg.IPv4.Ranges, 1)
	assert.Equal(t, "10.0.0.0/8", cfg.IPv4.Ranges[0].String())
	assert.Equal(t, 0.1, cfg.IPv4.Fragmentation.Probability)
	assert.Equal(t, 1400, cfg.IPv4.Fragmentation.MinSizeToFragment)

	require.Len(t, cfg.SizeIntervals, 2)
	assert.Equal(t, flowsynth.IntervalInfo{From: 64, To: 128, Prob: 0.5}, cfg.SizeIntervals[0])
}

func TestLoadRejectsEncapsulationLayerWithNeitherTag(t *testing.T) {
	path := writeConfig(t, `
encapsulation:
  - probability: 1.0
    layers:
      - {}
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, flowsynth.ErrInvalidConfig)
}

func TestLoadRejectsSizeIntervalBelowEthernetHeader(t *testing.T) {
	path := writeConfig(t, `
size_intervals:
  - from: 10
    to: 64
    prob: 1.0
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, flowsynth.ErrInvalidConfig)
}

func TestLoadRejectsInvalidCIDR(t *testing.T) {
	path := writeConfig(t, `
ipv4:
  ranges:
    - "not-a-cidr"
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, flowsynth.ErrInvalidConfig)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/planner.yaml")
	assert.Error(t, err)
}
