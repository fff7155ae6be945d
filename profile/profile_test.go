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

package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aoeldemann/flowsynth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "id,packets_forward,packets_reverse,bytes_forward,bytes_reverse,start,end,l3,l4,src_ip,dst_ip,src_port,dst_port,vlan_id,mpls_label\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+body), 0o644))
	return path
}

func TestLoadParsesWellFormedRows(t *testing.T) {
	path := writeCSV(t, "flow1,10,5,9000,4500,2026-01-01T00:00:00.000000,2026-01-01T00:00:10.000000,ipv4,tcp,,,,,,\n")

	profiles, err := Load(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.Equal(t, "flow1", p.ID)
	assert.Equal(t, 10, p.PacketsForward)
	assert.Equal(t, 5, p.PacketsReverse)
	assert.Equal(t, 9000, p.BytesForward)
	assert.Equal(t, 4500, p.BytesReverse)
	assert.Equal(t, flowsynth.L3IPv4, p.L3)
	assert.Equal(t, flowsynth.L4TCP, p.L4)
	assert.Nil(t, p.SrcIP)
	assert.Nil(t, p.VlanID)
}

func TestLoadParsesOptionalFields(t *testing.T) {
	path := writeCSV(t, "flow2,1,1,100,100,2026-01-01T00:00:00.000000,2026-01-01T00:00:01.000000,ipv4,udp,10.0.0.1,10.0.0.2,4000,5000,42,\n")

	profiles, err := Load(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.Equal(t, "10.0.0.1", p.SrcIP.String())
	assert.Equal(t, "10.0.0.2", p.DstIP.String())
	assert.Equal(t, uint16(4000), p.SrcPort)
	assert.Equal(t, uint16(5000), p.DstPort)
	require.NotNil(t, p.VlanID)
	assert.Equal(t, uint16(42), *p.VlanID)
	assert.Nil(t, p.MplsLabel)
}

func TestLoadRejectsUnknownProtocol(t *testing.T) {
	path := writeCSV(t, "flow3,1,1,100,100,2026-01-01T00:00:00.000000,2026-01-01T00:00:01.000000,ipv4,sctp,,,,,,\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedCSV(t *testing.T) {
	path := writeCSV(t, "flow4,not-a-number,1,100,100,2026-01-01T00:00:00.000000,2026-01-01T00:00:01.000000,ipv4,udp,,,,,,\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/path.csv")
	assert.Error(t, err)
}
