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
// Writer drains flowsynth.Packet values and appends them to a pcapgo.Writer
// as a standard Ethernet-linktype capture file, the format downstream
// trace-handling tooling expects to read.

package pcapsink

import (
	"fmt"
	"os"

	"github.com/aoeldemann/flowsynth"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

const snapLen = 65535

// Writer appends packets to a PCAP file on disk.
type Writer struct {
	f     *os.File
	w     *pcapgo.Writer
	count int
	bytes int64
}

// Create opens path and writes the PCAP global header.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("pcapsink: create %s: %w", path, err)
	}

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(snapLen, layers.LinkTypeEthernet); err != nil {
		f.Close()
		return nil, fmt.Errorf("pcapsink: write header: %w", err)
	}

	return &Writer{f: f, w: w}, nil
}

// Write appends a single built packet, using pkt.Extra.Timestamp as the
// capture timestamp.
func (s *Writer) Write(pkt flowsynth.Packet) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     pkt.Extra.Timestamp,
		Length:        len(pkt.Bytes),
		CaptureLength: len(pkt.Bytes),
	}
	if err := s.w.WritePacket(ci, pkt.Bytes); err != nil {
		return fmt.Errorf("pcapsink: write packet: %w", err)
	}
	s.count++
	s.bytes += int64(len(pkt.Bytes))
	return nil
}

// Count returns the number of packets written so far.
func (s *Writer) Count() int { return s.count }

// Bytes returns the total wire-byte count written so far.
func (s *Writer) Bytes() int64 { return s.bytes }

// Close flushes and closes the underlying file.
func (s *Writer) Close() error {
	return s.f.Close()
}
