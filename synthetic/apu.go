// This file is part of GopherNES.
//
// GopherNES is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherNES is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherNES.  If not, see <https://www.gnu.org/licenses/>.

package synthetic

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/jetsetilly/gophernes/limiter"
)

// the frequency and volume of the tone
const (
	toneHz     = 440.0
	toneVolume = 4000.0
)

// the audio unit
type apu struct {
	sampleRate int
	hz         float64

	// phase of the tone in radians
	phase float64

	// the fractional number of samples carried over to the next scanline
	acc float64

	// stereo pairs for the current frame
	buffer []int16

	// the position in the pcm data. the pcm data itself is not part of the
	// snapshot
	pcm    *pcm
	pcmPos float64
}

func newAPU(region limiter.Region, sampleRate int) *apu {
	return &apu{
		sampleRate: sampleRate,
		hz:         limiter.Timing{Region: region}.RefreshRate(),
	}
}

func (a *apu) reset() {
	a.phase = 0
	a.acc = 0
	a.pcmPos = 0
	a.buffer = a.buffer[:0]
}

// generate the samples for one scanline
func (a *apu) scanline(linesPerFrame int) {
	if a.sampleRate <= 0 {
		return
	}

	a.acc += float64(a.sampleRate) / (a.hz * float64(linesPerFrame))
	n := int(a.acc)
	a.acc -= float64(n)

	for range n {
		var s int16
		if a.pcm != nil {
			s = a.pcm.sample(a.pcmPos)
			a.pcmPos += float64(a.pcm.sampleRate) / float64(a.sampleRate)
			if a.pcmPos >= float64(len(a.pcm.data)) {
				a.pcmPos = 0
			}
		} else {
			s = int16(math.Sin(a.phase) * toneVolume)
			a.phase += 2 * math.Pi * toneHz / float64(a.sampleRate)
			if a.phase >= 2*math.Pi {
				a.phase -= 2 * math.Pi
			}
		}
		a.buffer = append(a.buffer, s, s)
	}
}

// SaveSnapshot implements the snapshot.Snapshotter interface.
func (a *apu) SaveSnapshot(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, [3]float64{a.phase, a.acc, a.pcmPos})
}

// LoadSnapshot implements the snapshot.Snapshotter interface.
func (a *apu) LoadSnapshot(r io.Reader, version uint32) error {
	var v [3]float64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return err
	}
	a.phase = v[0]
	a.acc = v[1]
	a.pcmPos = v[2]
	a.buffer = a.buffer[:0]
	return nil
}
