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

package digest

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"sync"
)

// the length of the buffer that is hashed. the start of the buffer is
// reserved for the previous digest value
const audioBufferLength = 1024 * sha1.Size

const audioBufferStart = sha1.Size

// Audio implements the audio.Tap interface.
type Audio struct {
	crit     sync.Mutex
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	return &Audio{
		buffer:   make([]uint8, audioBufferLength),
		bufferCt: audioBufferStart,
	}
}

// Hash implements the Digest interface. Buffered samples are included in the
// hash.
func (dig *Audio) Hash() string {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	dig.flush()
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Audio) ResetDigest() {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	clear(dig.digest[:])
	clear(dig.buffer[:audioBufferStart])
	dig.bufferCt = audioBufferStart
}

// AddSamples implements the audio.Tap interface. The sample rate is included
// in the hash.
func (dig *Audio) AddSamples(samples []int16, sampleRate int) {
	dig.crit.Lock()
	defer dig.crit.Unlock()

	dig.add(uint16(sampleRate))
	dig.add(uint16(sampleRate >> 16))
	for _, s := range samples {
		dig.add(uint16(s))
	}
}

func (dig *Audio) add(v uint16) {
	binary.LittleEndian.PutUint16(dig.buffer[dig.bufferCt:], v)
	dig.bufferCt += 2
	if dig.bufferCt >= audioBufferLength {
		dig.flush()
	}
}

func (dig *Audio) flush() {
	if dig.bufferCt == audioBufferStart {
		return
	}
	dig.digest = sha1.Sum(dig.buffer[:dig.bufferCt])
	copy(dig.buffer, dig.digest[:])
	dig.bufferCt = audioBufferStart
}
