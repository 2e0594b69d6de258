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
	"fmt"
	"sync"

	"github.com/jetsetilly/gophernes/video"
)

// Video implements the video.Consumer interface.
type Video struct {
	crit     sync.Mutex
	digest   [sha1.Size]byte
	pixels   []byte
	frameNum int
	frames   int
}

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo() *Video {
	return &Video{}
}

// Hash implements the Digest interface.
func (dig *Video) Hash() string {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	clear(dig.digest[:])
	dig.frames = 0
}

// Frames returns the number of frames included in the digest and the frame
// number of the most recent frame.
func (dig *Video) Frames() (count int, frameNum int) {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return dig.frames, dig.frameNum
}

// ConsumeFrame implements the video.Consumer interface.
func (dig *Video) ConsumeFrame(f *video.Frame) {
	dig.crit.Lock()
	defer dig.crit.Unlock()

	// length of pixels array contains enough room for the previous frame's
	// digest value. only the visible rectangle of the image is hashed
	w := f.Width() * 4
	l := len(dig.digest) + w*f.Height()
	if cap(dig.pixels) < l {
		dig.pixels = make([]byte, l)
	}
	dig.pixels = dig.pixels[:l]

	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the video data
	i := copy(dig.pixels, dig.digest[:])
	for y := range f.Height() {
		o := y * f.Image.Stride
		i += copy(dig.pixels[i:], f.Image.Pix[o:o+w])
	}

	dig.digest = sha1.Sum(dig.pixels)
	dig.frameNum = f.FrameNumber
	dig.frames++
}
