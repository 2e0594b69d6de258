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

package video

import (
	"image"
)

// Sideband information that accompanies the pixels of a frame.
type Sideband struct {
	// the frame number reported by the machine
	FrameNumber int
}

// Frame is a decoded frame. A consumer receives its own copy of the frame and
// can keep it for as long as it likes.
type Frame struct {
	Image *image.RGBA
	Sideband
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	c := &Frame{
		Sideband: f.Sideband,
		Image: &image.RGBA{
			Pix:    make([]uint8, len(f.Image.Pix)),
			Stride: f.Image.Stride,
			Rect:   f.Image.Rect,
		},
	}
	copy(c.Image.Pix, f.Image.Pix)
	return c
}

// Width of the frame in pixels.
func (f *Frame) Width() int {
	return f.Image.Rect.Dx()
}

// Height of the frame in pixels.
func (f *Frame) Height() int {
	return f.Image.Rect.Dy()
}

// Consumer is implemented by any type that wants to receive decoded frames.
type Consumer interface {
	// ConsumeFrame is called on the decoder goroutine. The implementation
	// should return quickly because the next frame will not be decoded until it
	// does.
	ConsumeFrame(f *Frame)
}

// ConsumerFunc allows a function to be used as a Consumer.
type ConsumerFunc func(f *Frame)

// ConsumeFrame implements the Consumer interface.
func (fn ConsumerFunc) ConsumeFrame(f *Frame) {
	fn(f)
}
