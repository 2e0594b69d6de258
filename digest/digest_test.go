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

package digest_test

import (
	"image"
	"testing"

	"github.com/jetsetilly/gophernes/digest"
	"github.com/jetsetilly/gophernes/test"
	"github.com/jetsetilly/gophernes/video"
)

func frame(v uint8, n int) *video.Frame {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return &video.Frame{Image: img, Sideband: video.Sideband{FrameNumber: n}}
}

func TestVideo(t *testing.T) {
	var dig digest.Digest = digest.NewVideo()
	zero := dig.Hash()

	a := digest.NewVideo()
	b := digest.NewVideo()

	for i := range 10 {
		a.ConsumeFrame(frame(uint8(i), i))
		b.ConsumeFrame(frame(uint8(i), i))
	}
	test.ExpectEquality(t, a.Hash(), b.Hash())
	test.ExpectInequality(t, a.Hash(), zero)

	count, fn := a.Frames()
	test.ExpectEquality(t, count, 10)
	test.ExpectEquality(t, fn, 9)

	// the digest is chained so the order of frames matters
	a.ConsumeFrame(frame(1, 10))
	a.ConsumeFrame(frame(2, 11))
	b.ConsumeFrame(frame(2, 10))
	b.ConsumeFrame(frame(1, 11))
	test.ExpectInequality(t, a.Hash(), b.Hash())

	a.ResetDigest()
	test.ExpectEquality(t, a.Hash(), zero)
}

// frames in a sub-image are hashed by their visible pixels only
func TestVideoSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 8))
	sub := img.SubImage(image.Rect(0, 0, 16, 8)).(*image.RGBA)

	a := digest.NewVideo()
	a.ConsumeFrame(&video.Frame{Image: sub})

	b := digest.NewVideo()
	b.ConsumeFrame(frame(0, 0))

	test.ExpectEquality(t, a.Hash(), b.Hash())
}

func TestAudio(t *testing.T) {
	a := digest.NewAudio()
	b := digest.NewAudio()
	zero := a.Hash()

	samples := make([]int16, 1600)
	for i := range samples {
		samples[i] = int16(i)
	}

	// enough samples to cause a flush of the buffer
	for range 20 {
		a.AddSamples(samples, 48000)
		b.AddSamples(samples, 48000)
	}
	test.ExpectEquality(t, a.Hash(), b.Hash())
	test.ExpectInequality(t, a.Hash(), zero)

	// the sample rate is part of the digest
	a.AddSamples(samples, 48000)
	b.AddSamples(samples, 44100)
	test.ExpectInequality(t, a.Hash(), b.Hash())

	a.ResetDigest()
	test.ExpectEquality(t, a.Hash(), zero)
}
