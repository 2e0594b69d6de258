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

package audio_test

import (
	"testing"

	"github.com/jetsetilly/gophernes/audio"
	"github.com/jetsetilly/gophernes/test"
)

type tap struct {
	samples    int
	sampleRate int
}

func (t *tap) AddSamples(samples []int16, sampleRate int) {
	t.samples += len(samples)
	t.sampleRate = sampleRate
}

func TestMixer(t *testing.T) {
	out := &audio.Headless{}
	mx := audio.NewMixer(out, 0)
	test.ExpectEquality(t, mx.SampleRate(), audio.DefaultSampleRate)

	tp := &tap{}
	mx.AddTap(tp)

	// samples are not sent until the end of the frame
	mx.AddSamples(make([]int16, 100))
	test.ExpectEquality(t, out.Samples.Load(), 0)
	mx.ProcessEndOfFrame()
	test.ExpectEquality(t, out.Samples.Load(), 100)
	test.ExpectEquality(t, tp.samples, 100)
	test.ExpectEquality(t, tp.sampleRate, audio.DefaultSampleRate)

	// stopping the audio discards buffered samples and pauses the output
	mx.AddSamples(make([]int16, 50))
	mx.StopAudio()
	test.ExpectSuccess(t, out.Paused.Load())
	mx.ProcessEndOfFrame()
	test.ExpectEquality(t, out.Samples.Load(), 100)

	// next frame with audio restarts the output
	mx.AddSamples(make([]int16, 10))
	mx.ProcessEndOfFrame()
	test.ExpectFailure(t, out.Paused.Load())
	test.ExpectEquality(t, out.Samples.Load(), 110)

	// muted audio still reaches the taps
	mx.SetMute(true)
	mx.AddSamples(make([]int16, 10))
	mx.ProcessEndOfFrame()
	test.ExpectEquality(t, out.Samples.Load(), 110)
	test.ExpectEquality(t, tp.samples, 120)

	mx.SetSampleRate(44100)
	mx.SetMute(false)
	mx.AddSamples(make([]int16, 2))
	mx.ProcessEndOfFrame()
	test.ExpectEquality(t, tp.sampleRate, 44100)

	mx.RemoveTap(tp)
	mx.AddSamples(make([]int16, 2))
	mx.ProcessEndOfFrame()
	test.ExpectEquality(t, tp.samples, 122)

	test.ExpectSuccess(t, mx.Close())
}
