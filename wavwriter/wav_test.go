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

package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/test"
	"github.com/jetsetilly/gophernes/wavwriter"
)

func TestWavWriter(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "audio.wav")

	aw, err := wavwriter.NewWavWriter(fn, 48000)
	test.DemandSuccess(t, err)

	samples := make([]int16, 800*2)
	for i := range samples {
		samples[i] = int16(i)
	}

	aw.AddSamples(samples, 48000)
	aw.AddSamples(samples, 48000)
	test.ExpectSuccess(t, aw.Close())

	// closing twice is okay
	test.ExpectSuccess(t, aw.Close())

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	test.ExpectSuccess(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, int(dec.NumChans), 2)
	test.ExpectEquality(t, int(dec.SampleRate), 48000)
	test.ExpectEquality(t, len(buf.Data), len(samples)*2)
	test.ExpectEquality(t, buf.Data[5], 5)
}

func TestSampleRateChange(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "audio.wav")

	aw, err := wavwriter.NewWavWriter(fn, 48000)
	test.DemandSuccess(t, err)

	aw.AddSamples(make([]int16, 4), 44100)
	err = aw.Close()
	test.ExpectSuccess(t, curated.Is(err, wavwriter.SampleRateMismatch))
}
