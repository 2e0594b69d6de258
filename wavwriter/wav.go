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

// Package wavwriter allows writing of audio data to disk as a WAV file. Audio
// is written as it arrives so the file can be of any length.
//
// The WavWriter type implements the audio.Tap interface and so can be added
// directly to the audio mixer.
package wavwriter

import (
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/logger"
)

// SampleRateMismatch is the error pattern used when audio at a different
// sample rate to the one the file was created with is added.
const SampleRateMismatch = "wavwriter: sample rate has changed from %d to %d"

// the WAV format code for uncompressed PCM
const wavFormatPCM = 1

// WavWriter writes signed 16bit stereo samples to a WAV file.
type WavWriter struct {
	crit     sync.Mutex
	filename string
	f        *os.File
	enc      *wav.Encoder
	buf      *audio.IntBuffer

	sampleRate int

	// the first error encountered by AddSamples(). the error is returned by
	// Close()
	err error
}

// NewWavWriter is the preferred method of initialisation for the WavWriter type.
func NewWavWriter(filename string, sampleRate int) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, curated.Errorf("wavwriter: %v", err)
	}

	aw := &WavWriter{
		filename:   filename,
		f:          f,
		sampleRate: sampleRate,
		enc:        wav.NewEncoder(f, sampleRate, 16, 2, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 2,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: 16,
		},
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", filename)

	return aw, nil
}

// Filename returns the name of the file being written.
func (aw *WavWriter) Filename() string {
	return aw.filename
}

// SampleRate returns the sample rate of the file.
func (aw *WavWriter) SampleRate() int {
	return aw.sampleRate
}

// AddSamples implements the audio.Tap interface. Samples are stereo pairs.
func (aw *WavWriter) AddSamples(samples []int16, sampleRate int) {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	if aw.enc == nil || aw.err != nil {
		return
	}

	if sampleRate != aw.sampleRate {
		aw.err = curated.Errorf(SampleRateMismatch, aw.sampleRate, sampleRate)
		logger.Log(logger.Allow, "wavwriter", aw.err)
		return
	}

	aw.buf.Data = aw.buf.Data[:0]
	for _, s := range samples {
		aw.buf.Data = append(aw.buf.Data, int(s))
	}

	if err := aw.enc.Write(aw.buf); err != nil {
		aw.err = curated.Errorf("wavwriter: %v", err)
	}
}

// Close finalises the WAV header and closes the file. It is safe to call more
// than once.
func (aw *WavWriter) Close() error {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	if aw.enc == nil {
		return aw.err
	}

	if err := aw.enc.Close(); err != nil && aw.err == nil {
		aw.err = curated.Errorf("wavwriter: %v", err)
	}
	if err := aw.f.Close(); err != nil && aw.err == nil {
		aw.err = curated.Errorf("wavwriter: %v", err)
	}
	aw.enc = nil

	return aw.err
}
