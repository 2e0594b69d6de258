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

package audio

import (
	"slices"
	"sync"

	"github.com/jetsetilly/gophernes/logger"
)

// DefaultSampleRate is the sample rate used if no other rate is requested.
const DefaultSampleRate = 48000

// Output is implemented by audio devices.
type Output interface {
	// QueueSamples is called once per frame with the samples for that frame.
	// The slice must not be retained
	QueueSamples(samples []int16) error

	// Pause or unpause the device. A paused device should output silence and
	// discard any queued samples
	Pause(paused bool)

	Close() error
}

// Tap receives a copy of the audio for every frame.
type Tap interface {
	AddSamples(samples []int16, sampleRate int)
}

// Mixer implements the end-of-frame audio processing for the scheduler.
type Mixer struct {
	crit sync.Mutex

	output     Output
	sampleRate int
	taps       []Tap

	// samples accumulated during the current frame
	buffer []int16

	// the output has been paused by StopAudio()
	stopped bool

	// the scheduler's speed setting. audio is muted if the emulation is not
	// running at normal speed
	muted bool
}

// NewMixer is the preferred method of initialisation for the Mixer type. The
// output argument can be nil.
func NewMixer(output Output, sampleRate int) *Mixer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Mixer{
		output:     output,
		sampleRate: sampleRate,
		buffer:     make([]int16, 0, sampleRate/25),
	}
}

// SampleRate returns the current sample rate.
func (mx *Mixer) SampleRate() int {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	return mx.sampleRate
}

// SetSampleRate changes the sample rate. Samples in the current frame are
// discarded.
func (mx *Mixer) SetSampleRate(sampleRate int) {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	mx.sampleRate = sampleRate
	mx.buffer = mx.buffer[:0]
}

// SetOutput replaces the output device. The previous device is closed.
func (mx *Mixer) SetOutput(output Output) error {
	mx.crit.Lock()
	defer mx.crit.Unlock()

	var err error
	if mx.output != nil {
		err = mx.output.Close()
	}
	mx.output = output
	return err
}

// SetMute silences the output device. Taps still receive the audio.
func (mx *Mixer) SetMute(muted bool) {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	mx.muted = muted
}

// AddTap adds a tap to the mixer.
func (mx *Mixer) AddTap(tap Tap) {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	mx.taps = append(mx.taps, tap)
}

// RemoveTap removes a tap previously added with AddTap().
func (mx *Mixer) RemoveTap(tap Tap) {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	mx.taps = slices.DeleteFunc(mx.taps, func(t Tap) bool {
		return t == tap
	})
}

// AddSamples is called by the emulated audio unit. Samples are buffered until
// the end of the frame.
func (mx *Mixer) AddSamples(samples []int16) {
	mx.crit.Lock()
	defer mx.crit.Unlock()
	mx.buffer = append(mx.buffer, samples...)
}

// ProcessEndOfFrame sends the samples for the frame to the output device and to
// every tap. If the output has been stopped with StopAudio() it is restarted.
func (mx *Mixer) ProcessEndOfFrame() {
	mx.crit.Lock()
	defer mx.crit.Unlock()

	if len(mx.buffer) == 0 {
		return
	}

	if mx.output != nil {
		if mx.stopped {
			mx.output.Pause(false)
			mx.stopped = false
		}
		if !mx.muted {
			if err := mx.output.QueueSamples(mx.buffer); err != nil {
				logger.Logf(logger.Allow, "audio", "%v", err)
			}
		}
	}

	for _, t := range mx.taps {
		t.AddSamples(mx.buffer, mx.sampleRate)
	}

	mx.buffer = mx.buffer[:0]
}

// StopAudio pauses the output device and discards any buffered samples. The
// output is restarted by the next call to ProcessEndOfFrame().
func (mx *Mixer) StopAudio() {
	mx.crit.Lock()
	defer mx.crit.Unlock()

	mx.buffer = mx.buffer[:0]
	if mx.output != nil && !mx.stopped {
		mx.output.Pause(true)
		mx.stopped = true
	}
}

// Close the output device.
func (mx *Mixer) Close() error {
	return mx.SetOutput(nil)
}
