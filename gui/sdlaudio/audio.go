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

// Package sdlaudio is an audio output device using SDL. SDL must have been
// initialised with the audio subsystem before NewAudio() is called.
package sdlaudio

import (
	"unsafe"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/logger"

	"github.com/veandco/go-sdl2/sdl"
)

// the buffer length is important to get right. unfortunately, there's no
// special way (that I know of) that can tells us what the ideal value is. we
// don't want it to be long because we can introduce unnecessary lag between
// the audio and video signal; by the same token we don't want it too short
// because the device will underflow.
//
// the following value has been discovered through trial and error. the precise
// value is not critical.
const bufferLength = 1024

// if the amount of queued audio grows beyond this number of bytes then the
// queue is cleared. this happens if the emulation is running faster than
// normal speed.
const maxQueueBytes = 32768

// Audio outputs sound using SDL
type Audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec
}

// NewAudio is the preferred method of initialisation for the Audio Type
func NewAudio(sampleRate int) (*Audio, error) {
	aud := &Audio{}

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16SYS,
		Channels: 2,
		Samples:  uint16(bufferLength),
	}

	var err error
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		return nil, curated.Errorf("sdlaudio: %v", err)
	}

	if aud.spec.Freq != spec.Freq {
		logger.Logf(logger.Allow, "sdlaudio", "device frequency is %d not %d", aud.spec.Freq, spec.Freq)
	}

	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

// QueueSamples implements the audio.Output interface
func (aud *Audio) QueueSamples(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	if sdl.GetQueuedAudioSize(aud.id) > maxQueueBytes {
		sdl.ClearQueuedAudio(aud.id)
	}

	b := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	if err := sdl.QueueAudio(aud.id, b); err != nil {
		return curated.Errorf("sdlaudio: %v", err)
	}
	return nil
}

// Pause implements the audio.Output interface
func (aud *Audio) Pause(paused bool) {
	if paused {
		sdl.ClearQueuedAudio(aud.id)
	}
	sdl.PauseAudioDevice(aud.id, paused)
}

// Close implements the audio.Output interface
func (aud *Audio) Close() error {
	sdl.ClearQueuedAudio(aud.id)
	sdl.CloseAudioDevice(aud.id)
	return nil
}
