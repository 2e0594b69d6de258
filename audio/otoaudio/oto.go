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

// Package otoaudio is an audio output device using the oto library. Unlike the
// SDL device it does not need a window and so can be used in headless mode.
package otoaudio

import (
	"encoding/binary"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/gophernes/curated"
)

// the maximum amount of audio held in the queue before old samples are
// dropped. measured in samples (not frames).
const maxQueue = 16384

// bufferSize is the oto device buffer size. the oto library interprets the
// value as a number of milliseconds when it is small
const bufferSize = 40

// oto allows only one context per process.
var (
	contextOnce sync.Once
	context     *oto.Context
	contextRate int
	contextErr  error
)

func getContext(sampleRate int) (*oto.Context, error) {
	contextOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   bufferSize,
		}

		var ready chan struct{}
		context, ready, contextErr = oto.NewContext(op)
		if contextErr == nil {
			<-ready
			contextRate = sampleRate
		}
	})

	if contextErr != nil {
		return nil, curated.Errorf("otoaudio: %v", contextErr)
	}
	if contextRate != sampleRate {
		return nil, curated.Errorf("otoaudio: device already open at %d Hz", contextRate)
	}
	return context, nil
}

// Audio is an implementation of the audio.Output interface.
type Audio struct {
	player *oto.Player

	crit   sync.Mutex
	queue  []int16
	paused bool
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio(sampleRate int) (*Audio, error) {
	ctx, err := getContext(sampleRate)
	if err != nil {
		return nil, err
	}

	aud := &Audio{
		queue: make([]int16, 0, maxQueue),
	}
	aud.player = ctx.NewPlayer(aud)
	aud.player.Play()

	return aud, nil
}

// Read implements the io.Reader interface. It is called by the oto player from
// its own goroutine. silence is output if the queue is empty.
func (aud *Audio) Read(p []byte) (int, error) {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	n := len(p) / 2
	i := 0
	if !aud.paused {
		for ; i < n && i < len(aud.queue); i++ {
			binary.LittleEndian.PutUint16(p[i*2:], uint16(aud.queue[i]))
		}
		aud.queue = append(aud.queue[:0], aud.queue[i:]...)
	}

	clear(p[i*2 : n*2])
	return n * 2, nil
}

// QueueSamples implements the audio.Output interface.
func (aud *Audio) QueueSamples(samples []int16) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	aud.queue = append(aud.queue, samples...)

	// keep the queue bounded. samples are stereo pairs so drop an even number
	if over := len(aud.queue) - maxQueue; over > 0 {
		over += over & 1
		aud.queue = append(aud.queue[:0], aud.queue[over:]...)
	}

	return nil
}

// Pause implements the audio.Output interface.
func (aud *Audio) Pause(paused bool) {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	aud.paused = paused
	if paused {
		aud.queue = aud.queue[:0]
	}
}

// Close implements the audio.Output interface.
func (aud *Audio) Close() error {
	if err := aud.player.Close(); err != nil {
		return curated.Errorf("otoaudio: %v", err)
	}
	return nil
}
