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
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/gophernes/autoreset"
	"github.com/jetsetilly/gophernes/logger"
)

// RenderCeiling is the longest time the renderer will wait for a new frame
// before rendering anyway.
const RenderCeiling = 16 * time.Millisecond

// RenderingDevice is implemented by the host's display.
type RenderingDevice interface {
	// UpdateFrame is called on the decoder goroutine with a private copy of
	// the decoded frame. The implementation must not block for longer than it
	// takes to store the frame.
	//
	// A decode in progress when the device is unregistered can still call
	// UpdateFrame() after the renderer has stopped. Render() will not be
	// called again.
	UpdateFrame(f *Frame)

	// Render is called on the renderer goroutine.
	Render() error
}

// Renderer drives a RenderingDevice on a goroutine of its own. It implements
// the Consumer interface.
type Renderer struct {
	device RenderingDevice
	ready  autoreset.Event

	stopping atomic.Bool
	done     chan struct{}
	stopOnce sync.Once

	rendered atomic.Int64
}

// NewRenderer creates a Renderer and starts the renderer goroutine.
func NewRenderer(device RenderingDevice) *Renderer {
	rnd := &Renderer{
		device: device,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(rnd.done)
		for {
			rnd.ready.Wait(RenderCeiling)
			if rnd.stopping.Load() {
				return
			}
			if err := rnd.device.Render(); err != nil {
				logger.Log(logger.Allow, "video", err)
			}
			rnd.rendered.Add(1)
		}
	}()

	return rnd
}

// ConsumeFrame implements the Consumer interface.
// Frames are dropped once the renderer is stopping.
func (rnd *Renderer) ConsumeFrame(f *Frame) {
	if rnd.stopping.Load() {
		return
	}
	rnd.device.UpdateFrame(f)
	rnd.ready.Signal()
}

// Rendered returns the number of calls made to the device's Render() function.
func (rnd *Renderer) Rendered() int {
	return int(rnd.rendered.Load())
}

// Stop the renderer goroutine and wait for it to finish. It is safe to call
// more than once.
func (rnd *Renderer) Stop() {
	rnd.stopOnce.Do(func() {
		rnd.stopping.Store(true)
		rnd.ready.Signal()
		<-rnd.done
	})
}
