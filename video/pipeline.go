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

	"github.com/jetsetilly/gophernes/logger"
)

// Pipeline is a Decoder with an optional Renderer.
type Pipeline struct {
	*Decoder

	crit     sync.Mutex
	device   RenderingDevice
	renderer *Renderer
}

// NewPipeline is the preferred method of initialisation for the Pipeline type.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Decoder: NewDecoder(),
	}
}

// RegisterRenderingDevice starts a renderer for the device. Any previously
// registered device is unregistered first.
func (pl *Pipeline) RegisterRenderingDevice(device RenderingDevice) {
	pl.crit.Lock()
	defer pl.crit.Unlock()

	pl.unregister()

	pl.device = device
	pl.renderer = NewRenderer(device)
	pl.AddConsumer(pl.renderer)

	logger.Logf(logger.Allow, "video", "registered rendering device (%T)", device)
}

// UnregisterRenderingDevice stops the renderer for the device. It does nothing
// if the device is not the registered device.
func (pl *Pipeline) UnregisterRenderingDevice(device RenderingDevice) {
	pl.crit.Lock()
	defer pl.crit.Unlock()

	if pl.device != device {
		return
	}
	pl.unregister()
}

func (pl *Pipeline) unregister() {
	if pl.renderer == nil {
		return
	}
	pl.RemoveConsumer(pl.renderer)
	pl.renderer.Stop()
	logger.Logf(logger.Allow, "video", "unregistered rendering device (%T)", pl.device)
	pl.renderer = nil
	pl.device = nil
}

// Renderer returns the current renderer. Returns nil if no device is
// registered.
func (pl *Pipeline) Renderer() *Renderer {
	pl.crit.Lock()
	defer pl.crit.Unlock()
	return pl.renderer
}

// Close stops the decoder and renderer goroutines.
func (pl *Pipeline) Close() {
	pl.crit.Lock()
	pl.unregister()
	pl.crit.Unlock()
	pl.StopThread()
}
