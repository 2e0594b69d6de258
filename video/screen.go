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

import "sync"

// Screen is the core of a typical RenderingDevice. Frames received on the
// decoder goroutine are held until Render() is called on the renderer
// goroutine, when they are passed to the draw function.
//
// If Render() is called when no new frame has arrived then the most recent
// frame is drawn again.
type Screen struct {
	crit    sync.Mutex
	pending *Frame

	// the frame most recently passed to the draw function. only used by the
	// renderer goroutine
	current *Frame

	draw func(f *Frame) error
}

// NewScreen is the preferred method of initialisation for the Screen type.
func NewScreen(draw func(f *Frame) error) *Screen {
	return &Screen{draw: draw}
}

// UpdateFrame implements the RenderingDevice interface.
func (scr *Screen) UpdateFrame(f *Frame) {
	scr.crit.Lock()
	defer scr.crit.Unlock()
	scr.pending = f
}

// Render implements the RenderingDevice interface.
func (scr *Screen) Render() error {
	scr.crit.Lock()
	if scr.pending != nil {
		scr.current = scr.pending
		scr.pending = nil
	}
	scr.crit.Unlock()

	if scr.current == nil {
		return nil
	}
	return scr.draw(scr.current)
}
