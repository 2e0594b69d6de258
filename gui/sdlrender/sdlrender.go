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

// Package sdlrender is a rendering device for the video pipeline using an SDL
// window. All SDL calls are made through sdl.Do() and so the program must be
// running inside sdl.Main().
package sdlrender

import (
	"sync/atomic"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/video"

	"github.com/veandco/go-sdl2/sdl"
)

// Window is an SDL window with a streaming texture. It implements the
// video.RenderingDevice interface through the embedded video.Screen and the
// scheduler.PowerSave interface.
type Window struct {
	*video.Screen

	window   *sdl.Window
	renderer *sdl.Renderer

	// texture is recreated whenever the size of the frame changes
	texture *sdl.Texture
	texW    int
	texH    int

	scale int

	// the screensaver state last requested. SDL enables the screensaver by
	// default
	inhibited atomic.Bool
}

// NewWindow is the preferred method of initialisation for the Window type. The
// window is hidden until the first frame is drawn.
func NewWindow(title string, scale int) (*Window, error) {
	win := &Window{
		scale: max(scale, 1),
	}
	win.Screen = video.NewScreen(win.draw)

	var err error

	sdl.Do(func() {
		err = sdl.InitSubSystem(sdl.INIT_VIDEO | sdl.INIT_AUDIO)
		if err != nil {
			return
		}

		win.window, err = sdl.CreateWindow(title,
			int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
			0, 0,
			uint32(sdl.WINDOW_HIDDEN))
		if err != nil {
			return
		}

		win.renderer, err = sdl.CreateRenderer(win.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	})

	if err != nil {
		win.Destroy()
		return nil, curated.Errorf("sdlrender: %v", err)
	}

	return win, nil
}

// draw is called by video.Screen on the renderer goroutine.
func (win *Window) draw(f *video.Frame) error {
	var err error

	sdl.Do(func() {
		if win.renderer == nil {
			return
		}

		w := f.Width()
		h := f.Height()
		if win.texture == nil || w != win.texW || h != win.texH {
			err = win.resize(w, h)
			if err != nil {
				return
			}
		}

		err = win.texture.Update(nil, f.Image.Pix, f.Image.Stride)
		if err != nil {
			return
		}

		err = win.renderer.Copy(win.texture, nil, nil)
		if err != nil {
			return
		}

		win.renderer.Present()
	})

	if err != nil {
		return curated.Errorf("sdlrender: %v", err)
	}
	return nil
}

// resize must be called from inside sdl.Do()
func (win *Window) resize(w int, h int) error {
	if win.texture != nil {
		win.texture.Destroy()
		win.texture = nil
	}

	var err error
	win.texture, err = win.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		int32(w), int32(h))
	if err != nil {
		return err
	}

	win.texW = w
	win.texH = h
	win.window.SetSize(int32(w*win.scale), int32(h*win.scale))
	win.window.Show()

	logger.Logf(logger.Allow, "sdlrender", "texture resized to %dx%d", w, h)

	return nil
}

// Inhibit implements the scheduler.PowerSave interface.
func (win *Window) Inhibit() {
	if win.inhibited.Swap(true) {
		return
	}
	sdl.Do(func() {
		sdl.DisableScreenSaver()
	})
}

// Allow implements the scheduler.PowerSave interface.
func (win *Window) Allow() {
	if !win.inhibited.Swap(false) {
		return
	}
	sdl.Do(func() {
		sdl.EnableScreenSaver()
	})
}

// SetTitle changes the title of the window.
func (win *Window) SetTitle(title string) {
	sdl.Do(func() {
		if win.window != nil {
			win.window.SetTitle(title)
		}
	})
}

// Destroy the window. The window should have been unregistered from the video
// pipeline first.
func (win *Window) Destroy() {
	sdl.Do(func() {
		if win.texture != nil {
			win.texture.Destroy()
			win.texture = nil
		}
		if win.renderer != nil {
			win.renderer.Destroy()
			win.renderer = nil
		}
		if win.window != nil {
			win.window.Destroy()
			win.window = nil
		}
		sdl.EnableScreenSaver()
	})
}
