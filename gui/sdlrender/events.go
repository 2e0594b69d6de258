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

package sdlrender

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// Event is a user input event from the window.
type Event int

// List of valid Event values.
const (
	EventNone Event = iota
	EventQuit
	EventKey
)

// Service polls the SDL event queue. It should be called regularly from the
// goroutine that owns the window. The key function is called with the lower
// case name of every key pressed. Returns EventQuit if the window has been
// closed.
func (win *Window) Service(key func(name string)) Event {
	ev := EventNone
	var keys []string

	sdl.Do(func() {
		for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
			switch e := e.(type) {
			case *sdl.QuitEvent:
				ev = EventQuit

			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_CLOSE {
					ev = EventQuit
				}

			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
					if ev == EventNone {
						ev = EventKey
					}
					keys = append(keys, strings.ToLower(sdl.GetKeyName(e.Keysym.Sym)))
				}
			}
		}
	})

	// the key function is called outside of sdl.Do() because it may block on
	// the scheduler, which in turn may be waiting on a draw
	if key != nil {
		for _, k := range keys {
			key(k)
		}
	}

	return ev
}
