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

// Package scheduler drives the emulated machine in real time and coordinates
// access to the machine from other goroutines.
//
// The Run() function is the emulation loop. It calls the machine's Step()
// function repeatedly and, at the end of every frame, processes the audio and
// rewind buffers and then waits until it is time for the next frame.
//
// Three reentrant mutexes govern access to the machine. The run lock is held by
// the emulation goroutine for as long as it is running the machine. The stop
// lock is held for the whole of the Run() call. The pause lock is taken by
// goroutines that want to access the machine.
//
// A goroutine that calls Pause() first takes the pause lock and then the run
// lock. The emulation goroutine notices the held pause lock after waiting for
// the end of the frame. At that point, and only at that point, it releases the
// run lock and waits for the pause lock to be released. When Pause() returns
// the caller has exclusive access to the machine until it calls Resume().
//
// Because the mutexes are reentrant, Pause() and Resume() can be nested and can
// be called by the emulation goroutine itself.
//
// The user can also pause the emulation by setting the Paused preference. The
// emulation goroutine then releases the run lock, stops audio output and polls
// the preference until it is cleared.
package scheduler
