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

// Package synthetic is a deterministic machine that implements the
// scheduler.Machine interface. It draws a moving test pattern and plays a tone,
// or audio loaded from a WAV or MP3 file.
//
// The machine is stepped one scanline at a time. Like the real hardware it
// stands in for, the number of scanlines in a frame depends on the region, and
// overclocking adds extra scanlines to the vertical blank.
//
// The machine is used by the RUN and PERFORMANCE modes and by tests of the
// scheduler and its attachments.
package synthetic
