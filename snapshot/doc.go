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

// Package snapshot saves and restores the state of the emulated machine.
//
// The machine is made up of components, each of which implements the
// Snapshotter interface. Components are always written and read in the same
// fixed order: processor, picture unit, memory manager, audio unit, input
// manager, mapper and then the optional audio extension device.
//
// Each component's state is written as a block. A block is a little-endian
// uint32 length followed by that many bytes of data. A component that is not
// present is written as an empty block (a length of zero). When loading, an
// empty block leaves the corresponding component untouched and a block for a
// component that is not present is skipped.
//
// State files written by WriteState() have a short header before the blocks.
// The header contains a magic string, the format version and the ID of the
// session that created the state.
package snapshot
