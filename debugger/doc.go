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

// Package debugger provides the instruction-boundary halting mechanism used by
// the scheduler and by any goroutine that needs the emulation to stop in the
// middle of a frame.
//
// The scheduler calls ProcessInstruction() before every instruction. When a
// break has been requested the call blocks, with the emulation goroutine still
// holding the scheduler's run lock, until the break is resumed.
//
// Because a halted emulation never reaches the end of the frame, a goroutine
// that wants to pause the scheduler must first suspend the debugger. While the
// debugger is suspended, ProcessInstruction() never blocks and so the emulation
// will reach its safe point. A break that is still requested when the debugger
// is resumed will take effect at the next instruction.
package debugger
