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

// Package locking implements a recursive mutex with goroutine affinity.
//
// The standard library's sync.Mutex is not reentrant and has no concept of an
// owner. The emulation needs both: the scheduler goroutine holds its run lock
// for the entire session and other goroutines in the program pause the
// scheduler by acquiring the same lock. A goroutine that has paused the
// emulation may call into code that pauses it again, in which case the second
// acquisition must not deadlock.
//
// Ownership is identified by goroutine ID. See the assert package.
//
// The Guard type provides scoped acquisition, to be used with defer.
package locking
