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

// Package curated provides errors that are identified by the pattern they were
// created with rather than by a sentinel value.
//
// Every package declares its error patterns as constants:
//
//	const AlreadyRunning = "scheduler: emulation is already running"
//	const StateError = "scheduler: state: %v"
//
// and creates errors with Errorf(). Callers test for a particular error with
// Is(), which matches only the outermost pattern, or with Has(), which matches
// the pattern anywhere in the chain of wrapped curated errors:
//
//	err := sch.LoadStateFile(fn)
//	if curated.Has(err, snapshot.NotAStateFile) {
//		// offer to delete the file
//	}
//
// IsAny() returns true for any curated error. An error that is not curated is
// one that the program did not expect.
//
// The error message of a chain is normalised so that adjacent duplicate parts,
// separated by ": ", appear only once. A function can therefore wrap an error
// with its package prefix without checking whether the prefix is already
// present. For example, "scheduler: scheduler: machine fault" is printed as
// "scheduler: machine fault".
//
// Unwrap() returns the first placeholder value that is itself an error, so a
// wrapped standard library error is still visible to errors.Is() and
// errors.As().
package curated
