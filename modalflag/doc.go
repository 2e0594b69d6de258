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

// Package modalflag wraps the flag package from the standard library. It adds
// the concept of program modes, with each mode having its own set of flags.
//
// Arguments are given to NewArgs() and then processed by one or more calls to
// Parse(). Sub-modes for the next call to Parse() are added with
// AddSubModes(), the first being the default. After Parse() the selected mode
// is returned by Mode():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("run", "performance")
//
//	switch p, err := md.Parse(); p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		headless := md.AddBool("headless", false, "run without a window")
//		...
//	}
//
// Sub-mode comparisons are case insensitive and modes are always reported in
// upper case. Modes can be nested to any depth by calling NewMode() and
// Parse() again. The sequence of modes encountered is returned by Path().
package modalflag
