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

package govern

import "fmt"

// StopCode is the value given to the scheduler's Stop() function and returned
// by GetStopCode() once the session has ended.
type StopCode int

// List of defined stop codes. Values greater than zero are defined by the
// caller of Stop() and are passed through unchanged.
const (
	StopCodeNormal StopCode = 0
	StopCodeCrash  StopCode = -1
)

func (c StopCode) String() string {
	switch c {
	case StopCodeNormal:
		return "normal"
	case StopCodeCrash:
		return "crash"
	}
	return fmt.Sprintf("code %d", int(c))
}

// Failure describes why a session ended in the Crashed state.
type Failure struct {
	// the frame number at the time of the failure
	Frame int

	// the error returned by the machine or recovered from a panic
	Err error

	// true if Err was created from a recovered panic
	Panicked bool
}

func (f *Failure) Error() string {
	if f.Panicked {
		return fmt.Sprintf("crashed on frame %d: panic: %v", f.Frame, f.Err)
	}
	return fmt.Sprintf("crashed on frame %d: %v", f.Frame, f.Err)
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Err
}
