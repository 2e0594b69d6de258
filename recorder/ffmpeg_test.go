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

package recorder

import (
	"testing"

	"github.com/jetsetilly/gophernes/test"
)

func TestAtempo(t *testing.T) {
	test.ExpectEquality(t, atempo(10, 10), 1.0)
	test.ExpectApproximate(t, atempo(10.0, 10.01), 0.999, 0.001)
	test.ExpectEquality(t, atempo(1, 10), 0.5)
	test.ExpectEquality(t, atempo(10, 0), 1.0)
}

func TestFFMPEGOptions(t *testing.T) {
	vid := NewFFMPEG(ProfileFast, nil)
	vid.cfg = Config{Width: 256, Height: 240, Rate: 60098812}
	vid.tempVideoFilename = "tmp.mp4"

	opts, err := vid.options()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, opts[5], "256x240")
	test.ExpectEquality(t, opts[7], "60.098812")
	test.ExpectEquality(t, opts[len(opts)-1], "tmp.mp4")

	vid.Profile = "VHS"
	_, err = vid.options()
	test.ExpectFailure(t, err)
}
