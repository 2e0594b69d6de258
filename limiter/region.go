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

package limiter

import (
	"strings"

	"github.com/jetsetilly/gophernes/curated"
)

// Region is the video standard of the emulated machine. The region determines
// the native frame rate.
type Region int

// List of supported regions.
const (
	NTSC Region = iota
	PAL
	Dendy
)

func (r Region) String() string {
	switch r {
	case NTSC:
		return "NTSC"
	case PAL:
		return "PAL"
	case Dendy:
		return "DENDY"
	}
	return ""
}

// UnknownRegion is returned by ParseRegion().
const UnknownRegion = "limiter: unknown region (%s)"

// ParseRegion converts a string to a Region. The comparison is case
// insensitive.
func ParseRegion(s string) (Region, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NTSC":
		return NTSC, nil
	case "PAL":
		return PAL, nil
	case "DENDY":
		return Dendy, nil
	}
	return NTSC, curated.Errorf(UnknownRegion, s)
}
