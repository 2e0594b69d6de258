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

// Package version reports the version of the program. The version number is
// set at link time with:
//
//	-ldflags "-X github.com/jetsetilly/gophernes/version.number=v0.1.0"
//
// Without a version number the version is "unreleased" if there is vcs
// information in the build, or "local" if there is not.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// ApplicationName is the name used when referring to the application.
const ApplicationName = "GopherNES"

// set by the linker
var number string

// Info describes the build.
type Info struct {
	Version string

	// vcs revision. suffixed with "+dirty" if the source had been modified
	// but not committed
	Revision string

	// Release is true if the version was set at link time
	Release bool
}

func (inf Info) String() string {
	if inf.Release {
		return fmt.Sprintf("%s %s", ApplicationName, inf.Version)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, inf.Version, inf.Revision)
}

// Get returns the build information.
var Get = sync.OnceValue(func() Info {
	info, ok := debug.ReadBuildInfo()
	var settings []debug.BuildSetting
	if ok {
		settings = info.Settings
	}
	return fromSettings(number, settings)
})

func fromSettings(number string, settings []debug.BuildSetting) Info {
	var vcs bool
	var modified bool
	var revision string

	for _, s := range settings {
		switch s.Key {
		case "vcs":
			vcs = true
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	inf := Info{
		Version:  number,
		Revision: revision,
		Release:  number != "",
	}

	if inf.Revision == "" {
		inf.Revision = "no revision information"
	} else if modified {
		inf.Revision = fmt.Sprintf("%s+dirty", inf.Revision)
	}

	if !inf.Release {
		if vcs {
			inf.Version = "unreleased"
		} else {
			inf.Version = "local"
		}
	}

	return inf
}
