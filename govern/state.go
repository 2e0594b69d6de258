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

// State indicates the emulation's state.
type State int

// List of possible emulation states.
//
// Stopped is the default state. Crashed is terminal for a session and is only
// left when a new session is started with Run().
//
// Paused can have a meaningful sub-state
const (
	Stopped State = iota
	Running
	Paused
	Stopping
	Crashed
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Stopping:
		return "Stopping"
	case Crashed:
		return "Crashed"
	}

	return ""
}

// SubState allows more detail for some states. Normal indicates that there is
// not more information to impart about the state
type SubState int

// List of possible sub states
const (
	Normal SubState = iota

	// the user has paused the emulation. the scheduler is polling for the
	// pause to end
	PausedByUser

	// another goroutine is holding the emulation with a call to Pause()
	PausedByCaller
)

func (s SubState) String() string {
	switch s {
	case PausedByUser:
		return "by user"
	case PausedByCaller:
		return "by caller"
	}
	return ""
}

// StateIntegrity checks whether the combination of state and sub-state makes
// sense.
//
// Rules:
//
//  1. Normal can coexist with any state
//
//  2. PausedByUser and PausedByCaller can only be paired with the Paused state
func StateIntegrity(state State, subState SubState) bool {
	if subState == Normal {
		return true
	}
	return state == Paused && (subState == PausedByUser || subState == PausedByCaller)
}
