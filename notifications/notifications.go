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

package notifications

// Notice describes events that change the condition of the emulation. These
// notifications can be used to present additional information to the user
type Notice string

// List of defined notifications.
const (
	// a new session has been started
	NotifyGameLoaded Notice = "NotifyGameLoaded"

	// the machine has been reset
	NotifyGameReset Notice = "NotifyGameReset"

	// the user has paused or resumed the emulation
	NotifyGamePaused  Notice = "NotifyGamePaused"
	NotifyGameResumed Notice = "NotifyGameResumed"

	// sent by the scheduler, in this order, as the session ends
	NotifyBeforeEmulationStop Notice = "NotifyBeforeEmulationStop"
	NotifyGameStopped         Notice = "NotifyGameStopped"
	NotifyEmulationStopped    Notice = "NotifyEmulationStopped"

	// the machine has failed and the session has ended
	NotifyGameCrash Notice = "NotifyGameCrash"

	// a saved state has been loaded
	NotifyStateLoaded Notice = "NotifyStateLoaded"

	// a state has been saved by the autosave manager
	NotifyAutoSaved Notice = "NotifyAutoSaved"

	// emulation settings have changed
	NotifyConfigChanged Notice = "NotifyConfigChanged"

	// video recording has started or stopped
	NotifyVideoRecorderStarted Notice = "NotifyVideoRecorderStarted"
	NotifyVideoRecorderStopped Notice = "NotifyVideoRecorderStopped"

	// a screenshot has been saved
	NotifyScreenshot Notice = "NotifyScreenshot"
)

// Notify is implemented by types that want to be told about events in the
// emulation. The detail argument can be empty.
//
// Implementations must not block. Notifications are often sent while locks in
// the scheduler are held.
type Notify interface {
	Notify(notice Notice, detail string) error
}

// NotifyFunc is an implementation of Notify for simple functions.
type NotifyFunc func(notice Notice, detail string) error

// Notify implements the Notify interface.
func (f NotifyFunc) Notify(notice Notice, detail string) error {
	return f(notice, detail)
}
