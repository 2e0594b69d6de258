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

package scheduler

import (
	"github.com/google/uuid"

	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/snapshot"
)

// Machine is the emulated machine driven by the scheduler.
type Machine interface {
	// Step executes a single instruction. An error is a fatal fault in the
	// machine and will stop the scheduler.
	Step() error

	// FrameCount returns the number of frames completed since the machine was
	// last reset. The scheduler treats any change in the value as the end of a
	// frame.
	FrameCount() int

	Reset(soft bool) error

	// the television standard of the machine
	Region() limiter.Region

	Components() snapshot.Components
}

// Overclocker is implemented by machines that can run the processor faster
// than normal.
type Overclocker interface {
	SetOverclockDisabled(disabled bool)
}

// PictureVariant is the type of picture unit used by the machine.
type PictureVariant int

// List of valid PictureVariant values.
const (
	PictureStandard PictureVariant = iota
	PictureHD
	PictureNSF
)

func (v PictureVariant) String() string {
	switch v {
	case PictureStandard:
		return "standard"
	case PictureHD:
		return "HD"
	case PictureNSF:
		return "NSF"
	}
	return "unknown"
}

// PictureSwapper is implemented by machines that can change their picture unit.
type PictureSwapper interface {
	PictureVariant() PictureVariant

	// SetPictureVariant replaces the picture unit. The state of the new picture
	// unit is loaded by the scheduler after the call.
	SetPictureVariant(v PictureVariant) error
}

// AudioMixer receives the end of frame signal and plays the audio collected
// during the frame.
type AudioMixer interface {
	ProcessEndOfFrame()

	// StopAudio silences the audio output. Output resumes on the next call to
	// ProcessEndOfFrame()
	StopAudio()
}

// Rewinder keeps a history of machine states.
type Rewinder interface {
	// ProcessEndOfFrame is called at the end of every frame with the run lock
	// held
	ProcessEndOfFrame(frame int, c snapshot.Components)

	// the history is discarded whenever the machine is reset, a state is loaded
	// or the session ends
	EndSession()
}

// PowerSave controls the host's power saving features, such as the screen
// saver.
type PowerSave interface {
	Inhibit()
	Allow()
}

// VideoThread is the decoder goroutine. It is started and stopped with the
// emulation loop.
type VideoThread interface {
	StartThread()
	StopThread()
}

// Persister saves the state of the machine when a session ends normally.
type Persister interface {
	PersistSession(session uuid.UUID, c snapshot.Components) error
}

// SessionAttachment is anything that needs to be told when the emulation loop
// ends, for example recorders. EndSession() is called without the run lock
// being held.
type SessionAttachment interface {
	EndSession()
}

// Debugger halts the emulation at instruction boundaries. It is implemented by
// debugger.Debugger.
type Debugger interface {
	ProcessInstruction(frame int)
	Suspend()
	Resume()
	Break()
	ResumeFromBreak()
	PreventResume()
	AllowResume()
	IsExecutionStopped() bool
	BreakIfNotRequested() bool
	ResetCounters()
}
