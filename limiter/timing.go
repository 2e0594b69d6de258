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
	"time"
)

// frame durations in milliseconds for each region. the precise values are the
// durations of the real hardware. the integer values give a whole number of
// frames per second.
const (
	ntscFrameMs        = 16.6666666666666666667
	ntscPreciseFrameMs = 16.63926405550947
	palFrameMs         = 20.0
	palPreciseFrameMs  = 19.99720920217466
)

// the frame rate used when recording video, in millionths of a frame per
// second. recorded video is paced to match the frame durations above.
const (
	ntscRecordingRate        = 60000000
	ntscPreciseRecordingRate = 60098812
	palRecordingRate         = 50000000
	palPreciseRecordingRate  = 50006978
)

// Timing describes the pacing of the emulation for a region.
type Timing struct {
	Region Region

	// use a frame duration that gives an integer number of frames per second
	IntegerFPS bool
}

// FrameDurationMs returns the duration of one frame, in milliseconds, at
// normal speed.
func (t Timing) FrameDurationMs() float64 {
	switch t.Region {
	case PAL, Dendy:
		if t.IntegerFPS {
			return palFrameMs
		}
		return palPreciseFrameMs
	}

	if t.IntegerFPS {
		return ntscFrameMs
	}
	return ntscPreciseFrameMs
}

// FrameDelay returns the time to allow for one frame for the emulation speed.
// The speed is a percentage of normal speed. A speed of zero means that the
// emulation is uncapped and the delay will be zero.
func (t Timing) FrameDelay(speed int) time.Duration {
	if speed <= 0 {
		return 0
	}
	ms := t.FrameDurationMs() / (float64(speed) / 100.0)
	return time.Duration(ms * float64(time.Millisecond))
}

// RefreshRate returns the number of frames per second at normal speed.
func (t Timing) RefreshRate() float64 {
	return 1000.0 / t.FrameDurationMs()
}

// RecordingRate returns the frame rate to use for video recordings. The value
// is in millionths of a frame per second so that it can be compared exactly.
func (t Timing) RecordingRate() uint32 {
	switch t.Region {
	case PAL, Dendy:
		if t.IntegerFPS {
			return palRecordingRate
		}
		return palPreciseRecordingRate
	}

	if t.IntegerFPS {
		return ntscRecordingRate
	}
	return ntscPreciseRecordingRate
}
