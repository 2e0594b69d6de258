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
	"sync/atomic"
	"time"
)

// sleeping is not accurate enough for the final part of the wait. the
// remaining time when the limiter stops sleeping and starts yielding
const spinThreshold = 2 * time.Millisecond

// Limiter paces the emulation so that frames are produced at the correct rate
// for the region and the requested speed.
//
// The limiter measures how late each frame finished compared to its target
// duration and shortens the next target by that amount. The shortened target
// is never less than zero. In this way occasional slow frames do not cause the
// emulation to drift from real time.
//
// All functions except SetSpeed(), SetTiming() and the Measured field must be
// called from the emulation goroutine.
type Limiter struct {
	// the timing and speed are read at the start of every frame
	timing atomic.Value // Timing
	speed  atomic.Int32

	// start of the current frame and the duration allowed for it
	frameStart time.Time
	target     time.Duration

	// pulse that performs the FPS measurement
	measuringPulse *time.Ticker

	// the measured FPS is the number of frames divided by the amount of
	// elapsed time since the previous measurement
	measureTime time.Time
	measureCt   int

	// the measured number of frames per second
	Measured atomic.Value // float32
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
// The speed is a percentage of normal speed. Zero means uncapped.
func NewLimiter(timing Timing, speed int) *Limiter {
	lmtr := &Limiter{
		measuringPulse: time.NewTicker(time.Second),
	}
	lmtr.timing.Store(timing)
	lmtr.speed.Store(int32(speed))
	lmtr.Measured.Store(float32(0.0))
	return lmtr
}

// SetTiming changes the timing used for subsequent frames.
func (lmtr *Limiter) SetTiming(timing Timing) {
	lmtr.timing.Store(timing)
}

// Timing returns the current timing.
func (lmtr *Limiter) Timing() Timing {
	return lmtr.timing.Load().(Timing)
}

// SetSpeed changes the emulation speed used for subsequent frames.
func (lmtr *Limiter) SetSpeed(speed int) {
	lmtr.speed.Store(int32(speed))
}

// Speed returns the current emulation speed.
func (lmtr *Limiter) Speed() int {
	return int(lmtr.speed.Load())
}

// FrameDelay returns the ideal duration of a frame for the current timing and
// speed.
func (lmtr *Limiter) FrameDelay() time.Duration {
	return lmtr.Timing().FrameDelay(lmtr.Speed())
}

// Target returns the duration allowed for the current frame.
func (lmtr *Limiter) Target() time.Duration {
	return lmtr.target
}

// Start the limiter. The current frame starts now and the target is the ideal
// frame duration.
func (lmtr *Limiter) Start() {
	lmtr.frameStart = time.Now()
	lmtr.target = lmtr.FrameDelay()
	lmtr.measureTime = lmtr.frameStart
	lmtr.measureCt = 0
}

// Resync restarts the current frame without carrying any lag. Should be called
// after the emulation has been paused so that the time spent paused is not
// treated as lag.
//
// The frame still counts towards the measured frame rate.
func (lmtr *Limiter) Resync() {
	lmtr.measureCt++
	lmtr.frameStart = time.Now()
	lmtr.target = lmtr.FrameDelay()
}

// Wait blocks until the target duration for the current frame has elapsed. It
// returns immediately if the target has already passed.
func (lmtr *Limiter) Wait() {
	waitUntil(lmtr.frameStart, lmtr.target)
}

// Advance ends the current frame and starts the next one. The target for the
// next frame is the ideal frame duration less the amount by which the current
// frame overran its target.
func (lmtr *Limiter) Advance() {
	lmtr.measureCt++

	now := time.Now()
	delay := lmtr.FrameDelay()

	var lag time.Duration
	if delay > 0 {
		lag = now.Sub(lmtr.frameStart) - lmtr.target
	}

	lmtr.frameStart = now
	lmtr.target = max(delay-lag, 0)
}

// CheckFrame should be called at the end of every frame. It waits for the
// target duration of the current frame and then advances to the next frame.
func (lmtr *Limiter) CheckFrame() {
	lmtr.Wait()
	lmtr.Advance()
}

// MeasureActual measures frame rate on every tick of the measuring pulse.
func (lmtr *Limiter) MeasureActual() {
	select {
	case <-lmtr.measuringPulse.C:
		t := time.Now()
		m := float32(lmtr.measureCt) / float32(t.Sub(lmtr.measureTime).Seconds())
		lmtr.Measured.Store(m)

		// reset time and count ready for next measurement
		lmtr.measureTime = t
		lmtr.measureCt = 0
	default:
	}
}

// Stop releases the resources used by the limiter.
func (lmtr *Limiter) Stop() {
	lmtr.measuringPulse.Stop()
}

// waitUntil blocks until the duration has elapsed since start. the monotonic
// clock reading in start is used so changes to the wall clock do not affect the
// wait.
func waitUntil(start time.Time, d time.Duration) {
	for {
		remaining := d - time.Since(start)
		if remaining <= 0 {
			return
		}
		if remaining > spinThreshold {
			time.Sleep(remaining - spinThreshold)
		} else {
			time.Sleep(remaining / 4)
		}
	}
}
