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

package limiter_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/test"
)

func TestFrameDelay(t *testing.T) {
	ntsc := limiter.Timing{Region: limiter.NTSC}
	test.ExpectApproximate(t, ntsc.FrameDelay(100), 16639264*time.Nanosecond, 0.0001)
	test.ExpectApproximate(t, ntsc.FrameDelay(200), time.Duration(8.319632*float64(time.Millisecond)), 0.0001)
	test.ExpectEquality(t, ntsc.FrameDelay(0), 0)

	ntsc.IntegerFPS = true
	test.ExpectApproximate(t, ntsc.FrameDelay(100), time.Duration(16.666667*float64(time.Millisecond)), 0.0001)

	pal := limiter.Timing{Region: limiter.PAL, IntegerFPS: true}
	test.ExpectEquality(t, pal.FrameDelay(100), 20*time.Millisecond)
	test.ExpectEquality(t, pal.FrameDelay(50), 40*time.Millisecond)

	dendy := limiter.Timing{Region: limiter.Dendy}
	test.ExpectApproximate(t, dendy.FrameDelay(100), 19997209*time.Nanosecond, 0.0001)
}

func TestRecordingRate(t *testing.T) {
	test.ExpectEquality(t, limiter.Timing{Region: limiter.NTSC}.RecordingRate(), 60098812)
	test.ExpectEquality(t, limiter.Timing{Region: limiter.NTSC, IntegerFPS: true}.RecordingRate(), 60000000)
	test.ExpectEquality(t, limiter.Timing{Region: limiter.PAL}.RecordingRate(), 50006978)
	test.ExpectEquality(t, limiter.Timing{Region: limiter.Dendy, IntegerFPS: true}.RecordingRate(), 50000000)
}

func TestParseRegion(t *testing.T) {
	r, err := limiter.ParseRegion("pal")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, limiter.PAL)

	r, err = limiter.ParseRegion(" Dendy ")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.String(), "DENDY")

	_, err = limiter.ParseRegion("SECAM")
	test.ExpectSuccess(t, curated.Is(err, limiter.UnknownRegion))
}

// a frame that overruns its target shortens the target of the next frame
func TestLagCarry(t *testing.T) {
	lmtr := limiter.NewLimiter(limiter.Timing{Region: limiter.PAL, IntegerFPS: true}, 100)
	defer lmtr.Stop()

	lmtr.Start()
	test.ExpectEquality(t, lmtr.Target(), 20*time.Millisecond)

	// overrun the frame by about 5ms
	time.Sleep(25 * time.Millisecond)
	lmtr.CheckFrame()
	test.ExpectSuccess(t, lmtr.Target() < 16*time.Millisecond)

	// overrunning by more than a frame clamps the target at zero
	time.Sleep(50 * time.Millisecond)
	lmtr.CheckFrame()
	test.ExpectEquality(t, lmtr.Target(), 0)

	// resync removes the lag
	lmtr.Resync()
	test.ExpectEquality(t, lmtr.Target(), 20*time.Millisecond)
}

func TestUncapped(t *testing.T) {
	lmtr := limiter.NewLimiter(limiter.Timing{Region: limiter.NTSC}, 0)
	defer lmtr.Stop()

	lmtr.Start()
	start := time.Now()
	for range 100 {
		lmtr.CheckFrame()
	}
	test.ExpectSuccess(t, time.Since(start) < 100*time.Millisecond)
	test.ExpectEquality(t, lmtr.Target(), 0)
}

// tolerance of measurement
const measurementTolerance = 0.05
const numSecondsPerTest = 2

func TestMeasuredRate(t *testing.T) {
	timing := limiter.Timing{Region: limiter.PAL, IntegerFPS: true}
	lmtr := limiter.NewLimiter(timing, 100)
	defer lmtr.Stop()

	hz := float32(timing.RefreshRate())

	lmtr.Start()
	for range int(hz * numSecondsPerTest) {
		lmtr.CheckFrame()
		lmtr.MeasureActual()
	}
	rate := lmtr.Measured.Load().(float32)
	test.ExpectApproximate(t, rate, hz, measurementTolerance)
}

// frames that end with a resync count towards the measured rate
func TestMeasuredRateWithResync(t *testing.T) {
	timing := limiter.Timing{Region: limiter.PAL, IntegerFPS: true}
	lmtr := limiter.NewLimiter(timing, 100)
	defer lmtr.Stop()

	hz := float32(timing.RefreshRate())

	lmtr.Start()
	for i := range int(hz * numSecondsPerTest) {
		lmtr.Wait()
		if i%2 == 0 {
			lmtr.Resync()
		} else {
			lmtr.Advance()
		}
		lmtr.MeasureActual()
	}
	rate := lmtr.Measured.Load().(float32)
	test.ExpectApproximate(t, rate, hz, measurementTolerance)
}
