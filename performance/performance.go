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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/scheduler"
)

// the time allowed for the frame rate to settle before measurement begins
var leadtime = 2 * time.Second

// Result of a performance check.
type Result struct {
	Frames   int
	Duration time.Duration
	FPS      float64
	Accuracy float64
}

func (r Result) String() string {
	return fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%%", r.FPS, r.Frames, r.Duration.Seconds(), r.Accuracy)
}

// Check the performance of the emulation. The scheduler is run for the
// duration and stopped. Speed and timing are taken from the scheduler's
// preferences.
//
// The emulation runs for an additional two seconds before measurement begins
// to allow the frame rate to settle.
func Check(output io.Writer, profile Profile, sch *scheduler.Scheduler, duration string) (Result, error) {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	var startFrame int
	var endFrame int
	var measured time.Duration

	// the frame count is read inside a pause window
	frameCount := func() int {
		var fc int
		_ = sch.WithPause(func() error {
			fc = sch.Machine().FrameCount()
			return nil
		})
		return fc
	}

	runner := func() error {
		done := make(chan error, 1)
		go func() {
			done <- sch.Run()
		}()

		timer := time.NewTimer(leadtime)
		defer timer.Stop()

		select {
		case err := <-done:
			return err
		case <-timer.C:
		}

		startFrame = frameCount()
		start := time.Now()

		timer.Reset(dur)
		select {
		case err := <-done:
			return err
		case <-timer.C:
		}

		endFrame = frameCount()
		measured = time.Since(start)

		sch.Stop(govern.StopCodeNormal)
		return <-done
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	res := Result{
		Frames:   endFrame - startFrame,
		Duration: measured,
	}
	res.FPS, res.Accuracy = CalcFPS(sch.Timing(), res.Frames, measured.Seconds())

	if output != nil {
		fmt.Fprintln(output, res.String())
	}

	return res, nil
}
