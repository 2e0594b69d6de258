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

package scripting_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/scheduler"
	"github.com/jetsetilly/gophernes/scripting"
	"github.com/jetsetilly/gophernes/settings"
	"github.com/jetsetilly/gophernes/synthetic"
	"github.com/jetsetilly/gophernes/test"
)

func newScheduler(t *testing.T) (*scheduler.Scheduler, <-chan error) {
	t.Helper()

	prefs, err := settings.NewPreferences()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, prefs.Speed.Set(0))
	test.DemandSuccess(t, prefs.Rewind.Set(false))

	m := synthetic.NewMachine(limiter.NTSC, nil, nil, 0)
	sch, err := scheduler.NewScheduler(m, prefs, nil)
	test.DemandSuccess(t, err)

	done := make(chan error, 1)
	go func() {
		done <- sch.Run()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !sch.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatalf("scheduler did not start")
		}
		time.Sleep(time.Millisecond)
	}

	return sch, done
}

func TestPauseAndStop(t *testing.T) {
	sch, done := newScheduler(t)

	out, err := test.NewCappedWriter(1024)
	test.DemandSuccess(t, err)
	h := scripting.NewHost(sch, out)

	err = h.RunString(context.Background(), `
		emu.sleep(10)
		emu.pause()
		local f = emu.framecount()
		emu.sleep(20)
		if emu.framecount() ~= f then
			error("machine ran during pause")
		end
		if not emu.ispaused() then
			error("not paused")
		end
		emu.resume()
		emu.print("frame " .. f)
		emu.stop(3)
	`)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, <-done)
	test.ExpectEquality(t, sch.GetStopCode(), govern.StopCode(3))
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "frame "))
}

// pauses that are not resumed by the script are resumed when the script ends
func TestOutstandingPause(t *testing.T) {
	sch, done := newScheduler(t)

	h := scripting.NewHost(sch, nil)
	err := h.RunString(context.Background(), `
		emu.pause()
		emu.pause()
		error("oops")
	`)
	test.ExpectSuccess(t, curated.Is(err, scripting.ScriptError))

	// the emulation is able to continue
	f := sch.Machine().FrameCount()
	deadline := time.Now().Add(2 * time.Second)
	for sch.Machine().FrameCount() == f && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	test.ExpectInequality(t, sch.Machine().FrameCount(), f)

	sch.Stop(govern.StopCodeNormal)
	test.ExpectSuccess(t, <-done)
}

func TestResumeWithoutPause(t *testing.T) {
	sch, done := newScheduler(t)

	h := scripting.NewHost(sch, nil)
	err := h.RunString(context.Background(), `emu.resume()`)
	test.ExpectFailure(t, err)

	sch.Stop(govern.StopCodeNormal)
	test.ExpectSuccess(t, <-done)
}

func TestSaveLoad(t *testing.T) {
	sch, done := newScheduler(t)
	fn := filepath.Join(t.TempDir(), "script.state")

	out, err := test.NewCappedWriter(1024)
	test.DemandSuccess(t, err)
	h := scripting.NewHost(sch, out)

	err = h.RunString(context.Background(), `
		emu.pause()
		local f = emu.framecount()
		emu.savestate("`+filepath.ToSlash(fn)+`")
		emu.resume()
		emu.sleep(20)
		emu.pause()
		emu.loadstate("`+filepath.ToSlash(fn)+`")
		if emu.framecount() ~= f then
			error("load failed")
		end
		emu.resume()
		emu.print("ok")
	`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.TrimSpace(out.String()), "ok")

	sch.Stop(govern.StopCodeNormal)
	test.ExpectSuccess(t, <-done)
}

// cancelling the context ends the script
func TestCancel(t *testing.T) {
	sch, done := newScheduler(t)

	h := scripting.NewHost(sch, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := h.RunString(ctx, `
		while true do
			emu.sleep(10)
		end
	`)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, time.Since(start) < time.Second)

	sch.Stop(govern.StopCodeNormal)
	test.ExpectSuccess(t, <-done)
}
