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

package main

import (
	"fmt"
	"os"

	"github.com/jetsetilly/gophernes/autosave"
	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/paths"
	"github.com/jetsetilly/gophernes/recorder"
)

// the state slot used by the save and load keys
const quickSlot = 0

// control responds to key presses from the terminal and the window.
type control struct {
	ses     *session
	asv     *autosave.Manager
	rec     *recorder.AviRecorder
	profile recorder.Profile
}

func (ctl *control) key(k string) {
	var err error

	switch k {
	case "p":
		err = ctl.ses.prefs.Paused.Set(!ctl.ses.prefs.Paused.Get().(bool))
	case "r":
		err = ctl.ses.sch.Reset(true)
	case "s":
		err = ctl.ses.sch.SaveStateSlot(quickSlot)
	case "l":
		err = ctl.ses.sch.LoadStateSlot(quickSlot)
	case "v":
		err = ctl.toggleRecording()
	case "w":
		_, err = ctl.ses.rewind.Rewind(rewindStep)
	case "a":
		if ctl.asv != nil {
			ctl.asv.SaveNow()
		}
	case "c":
		err = ctl.screenshot()
	case "q", "escape":
		ctl.ses.sch.Stop(govern.StopCodeNormal)
	default:
		return
	}

	if err != nil {
		logger.Log(logger.Allow, "gophernes", err)
		ctl.ses.hub.DisplayMessage("error", err.Error())
	}
}

// toggleRecording starts a new recording or stops the current one. the size
// of the recording is the size of the most recently decoded frame.
func (ctl *control) toggleRecording() error {
	if ctl.rec.IsRecording() {
		ctl.rec.StopRecording()
		return nil
	}

	f := ctl.ses.pipeline.LastFrame()
	if f == nil {
		return curated.Errorf("recorder: no frame to record")
	}

	cfg := recorder.Config{
		Name:       ctl.ses.sch.Session().String(),
		Width:      f.Width(),
		Height:     f.Height(),
		SampleRate: ctl.ses.mixer.SampleRate(),
	}

	return ctl.rec.StartRecording(recorder.NewFFMPEG(ctl.profile, os.Stdout), cfg)
}

// screenshot writes the most recently decoded frame to a PNG file in the
// working directory.
func (ctl *control) screenshot() error {
	fn := fmt.Sprintf("%s.png", paths.UniqueFilename("screenshot", ctl.ses.sch.Session().String()))

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ctl.ses.pipeline.Screenshot(f); err != nil {
		return err
	}

	logger.Logf(logger.Allow, "gophernes", "screenshot saved to %s", fn)
	return nil
}
