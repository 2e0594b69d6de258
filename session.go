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
	"strings"

	"github.com/jetsetilly/gophernes/audio"
	"github.com/jetsetilly/gophernes/audio/otoaudio"
	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/debugger"
	"github.com/jetsetilly/gophernes/gui/sdlaudio"
	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/notifications"
	"github.com/jetsetilly/gophernes/paths"
	"github.com/jetsetilly/gophernes/prefs"
	"github.com/jetsetilly/gophernes/rewind"
	"github.com/jetsetilly/gophernes/scheduler"
	"github.com/jetsetilly/gophernes/settings"
	"github.com/jetsetilly/gophernes/snapshot"
	"github.com/jetsetilly/gophernes/synthetic"
	"github.com/jetsetilly/gophernes/version"
	"github.com/jetsetilly/gophernes/video"
)

// recentSessionFile is the name of the file the state of the most recent
// session is persisted to.
const recentSessionFile = "recent"

// session is the collection of parts that make up a running emulation.
type session struct {
	prefs    *settings.Preferences
	hub      *notifications.Hub
	pipeline *video.Pipeline
	mixer    *audio.Mixer
	machine  *synthetic.Machine
	sch      *scheduler.Scheduler
	dbg      *debugger.Debugger
	rewind   *rewind.Rewind
}

// sessionOptions are the command line options common to all modes.
type sessionOptions struct {
	prefsFile string
	cmdPrefs  string
	region    string
	pcm       string

	// the audio backend to use. overrides the preference if not empty
	audio string
}

// newPreferences loads preferences from disk. preferences named on the command
// line override the values on disk.
func newPreferences(opts sessionOptions) (*settings.Preferences, error) {
	if opts.cmdPrefs != "" {
		prefs.PushCommandLineStack(opts.cmdPrefs)
		defer prefs.PopCommandLineStack()
	}

	p, err := settings.NewPreferences()
	if err != nil {
		return nil, err
	}

	pth := opts.prefsFile
	if pth == "" {
		pth, err = paths.ResourcePath("", prefs.DefaultPrefsFile)
		if err != nil {
			return nil, err
		}
	}

	if err := p.UseDisk(pth); err != nil {
		return nil, err
	}

	if opts.region != "" {
		if err := p.Region.Set(strings.ToUpper(opts.region)); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// filtersFromPrefs creates the video post-processing chain from the
// preferences.
func filtersFromPrefs(p *settings.Preferences) (video.Filters, error) {
	flt := video.DefaultFilters()
	if err := flt.SetRotation(p.Rotation.Get().(int)); err != nil {
		return flt, err
	}
	if err := flt.SetScale(p.Scale.Get().(int), p.ScaleFilter.String()); err != nil {
		return flt, err
	}
	flt.Overlay = p.Overlay.Get().(bool)
	return flt, nil
}

// machineRegion is the region the synthetic machine is created with. the
// machine is NTSC unless the Region preference says otherwise.
func machineRegion(p *settings.Preferences) limiter.Region {
	if r, err := limiter.ParseRegion(p.Region.String()); err == nil {
		return r
	}
	return limiter.NTSC
}

// newAudioOutput creates the audio output device named by backend. the SDL
// backend requires that SDL has been initialised with the audio subsystem.
func newAudioOutput(backend string, sampleRate int) (audio.Output, error) {
	switch backend {
	case settings.AudioSDL:
		return sdlaudio.NewAudio(sampleRate)
	case settings.AudioOto:
		return otoaudio.NewAudio(sampleRate)
	case settings.AudioNone:
		return &audio.Headless{}, nil
	}
	return nil, curated.Errorf("unknown audio backend (%s)", backend)
}

// newSession creates and connects all the parts of the emulation. the audio
// output is headless until replaced with setAudio().
func newSession(opts sessionOptions) (*session, error) {
	p, err := newPreferences(opts)
	if err != nil {
		return nil, err
	}

	ses := &session{
		prefs:    p,
		hub:      notifications.NewHub(),
		pipeline: video.NewPipeline(),
	}

	flt, err := filtersFromPrefs(p)
	if err != nil {
		return nil, err
	}
	ses.pipeline.SetFilters(flt)
	if flt.Overlay {
		ses.hub.AddListener(ses.pipeline)
	}

	sampleRate := p.SampleRate.Get().(int)
	ses.mixer = audio.NewMixer(&audio.Headless{}, sampleRate)

	ses.machine = synthetic.NewMachine(machineRegion(p), ses.pipeline, ses.mixer, sampleRate)

	if opts.pcm != "" {
		f, err := os.Open(opts.pcm)
		if err != nil {
			return nil, curated.Errorf("pcm: %v", err)
		}
		defer f.Close()
		if err := ses.machine.LoadPCM(opts.pcm, f); err != nil {
			return nil, err
		}
	}

	ses.sch, err = scheduler.NewScheduler(ses.machine, p, ses.hub)
	if err != nil {
		return nil, err
	}
	ses.sch.SetMixer(ses.mixer)
	ses.sch.SetVideo(ses.pipeline)

	ses.rewind = rewind.NewRewind(ses.sch, p)
	ses.sch.SetRewinder(ses.rewind)

	ses.dbg = debugger.NewDebugger(ses.hub)
	ses.sch.AttachDebugger(ses.dbg)

	recent, err := paths.ResourcePath("", recentSessionFile)
	if err != nil {
		return nil, err
	}
	ses.sch.SetPersister(snapshot.RecentSession{Filename: recent})

	logger.Logf(logger.Allow, "gophernes", "%s session %s (%s)", version.Get(), ses.sch.Session(), ses.machine.Region())

	return ses, nil
}

// setAudio replaces the headless audio output with the named backend.
func (ses *session) setAudio(backend string) error {
	output, err := newAudioOutput(backend, ses.mixer.SampleRate())
	if err != nil {
		return err
	}
	return ses.mixer.SetOutput(output)
}

// close releases the resources used by the session. the scheduler should have
// stopped.
func (ses *session) close() {
	ses.pipeline.Close()
	if err := ses.mixer.Close(); err != nil {
		logger.Log(logger.Allow, "gophernes", err)
	}
	ses.hub.RemoveListener(ses.pipeline)
}

// String implements the fmt.Stringer interface.
func (ses *session) String() string {
	state, sub := ses.sch.State()
	return fmt.Sprintf("%s %s/%s frame %d", ses.sch.Session(), state, sub, ses.machine.FrameCount())
}
