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
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/bradleyjkemp/memviz"
	"golang.org/x/sync/errgroup"

	"github.com/jetsetilly/gophernes/autosave"
	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/easyterm"
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/gui/sdlrender"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/modalflag"
	"github.com/jetsetilly/gophernes/performance"
	"github.com/jetsetilly/gophernes/recorder"
	"github.com/jetsetilly/gophernes/scripting"
	"github.com/jetsetilly/gophernes/settings"
	"github.com/jetsetilly/gophernes/statsview"
	"github.com/jetsetilly/gophernes/version"
	"github.com/jetsetilly/gophernes/wavwriter"
)

// the number of frames rewound by a single key press
const rewindStep = 60

// sdlGUI adapts the sdlrender.Window to the guiCreator interface.
type sdlGUI struct {
	win  *sdlrender.Window
	keys chan string
	quit chan struct{}
}

// Service implements the guiCreator interface.
func (g *sdlGUI) Service() {
	ev := g.win.Service(func(key string) {
		select {
		case g.keys <- key:
		default:
		}
	})
	if ev == sdlrender.EventQuit {
		select {
		case g.quit <- struct{}{}:
		default:
		}
	}
}

// Destroy implements the guiCreator interface.
func (g *sdlGUI) Destroy() {
	g.win.Destroy()
}

func runMode(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	var opts sessionOptions
	prefsFile := md.AddString("prefs", "", "preferences file")
	headless := md.AddBool("headless", false, "run without a window")
	wav := md.AddString("wav", "", "write audio to WAV file")
	record := md.AddBool("record", false, "start recording video immediately (requires ffmpeg)")
	profile := md.AddString("profile", string(recorder.ProfileFast), "ffmpeg encoding profile")
	script := md.AddString("script", "", "run lua script")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	memvizFile := md.AddString("memviz", "", "write graph of the session to file on exit (DOT format)")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	cmdPrefs := md.AddString("setprefs", "", "preferences for this run (eg. \"scheduler.speed::200; rewind.enabled::false\")")
	region := md.AddString("region", "", "override the region of the machine (NTSC, PAL, DENDY)")
	pcm := md.AddString("pcm", "", "play audio file (WAV or MP3) instead of a test tone")
	audioBackend := md.AddString("audio", "", "audio backend (sdl, oto or none)")

	md.AdditionalHelp("keys: p pause, r reset, s save state, l load state, v record, w rewind, a autosave, c screenshot, q quit")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout, false)
	}

	opts.prefsFile = *prefsFile
	opts.cmdPrefs = *cmdPrefs
	opts.region = *region
	opts.pcm = *pcm

	ses, err := newSession(opts)
	if err != nil {
		return err
	}
	defer ses.close()

	if *stats {
		if !statsview.Available() {
			fmt.Println("* statsview not available in this build")
		}
		defer statsview.Launch(os.Stdout)()
	}

	// the gui must be created before the audio because the SDL audio backend
	// requires SDL to have been initialised
	gui := &sdlGUI{
		keys: make(chan string, 16),
		quit: make(chan struct{}, 1),
	}

	if !*headless {
		sync.creator <- func() (guiCreator, error) {
			win, err := sdlrender.NewWindow(version.ApplicationName, ses.prefs.Scale.Get().(int))
			if err != nil {
				return nil, err
			}
			gui.win = win
			return gui, nil
		}

		select {
		case <-sync.creation:
		case err := <-sync.creationError:
			return err
		}

		ses.pipeline.RegisterRenderingDevice(gui.win)
		defer ses.pipeline.UnregisterRenderingDevice(gui.win)
		ses.sch.SetPowerSave(gui.win)
	}

	backend := *audioBackend
	if backend == "" {
		backend = ses.prefs.AudioBackend.String()
	}
	if *headless && backend == settings.AudioSDL {
		backend = settings.AudioOto
	}
	if err := ses.setAudio(backend); err != nil {
		logger.Log(logger.Allow, "gophernes", err)
	}

	if *wav != "" {
		ww, err := wavwriter.NewWavWriter(*wav, ses.mixer.SampleRate())
		if err != nil {
			return err
		}
		ses.mixer.AddTap(ww)
		defer func() {
			ses.mixer.RemoveTap(ww)
			if err := ww.Close(); err != nil {
				logger.Log(logger.Allow, "gophernes", err)
			}
		}()
	}

	asv, err := autosave.NewManager(ses.sch, ses.prefs, ses.hub, "")
	if err != nil {
		return err
	}
	defer asv.Stop()
	ses.sch.Attach(asv)

	rec := recorder.NewAviRecorder(ses.sch, ses.hub)
	ses.pipeline.AddConsumer(rec)
	ses.mixer.AddTap(rec)
	ses.sch.Attach(rec)

	ctl := &control{
		ses:     ses,
		asv:     asv,
		rec:     rec,
		profile: recorder.Profile(*profile),
	}

	// the interrupt signal stops the emulation rather than the program
	sync.state <- stateRequest{req: reqNoIntSig}
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ses.sch.Run()
	})

	g.Go(func() error {
		select {
		case <-intChan:
		case <-gui.quit:
		case <-ctx.Done():
			return nil
		}
		ses.sch.Stop(govern.StopCodeNormal)
		return nil
	})

	var keys <-chan byte
	var term easyterm.Terminal
	if err := term.Initialise(os.Stdin, os.Stdout); err == nil {
		term.CBreakMode()
		defer term.CleanUp()
		keys = easyterm.ReadKeys(ctx, os.Stdin)
	} else {
		logger.Log(logger.Allow, "gophernes", err)
	}

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case k, ok := <-keys:
				if !ok {
					keys = nil
					continue
				}
				ctl.key(string(k))
			case k := <-gui.keys:
				ctl.key(k)
			}
		}
	})

	if *script != "" {
		host := scripting.NewHost(ses.sch, os.Stdout)
		g.Go(func() error {
			// wait for the emulation to start so that the script can pause it
			for !ses.sch.IsRunning() {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(10 * time.Millisecond):
				}
			}
			return host.RunFile(ctx, *script)
		})
	}

	if *record {
		go func() {
			// recording needs the size of the first frame
			for ses.pipeline.LastFrame() == nil {
				if ctx.Err() != nil {
					return
				}
				time.Sleep(10 * time.Millisecond)
			}
			ctl.toggleRecording()
		}()
	}

	err = g.Wait()

	if *memvizFile != "" {
		if err := writeMemviz(*memvizFile, ses); err != nil {
			logger.Log(logger.Allow, "gophernes", err)
		}
	}

	if err != nil {
		return err
	}

	if code := ses.sch.GetStopCode(); code != govern.StopCodeNormal {
		return curated.Errorf("emulation stopped with %s", code)
	}

	return nil
}

// writeMemviz writes a graph of the session's structures to the named file.
func writeMemviz(filename string, ses *session) error {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("memviz: %v", err)
	}
	defer f.Close()
	memviz.Map(f, ses)
	return nil
}

func perform(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	var opts sessionOptions
	duration := md.AddString("duration", "5s", "run duration (with an additional 2s lead-in)")
	profile := md.AddString("profile", "none", "run performance check with profiling: cpu, mem, trace, all")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	cmdPrefs := md.AddString("setprefs", "", "preferences for this run")
	region := md.AddString("region", "", "override the region of the machine (NTSC, PAL, DENDY)")
	overclock := md.AddInt("overclock", 0, "additional scanlines per frame")
	uncapped := md.AddBool("uncapped", true, "run the emulation as fast as possible")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout, false)
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	opts.cmdPrefs = *cmdPrefs
	opts.region = *region

	ses, err := newSession(opts)
	if err != nil {
		return err
	}
	defer ses.close()

	if *uncapped {
		if err := ses.prefs.Speed.Set(0); err != nil {
			return err
		}
	}

	if err := ses.machine.SetOverclock(*overclock); err != nil {
		return err
	}

	// performance checks must not be affected by the state of the previous
	// session or by the disk
	if err := ses.prefs.AutoSave.Set(false); err != nil {
		return err
	}
	ses.sch.SetPersister(nil)

	sync.state <- stateRequest{req: reqNoIntSig}

	res, err := performance.Check(os.Stdout, prf, ses.sch, *duration)
	if err != nil {
		return err
	}
	logger.Log(logger.Allow, "performance", res)

	return nil
}
