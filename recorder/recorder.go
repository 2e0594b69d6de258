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

package recorder

import (
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/gophernes/autoreset"
	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/notifications"
	"github.com/jetsetilly/gophernes/video"
)

// Reasons for the recording stopping. The reason is sent as the detail of
// the VideoRecorderStopped notification.
const (
	StopRequested       = "stopped"
	StopGeometryChanged = "frame size changed"
	StopRateChanged     = "frame rate changed"
	StopAudioChanged    = "audio sample rate changed"
	StopWriteError      = "write error"
	StopSessionEnded    = "session ended"
)

// Error patterns.
const (
	BadConfig = "recorder: %s"
	OpenError = "recorder: %v"
)

// RateSource returns the current frame rate of the emulation, multiplied by one
// million. It is implemented by the scheduler.Scheduler type.
type RateSource interface {
	RecordingRate() uint32
}

// AviRecorder records frames and audio using a Muxer.
type AviRecorder struct {
	rate   RateSource
	notify notifications.Notify

	// serialises StartRecording() and StopRecording()
	ctrl sync.Mutex

	recording atomic.Bool

	// details of the recording. changes to any of these values during a
	// recording stops the recording
	width      int
	height     int
	fps        uint32
	sampleRate int

	// crit protects the frame buffer and the muxer
	crit  sync.Mutex
	muxer Muxer
	frame []uint8

	waitFrame autoreset.Event
	stopFlag  atomic.Bool
	done      chan struct{}

	// the writer goroutine has failed
	failed atomic.Bool

	frames  atomic.Int64
	written atomic.Int64
}

// NewAviRecorder is the preferred method of initialisation for the
// AviRecorder type.
func NewAviRecorder(rate RateSource, notify notifications.Notify) *AviRecorder {
	return &AviRecorder{
		rate:   rate,
		notify: notify,
	}
}

func (rec *AviRecorder) sendNotice(notice notifications.Notice, detail string) {
	if rec.notify == nil {
		return
	}
	if err := rec.notify.Notify(notice, detail); err != nil {
		logger.Log(logger.Allow, "recorder", err)
	}
}

// IsRecording returns true if a recording is in progress.
func (rec *AviRecorder) IsRecording() bool {
	return rec.recording.Load()
}

// Frames returns the number of frames accepted and the number of frames
// written in the current or most recent recording. Accepted frames that were
// replaced by a newer frame before being written are not counted as written.
func (rec *AviRecorder) Frames() (accepted int, written int) {
	return int(rec.frames.Load()), int(rec.written.Load())
}

// StartRecording begins a new recording. The Rate field of the Config is set
// by the recorder. Starting a recording while another is in progress does
// nothing.
func (rec *AviRecorder) StartRecording(muxer Muxer, cfg Config) error {
	rec.ctrl.Lock()
	defer rec.ctrl.Unlock()

	if rec.recording.Load() {
		return nil
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return curated.Errorf(BadConfig, "frame size must be positive")
	}
	if cfg.SampleRate <= 0 {
		return curated.Errorf(BadConfig, "sample rate must be positive")
	}

	cfg.Rate = rec.rate.RecordingRate()

	if err := muxer.Open(cfg); err != nil {
		return curated.Errorf(OpenError, err)
	}

	rec.width = cfg.Width
	rec.height = cfg.Height
	rec.fps = cfg.Rate
	rec.sampleRate = cfg.SampleRate

	rec.crit.Lock()
	rec.muxer = muxer
	rec.frame = make([]uint8, cfg.Width*cfg.Height*4)
	rec.crit.Unlock()

	rec.frames.Store(0)
	rec.written.Store(0)
	rec.failed.Store(false)
	rec.stopFlag.Store(false)
	rec.done = make(chan struct{})

	go rec.writer(rec.done)

	rec.recording.Store(true)

	logger.Logf(logger.Allow, "recorder", "recording to %s (%dx%d %.02fHz)", muxer.Filename(), cfg.Width, cfg.Height, cfg.FPS())
	rec.sendNotice(notifications.NotifyVideoRecorderStarted, muxer.Filename())

	return nil
}

// the writer goroutine writes the most recent frame every time the waitFrame
// event is signalled
func (rec *AviRecorder) writer(done chan struct{}) {
	defer close(done)

	for {
		rec.waitFrame.Wait(0)
		if rec.stopFlag.Load() {
			return
		}

		rec.crit.Lock()
		err := rec.muxer.AddFrame(rec.frame)
		rec.crit.Unlock()

		if err != nil {
			logger.Logf(logger.Allow, "recorder", "%v", err)
			rec.failed.Store(true)
			return
		}

		rec.written.Add(1)
	}
}

// StopRecording ends the recording, if there is one in progress.
func (rec *AviRecorder) StopRecording() {
	rec.stop(StopRequested)
}

func (rec *AviRecorder) stop(reason string) {
	rec.ctrl.Lock()
	defer rec.ctrl.Unlock()

	if !rec.recording.Load() {
		return
	}
	rec.recording.Store(false)

	rec.stopFlag.Store(true)
	rec.waitFrame.Signal()
	<-rec.done

	rec.crit.Lock()
	filename := rec.muxer.Filename()
	err := rec.muxer.Close()
	rec.muxer = nil
	rec.frame = nil
	rec.crit.Unlock()

	if err != nil {
		logger.Logf(logger.Allow, "recorder", "%v", err)
	}

	logger.Logf(logger.Allow, "recorder", "recording of %s ended: %s", filename, reason)
	rec.sendNotice(notifications.NotifyVideoRecorderStopped, reason)
}

// EndSession implements the scheduler.SessionAttachment interface. Any
// recording in progress is stopped.
func (rec *AviRecorder) EndSession() {
	rec.stop(StopSessionEnded)
}

// ConsumeFrame implements the video.Consumer interface. If the size of the
// frame or the frame rate of the emulation has changed since the recording
// started, then the recording is stopped and the frame is not recorded.
func (rec *AviRecorder) ConsumeFrame(f *video.Frame) {
	if !rec.recording.Load() {
		return
	}

	if rec.failed.Load() {
		rec.stop(StopWriteError)
		return
	}

	if f.Width() != rec.width || f.Height() != rec.height {
		rec.stop(StopGeometryChanged)
		return
	}

	if rec.rate.RecordingRate() != rec.fps {
		rec.stop(StopRateChanged)
		return
	}

	rec.crit.Lock()
	if rec.muxer == nil {
		rec.crit.Unlock()
		return
	}

	// copy row by row because the stride of the image may be wider than
	// the frame
	rowLen := rec.width * 4
	img := f.Image
	for y := range rec.height {
		o := y * img.Stride
		copy(rec.frame[y*rowLen:(y+1)*rowLen], img.Pix[o:o+rowLen])
	}
	rec.crit.Unlock()

	rec.frames.Add(1)
	rec.waitFrame.Signal()
}

// AddSamples implements the audio.Tap interface. If the sample rate has changed
// since the recording started then the recording is stopped.
func (rec *AviRecorder) AddSamples(samples []int16, sampleRate int) {
	if !rec.recording.Load() {
		return
	}

	if sampleRate != rec.sampleRate {
		rec.stop(StopAudioChanged)
		return
	}

	rec.crit.Lock()
	defer rec.crit.Unlock()

	if rec.muxer == nil {
		return
	}

	if err := rec.muxer.AddSamples(samples); err != nil {
		logger.Logf(logger.Allow, "recorder", "%v", err)
		rec.failed.Store(true)
	}
}
