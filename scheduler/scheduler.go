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
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jetsetilly/gophernes/assert"
	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/locking"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/notifications"
	"github.com/jetsetilly/gophernes/settings"
)

// Sentinel error patterns.
const (
	AlreadyRunning  = "scheduler: emulation is already running"
	NoPictureSwap   = "scheduler: machine does not support picture unit swapping"
	MachineError    = "scheduler: %v"
	StateError      = "scheduler: state: %v"
	PictureSwapFail = "scheduler: swap picture unit: %v"
)

// the interval at which the user pause flag is polled
const userPausePoll = 30 * time.Millisecond

// values of the pendingOverclock field
const (
	overclockNoChange int32 = iota
	overclockDisable
	overclockEnable
)

// collaborators of the scheduler. all fields can be nil
type collaborators struct {
	mixer     AudioMixer
	rewinder  Rewinder
	powerSave PowerSave
	video     VideoThread
	persister Persister
	dbg       Debugger
}

// Scheduler runs the emulation loop for a single machine.
type Scheduler struct {
	machine Machine
	prefs   *settings.Preferences
	notify  notifications.Notify
	session uuid.UUID

	// the gate. see package documentation
	runLock   locking.ReentrantMutex
	stopLock  locking.ReentrantMutex
	pauseLock locking.ReentrantMutex

	stopFlag atomic.Bool
	stopCode atomic.Int32
	running  atomic.Bool

	// claimed by Run() and RunSingleFrame() before any lock is taken and
	// cleared only after the locks have been released
	active atomic.Bool

	// the goroutine running the emulation loop. zero if the loop is not running
	emuGoroutine atomic.Uint64

	// the limiter is only used by the emulation goroutine but it is read by
	// Measured() and RecordingRate()
	lmtr atomic.Pointer[limiter.Limiter]

	pendingOverclock atomic.Int32

	// crit protects all the following fields
	crit        sync.Mutex
	state       govern.State
	subState    govern.SubState
	failure     *govern.Failure
	coll        collaborators
	attachments []SessionAttachment
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type. The notify argument can be nil. If prefs is nil then default
// preferences are used.
func NewScheduler(machine Machine, prefs *settings.Preferences, notify notifications.Notify) (*Scheduler, error) {
	if prefs == nil {
		var err error
		prefs, err = settings.NewPreferences()
		if err != nil {
			return nil, curated.Errorf("scheduler: %v", err)
		}
	}

	sch := &Scheduler{
		machine: machine,
		prefs:   prefs,
		notify:  notify,
		session: uuid.New(),
	}

	logger.Logf(logger.Allow, "scheduler", "session %s", sch.session)

	return sch, nil
}

// Machine returns the machine driven by the scheduler. The machine must only be
// accessed by the emulation goroutine or inside a Pause() window.
func (sch *Scheduler) Machine() Machine {
	return sch.machine
}

// Preferences returns the preferences used by the scheduler.
func (sch *Scheduler) Preferences() *settings.Preferences {
	return sch.prefs
}

// Session returns the ID of the scheduler's session.
func (sch *Scheduler) Session() uuid.UUID {
	return sch.session
}

func (sch *Scheduler) sendNotice(notice notifications.Notice, detail string) {
	if sch.notify == nil {
		return
	}
	if err := sch.notify.Notify(notice, detail); err != nil {
		logger.Logf(logger.Allow, "scheduler", "notification %s: %v", notice, err)
	}
}

func (sch *Scheduler) collaborators() collaborators {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	return sch.coll
}

// SetMixer sets the audio mixer. The argument can be nil.
func (sch *Scheduler) SetMixer(mixer AudioMixer) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.coll.mixer = mixer
}

// SetRewinder sets the rewind system. The argument can be nil.
func (sch *Scheduler) SetRewinder(rewinder Rewinder) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.coll.rewinder = rewinder
}

// SetPowerSave sets the host's power saving control. The argument can be nil.
func (sch *Scheduler) SetPowerSave(powerSave PowerSave) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.coll.powerSave = powerSave
}

// SetVideo sets the decoder goroutine that is started and stopped with the
// emulation loop. The argument can be nil.
func (sch *Scheduler) SetVideo(video VideoThread) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.coll.video = video
}

// SetPersister sets the recent session persister. The argument can be nil.
func (sch *Scheduler) SetPersister(persister Persister) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.coll.persister = persister
}

// AttachDebugger attaches a debugger. It should not be called inside a Pause()
// window.
func (sch *Scheduler) AttachDebugger(dbg Debugger) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.coll.dbg = dbg
}

// DetachDebugger removes the debugger. A halted emulation is released.
func (sch *Scheduler) DetachDebugger() {
	sch.crit.Lock()
	dbg := sch.coll.dbg
	sch.coll.dbg = nil
	sch.crit.Unlock()

	if dbg != nil {
		dbg.ResumeFromBreak()
	}
}

// Debugger returns the attached debugger. Returns nil if no debugger is
// attached.
func (sch *Scheduler) Debugger() Debugger {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	return sch.coll.dbg
}

// Attach adds a session attachment. EndSession() will be called on the
// attachment when the emulation loop ends.
func (sch *Scheduler) Attach(a SessionAttachment) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.attachments = append(sch.attachments, a)
}

// Detach removes a session attachment without calling EndSession().
func (sch *Scheduler) Detach(a SessionAttachment) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.attachments = slices.DeleteFunc(sch.attachments, func(e SessionAttachment) bool {
		return e == a
	})
}

func (sch *Scheduler) setState(state govern.State, subState govern.SubState) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	sch.state = state
	sch.subState = subState
}

// State returns the current state of the scheduler.
func (sch *Scheduler) State() (govern.State, govern.SubState) {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	return sch.state, sch.subState
}

// Failure returns the reason for the most recent crash. Returns nil if the
// scheduler has not crashed since it was last reset.
func (sch *Scheduler) Failure() *govern.Failure {
	sch.crit.Lock()
	defer sch.crit.Unlock()
	return sch.failure
}

// EmulationGoroutine returns the ID of the goroutine running the emulation
// loop. Returns zero if the loop is not running.
func (sch *Scheduler) EmulationGoroutine() uint64 {
	return sch.emuGoroutine.Load()
}

func (sch *Scheduler) isEmulationGoroutine() bool {
	id := sch.emuGoroutine.Load()
	return id != 0 && id == assert.GetGoRoutineID()
}

// Measured returns the actual number of frames per second. Returns zero if
// the emulation loop has not run.
func (sch *Scheduler) Measured() float32 {
	lmtr := sch.lmtr.Load()
	if lmtr == nil {
		return 0
	}
	return lmtr.Measured.Load().(float32)
}

// Timing returns the timing used to pace the emulation.
func (sch *Scheduler) Timing() limiter.Timing {
	if lmtr := sch.lmtr.Load(); lmtr != nil {
		return lmtr.Timing()
	}
	return sch.prefs.Timing(sch.machine.Region())
}

// RecordingRate returns the frame rate of the emulation multiplied by one
// million. Used by the AVI recorder.
func (sch *Scheduler) RecordingRate() uint32 {
	return sch.Timing().RecordingRate()
}

// SetNextFrameOverclockStatus disables or enables overclocking from the start
// of the next frame. It does nothing if the machine does not support
// overclocking.
func (sch *Scheduler) SetNextFrameOverclockStatus(disabled bool) {
	if disabled {
		sch.pendingOverclock.Store(overclockDisable)
	} else {
		sch.pendingOverclock.Store(overclockEnable)
	}
}

// Run the emulation loop. The function does not return until Stop() is called
// or the machine fails. The error is nil unless the machine failed, in which
// case it is a *govern.Failure.
//
// An AlreadyRunning error is returned if a session is active. That includes a
// session that has been stopped but has not yet finished ending.
func (sch *Scheduler) Run() error {
	if !sch.active.CompareAndSwap(false, true) {
		return curated.Errorf(AlreadyRunning)
	}
	defer sch.active.Store(false)

	sch.runLock.Acquire()
	sch.stopLock.Acquire()

	sch.emuGoroutine.Store(assert.GetGoRoutineID())
	sch.stopFlag.Store(false)
	sch.stopCode.Store(int32(govern.StopCodeNormal))
	sch.pendingOverclock.Store(overclockNoChange)

	sch.crit.Lock()
	sch.failure = nil
	sch.crit.Unlock()

	lmtr := limiter.NewLimiter(sch.prefs.Timing(sch.machine.Region()), sch.prefs.Speed.Get().(int))
	sch.lmtr.Store(lmtr)

	coll := sch.collaborators()
	if coll.powerSave != nil {
		coll.powerSave.Inhibit()
	}
	if coll.video != nil {
		coll.video.StartThread()
	}

	sch.running.Store(true)
	sch.setState(govern.Running, govern.Normal)

	logger.Logf(logger.Allow, "scheduler", "running (%s at %d%%)", lmtr.Timing().Region, lmtr.Speed())
	sch.sendNotice(notifications.NotifyGameLoaded, "")

	err := sch.loop(lmtr)
	sch.teardown(lmtr, err != nil)

	return err
}

// the emulation loop. returns a *govern.Failure if the machine fails
func (sch *Scheduler) loop(lmtr *limiter.Limiter) (err error) {
	frame := sch.machine.FrameCount()

	defer func() {
		if r := recover(); r != nil {
			err = sch.crash(frame, fmt.Errorf("%v", r), true)
		}
	}()

	lmtr.Start()

	for {
		if dbg := sch.Debugger(); dbg != nil {
			dbg.ProcessInstruction(frame)
		}

		if err := sch.machine.Step(); err != nil {
			return sch.crash(frame, err, false)
		}

		fc := sch.machine.FrameCount()
		if fc == frame {
			continue
		}
		frame = fc

		sch.endOfFrame(lmtr, frame)

		// frame pacing
		lmtr.Wait()

		// the safe point
		resync := sch.safePoint()

		if sch.prefs.Paused.Get().(bool) && !sch.stopFlag.Load() {
			sch.userPause()
			resync = true
		}

		if resync {
			// the machine state may have been replaced during the pause
			frame = sch.machine.FrameCount()
			lmtr.Resync()
		} else {
			lmtr.Advance()
		}
		lmtr.MeasureActual()

		if sch.stopFlag.Load() {
			return nil
		}
	}
}

// end of frame processing. called with the run lock held
func (sch *Scheduler) endOfFrame(lmtr *limiter.Limiter, frame int) {
	coll := sch.collaborators()

	if coll.mixer != nil {
		coll.mixer.ProcessEndOfFrame()
	}

	if coll.rewinder != nil && sch.prefs.Rewind.Get().(bool) {
		coll.rewinder.ProcessEndOfFrame(frame, sch.machine.Components())
	}

	if v := sch.pendingOverclock.Swap(overclockNoChange); v != overclockNoChange {
		if oc, ok := sch.machine.(Overclocker); ok {
			oc.SetOverclockDisabled(v == overclockDisable)
		}
	}

	// changes to the speed and timing preferences take effect from the next
	// frame
	lmtr.SetSpeed(sch.prefs.Speed.Get().(int))
	lmtr.SetTiming(sch.prefs.Timing(sch.machine.Region()))
}

// if another goroutine is waiting in Pause() then the run lock is released
// until the pause lock is released. returns true if the run lock was released.
func (sch *Scheduler) safePoint() bool {
	if sch.pauseLock.IsFree() {
		return false
	}

	sch.setState(govern.Paused, govern.PausedByCaller)

	sch.runLock.Release()
	sch.pauseLock.WaitForRelease()
	sch.runLock.Acquire()

	sch.setState(govern.Running, govern.Normal)

	return true
}

// the user has paused the emulation. the run lock is released until the paused
// flag is cleared or the scheduler is stopped
func (sch *Scheduler) userPause() {
	sch.setState(govern.Paused, govern.PausedByUser)
	sch.sendNotice(notifications.NotifyGamePaused, "")
	logger.Log(logger.Allow, "scheduler", "paused by user")

	coll := sch.collaborators()
	if coll.mixer != nil {
		coll.mixer.StopAudio()
	}

	sch.runLock.Release()

	if coll.powerSave != nil {
		coll.powerSave.Allow()
	}

	for sch.prefs.Paused.Get().(bool) && !sch.stopFlag.Load() {
		time.Sleep(userPausePoll)
	}

	if coll.powerSave != nil {
		coll.powerSave.Inhibit()
	}

	sch.runLock.Acquire()

	sch.setState(govern.Running, govern.Normal)
	sch.sendNotice(notifications.NotifyGameResumed, "")
	logger.Log(logger.Allow, "scheduler", "resumed by user")
}

// crash records the failure and returns it
func (sch *Scheduler) crash(frame int, err error, panicked bool) error {
	f := &govern.Failure{
		Frame:    frame,
		Err:      err,
		Panicked: panicked,
	}

	sch.stopCode.Store(int32(govern.StopCodeCrash))
	sch.stopFlag.Store(true)

	sch.crit.Lock()
	sch.failure = f
	sch.crit.Unlock()

	logger.Log(logger.Allow, "scheduler", f)
	sch.sendNotice(notifications.NotifyGameCrash, f.Error())

	return f
}

// teardown is called on every exit from the emulation loop. the run lock and
// stop lock are held by the emulation goroutine on entry
func (sch *Scheduler) teardown(lmtr *limiter.Limiter, crashed bool) {
	// a panic inside a Pause() window on the emulation goroutine can leave
	// extra acquisitions in place
	for sch.pauseLock.IsOwner() {
		sch.pauseLock.Release()
	}
	for sch.runLock.Count() > 1 {
		sch.runLock.Release()
	}

	sch.running.Store(false)
	sch.setState(govern.Stopping, govern.Normal)
	sch.sendNotice(notifications.NotifyBeforeEmulationStop, "")

	coll := sch.collaborators()

	// the state of a crashed machine is not saved because it may be
	// inconsistent
	if !crashed && coll.persister != nil {
		if err := coll.persister.PersistSession(sch.session, sch.machine.Components()); err != nil {
			logger.Logf(logger.Allow, "scheduler", "persisting session: %v", err)
		}
	}

	// release the run lock while the attachments are ended. any goroutine
	// waiting in Pause() will be able to complete and will see that the
	// scheduler is no longer running
	sch.runLock.Release()

	sch.crit.Lock()
	attachments := slices.Clone(sch.attachments)
	sch.crit.Unlock()

	for _, a := range attachments {
		a.EndSession()
	}
	if coll.rewinder != nil {
		coll.rewinder.EndSession()
	}

	sch.runLock.Acquire()

	if coll.mixer != nil {
		coll.mixer.StopAudio()
	}
	if coll.powerSave != nil {
		coll.powerSave.Allow()
	}
	if coll.video != nil {
		coll.video.StopThread()
	}

	if err := sch.prefs.Paused.Set(false); err != nil {
		logger.Log(logger.Allow, "scheduler", err)
	}

	lmtr.Stop()
	sch.emuGoroutine.Store(0)

	if crashed {
		sch.setState(govern.Crashed, govern.Normal)
	} else {
		sch.setState(govern.Stopped, govern.Normal)
	}

	code := sch.GetStopCode()
	logger.Logf(logger.Allow, "scheduler", "stopped (%s)", code)

	sch.sendNotice(notifications.NotifyGameStopped, code.String())
	sch.sendNotice(notifications.NotifyEmulationStopped, "")

	// the locks are released last
	sch.stopLock.Release()
	sch.runLock.Release()
}
