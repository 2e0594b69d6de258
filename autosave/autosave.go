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

// Package autosave periodically saves the state of the emulation to disk.
//
// The Manager type runs in its own goroutine. The emulation is paused for the
// duration of each save and the save is skipped if the emulation is not
// running. The Manager implements the scheduler.SessionAttachment interface and
// should be attached to the scheduler with Attach().
package autosave

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/gophernes/autoreset"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/notifications"
	"github.com/jetsetilly/gophernes/settings"
	"github.com/jetsetilly/gophernes/snapshot"
)

// the longest time the manager goroutine sleeps between checks
const maxWait = time.Second

// Emulation is the interface to the emulation required by the Manager. It is
// implemented by the scheduler.Scheduler type.
type Emulation interface {
	Pause()
	Resume()
	IsRunning() bool
	SaveStateFile(filename string) error
}

// Manager saves the emulation state at the interval specified by the
// AutoSaveInterval preference.
type Manager struct {
	emu      Emulation
	prefs    *settings.Preferences
	notify   notifications.Notify
	filename string

	wake     autoreset.Event
	force    atomic.Bool
	restart  atomic.Bool
	quit     atomic.Bool
	done     chan struct{}
	stopOnce sync.Once

	saves atomic.Int64
}

// NewManager is the preferred method of initialisation for the Manager type.
// The manager goroutine is started immediately. If filename is empty then the
// autosave slot is used.
func NewManager(emu Emulation, prefs *settings.Preferences, notify notifications.Notify, filename string) (*Manager, error) {
	if filename == "" {
		var err error
		filename, err = snapshot.SlotPath(snapshot.AutoSaveSlot)
		if err != nil {
			return nil, err
		}
	}

	m := &Manager{
		emu:      emu,
		prefs:    prefs,
		notify:   notify,
		filename: filename,
		done:     make(chan struct{}),
	}

	go m.run()

	return m, nil
}

// Filename returns the name of the file the state is saved to.
func (m *Manager) Filename() string {
	return m.filename
}

// Saves returns the number of successful saves.
func (m *Manager) Saves() int {
	return int(m.saves.Load())
}

func (m *Manager) interval() time.Duration {
	mins := m.prefs.AutoSaveInterval.Get().(float64)
	return time.Duration(mins * float64(time.Minute))
}

func (m *Manager) run() {
	defer close(m.done)

	last := time.Now()

	for {
		wait := maxWait
		if m.prefs.AutoSave.Get().(bool) {
			if remaining := m.interval() - time.Since(last); remaining < wait {
				wait = max(remaining, time.Millisecond)
			}
		}

		m.wake.Wait(wait)

		if m.quit.Load() {
			return
		}

		if m.restart.Swap(false) {
			last = time.Now()
		}

		due := m.prefs.AutoSave.Get().(bool) && time.Since(last) >= m.interval()
		if !due && !m.force.Swap(false) {
			continue
		}

		m.save()
		last = time.Now()
	}
}

func (m *Manager) save() {
	m.emu.Pause()
	defer m.emu.Resume()

	// the emulation may have stopped while waiting for the pause
	if !m.emu.IsRunning() {
		return
	}

	if err := m.emu.SaveStateFile(m.filename); err != nil {
		logger.Logf(logger.Allow, "autosave", "%v", err)
		return
	}

	m.saves.Add(1)
	logger.Logf(logger.Allow, "autosave", "saved to %s", m.filename)

	if m.notify != nil {
		if err := m.notify.Notify(notifications.NotifyAutoSaved, m.filename); err != nil {
			logger.Log(logger.Allow, "autosave", err)
		}
	}
}

// SaveNow requests a save without waiting for the interval to elapse. The
// request is ignored if the manager has been stopped.
func (m *Manager) SaveNow() {
	m.force.Store(true)
	m.wake.Signal()
}

// EndSession implements the scheduler.SessionAttachment interface. The
// interval is timed again from the start of the next session.
func (m *Manager) EndSession() {
	m.restart.Store(true)
	m.wake.Signal()
}

// Stop the manager goroutine. Waits for any save in progress to complete. It is
// safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.quit.Store(true)
		m.wake.Signal()
	})
	<-m.done
}
