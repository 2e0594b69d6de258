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

// Package scripting runs Lua scripts that control the emulation. A script is
// run on its own goroutine and has access to the emu table:
//
//	emu.pause()          pause the emulation. calls can be nested
//	emu.resume()         resume after a call to pause()
//	emu.reset(soft)      reset the machine. soft is true by default
//	emu.stop(code)       stop the emulation with the stop code
//	emu.framecount()     the current frame number
//	emu.isrunning()      true if the emulation loop is running
//	emu.ispaused()       true if the emulation loop is not able to run
//	emu.savestate(path)  save the state of the machine
//	emu.loadstate(path)  load the state of the machine
//	emu.log(msg)         write a message to the log
//	emu.print(msg)       write a message to the script output
//	emu.sleep(ms)        sleep for a number of milliseconds
//
// Pauses that are outstanding when the script ends are resumed.
package scripting

import (
	"context"
	"fmt"
	"io"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/scheduler"
)

// ScriptError is the error pattern for errors from the script.
const ScriptError = "scripting: %v"

// Emulation is the interface to the emulation used by scripts. It is
// implemented by the scheduler.Scheduler type.
type Emulation interface {
	Pause()
	Resume()
	Reset(soft bool) error
	Stop(code govern.StopCode)
	IsRunning() bool
	IsPaused() bool
	SaveStateFile(filename string) error
	LoadStateFile(filename string) error
	Machine() scheduler.Machine
}

// Host runs scripts.
type Host struct {
	emu Emulation

	// output from emu.print(). can be nil
	output io.Writer
}

// NewHost is the preferred method of initialisation for the Host type.
func NewHost(emu Emulation, output io.Writer) *Host {
	return &Host{
		emu:    emu,
		output: output,
	}
}

// a single execution of a script
type run struct {
	host *Host
	ctx  context.Context

	// the number of outstanding calls to emu.pause()
	pauses int
}

// RunString runs the script in the string. The function returns when the
// script ends or when the context is cancelled.
func (h *Host) RunString(ctx context.Context, script string) error {
	return h.run(ctx, func(L *lua.LState) error {
		return L.DoString(script)
	})
}

// RunFile runs the script in the named file.
func (h *Host) RunFile(ctx context.Context, filename string) error {
	logger.Logf(logger.Allow, "scripting", "running %s", filename)
	return h.run(ctx, func(L *lua.LState) error {
		return L.DoFile(filename)
	})
}

func (h *Host) run(ctx context.Context, do func(L *lua.LState) error) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	r := &run{
		host: h,
		ctx:  ctx,
	}

	// a script that ends without resuming will not leave the emulation paused
	defer func() {
		if r.pauses > 0 {
			logger.Logf(logger.Allow, "scripting", "resuming %d outstanding pauses", r.pauses)
		}
		for ; r.pauses > 0; r.pauses-- {
			h.emu.Resume()
		}
	}()

	tbl := L.NewTable()
	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"pause":      r.pause,
		"resume":     r.resume,
		"reset":      r.reset,
		"stop":       r.stop,
		"framecount": r.framecount,
		"isrunning":  r.isrunning,
		"ispaused":   r.ispaused,
		"savestate":  r.savestate,
		"loadstate":  r.loadstate,
		"log":        r.log,
		"print":      r.print,
		"sleep":      r.sleep,
	})
	L.SetGlobal("emu", tbl)

	if err := do(L); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return curated.Errorf(ScriptError, err)
	}

	return nil
}

func (r *run) pause(L *lua.LState) int {
	r.host.emu.Pause()
	r.pauses++
	return 0
}

func (r *run) resume(L *lua.LState) int {
	if r.pauses == 0 {
		L.RaiseError("resume() without pause()")
		return 0
	}
	r.pauses--
	r.host.emu.Resume()
	return 0
}

func (r *run) reset(L *lua.LState) int {
	if err := r.host.emu.Reset(L.OptBool(1, true)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (r *run) stop(L *lua.LState) int {
	r.host.emu.Stop(govern.StopCode(L.OptInt(1, int(govern.StopCodeNormal))))
	return 0
}

func (r *run) framecount(L *lua.LState) int {
	L.Push(lua.LNumber(r.host.emu.Machine().FrameCount()))
	return 1
}

func (r *run) isrunning(L *lua.LState) int {
	L.Push(lua.LBool(r.host.emu.IsRunning()))
	return 1
}

func (r *run) ispaused(L *lua.LState) int {
	L.Push(lua.LBool(r.host.emu.IsPaused()))
	return 1
}

func (r *run) savestate(L *lua.LState) int {
	if err := r.host.emu.SaveStateFile(L.CheckString(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (r *run) loadstate(L *lua.LState) int {
	if err := r.host.emu.LoadStateFile(L.CheckString(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (r *run) log(L *lua.LState) int {
	logger.Log(logger.Allow, "script", L.CheckString(1))
	return 0
}

func (r *run) print(L *lua.LState) int {
	if r.host.output != nil {
		fmt.Fprintln(r.host.output, L.CheckString(1))
	}
	return 0
}

func (r *run) sleep(L *lua.LState) int {
	d := time.Duration(L.CheckInt(1)) * time.Millisecond
	select {
	case <-time.After(d):
	case <-r.ctx.Done():
	}
	return 0
}
