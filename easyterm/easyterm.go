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

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It provides
// some features not present in that package, such as terminal geometry and
// terminal detection, and wraps the termios functions with friendlier names.
package easyterm

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/jetsetilly/gophernes/curated"
)

// NotATerminal is returned by Initialise() when the input file is not a
// terminal.
const NotATerminal = "easyterm: %s is not a terminal"

// TermGeometry is the size of the terminal in characters.
type TermGeometry struct {
	Rows int
	Cols int
}

// Terminal controls the mode of a terminal.
type Terminal struct {
	input  *os.File
	output *os.File

	crit     sync.Mutex
	geometry TermGeometry

	canAttr    unix.Termios
	cbreakAttr unix.Termios
	rawAttr    unix.Termios

	// sig/ack channels to control signal handler
	terminateHandlerSig chan bool
	terminateHandlerAck chan bool
}

// Initialise the terminal. The input file must be a terminal.
func (pt *Terminal) Initialise(inputFile *os.File, outputFile *os.File) error {
	if inputFile == nil || outputFile == nil {
		return curated.Errorf("easyterm: terminal requires an input and an output file")
	}

	if !term.IsTerminal(int(inputFile.Fd())) {
		return curated.Errorf(NotATerminal, inputFile.Name())
	}

	pt.input = inputFile
	pt.output = outputFile

	// prepare the attributes for the different terminal modes we'll be using
	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return curated.Errorf("easyterm: %v", err)
	}
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)
	pt.rawAttr = pt.canAttr
	termios.Cfmakeraw(&pt.rawAttr)

	_ = pt.UpdateGeometry()

	pt.terminateHandlerSig = make(chan bool)
	pt.terminateHandlerAck = make(chan bool)

	go func() {
		sigwinch := make(chan os.Signal, 1)
		signal.Notify(sigwinch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(sigwinch)
			pt.terminateHandlerAck <- true
		}()

		for {
			select {
			case <-sigwinch:
				_ = pt.UpdateGeometry()
			case <-pt.terminateHandlerSig:
				return
			}
		}
	}()

	return nil
}

// CleanUp restores canonical mode and stops the signal handler.
func (pt *Terminal) CleanUp() {
	if pt.terminateHandlerSig == nil {
		return
	}
	pt.CanonicalMode()
	pt.terminateHandlerSig <- true
	<-pt.terminateHandlerAck
	pt.terminateHandlerSig = nil
}

// UpdateGeometry queries the terminal for its current size.
func (pt *Terminal) UpdateGeometry() error {
	cols, rows, err := term.GetSize(int(pt.output.Fd()))
	if err != nil {
		return curated.Errorf("easyterm: %v", err)
	}

	pt.crit.Lock()
	defer pt.crit.Unlock()
	pt.geometry = TermGeometry{Rows: rows, Cols: cols}
	return nil
}

// Geometry returns the most recently queried terminal size.
func (pt *Terminal) Geometry() TermGeometry {
	pt.crit.Lock()
	defer pt.crit.Unlock()
	return pt.geometry
}

// CanonicalMode puts the terminal into normal, line-buffered mode.
func (pt *Terminal) CanonicalMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr)
}

// CBreakMode puts the terminal into a mode where key presses are available
// immediately but signals are still handled by the terminal.
func (pt *Terminal) CBreakMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.cbreakAttr)
}

// RawMode puts the terminal into raw mode.
func (pt *Terminal) RawMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.rawAttr)
}

// Flush any pending input and output.
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return curated.Errorf("easyterm: %v", err)
	}
	if err := termios.Tcflush(pt.output.Fd(), termios.TCOFLUSH); err != nil {
		return curated.Errorf("easyterm: %v", err)
	}
	return nil
}
