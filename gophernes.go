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
	"os/signal"
	"time"

	"github.com/jetsetilly/gophernes/modalflag"
	"github.com/jetsetilly/gophernes/version"

	"github.com/veandco/go-sdl2/sdl"
)

type stateReq string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when the mode provides its own
	// handler.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args any
}

// guiCreator facilitates the creation, servicing and destruction of GUIs that
// need to be serviced from the main loop.
type guiCreator interface {
	// cleanup resources used by the gui
	Destroy()

	// Service() should not pause or loop longer than necessary. It is called
	// regularly by the main loop
	Service()
}

// the rate at which the main loop calls Service() on the current gui
const serviceRate = 10 * time.Millisecond

// communication between the main() function and the launch() function. this is
// required because SDL requires window event handling (including creation) to
// be coordinated by the main thread.
type mainSync struct {
	state   chan stateRequest
	creator chan func() (guiCreator, error)

	// the result of creator will be returned on either of these two channels
	creation      chan guiCreator
	creationError chan error
}

// #mainthread
func main() {
	exitVal := 0

	// sdl.Main() locks the main thread and services calls made with sdl.Do()
	sdl.Main(func() {
		exitVal = mainLoop()
	})

	os.Exit(exitVal)
}

func mainLoop() int {
	sync := &mainSync{
		state:         make(chan stateRequest),
		creator:       make(chan func() (guiCreator, error)),
		creation:      make(chan guiCreator),
		creationError: make(chan error),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	exitVal := 0

	// #ctrlc default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	// launch program as a goroutine. further communication is through the
	// mainSync instance
	go launch(sync, os.Args[1:])

	ticker := time.NewTicker(serviceRate)
	defer ticker.Stop()

	done := false
	var gui guiCreator
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case creator := <-sync.creator:
			if gui != nil {
				gui.Destroy()
				gui = nil
			}

			g, err := creator()
			if err != nil {
				sync.creationError <- err
			} else {
				gui = g
				sync.creation <- gui
			}

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if gui != nil {
					gui.Destroy()
				}

				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}

		case <-ticker.C:
			if gui != nil {
				gui.Service()
			}
		}
	}

	fmt.Print("\r")
	return exitVal
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate gui creation and to quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.AddSubModes("RUN", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* %s\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = runMode(md, sync)
	case "PERFORMANCE":
		err = perform(md, sync)
	case "VERSION":
		fmt.Println(version.Get())
	}

	if err != nil {
		fmt.Printf("* %s\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit, args: 0}
}
