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

// Package notifications allow communication from the emulation to the rest of
// the program. For example, the scheduler sends a notification when the
// emulation has been paused by the user and when the session has stopped.
//
// Notifications are sometimes passed onto the GUI to indicate to the user the
// event that has happened. Other notifications are used invisibly. For
// example, the autosave manager waits for a session to be loaded before it
// starts saving.
//
// The Hub type collects listeners. A single Hub is usually shared by all
// packages in the program.
package notifications
