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

package easyterm

import (
	"context"
	"io"
)

// Key codes.
const (
	KeyCtrlC          = 3
	KeyCtrlD          = 4
	KeyTab            = 9
	KeyCarriageReturn = 13
	KeyEsc            = 27
	KeyBackspace      = 127
)

// ReadKeys reads single bytes from r and sends them to the returned channel.
// The channel is closed when r returns an error or the context is cancelled.
//
// A read that is in progress when the context is cancelled will not return
// until a key is pressed. The terminal should be in cbreak or raw mode for
// key presses to arrive without waiting for the return key.
func ReadKeys(ctx context.Context, r io.Reader) <-chan byte {
	keys := make(chan byte)

	go func() {
		defer close(keys)

		b := make([]byte, 1)
		for {
			n, err := r.Read(b)
			if ctx.Err() != nil {
				return
			}
			if n == 1 {
				select {
				case keys <- b[0]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	return keys
}
