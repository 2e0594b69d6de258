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

package test

import (
	"fmt"
	"sync"
)

// RingWriter is an io.Writer that keeps only the most recent bytes written to
// it. It is safe to write from one goroutine while reading from another, which
// makes it suitable as the echo target of the logger.
type RingWriter struct {
	crit sync.Mutex
	buf  []byte
	size int
}

// NewRingWriter is the preferred method of initialisation for the RingWriter
// type.
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ring writer: invalid size (%d)", size)
	}
	return &RingWriter{
		size: size,
		buf:  make([]byte, 0, size*2),
	}, nil
}

// Write implements the io.Writer interface. Writing never fails.
func (r *RingWriter) Write(p []byte) (int, error) {
	r.crit.Lock()
	defer r.crit.Unlock()

	r.buf = append(r.buf, p...)
	if over := len(r.buf) - r.size; over > 0 {
		r.buf = append(r.buf[:0], r.buf[over:]...)
	}

	return len(p), nil
}

// String returns the retained bytes, oldest first.
func (r *RingWriter) String() string {
	r.crit.Lock()
	defer r.crit.Unlock()
	return string(r.buf)
}

// Reset discards everything written so far.
func (r *RingWriter) Reset() {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.buf = r.buf[:0]
}
