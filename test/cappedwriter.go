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

// CappedWriter is an io.Writer that keeps the first bytes written to it and
// silently discards the rest. Used to collect the output of long runs without
// the output growing without bound. Safe for concurrent use.
type CappedWriter struct {
	crit sync.Mutex
	buf  []byte
	size int
}

// NewCappedWriter is the preferred method of initialisation for the
// CappedWriter type.
func NewCappedWriter(size int) (*CappedWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("capped writer: invalid size (%d)", size)
	}
	return &CappedWriter{
		size: size,
		buf:  make([]byte, 0, size),
	}, nil
}

// Write implements the io.Writer interface. The returned count is the number of
// bytes kept, which may be less than len(p). The error is always nil so that
// the writer can be used where a short write would otherwise end the output.
func (w *CappedWriter) Write(p []byte) (int, error) {
	w.crit.Lock()
	defer w.crit.Unlock()

	n := min(len(p), w.size-len(w.buf))
	w.buf = append(w.buf, p[:n]...)
	return n, nil
}

// Full returns true if no more bytes will be kept.
func (w *CappedWriter) Full() bool {
	w.crit.Lock()
	defer w.crit.Unlock()
	return len(w.buf) >= w.size
}

// String returns the bytes kept so far.
func (w *CappedWriter) String() string {
	w.crit.Lock()
	defer w.crit.Unlock()
	return string(w.buf)
}

// Reset discards everything written so far.
func (w *CappedWriter) Reset() {
	w.crit.Lock()
	defer w.crit.Unlock()
	w.buf = w.buf[:0]
}
