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

package audio

import "sync/atomic"

// Headless is an Output that discards all samples. The number of samples
// received is counted.
type Headless struct {
	Samples atomic.Int64
	Paused  atomic.Bool
}

// QueueSamples implements the Output interface.
func (h *Headless) QueueSamples(samples []int16) error {
	if !h.Paused.Load() {
		h.Samples.Add(int64(len(samples)))
	}
	return nil
}

// Pause implements the Output interface.
func (h *Headless) Pause(paused bool) {
	h.Paused.Store(paused)
}

// Close implements the Output interface.
func (h *Headless) Close() error {
	return nil
}
