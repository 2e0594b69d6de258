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

package rewind

// GetComparison returns the comparison point. This is the most recently
// restored state unless the comparison has been locked. Returns nil if there
// is no comparison point.
func (r *Rewind) GetComparison() *State {
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.comparison
}

// SetComparison points the comparison to the entry nearest to the frame.
func (r *Rewind) SetComparison(frame int) {
	r.crit.Lock()
	defer r.crit.Unlock()

	if r.comparisonLocked || r.empty() {
		return
	}
	r.comparison = r.entries[r.findFrameIndex(frame)]
}

// LockComparison stops the comparison point from being updated.
func (r *Rewind) LockComparison(locked bool) {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.comparisonLocked = locked
}
