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

// Timeline provides a summary of the current state of the rewind system.
//
// Useful for GUIs for example, to present the range of frame numbers that are
// available in the rewind history.
type Timeline struct {
	// every frame seen by the rewind system, not only the frames that have
	// been snapshotted
	FrameNum []int

	// These two "available" fields state the earliest and latest frames that
	// are available in the rewind history.
	AvailableStart int
	AvailableEnd   int
}

const timelineLength = 1000

func newTimeline() Timeline {
	return Timeline{
		FrameNum: make([]int, 0, timelineLength),
	}
}

// add a frame to the timeline. frames at or after the new frame are forgotten,
// which happens when the emulation continues from a restored state.
func (tl *Timeline) add(frame int) {
	tl.splice(frame)
	tl.FrameNum = append(tl.FrameNum, frame)
	if len(tl.FrameNum) > timelineLength {
		tl.FrameNum = append(tl.FrameNum[:0], tl.FrameNum[1:]...)
	}
}

func (tl *Timeline) splice(frame int) {
	for i := range tl.FrameNum {
		if tl.FrameNum[i] >= frame {
			tl.FrameNum = tl.FrameNum[:i]
			break // for loop
		}
	}
}

// GetTimeline returns a copy of the timeline.
func (r *Rewind) GetTimeline() Timeline {
	r.crit.Lock()
	defer r.crit.Unlock()

	tl := Timeline{
		FrameNum: append([]int(nil), r.timeline.FrameNum...),
	}
	if !r.empty() {
		tl.AvailableStart = r.entries[r.start].Frame
		tl.AvailableEnd = r.entries[r.last()].Frame
	}
	return tl
}
