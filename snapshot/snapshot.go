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

package snapshot

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/jetsetilly/gophernes/curated"
)

// Snapshotter is implemented by each component of the emulated machine.
type Snapshotter interface {
	SaveSnapshot(w io.Writer) error

	// the version is the format version of the data being loaded
	LoadSnapshot(r io.Reader, version uint32) error
}

// Components of the emulated machine. Any field may be nil.
type Components struct {
	CPU      Snapshotter
	PPU      Snapshotter
	Memory   Snapshotter
	APU      Snapshotter
	Input    Snapshotter
	Mapper   Snapshotter
	ExtAudio Snapshotter
}

// list of components in the order they are written. the names are used in
// error messages
func (c Components) ordered() []struct {
	name string
	s    Snapshotter
} {
	return []struct {
		name string
		s    Snapshotter
	}{
		{"cpu", c.CPU},
		{"ppu", c.PPU},
		{"memory", c.Memory},
		{"apu", c.APU},
		{"input", c.Input},
		{"mapper", c.Mapper},
		{"extaudio", c.ExtAudio},
	}
}

// NumBlocks is the number of blocks written by Save().
const NumBlocks = 7

// maximum length of a single block. a length greater than this is assumed to
// be corrupt data.
const maxBlockLength = 64 * 1024 * 1024

// Sentinel error patterns.
const (
	BlockTooLong = "snapshot: %s block is too long (%d bytes)"
	BlockError   = "snapshot: %s: %v"
)

// Save writes a block for every component in the fixed order.
func Save(w io.Writer, c Components) error {
	var buf bytes.Buffer
	for _, o := range c.ordered() {
		buf.Reset()
		if o.s != nil {
			if err := o.s.SaveSnapshot(&buf); err != nil {
				return curated.Errorf(BlockError, o.name, err)
			}
		}
		if err := writeBlock(w, buf.Bytes()); err != nil {
			return curated.Errorf(BlockError, o.name, err)
		}
	}
	return nil
}

// Load reads a block for every component in the fixed order.
func Load(r io.Reader, c Components, version uint32) error {
	for _, o := range c.ordered() {
		n, err := readLength(r)
		if err != nil {
			return curated.Errorf(BlockError, o.name, err)
		}
		if n > maxBlockLength {
			return curated.Errorf(BlockTooLong, o.name, n)
		}

		// an empty block, or a block for a missing component, is skipped
		if n == 0 || o.s == nil {
			if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
				return curated.Errorf(BlockError, o.name, err)
			}
			continue
		}

		// the component can not read beyond the end of its block. any data not
		// read by the component is discarded
		lr := &io.LimitedReader{R: r, N: int64(n)}
		if err := o.s.LoadSnapshot(lr, version); err != nil {
			return curated.Errorf(BlockError, o.name, err)
		}
		if _, err := io.Copy(io.Discard, lr); err != nil {
			return curated.Errorf(BlockError, o.name, err)
		}
	}
	return nil
}

func writeBlock(w io.Writer, data []byte) error {
	var l [4]byte
	binary.LittleEndian.PutUint32(l[:], uint32(len(data)))
	if _, err := w.Write(l[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readLength(r io.Reader) (uint32, error) {
	var l [4]byte
	if _, err := io.ReadFull(r, l[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(l[:]), nil
}
