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

package snapshot_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/snapshot"
	"github.com/jetsetilly/gophernes/test"
)

// a component with a single uint32 of state
type register struct {
	value   uint32
	version uint32

	// number of bytes to read from the block when loading
	readLen int
}

func (r *register) SaveSnapshot(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, r.value)
}

func (r *register) LoadSnapshot(rd io.Reader, version uint32) error {
	r.version = version
	if r.readLen == 0 {
		return binary.Read(rd, binary.LittleEndian, &r.value)
	}
	b := make([]byte, r.readLen)
	_, err := io.ReadFull(rd, b)
	return err
}

// a component that writes nothing
type empty struct {
	loaded bool
}

func (e *empty) SaveSnapshot(w io.Writer) error {
	return nil
}

func (e *empty) LoadSnapshot(r io.Reader, version uint32) error {
	e.loaded = true
	return nil
}

func TestBlockFormat(t *testing.T) {
	var buf bytes.Buffer
	c := snapshot.Components{
		CPU: &register{value: 0x01020304},
	}
	test.DemandSuccess(t, snapshot.Save(&buf, c))

	// one block with four bytes of data and six empty blocks
	test.ExpectEquality(t, buf.Len(), 8+(snapshot.NumBlocks-1)*4)

	b := buf.Bytes()
	test.ExpectEquality(t, binary.LittleEndian.Uint32(b[0:]), 4)
	test.ExpectEquality(t, binary.LittleEndian.Uint32(b[4:]), 0x01020304)
	for i := 8; i < len(b); i++ {
		test.ExpectEquality(t, b[i], 0)
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	save := snapshot.Components{
		CPU:    &register{value: 1},
		PPU:    &register{value: 2},
		Memory: &register{value: 3},
		APU:    &register{value: 4},
		Input:  &register{value: 5},
		Mapper: &register{value: 6},
	}
	test.DemandSuccess(t, snapshot.Save(&buf, save))

	cpu := &register{}
	mapper := &register{}
	ext := &empty{}
	load := snapshot.Components{
		CPU:      cpu,
		Mapper:   mapper,
		ExtAudio: ext,
	}
	test.DemandSuccess(t, snapshot.Load(&buf, load, 7))

	test.ExpectEquality(t, cpu.value, 1)
	test.ExpectEquality(t, cpu.version, 7)
	test.ExpectEquality(t, mapper.value, 6)

	// the extension block was empty so the component is not touched
	test.ExpectFailure(t, ext.loaded)

	test.ExpectEquality(t, buf.Len(), 0)
}

// data in a block that is not read by the component is skipped
func TestPartialRead(t *testing.T) {
	var buf bytes.Buffer
	test.DemandSuccess(t, snapshot.Save(&buf, snapshot.Components{
		CPU: &register{value: 100},
		PPU: &register{value: 200},
	}))

	cpu := &register{readLen: 1}
	ppu := &register{}
	test.DemandSuccess(t, snapshot.Load(&buf, snapshot.Components{CPU: cpu, PPU: ppu}, 1))
	test.ExpectEquality(t, ppu.value, 200)
}

func TestTruncated(t *testing.T) {
	var buf bytes.Buffer
	test.DemandSuccess(t, snapshot.Save(&buf, snapshot.Components{CPU: &register{value: 1}}))

	b := buf.Bytes()[:6]
	err := snapshot.Load(bytes.NewReader(b), snapshot.Components{CPU: &register{}}, 1)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, snapshot.BlockError))
}

func TestStateFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "test.state")
	session := uuid.New()

	test.DemandSuccess(t, snapshot.SaveFile(fn, session, snapshot.Components{
		CPU: &register{value: 0xabcd},
	}))

	cpu := &register{}
	hdr, err := snapshot.LoadFile(fn, snapshot.Components{CPU: cpu})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, hdr.Session, session)
	test.ExpectEquality(t, hdr.Version, snapshot.Version)
	test.ExpectEquality(t, cpu.value, 0xabcd)
	test.ExpectEquality(t, cpu.version, snapshot.Version)
}

func TestNotAStateFile(t *testing.T) {
	_, err := snapshot.ReadState(bytes.NewReader([]byte("RIFF0000")), snapshot.Components{})
	test.ExpectSuccess(t, curated.Is(err, snapshot.NotAStateFile))

	var buf bytes.Buffer
	buf.WriteString("GNSS")
	var hdr [28]byte
	binary.LittleEndian.PutUint32(hdr[:], snapshot.Version+1)
	buf.Write(hdr[:])
	_, err = snapshot.ReadState(&buf, snapshot.Components{})
	test.ExpectSuccess(t, curated.Is(err, snapshot.UnsupportedVersion))
}
