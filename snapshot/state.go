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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/paths"
)

// Version is the current format version of the data written by Save().
const Version uint32 = 1

// the first bytes of every state file
const magic = "GNSS"

// AutoSaveSlot is the slot used by the autosave manager.
const AutoSaveSlot = 11

// Sentinel error patterns.
const (
	NotAStateFile      = "snapshot: not a state file"
	UnsupportedVersion = "snapshot: unsupported version (%d)"
)

// Header is written at the start of a state file.
type Header struct {
	Version uint32
	Session uuid.UUID
	Saved   time.Time
}

// WriteState writes a header followed by the component blocks.
func WriteState(w io.Writer, session uuid.UUID, c Components) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(magic); err != nil {
		return curated.Errorf("snapshot: %v", err)
	}

	var hdr [4 + 16 + 8]byte
	binary.LittleEndian.PutUint32(hdr[0:], Version)
	copy(hdr[4:], session[:])
	binary.LittleEndian.PutUint64(hdr[20:], uint64(time.Now().Unix()))
	if _, err := bw.Write(hdr[:]); err != nil {
		return curated.Errorf("snapshot: %v", err)
	}

	if err := Save(bw, c); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return curated.Errorf("snapshot: %v", err)
	}
	return nil
}

// ReadHeader reads and checks the header of a state file.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header

	var m [len(magic)]byte
	if _, err := io.ReadFull(r, m[:]); err != nil || string(m[:]) != magic {
		return h, curated.Errorf(NotAStateFile)
	}

	var hdr [4 + 16 + 8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return h, curated.Errorf(NotAStateFile)
	}

	h.Version = binary.LittleEndian.Uint32(hdr[0:])
	copy(h.Session[:], hdr[4:20])
	h.Saved = time.Unix(int64(binary.LittleEndian.Uint64(hdr[20:])), 0)

	if h.Version == 0 || h.Version > Version {
		return h, curated.Errorf(UnsupportedVersion, h.Version)
	}

	return h, nil
}

// ReadState reads a header and the component blocks.
func ReadState(r io.Reader, c Components) (Header, error) {
	br := bufio.NewReader(r)
	h, err := ReadHeader(br)
	if err != nil {
		return h, err
	}
	return h, Load(br, c, h.Version)
}

// SlotPath returns the path of the state file for a numbered slot.
func SlotPath(slot int) (string, error) {
	return paths.ResourcePath("states", fmt.Sprintf("slot%02d.state", slot))
}

// SaveFile writes the state to the named file. The file is written to a
// temporary file first and renamed so that an existing state is never left
// half written.
func SaveFile(filename string, session uuid.UUID, c Components) error {
	tmp := filename + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return curated.Errorf("snapshot: %v", err)
	}

	err = WriteState(f, session, c)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = curated.Errorf("snapshot: %v", cerr)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, filename); err != nil {
		return curated.Errorf("snapshot: %v", err)
	}
	return nil
}

// LoadFile reads the state from the named file.
func LoadFile(filename string, c Components) (Header, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Header{}, curated.Errorf("snapshot: %v", err)
	}
	defer f.Close()
	return ReadState(f, c)
}

// RecentSession saves the state of the machine when the scheduler stops so
// that the session can be continued later.
type RecentSession struct {
	Filename string
}

// PersistSession writes the state to the recent session file.
func (rs RecentSession) PersistSession(session uuid.UUID, c Components) error {
	return SaveFile(rs.Filename, session, c)
}
