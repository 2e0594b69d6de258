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

package synthetic

import (
	"encoding/binary"
	"io"

	"github.com/jetsetilly/gophernes/scheduler"
)

// the number of scanlines that produce pixels
const visibleScanlines = 240

// the colours of the test pattern bars
var bars = [8][3]uint8{
	{0xc0, 0xc0, 0xc0},
	{0xc0, 0xc0, 0x00},
	{0x00, 0xc0, 0xc0},
	{0x00, 0xc0, 0x00},
	{0xc0, 0x00, 0xc0},
	{0xc0, 0x00, 0x00},
	{0x00, 0x00, 0xc0},
	{0x10, 0x10, 0x10},
}

// the picture unit
type ppu struct {
	variant scheduler.PictureVariant

	// the number of output pixels per machine pixel in each direction
	scale int

	width  int
	height int
	pixels []uint8

	// the horizontal position of the pattern. increases every frame
	scroll int
}

func newPPU(variant scheduler.PictureVariant) *ppu {
	p := &ppu{
		variant: variant,
		scale:   1,
	}
	if variant == scheduler.PictureHD {
		p.scale = 2
	}
	p.width = 256 * p.scale
	p.height = visibleScanlines * p.scale
	p.pixels = make([]uint8, p.width*p.height*4)
	return p
}

func (p *ppu) reset() {
	p.scroll = 0
	clear(p.pixels)
}

// the colour of the machine pixel at x,y
func (p *ppu) colour(x, y int) [3]uint8 {
	if p.variant == scheduler.PictureNSF {
		// a level meter that rises and falls with the scroll value
		level := p.scroll % 512
		if level > 255 {
			level = 511 - level
		}
		if y > 100 && y < 140 && x < level {
			return bars[3]
		}
		return bars[7]
	}

	// a diagonal line moving against the scrolling bars
	if (x+y-p.scroll)%64 == 0 {
		return [3]uint8{0xff, 0xff, 0xff}
	}
	return bars[((x+p.scroll)%256)/32]
}

// draw the scanline
func (p *ppu) scanline(line int) {
	for x := range 256 {
		c := p.colour(x, line)
		for sy := range p.scale {
			row := (line*p.scale + sy) * p.width * 4
			for sx := range p.scale {
				i := row + (x*p.scale+sx)*4
				p.pixels[i] = c[0]
				p.pixels[i+1] = c[1]
				p.pixels[i+2] = c[2]
				p.pixels[i+3] = 0xff
			}
		}
	}
}

// SaveSnapshot implements the snapshot.Snapshotter interface. Only the scroll
// position is saved. The pixels are redrawn in the next frame.
func (p *ppu) SaveSnapshot(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, int64(p.scroll))
}

// LoadSnapshot implements the snapshot.Snapshotter interface.
func (p *ppu) LoadSnapshot(r io.Reader, version uint32) error {
	var v int64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return err
	}
	p.scroll = int(v)
	return nil
}
