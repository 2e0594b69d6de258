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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/jetsetilly/gophernes/logger"
)

type pcm struct {
	sampleRate int

	// data is mono data (taken from the left channel in the case of stereo
	// source files)
	data []int16
}

func (p *pcm) sample(pos float64) int16 {
	if len(p.data) == 0 {
		return 0
	}
	return p.data[int(pos)%len(p.data)]
}

func decodePCM(filename string, r io.ReadSeeker) (*pcm, error) {
	p := &pcm{}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		dec := wav.NewDecoder(r)
		if !dec.IsValidFile() {
			return nil, fmt.Errorf("wav: not a valid wav file")
		}

		logger.Log(logger.Allow, "synthetic", "loading from wav file")

		// load all data at once
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("wav: %w", err)
		}

		// samples are scaled to 16bit
		shift := int(dec.BitDepth) - 16

		// copy first channel only of data stream
		chans := int(dec.NumChans)
		if chans < 1 {
			return nil, fmt.Errorf("wav: no channels")
		}
		p.data = make([]int16, 0, len(buf.Data)/chans)
		for i := 0; i < len(buf.Data); i += chans {
			v := buf.Data[i]
			switch {
			case dec.BitDepth == 8:
				// 8bit wav data is unsigned
				v = (v - 128) << 8
			case shift > 0:
				v >>= shift
			}
			p.data = append(p.data, int16(v))
		}

		p.sampleRate = int(dec.SampleRate)

	case ".mp3":
		dec, err := mp3.NewDecoder(r)
		if err != nil {
			return nil, fmt.Errorf("mp3: %w", err)
		}

		logger.Log(logger.Allow, "synthetic", "loading from mp3 file")

		// the stream is always formatted as 16bit little endian, 2 channels
		// even if the source is single channel. a sample always consists of 4
		// bytes
		chunk := make([]byte, 4096)
		for {
			n, err := io.ReadFull(dec, chunk)
			for i := 0; i+1 < n; i += 4 {
				p.data = append(p.data, int16(binary.LittleEndian.Uint16(chunk[i:])))
			}
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("mp3: %w", err)
			}
		}

		p.sampleRate = dec.SampleRate()

	default:
		return nil, fmt.Errorf("unsupported audio file: %s", filename)
	}

	if p.sampleRate <= 0 || len(p.data) == 0 {
		return nil, fmt.Errorf("no audio in %s", filename)
	}

	logger.Logf(logger.Allow, "synthetic", "sample rate: %dHz", p.sampleRate)
	logger.Logf(logger.Allow, "synthetic", "total time: %.02fs", float64(len(p.data))/float64(p.sampleRate))

	return p, nil
}
