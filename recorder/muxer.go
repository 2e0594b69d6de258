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

package recorder

// Config describes the stream being recorded. It is passed to the Muxer when
// the recording starts.
type Config struct {
	// the name of the file to create. the Muxer may choose a filename if the
	// field is empty
	Filename string

	// a name used to help create a filename
	Name string

	Width  int
	Height int

	// frame rate multiplied by one million. for example, 60.098812Hz is stored
	// as 60098812
	Rate uint32

	// audio sample rate in Hz. samples are signed 16bit stereo pairs
	SampleRate int
}

// FPS returns the frame rate as a floating point number.
func (cfg Config) FPS() float64 {
	return float64(cfg.Rate) / 1000000
}

// Muxer is implemented by types that can write video and audio to a
// container.
type Muxer interface {
	// Open is called once before any frames or samples are added
	Open(cfg Config) error

	// AddFrame is called on the recorder's writer goroutine. pixel data is RGBA
	// with no padding between rows
	AddFrame(pix []uint8) error

	// AddSamples is called on the goroutine that produced the audio
	AddSamples(samples []int16) error

	// Close finalises the output. AddFrame() and AddSamples() will not be
	// called again
	Close() error

	// the name of the file being created
	Filename() string
}
