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

// Package recorder records the emulation's video and audio output to a file.
//
// The AviRecorder type receives frames from the video decoder, as a
// video.Consumer, and audio from the mixer, as an audio.Tap. Frames are passed
// to a dedicated writer goroutine. The container and codec are the concern of
// the Muxer interface. The FFMPEG type is a Muxer that uses an external ffmpeg
// process.
//
// A recording cannot adapt to changes in the size of the frame, the frame
// rate or the sample rate of the audio. If any of these change then the
// recording is stopped and the VideoRecorderStopped notification is sent.
package recorder
