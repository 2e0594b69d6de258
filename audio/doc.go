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

// Package audio collects the samples produced by the emulated audio unit during
// a frame and passes them to the output device and to any number of taps at the
// end of the frame.
//
// Samples are signed 16bit stereo, interleaved left and right. The sample rate
// is set when the Mixer is created and can be changed with SetSampleRate().
// Taps are told the sample rate with every batch of samples, which allows a
// video recorder to detect a change in rate.
//
// Output devices are in the sub-packages of this package and in the sdlaudio
// package. The Headless type in this package discards samples.
package audio
