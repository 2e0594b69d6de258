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

// Package video connects the picture unit of the emulated machine to the
// components that display or record its output.
//
// The picture unit calls Decoder.UpdateFrame() once per frame. The pixels are
// copied into a single-slot mailbox and the decoder goroutine is signalled. If
// the decoder has not collected the previous frame by the time the next one
// arrives then the previous frame is lost. This is not an error, it just means
// the decoder is running slower than the emulation. The number of lost frames
// is available with Decoder.Dropped().
//
// The decoder goroutine applies the post-processing filters (rotation, scaling
// and the overlay) and passes a copy of the result to every Consumer. Consumers
// are called in the order they were added and always on the decoder goroutine,
// so a consumer will never see frames out of order.
//
// The Renderer type is a Consumer that drives a RenderingDevice on a goroutine
// of its own. The device is rendered whenever a new frame arrives or when a
// short period has elapsed without one, so that animated parts of the display
// keep moving even when the emulation is paused.
//
// The Pipeline type ties a Decoder and a Renderer together.
package video
