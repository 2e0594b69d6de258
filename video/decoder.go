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

package video

import (
	"image"
	"image/png"
	"io"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/gophernes/autoreset"
	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/notifications"
)

// Sentinel error patterns.
const (
	BadGeometry = "video: pixel buffer does not match geometry (%d bytes for %dx%d)"
	NoFrame     = "video: no frame has been decoded"
)

// the number of frames an overlay message is displayed for
const messageDuration = 180

// Decoder receives frames from the picture unit and distributes them to
// consumers after post-processing.
type Decoder struct {
	// the mailbox. crit protects all mailbox fields
	crit     sync.Mutex
	mailbox  *image.RGBA
	sideband Sideband
	full     bool

	// the mailbox image is swapped with the spare image when the decoder
	// collects a frame. this way the pixels are copied only once, by
	// UpdateFrame()
	spare *image.RGBA

	// signalled by UpdateFrame() when the mailbox is filled
	ready autoreset.Event

	dropped atomic.Int64
	decoded atomic.Int64

	// decoder goroutine
	running  atomic.Bool
	stopping atomic.Bool
	done     chan struct{}

	// serialises calls to decode()
	decodeCrit sync.Mutex

	// filters and consumers are protected by their own mutex because they are
	// used while the mailbox is being refilled
	filtersCrit sync.Mutex
	filters     Filters
	message     string
	messageLife int
	consumers   []Consumer
	last        *Frame
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
// The decoder goroutine is not started.
func NewDecoder() *Decoder {
	return &Decoder{
		filters: DefaultFilters(),
	}
}

// StartThread starts the decoder goroutine. Until the goroutine is started
// frames are decoded on the goroutine that calls UpdateFrame(). It does nothing
// if the goroutine is already running.
func (dec *Decoder) StartThread() {
	if dec.running.Swap(true) {
		return
	}

	dec.stopping.Store(false)
	dec.ready.Reset()
	dec.done = make(chan struct{})

	go func() {
		defer close(dec.done)
		for {
			dec.ready.Wait(0)
			if dec.stopping.Load() {
				return
			}
			dec.collect()
		}
	}()

	logger.Log(logger.Allow, "video", "decoder started")
}

// StopThread stops the decoder goroutine and waits for it to finish. Any frame
// in the mailbox is discarded.
func (dec *Decoder) StopThread() {
	if !dec.running.Load() {
		return
	}

	dec.stopping.Store(true)
	dec.ready.Signal()
	<-dec.done
	dec.running.Store(false)

	dec.crit.Lock()
	dec.full = false
	dec.crit.Unlock()

	logger.Log(logger.Allow, "video", "decoder stopped")
}

// IsThreadRunning returns true if the decoder goroutine is running.
func (dec *Decoder) IsThreadRunning() bool {
	return dec.running.Load()
}

// UpdateFrame is called by the picture unit once per frame. The pixels are RGBA
// with four bytes per pixel and the slice is not retained.
func (dec *Decoder) UpdateFrame(pixels []uint8, width int, height int, sb Sideband) error {
	if len(pixels) != width*height*4 {
		return curated.Errorf(BadGeometry, len(pixels), width, height)
	}

	dec.crit.Lock()

	if dec.mailbox == nil || dec.mailbox.Rect.Dx() != width || dec.mailbox.Rect.Dy() != height {
		dec.mailbox = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	copy(dec.mailbox.Pix, pixels)
	dec.sideband = sb

	if dec.full {
		dec.dropped.Add(1)
	}
	dec.full = true

	dec.crit.Unlock()

	if dec.running.Load() {
		dec.ready.Signal()
	} else {
		dec.collect()
	}

	return nil
}

// UpdateFrameSync decodes the frame on the calling goroutine, even if the
// decoder goroutine is running.
func (dec *Decoder) UpdateFrameSync(pixels []uint8, width int, height int, sb Sideband) error {
	if len(pixels) != width*height*4 {
		return curated.Errorf(BadGeometry, len(pixels), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	dec.decode(img, sb)
	return nil
}

// collect the frame in the mailbox and decode it.
func (dec *Decoder) collect() {
	dec.crit.Lock()
	if !dec.full {
		dec.crit.Unlock()
		return
	}
	img := dec.mailbox
	sb := dec.sideband
	dec.mailbox, dec.spare = dec.spare, img
	dec.full = false
	dec.crit.Unlock()

	// the spare image is not used by UpdateFrame() so it is safe to decode
	// from it without holding the lock
	dec.decode(img, sb)
}

func (dec *Decoder) decode(img *image.RGBA, sb Sideband) {
	// frames are decoded one at a time so that consumers see them in order
	dec.decodeCrit.Lock()
	defer dec.decodeCrit.Unlock()

	dec.filtersCrit.Lock()
	msg := dec.message
	if dec.messageLife > 0 {
		dec.messageLife--
		if dec.messageLife == 0 {
			dec.message = ""
		}
	}
	flt := dec.filters
	consumers := slices.Clone(dec.consumers)
	dec.filtersCrit.Unlock()

	f := &Frame{
		Image:    flt.apply(img, sb, msg),
		Sideband: sb,
	}

	dec.filtersCrit.Lock()
	dec.last = f
	dec.filtersCrit.Unlock()
	dec.decoded.Add(1)

	// consumers are called without the filters lock so they are free to add
	// or remove consumers
	for _, c := range consumers {
		c.ConsumeFrame(f.Clone())
	}
}

// Dropped returns the number of frames that were replaced in the mailbox
// before the decoder collected them.
func (dec *Decoder) Dropped() int {
	return int(dec.dropped.Load())
}

// Decoded returns the number of frames that have been decoded.
func (dec *Decoder) Decoded() int {
	return int(dec.decoded.Load())
}

// consumers of a type that is not comparable, such as ConsumerFunc, are never
// equal to anything
func sameConsumer(a Consumer, b Consumer) bool {
	ta := reflect.TypeOf(a)
	return ta == reflect.TypeOf(b) && ta.Comparable() && a == b
}

// AddConsumer adds a consumer to the end of the list of consumers. Adding a
// consumer that is already present does nothing.
func (dec *Decoder) AddConsumer(c Consumer) {
	dec.filtersCrit.Lock()
	defer dec.filtersCrit.Unlock()
	if slices.ContainsFunc(dec.consumers, func(e Consumer) bool {
		return sameConsumer(e, c)
	}) {
		return
	}
	dec.consumers = append(dec.consumers, c)
}

// RemoveConsumer removes the consumer from the list of consumers. Consumers of
// a type that is not comparable can not be removed.
func (dec *Decoder) RemoveConsumer(c Consumer) {
	dec.filtersCrit.Lock()
	defer dec.filtersCrit.Unlock()
	dec.consumers = slices.DeleteFunc(dec.consumers, func(e Consumer) bool {
		return sameConsumer(e, c)
	})
}

// SetFilters replaces the post-processing chain. It takes effect from the next
// decoded frame.
func (dec *Decoder) SetFilters(flt Filters) {
	dec.filtersCrit.Lock()
	defer dec.filtersCrit.Unlock()
	// a Filters created as a struct literal has no interpolator yet
	if flt.interp == nil {
		if flt.Filter == "" {
			flt.Filter = "nearest"
		}
		if err := flt.SetScale(max(flt.Scale, 1), flt.Filter); err != nil {
			logger.Log(logger.Allow, "video", err)
			_ = flt.SetScale(max(min(flt.Scale, MaxScale), 1), "nearest")
		}
	}
	dec.filters = flt
}

// Filters returns a copy of the current post-processing chain.
func (dec *Decoder) Filters() Filters {
	dec.filtersCrit.Lock()
	defer dec.filtersCrit.Unlock()
	return dec.filters
}

// SetMessage sets the message shown by the overlay. The message is removed
// after a short time.
func (dec *Decoder) SetMessage(msg string) {
	dec.filtersCrit.Lock()
	defer dec.filtersCrit.Unlock()
	dec.message = msg
	dec.messageLife = messageDuration
}

// Notify implements the notifications.Notify interface. The notice is shown as
// an overlay message.
func (dec *Decoder) Notify(notice notifications.Notice, detail string) error {
	msg := string(notice)
	if detail != "" {
		msg = detail
	}
	dec.SetMessage(msg)
	return nil
}

// LastFrame returns a copy of the most recently decoded frame. Returns nil if
// no frame has been decoded.
func (dec *Decoder) LastFrame() *Frame {
	dec.filtersCrit.Lock()
	defer dec.filtersCrit.Unlock()
	if dec.last == nil {
		return nil
	}
	return dec.last.Clone()
}

// Screenshot writes the most recently decoded frame to w as a PNG image.
func (dec *Decoder) Screenshot(w io.Writer) error {
	f := dec.LastFrame()
	if f == nil {
		return curated.Errorf(NoFrame)
	}
	if err := png.Encode(w, f.Image); err != nil {
		return curated.Errorf("video: %v", err)
	}
	return nil
}
