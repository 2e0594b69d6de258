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
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/jetsetilly/gophernes/curated"
)

// Sentinel error patterns.
const (
	InvalidRotation = "video: rotation must be a multiple of 90 degrees (%d)"
	InvalidScale    = "video: scale must be between 1 and %d (%d)"
	UnknownFilter   = "video: unknown scale filter (%s)"
)

// MaxScale is the largest scaling factor supported by the scale filter.
const MaxScale = 8

// Filters is the post-processing chain applied by the decoder.
type Filters struct {
	// rotation in degrees clockwise. always one of 0, 90, 180 or 270
	Rotation int

	// integer scaling factor and the interpolation used to do it
	Scale  int
	interp draw.Interpolator
	Filter string

	// draw the frame number and the most recent message over the image
	Overlay bool
}

// DefaultFilters returns a filter chain that does nothing.
func DefaultFilters() Filters {
	return Filters{
		Scale:  1,
		interp: draw.NearestNeighbor,
		Filter: "nearest",
	}
}

// SetRotation normalises and sets the rotation.
func (flt *Filters) SetRotation(degrees int) error {
	if degrees%90 != 0 {
		return curated.Errorf(InvalidRotation, degrees)
	}
	flt.Rotation = ((degrees % 360) + 360) % 360
	return nil
}

// SetScale sets the scaling factor and the interpolation filter. Filter names
// are "nearest", "bilinear" and "catmullrom".
func (flt *Filters) SetScale(scale int, filter string) error {
	if scale < 1 || scale > MaxScale {
		return curated.Errorf(InvalidScale, MaxScale, scale)
	}

	switch filter {
	case "nearest":
		flt.interp = draw.NearestNeighbor
	case "bilinear":
		flt.interp = draw.ApproxBiLinear
	case "catmullrom":
		flt.interp = draw.CatmullRom
	default:
		return curated.Errorf(UnknownFilter, filter)
	}

	flt.Scale = scale
	flt.Filter = filter
	return nil
}

// apply the filters to src. the returned image is never src.
func (flt Filters) apply(src *image.RGBA, sb Sideband, message string) *image.RGBA {
	img := rotate(src, flt.Rotation)

	if flt.Scale > 1 && flt.interp != nil {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*flt.Scale, b.Dy()*flt.Scale))
		flt.interp.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	if flt.Overlay {
		overlay(img, sb, message)
	}

	return img
}

// rotate returns a new image that is src rotated clockwise by a multiple of 90
// degrees.
func rotate(src *image.RGBA, degrees int) *image.RGBA {
	w := src.Rect.Dx()
	h := src.Rect.Dy()

	// the transformation matrix maps source coordinates to destination
	// coordinates
	var dst *image.RGBA
	var m f64.Aff3

	switch degrees {
	case 90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		m = f64.Aff3{0, -1, float64(h), 1, 0, 0}
	case 180:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		m = f64.Aff3{-1, 0, float64(w), 0, -1, float64(h)}
	case 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		m = f64.Aff3{0, 1, 0, -1, 0, float64(w)}
	default:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), src, src.Rect.Min, draw.Src)
		return dst
	}

	// the source rectangle is translated to the origin so that the matrix
	// doesn't need to account for it
	if src.Rect.Min != (image.Point{}) {
		o := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(o, o.Bounds(), src, src.Rect.Min, draw.Src)
		src = o
	}

	draw.NearestNeighbor.Transform(dst, m, src, src.Bounds(), draw.Src, nil)
	return dst
}

// height of a line of overlay text
const overlayLineHeight = 14

var overlayBackground = image.NewUniform(color.RGBA{A: 160})

// overlay draws the frame number and message in the top-left corner of img.
func overlay(img *image.RGBA, sb Sideband, message string) {
	lines := []string{fmt.Sprintf("frame %d", sb.FrameNumber)}
	if message != "" {
		lines = append(lines, message)
	}

	face := basicfont.Face7x13

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}

	for i, s := range lines {
		w := d.MeasureString(s).Ceil()
		r := image.Rect(0, i*overlayLineHeight, w+4, (i+1)*overlayLineHeight).Intersect(img.Bounds())
		draw.Draw(img, r, overlayBackground, image.Point{}, draw.Over)

		d.Dot = fixed.P(2, i*overlayLineHeight+face.Ascent)
		d.DrawString(s)
	}
}
