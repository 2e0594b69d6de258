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

// Package settings contains the user preferences that affect the scheduler and
// the components attached to it. Preferences are stored on disk using the prefs
// package.
package settings

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/prefs"
)

// Values accepted by the Region preference.
const (
	RegionAuto  = "AUTO"
	RegionNTSC  = "NTSC"
	RegionPAL   = "PAL"
	RegionDendy = "DENDY"
)

// Values accepted by the ScaleFilter preference.
const (
	FilterNearest  = "nearest"
	FilterBilinear = "bilinear"
	FilterCatmull  = "catmullrom"
)

// Values accepted by the AudioBackend preference.
const (
	AudioSDL  = "sdl"
	AudioOto  = "oto"
	AudioNone = "none"
)

// Preferences for the scheduler and its attachments.
type Preferences struct {
	dsk *prefs.Disk

	// emulation speed as a percentage of normal speed. zero means uncapped
	Speed prefs.Int

	// use a frame duration of exactly 1/60 or 1/50 seconds
	IntegerFPS prefs.Bool

	// override the region reported by the machine
	Region prefs.String

	// the user has paused the emulation. never saved to disk
	Paused prefs.Bool

	// periodic saving of the emulation state. the interval is in minutes
	AutoSave         prefs.Bool
	AutoSaveInterval prefs.Float

	// rewind history. frequency is the number of frames between snapshots
	Rewind           prefs.Bool
	RewindFrequency  prefs.Int
	RewindMaxEntries prefs.Int

	// video processing
	Rotation    prefs.Int
	Scale       prefs.Int
	ScaleFilter prefs.String
	Overlay     prefs.Bool

	// audio output
	AudioBackend prefs.String
	SampleRate   prefs.Int
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the Preferences
// type. The preferences are not associated with a file until UseDisk() is
// called.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}

	p.Region.SetHookPre(func(v prefs.Value) error {
		s := strings.ToUpper(strings.TrimSpace(fmt.Sprintf("%v", v)))
		if s == RegionAuto {
			return nil
		}
		if _, err := limiter.ParseRegion(s); err != nil {
			return err
		}
		return nil
	})

	p.Speed.SetHookPre(func(v prefs.Value) error {
		if n, ok := v.(int); ok && n < 0 {
			return curated.Errorf("settings: speed cannot be negative")
		}
		return nil
	})

	p.AutoSaveInterval.SetHookPre(func(v prefs.Value) error {
		if f, ok := v.(float64); ok && f <= 0 {
			return curated.Errorf("settings: autosave interval must be greater than zero")
		}
		return nil
	})

	p.Rotation.SetHookPre(func(v prefs.Value) error {
		if n, ok := v.(int); ok && n%90 != 0 {
			return curated.Errorf("settings: rotation must be a multiple of 90")
		}
		return nil
	})

	p.ScaleFilter.SetHookPre(func(v prefs.Value) error {
		switch v {
		case FilterNearest, FilterBilinear, FilterCatmull:
			return nil
		}
		return curated.Errorf("settings: unknown scale filter (%v)", v)
	})

	p.AudioBackend.SetHookPre(func(v prefs.Value) error {
		switch v {
		case AudioSDL, AudioOto, AudioNone:
			return nil
		}
		return curated.Errorf("settings: unknown audio backend (%v)", v)
	})

	if err := p.SetDefaults(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() error {
	for _, err := range []error{
		p.Speed.Set(100),
		p.IntegerFPS.Set(false),
		p.Region.Set(RegionAuto),
		p.Paused.Set(false),
		p.AutoSave.Set(false),
		p.AutoSaveInterval.Set(5.0),
		p.Rewind.Set(true),
		p.RewindFrequency.Set(1),
		p.RewindMaxEntries.Set(100),
		p.Rotation.Set(0),
		p.Scale.Set(1),
		p.ScaleFilter.Set(FilterNearest),
		p.Overlay.Set(false),
		p.AudioBackend.Set(AudioSDL),
		p.SampleRate.Set(48000),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// UseDisk associates the preferences with a file and loads any saved values.
// The Paused preference is not stored.
func (p *Preferences) UseDisk(path string) error {
	var err error

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return err
	}

	for k, v := range map[string]prefs.Pref{
		"scheduler.speed":      &p.Speed,
		"scheduler.integerfps": &p.IntegerFPS,
		"scheduler.region":     &p.Region,
		"autosave.enabled":     &p.AutoSave,
		"autosave.interval":    &p.AutoSaveInterval,
		"rewind.enabled":       &p.Rewind,
		"rewind.frequency":     &p.RewindFrequency,
		"rewind.maxentries":    &p.RewindMaxEntries,
		"video.rotation":       &p.Rotation,
		"video.scale":          &p.Scale,
		"video.scalefilter":    &p.ScaleFilter,
		"video.overlay":        &p.Overlay,
		"audio.backend":        &p.AudioBackend,
		"audio.samplerate":     &p.SampleRate,
	} {
		if err := p.dsk.Add(k, v); err != nil {
			return err
		}
	}

	return p.dsk.Load(true)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load(false)
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}

// Timing returns the limiter timing for a machine of the specified region. The
// Region preference is used instead of the machine's region unless it is AUTO.
func (p *Preferences) Timing(machine limiter.Region) limiter.Timing {
	t := limiter.Timing{
		Region:     machine,
		IntegerFPS: p.IntegerFPS.Get().(bool),
	}
	if r, err := limiter.ParseRegion(p.Region.String()); err == nil {
		t.Region = r
	}
	return t
}
