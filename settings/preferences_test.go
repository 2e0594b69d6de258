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

package settings_test

import (
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/settings"
	"github.com/jetsetilly/gophernes/test"
)

func TestDefaults(t *testing.T) {
	p, err := settings.NewPreferences()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.Speed.Get().(int), 100)
	test.ExpectEquality(t, p.Region.String(), settings.RegionAuto)
	test.ExpectEquality(t, p.AutoSaveInterval.Get().(float64), 5.0)

	// no disk so saving does nothing
	test.ExpectSuccess(t, p.Save())
}

func TestValidation(t *testing.T) {
	p, err := settings.NewPreferences()
	test.DemandSuccess(t, err)

	test.ExpectFailure(t, p.Speed.Set(-1))
	test.ExpectEquality(t, p.Speed.Get().(int), 100)
	test.ExpectSuccess(t, p.Speed.Set(0))

	test.ExpectFailure(t, p.Rotation.Set(45))
	test.ExpectSuccess(t, p.Rotation.Set(270))

	test.ExpectFailure(t, p.Region.Set("SECAM"))
	test.ExpectSuccess(t, p.Region.Set("pal"))

	test.ExpectFailure(t, p.ScaleFilter.Set("lanczos"))
	test.ExpectFailure(t, p.AudioBackend.Set("alsa"))
}

func TestTiming(t *testing.T) {
	p, err := settings.NewPreferences()
	test.DemandSuccess(t, err)

	tm := p.Timing(limiter.PAL)
	test.ExpectEquality(t, tm.Region, limiter.PAL)
	test.ExpectFailure(t, tm.IntegerFPS)

	test.ExpectSuccess(t, p.Region.Set(settings.RegionDendy))
	test.ExpectSuccess(t, p.IntegerFPS.Set(true))
	tm = p.Timing(limiter.PAL)
	test.ExpectEquality(t, tm.Region, limiter.Dendy)
	test.ExpectSuccess(t, tm.IntegerFPS)
}

func TestDisk(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	p, err := settings.NewPreferences()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.UseDisk(fn))

	test.ExpectSuccess(t, p.Speed.Set(200))
	test.ExpectSuccess(t, p.Paused.Set(true))
	test.ExpectSuccess(t, p.Save())

	q, err := settings.NewPreferences()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, q.UseDisk(fn))
	test.ExpectEquality(t, q.Speed.Get().(int), 200)

	// the paused state is not stored
	test.ExpectFailure(t, q.Paused.Get().(bool))
}
