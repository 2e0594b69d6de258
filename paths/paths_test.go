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

package paths_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/gophernes/paths"
	"github.com/jetsetilly/gophernes/test"
)

func TestPaths(t *testing.T) {
	// a .gophernes directory in the current directory takes priority over the
	// user config directory
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	defer os.Chdir(wd)

	tmp := t.TempDir()
	test.DemandSuccess(t, os.Chdir(tmp))
	test.DemandSuccess(t, os.Mkdir(".gophernes", 0o700))

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".gophernes", "foo", "bar", "baz"))

	// directory has been created
	_, err = os.Stat(filepath.Join(".gophernes", "foo", "bar"))
	test.ExpectSuccess(t, err)

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".gophernes", "baz"))

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".gophernes")
}

func TestUniqueFilename(t *testing.T) {
	n := time.Date(2024, time.March, 5, 9, 8, 7, 0, time.UTC)
	test.ExpectEquality(t, paths.UniqueFilenameAt("video", "synthetic", n), "video_synthetic_20240305_090807")
	test.ExpectEquality(t, paths.UniqueFilenameAt("shot", "  ", n), "shot_20240305_090807")
}
