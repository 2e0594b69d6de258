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

package prefs

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Preference values can be given on the command line as a string of the form:
//
//	scheduler.speed::200; autosave.enabled::false
//
// The values are held in a group on the command line stack. When a preference
// is added to a Disk the value from the top group, if there is one, replaces
// the value loaded from disk. Each value is used at most once.
//
// Groups are pushed before the preferences are created and popped afterwards.
// Popping returns the values that were never used, which normally means the key
// was misspelled.

// the separators between entries and between a key and its value
const (
	entrySeparator = ";"
	valueSeparator = "::"
)

type commandLineGroup map[string]Value

var commandLine struct {
	crit  sync.Mutex
	stack []commandLineGroup
}

// SizeCommandLineStack returns the number of groups on the stack.
func SizeCommandLineStack() int {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()
	return len(commandLine.stack)
}

// PushCommandLineStack parses the string and adds the values as a new group.
// Entries without a value separator or with an empty key are ignored.
func PushCommandLineStack(prefs string) {
	grp := make(commandLineGroup)

	for _, entry := range strings.Split(prefs, entrySeparator) {
		key, value, ok := strings.Cut(entry, valueSeparator)
		if !ok || strings.Contains(value, valueSeparator) {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		grp[key] = strings.TrimSpace(value)
	}

	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()
	commandLine.stack = append(commandLine.stack, grp)
}

// PopCommandLineStack removes the most recent group. The values in the group
// that were not used are returned in the command line form, sorted by key.
func PopCommandLineStack() string {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	if len(commandLine.stack) == 0 {
		return ""
	}

	top := commandLine.stack[len(commandLine.stack)-1]
	commandLine.stack = commandLine.stack[:len(commandLine.stack)-1]

	unused := make([]string, 0, len(top))
	for _, key := range slices.Sorted(maps.Keys(top)) {
		unused = append(unused, fmt.Sprintf("%s%s%v", key, valueSeparator, top[key]))
	}

	return strings.Join(unused, entrySeparator+" ")
}

// GetCommandLinePref returns the value for the key from the top group. The
// value is removed from the group.
func GetCommandLinePref(key string) (bool, Value) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	if len(commandLine.stack) == 0 {
		return false, nil
	}

	top := commandLine.stack[len(commandLine.stack)-1]
	v, ok := top[key]
	if !ok {
		return false, nil
	}
	delete(top, key)

	return true, v
}
