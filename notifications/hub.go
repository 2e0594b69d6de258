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

package notifications

import (
	"reflect"
	"slices"
	"sync"

	"github.com/jetsetilly/gophernes/logger"
)

// Hub distributes notifications to any number of listeners. The zero value is
// ready to use and a nil Hub discards all notifications.
type Hub struct {
	crit      sync.Mutex
	listeners []Notify
}

// NewHub is the preferred method of initialisation for the Hub type.
func NewHub() *Hub {
	return &Hub{}
}

// AddListener adds a listener to the hub. Listeners are called in the order
// they were added.
func (h *Hub) AddListener(n Notify) {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.listeners = append(h.listeners, n)
}

// RemoveListener removes a listener previously added with AddListener().
// Listeners of a type that is not comparable, such as NotifyFunc, can not be
// removed.
func (h *Hub) RemoveListener(n Notify) {
	if !reflect.TypeOf(n).Comparable() {
		return
	}

	h.crit.Lock()
	defer h.crit.Unlock()
	h.listeners = slices.DeleteFunc(h.listeners, func(l Notify) bool {
		return reflect.TypeOf(l) == reflect.TypeOf(n) && l == n
	})
}

// Notify implements the Notify interface. Errors from listeners are logged and
// do not prevent the notice reaching the other listeners. The error of the
// first failing listener is returned.
func (h *Hub) Notify(notice Notice, detail string) error {
	if h == nil {
		return nil
	}

	// copy the list so that a listener can add or remove listeners without
	// deadlocking
	h.crit.Lock()
	l := slices.Clone(h.listeners)
	h.crit.Unlock()

	var first error
	for _, n := range l {
		if err := n.Notify(notice, detail); err != nil {
			logger.Logf(logger.Allow, "notifications", "%s: %v", notice, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// DisplayMessage logs the message and sends it to all listeners as the
// detail of the notice.
func (h *Hub) DisplayMessage(notice Notice, message string) {
	logger.Logf(logger.Allow, "notifications", "%s: %s", notice, message)
	_ = h.Notify(notice, message)
}
