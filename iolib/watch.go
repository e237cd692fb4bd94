/*
Copyright (C) 2025  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package iolib

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls a reload function whenever a file changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// Watch starts watching path. reload runs on the watcher's goroutine.
func Watch(path string, reload func()) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w := &Watcher{path, watcher}
	go w.loop(reload)
	return w, nil
}

func (w *Watcher) loop(reload func()) {
	for {
		select {
		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// flush all other events; delay a bit, so we don't read half written files
			for drained := false; !drained; {
				time.Sleep(10 * time.Millisecond)
				select {
				case _, ok := <-w.watcher.Events:
					if !ok {
						return
					}
				default:
					drained = true
				}
			}
			reload()
			w.watcher.Add(w.path) // text editors rename, so we have to rewatch
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch error", "file", w.path, "err", err)
		}
	}
}

func (w *Watcher) Path() string { return w.path }

// Close stops watching. Reloads already running finish.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
