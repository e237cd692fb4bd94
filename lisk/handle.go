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

package lisk

import "reflect"

// Handle is an opaque host value together with its runtime type tag. It lets
// the host pass arbitrary Go values (files, connections, custom structs)
// through the interpreter untouched.
type Handle struct {
	value any
	typ   reflect.Type
}

func NewHandle[T any](v T) Handle {
	return Handle{v, reflect.TypeFor[T]()}
}

// HandleAs narrows a handle to T; the stored type must match exactly.
func HandleAs[T any](h Handle) (result T, ok bool) {
	if h.typ != reflect.TypeFor[T]() {
		return
	}
	result, ok = h.value.(T)
	return
}

func (h Handle) Type() reflect.Type { return h.typ }
func (h Handle) Value() any         { return h.value }
func (h Handle) IsZero() bool       { return h.typ == nil }

func (h Handle) TypeName() string {
	if h.typ == nil {
		return "handle"
	}
	return h.typ.String()
}
