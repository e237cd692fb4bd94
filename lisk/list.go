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

import "iter"

// Element is implemented by everything a List can hold. IsNull marks the
// terminator sentinel, Copy is what Clone stores into a copied node.
type Element[T any] interface {
	IsNull() bool
	Copy() T
}

type node[T Element[T]] struct {
	value T
	next  *node[T]
}

// List is a persistent singly linked list. Several lists may share the same
// tail; a node that is reachable from another handle is never rewritten by
// Extends, Cons or Clone.
//
// The zero List has no node at all. This is different from NewList, which
// holds one node carrying the Null sentinel. Both iterate as empty.
type List[T Element[T]] struct {
	head *node[T]
}

// NewList creates a single node holding the zero value of T.
func NewList[T Element[T]]() List[T] {
	return List[T]{&node[T]{}}
}

// ListOf builds a fresh list from values; with no values it equals NewList.
func ListOf[T Element[T]](values ...T) List[T] {
	if len(values) == 0 {
		return NewList[T]()
	}
	var l List[T]
	for i := len(values) - 1; i >= 0; i-- {
		l = l.Cons(values[i])
	}
	return l
}

// Extends prepends one node holding the zero value of T to other.
func Extends[T Element[T]](other List[T]) List[T] {
	return List[T]{&node[T]{next: other.head}}
}

// Cons prepends v; l is shared, not copied.
func (l List[T]) Cons(v T) List[T] {
	return List[T]{&node[T]{value: v, next: l.head}}
}

// Empty reports whether the list has no node at all.
func (l List[T]) Empty() bool {
	return l.head == nil
}

// Ok reports whether Value may be read and is not the terminator.
func (l List[T]) Ok() bool {
	return l.head != nil && !l.head.value.IsNull()
}

func (l List[T]) Value() T {
	return l.head.value
}

func (l List[T]) SetValue(v T) {
	l.head.value = v
}

func (l List[T]) Next() List[T] {
	return List[T]{l.head.next}
}

func (l List[T]) SetNext(other List[T]) {
	l.head.next = other.head
}

func (l List[T]) NextValue() T {
	return l.head.next.value
}

// SetNextValue writes the value of the following node, creating it if the
// list ends here.
func (l List[T]) SetNextValue(v T) {
	if l.head.next == nil {
		l.head.next = &node[T]{}
	}
	l.head.next.value = v
}

// Clone copies the first depth nodes and attaches the remaining chain by
// reference. depth 0 copies the whole chain.
func (l List[T]) Clone(depth int) List[T] {
	if l.head == nil {
		return l
	}
	result := List[T]{&node[T]{value: l.head.value.Copy()}}
	dst, src := result.head, l.head.next
	for i := 1; src != nil; i++ {
		if depth > 0 && i >= depth {
			dst.next = src
			break
		}
		dst.next = &node[T]{value: src.value.Copy()}
		dst, src = dst.next, src.next
	}
	return result
}

// Last returns the sublist starting at the last element iteration would
// visit. An empty list is returned unchanged.
func (l List[T]) Last() List[T] {
	n := l.head
	if n == nil {
		return l
	}
	for n.next != nil && !n.next.value.IsNull() {
		n = n.next
	}
	return List[T]{n}
}

// All yields the values up to (excluding) the terminator.
func (l List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := l.head; n != nil && !n.value.IsNull(); n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

// Cells yields every sublist whose head is an element, so callers can read
// the element and still reach the rest of the list.
func (l List[T]) Cells() iter.Seq[List[T]] {
	return func(yield func(List[T]) bool) {
		for n := l.head; n != nil && !n.value.IsNull(); n = n.next {
			if !yield(List[T]{n}) {
				return
			}
		}
	}
}

func (l List[T]) Len() (result int) {
	for range l.All() {
		result++
	}
	return
}

func (l List[T]) Slice() []T {
	var result []T
	for v := range l.All() {
		result = append(result, v)
	}
	return result
}

// Same is identity equality: both handles point at the same node.
func (l List[T]) Same(other List[T]) bool {
	return l.head == other.head
}
