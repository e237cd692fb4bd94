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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nums(l List[Expression]) (result []string) {
	for v := range l.All() {
		result = append(result, String(v))
	}
	return
}

func TestListEmptyShapes(t *testing.T) {
	var none List[Expression]
	assert.True(t, none.Empty())
	assert.False(t, none.Ok())
	assert.Equal(t, 0, none.Len())

	sentinel := NewList[Expression]()
	assert.False(t, sentinel.Empty())
	assert.False(t, sentinel.Ok())
	assert.Equal(t, 0, sentinel.Len())
	assert.True(t, sentinel.Value().IsNull())
}

func TestListIterationStopsAtSentinel(t *testing.T) {
	tail := ListOf(Num(UInt(3)))
	l := ListOf(Num(UInt(1)), Num(UInt(2)))
	l.Next().SetNext(NewList[Expression]())
	assert.Equal(t, []string{"1", "2"}, nums(l))

	// a null value ends the list even if nodes follow
	l.Next().SetNext(List[Expression]{&node[Expression]{next: tail.head}})
	assert.Equal(t, []string{"1", "2"}, nums(l))
}

func TestListConsSharesTail(t *testing.T) {
	shared := ListOf(Num(UInt(2)), Num(UInt(3)))
	a := shared.Cons(Num(UInt(1)))
	b := shared.Cons(Num(UInt(9)))
	assert.Equal(t, []string{"1", "2", "3"}, nums(a))
	assert.Equal(t, []string{"9", "2", "3"}, nums(b))
	assert.True(t, a.Next().Same(b.Next()))
	assert.False(t, a.Same(b))
}

func TestListExtends(t *testing.T) {
	base := ListOf(Num(UInt(1)))
	ext := Extends(base)
	assert.True(t, ext.Value().IsNull())
	assert.True(t, ext.Next().Same(base))
	ext.SetValue(Num(UInt(0)))
	assert.Equal(t, []string{"0", "1"}, nums(ext))
	assert.Equal(t, []string{"1"}, nums(base))
}

func TestListCloneDepth(t *testing.T) {
	for depth := 0; depth <= 4; depth++ {
		original := ListOf(Num(UInt(1)), Num(UInt(2)), Num(UInt(3)))
		clone := original.Clone(depth)
		require.False(t, clone.Same(original))

		copied := depth
		if depth == 0 || depth > 3 {
			copied = 3
		}
		cur := clone
		for i := 0; i < copied; i++ {
			cur.SetValue(Str("changed"))
			cur = cur.Next()
		}
		assert.Equal(t, []string{"1", "2", "3"}, nums(original), "depth %d", depth)
		if depth > 0 && depth < 3 {
			// the uncopied rest is shared
			o := original
			for i := 0; i < depth; i++ {
				o = o.Next()
			}
			assert.True(t, cur.Same(o))
		}
	}
}

func TestListLastAndSetNextValue(t *testing.T) {
	l := ListOf(Num(UInt(1)), Num(UInt(2)))
	assert.Equal(t, "2", String(l.Last().Value()))

	single := NewList[Expression]()
	single.SetValue(Sym("a"))
	single.SetNextValue(Sym("b"))
	assert.Equal(t, []string{"a", "b"}, nums(single))
	assert.Equal(t, "b", String(single.NextValue()))
}
