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

func lookup(t *testing.T, env Environment, sym Symbol) string {
	t.Helper()
	return String(env.Lookup(sym))
}

func TestEnvironmentLookupAndShadowing(t *testing.T) {
	global := NewEnvironment()
	global.Define("x", Num(UInt(1)))
	global.Define("y", Num(UInt(2)))

	inner := global.Extend()
	inner.Define("x", Num(UInt(10)))
	assert.Equal(t, "10", lookup(t, inner, "x"))
	assert.Equal(t, "2", lookup(t, inner, "y"))
	assert.Equal(t, "1", lookup(t, global, "x"))
	assert.Equal(t, 2, inner.Depth())

	miss := inner.Lookup("z")
	require.True(t, miss.IsException())
	assert.Contains(t, miss.AsException().Message, "couldn't find 'z'")
}

func TestEnvironmentDefineWritesInnermost(t *testing.T) {
	global := NewEnvironment()
	inner := global.Extend()
	inner.Define("a", Bool(true))
	_, ok := global.Get("a")
	assert.False(t, ok)

	// handles share their frames
	alias := inner
	alias.Define("b", Bool(true))
	_, ok = inner.Get("b")
	assert.True(t, ok)
}

func TestEnvironmentClone(t *testing.T) {
	for depth := 0; depth <= 3; depth++ {
		global := NewEnvironment()
		global.Define("g", Num(UInt(0)))
		mid := global.Extend()
		mid.Define("m", Num(UInt(1)))
		env := mid.Extend()
		env.Define("e", Num(UInt(2)))

		clone := env.Clone(depth)
		copied := depth
		if depth == 0 {
			copied = 3
		}
		c := clone
		for i := 0; i < copied; i++ {
			c.Define("new", Bool(true))
			c = Environment{c.frames.Next()}
		}
		_, ok := env.Get("new")
		assert.False(t, ok, "depth %d", depth)
		_, ok = global.Get("new")
		assert.False(t, ok, "depth %d", depth)
		assert.Equal(t, "2", lookup(t, clone, "e"))
		assert.Equal(t, "0", lookup(t, clone, "g"))
	}
}

func TestEnvironmentSquash(t *testing.T) {
	global := NewEnvironment()
	global.Define("x", Str("global"))
	global.Define("g", Str("global"))
	private := global.Extend()
	private.Define("x", Str("private"))
	call := private.Extend()
	call.Define("x", Str("call"))
	call.Define("c", Str("call"))

	squashed := call.Squash(2)
	assert.Equal(t, 1, squashed.Depth())
	assert.Equal(t, `"call"`, lookup(t, squashed, "x"))
	assert.Equal(t, `"call"`, lookup(t, squashed, "c"))
	assert.Equal(t, `"global"`, lookup(t, squashed, "g"))

	// the source chain is untouched
	assert.Equal(t, 3, call.Depth())
	assert.Equal(t, `"global"`, lookup(t, global, "x"))
	_, ok := global.Get("c")
	assert.False(t, ok)

	one := call.Squash(1)
	assert.Equal(t, 2, one.Depth())
	assert.Equal(t, `"call"`, lookup(t, one, "x"))

	all := call.Squash(0)
	assert.Equal(t, 1, all.Depth())
	assert.Equal(t, `"call"`, lookup(t, all, "x"))

	short := global.Squash(2)
	assert.Equal(t, 1, short.Depth())
}

func TestEnvironmentBindings(t *testing.T) {
	global := NewEnvironment()
	global.Define("b", Num(UInt(1)))
	global.Define("a", Num(UInt(1)))
	inner := global.Extend()
	inner.Define("b", Num(UInt(2)))

	var got []string
	for sym, v := range inner.Bindings() {
		got = append(got, string(sym)+"="+String(v))
	}
	assert.Equal(t, []string{"b=2", "a=1"}, got)
}

func TestEnvironmentDefineFunctor(t *testing.T) {
	env := NewEnvironment()
	require.NoError(t, env.DefineFunctor("twice", func(env Environment, allowTail bool, n uint64) uint64 {
		return 2 * n
	}))
	assert.Equal(t, "42", String(EvalString("(twice 21)", env)))
	assert.Error(t, env.DefineFunctor("bad", func(n int) int { return n }))
}
