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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Help(&b, ""))
	assert.Contains(t, b.String(), "-- Core --")
	assert.Contains(t, b.String(), "-- Arithmetic --")
	assert.Contains(t, b.String(), "  car: returns the first element of a list, nil for the empty list\n")

	b.Reset()
	require.NoError(t, Help(&b, "range"))
	assert.Contains(t, b.String(), "Help for: range")
	assert.Contains(t, b.String(), "Allowed number of parameters: 3")
	assert.Contains(t, b.String(), " - count (uint): number of elements")

	assert.Error(t, Help(&b, "no-such-function"))
}

func TestArity(t *testing.T) {
	for name, want := range map[string]string{
		"car":     "1",
		"println": "0-1",
		"+":       "1 or more",
		"pi":      "0",
	} {
		def, ok := DeclarationFor(name)
		require.True(t, ok, name)
		assert.Equal(t, want, def.arity(), name)
	}
}

func TestCoreChaptersAreInstalled(t *testing.T) {
	assert.Equal(t, []string{"Core", "Lists", "Conversion", "Arithmetic", "Strings", "IO"}, CoreChapters())
	env := NewEnvironment()
	Install(env, "Lists")
	_, ok := env.Get("car")
	assert.True(t, ok)
	_, ok = env.Get("+")
	assert.False(t, ok)
}

func TestWriteDocumentation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, WriteDocumentation(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "- [Core](core.md)")
	assert.Contains(t, string(index), "- [IO](io.md)")

	core, err := os.ReadFile(filepath.Join(dir, "core.md"))
	require.NoError(t, err)
	assert.Contains(t, string(core), "## pi")
	assert.Contains(t, string(core), "**Value:** `+3.141592653589793`")
	assert.Contains(t, string(core), "- **condition** (`bool`)")

	lists, err := os.ReadFile(filepath.Join(dir, "lists.md"))
	require.NoError(t, err)
	assert.Contains(t, string(lists), "**Allowed number of parameters:** 1 or more")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "core", slugify("Core"))
	assert.Equal(t, "file-io", slugify(" File IO "))
	assert.Equal(t, "chapter", slugify("!!!"))
}
