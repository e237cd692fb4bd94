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
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/launix-de/lisk/lisk"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// syncBuffer is written by watcher goroutines while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newEnv(t *testing.T) (lisk.Environment, *syncBuffer, string) {
	dir := t.TempDir()
	out := &syncBuffer{}
	env := lisk.DefaultEnv(lisk.WithOutput(out))
	Install(env, dir)
	return env, out, dir
}

func run(env lisk.Environment, code string) string {
	return lisk.String(lisk.RootEvalString(code, env))
}

func writeFile(t *testing.T, name string, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

func writeCompressed(t *testing.T, name string, content string, wrap func(io.Writer) io.WriteCloser) {
	var b bytes.Buffer
	w := wrap(&b)
	_, err := io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	writeFile(t, name, b.String())
}

func TestLoad(t *testing.T) {
	env, out, dir := newEnv(t)
	writeFile(t, filepath.Join(dir, "a.txt"), "x,y,z")

	assert.Equal(t, `"x,y,z"`, run(env, `(load "a.txt")`))
	assert.Equal(t, "true", run(env, `(load "a.txt" (lambda (c) (print c)))`))
	assert.Equal(t, "x,y,z", out.String())
	assert.Equal(t, "true", run(env, `(load "a.txt" (lambda (c) (println c)) ",")`))
	assert.Equal(t, "x,y,zx\ny\nz\n", out.String())

	r := lisk.RootEvalString(`(load "a.txt" (lambda (c) c) ",;")`, env)
	require.True(t, r.IsException())
	assert.Equal(t, "load delimiter must be 1 byte long", r.AsException().Message)
	assert.True(t, lisk.RootEvalString(`(load "missing.txt")`, env).IsException())
	assert.True(t, lisk.RootEvalString(`(load)`, env).IsException())
}

func TestLoadCompressed(t *testing.T) {
	env, _, dir := newEnv(t)
	writeCompressed(t, filepath.Join(dir, "a.gz"), "gzip content", func(w io.Writer) io.WriteCloser {
		return gzip.NewWriter(w)
	})
	writeCompressed(t, filepath.Join(dir, "a.xz"), "xz content", func(w io.Writer) io.WriteCloser {
		xw, err := xz.NewWriter(w)
		require.NoError(t, err)
		return xw
	})
	writeCompressed(t, filepath.Join(dir, "a.lz4"), "lz4 content", func(w io.Writer) io.WriteCloser {
		return lz4.NewWriter(w)
	})

	assert.Equal(t, `"gzip content"`, run(env, `(load "a.gz")`))
	assert.Equal(t, `"xz content"`, run(env, `(load "a.xz")`))
	assert.Equal(t, `"lz4 content"`, run(env, `(load "a.lz4")`))

	assert.Equal(t, `"gzip content"`, run(env, `(stream-string (gzip (stream "a.gz")))`))
	assert.Equal(t, `"xz content"`, run(env, `(stream-string (xz (stream "a.xz")))`))
	assert.Equal(t, `"lz4 content"`, run(env, `(stream-string (lz4 (stream "a.lz4")))`))
	assert.Equal(t, "true", run(env, `(define s (stream "a.gz")) (stream-close s)`))

	r := lisk.RootEvalString(`(gzip (stream "a.xz"))`, env)
	require.True(t, r.IsException())
	assert.True(t, strings.HasPrefix(r.AsException().Message, "gzip: "))
	r = lisk.RootEvalString(`(gzip "a.gz")`, env)
	require.True(t, r.IsException())
	assert.Contains(t, r.AsException().Message, "expected io.Reader")
}

func TestImport(t *testing.T) {
	env, out, dir := newEnv(t)
	writeFile(t, filepath.Join(dir, "lib", "lib.lsk"), `
		; helpers
		(import "other.lsk")
		(define greet (lambda (n) (concat greeting n)))
		(define here __DIR__)
		(print __FILE__)
		42`)
	writeFile(t, filepath.Join(dir, "lib", "other.lsk"), `(define greeting "hi ")`)

	assert.Equal(t, "42", run(env, `(import "lib/lib.lsk")`))
	assert.Equal(t, filepath.Join(dir, "lib", "lib.lsk"), out.String())
	assert.Equal(t, `"hi x"`, run(env, `(greet "x")`))
	assert.Equal(t, `"`+filepath.Join(dir, "lib")+`"`, run(env, "here"))
	assert.Equal(t, `"`+dir+`"`, run(env, "__DIR__"))
	assert.True(t, lisk.RootEvalString("__FILE__", env).IsException())

	writeFile(t, filepath.Join(dir, "broken.lsk"), `(define ok 1) (car 5)`)
	r := lisk.RootEvalString(`(import "broken.lsk")`, env)
	require.True(t, r.IsException())
	assert.Equal(t, "1", run(env, "ok"))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/base", "x.lsk"), Resolve("/base", "x.lsk"))
	assert.Equal(t, "/abs/x.lsk", Resolve("/base", "/abs/x.lsk"))
	assert.Equal(t, "s3://bucket/x.lsk", Resolve("/base", "s3://bucket/x.lsk"))
	assert.Equal(t, "s3://bucket/lib", dirname("s3://bucket/lib/x.lsk"))

	_, _, err := splitS3("s3://bucket")
	assert.Error(t, err)
	bucket, key, err := splitS3("s3://bucket/a/b.lsk")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "a/b.lsk", key)
}

func TestUUID(t *testing.T) {
	env, _, _ := newEnv(t)
	const id = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	assert.Equal(t, `"`+id+`"`, run(env, `(uuid-string "`+id+`")`))
	assert.Equal(t, "true", run(env, `(uuid? (uuid))`))
	assert.Equal(t, "true", run(env, `(uuid? "`+id+`")`))
	assert.Equal(t, "false", run(env, `(uuid? "no uuid")`))
	assert.Equal(t, "false", run(env, `(uuid? 1)`))
	assert.Equal(t, "36", run(env, `(strlen (uuid-string (uuid)))`))
	assert.Equal(t, "false", run(env, `(= (uuid) (uuid))`))
	assert.Equal(t, "true", run(env, `(define u (uuid)) (= u u)`))
	assert.True(t, lisk.RootEvalString(`(uuid-string 5)`, env).IsException())
}

func TestGetenvAndHelp(t *testing.T) {
	env, out, _ := newEnv(t)
	t.Setenv("LISK_TEST_VAR", "v")
	assert.Equal(t, `"v"`, run(env, `(getenv "LISK_TEST_VAR")`))
	assert.Equal(t, `"v"`, run(env, `(getenv "LISK_TEST_VAR" "d")`))
	assert.Equal(t, `"d"`, run(env, `(getenv "LISK_TEST_UNSET_VAR" "d")`))
	assert.Equal(t, `""`, run(env, `(getenv "LISK_TEST_UNSET_VAR")`))

	assert.Equal(t, "nil", run(env, `(help "load")`))
	assert.Contains(t, out.String(), "Help for: load")
	assert.True(t, lisk.RootEvalString(`(help "no-such-function")`, env).IsException())
}

func TestWatch(t *testing.T) {
	env, out, dir := newEnv(t)
	name := filepath.Join(dir, "w.txt")
	writeFile(t, name, "one")

	r := lisk.EvalForm("test", lisk.Read(`(define w (watch "w.txt" (lambda (c) (print c))))`), env)
	require.False(t, r.IsException(), lisk.String(r))
	assert.Equal(t, "one", out.String())

	writeFile(t, name, "two")
	assert.Eventually(t, func() bool {
		return strings.HasSuffix(out.String(), "two")
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "true", lisk.String(lisk.EvalForm("test", lisk.Read("(unwatch w)"), env)))
	assert.True(t, lisk.RootEvalString(`(watch "missing.txt" (lambda (c) c))`, env).IsException())
	assert.True(t, lisk.RootEvalString(`(watch "s3://bucket/key" (lambda (c) c))`, env).IsException())
}
