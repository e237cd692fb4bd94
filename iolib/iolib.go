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

// Package iolib holds the builtins that reach outside the interpreter:
// script files, streams, file watches and UUIDs. The core in package lisk
// stays sandboxable; hosts opt in with Install.
package iolib

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/launix-de/lisk/lisk"
)

// DirSymbol and FileSymbol are bound while a script is imported; relative
// file names resolve against DirSymbol.
const DirSymbol lisk.Symbol = "__DIR__"
const FileSymbol lisk.Symbol = "__FILE__"

// Chapters lists the catalogue chapters Install binds.
var Chapters = []string{"Files", "Streams", "UUID"}

func init() {
	initFiles()
	initStreams()
	initUUID()
}

// Install binds the iolib builtins in env. Relative file names resolve
// against dir.
func Install(env lisk.Environment, dir string) {
	lisk.Install(env, Chapters...)
	env.Define(DirSymbol, lisk.Str(dir))
}

func dirOf(env lisk.Environment) string {
	if v, ok := env.Get(DirSymbol); ok {
		if s, ok := v.GetString(); ok {
			return s
		}
	}
	wd, _ := os.Getwd()
	return wd
}

func dirname(name string) string {
	if strings.HasPrefix(name, "s3://") {
		return path.Dir(name)
	}
	return filepath.Dir(name)
}

// Import evaluates the script at name in a scope of its own where
// __DIR__ and __FILE__ point at the script. Its definitions are copied
// into env afterwards. The result is the value of the last form.
func Import(ctx context.Context, env lisk.Environment, name string) lisk.Expression {
	code, err := ReadAll(ctx, name)
	if err != nil {
		return lisk.Throw(err.Error())
	}
	slog.Debug("import", "file", name)
	scope := env.Extend()
	scope.Define(DirSymbol, lisk.Str(dirname(name)))
	scope.Define(FileSymbol, lisk.Str(name))
	result := lisk.Traced(name, lisk.Parse(lisk.RootTokenize(code)), scope)
	for sym, value := range scope.Locals() {
		if sym != DirSymbol && sym != FileSymbol {
			env.Define(sym, value)
		}
	}
	return result
}

func load(args lisk.List[lisk.Expression], env lisk.Environment, allowTail bool) (lisk.Expression, int) {
	cells := args.Slice()
	if len(cells) == 0 {
		return lisk.Throw("load expects a filename"), 0
	}
	if len(cells) > 3 {
		cells = cells[:3]
	}
	name, failure, ok := lisk.Arg[string](cells[0], env)
	if !ok {
		return failure, 0
	}
	name = Resolve(dirOf(env), name)
	if len(cells) == 1 {
		content, err := ReadAll(context.Background(), name)
		if err != nil {
			return lisk.Throw(err.Error()), 1
		}
		return lisk.Str(content), 1
	}
	handler, failure, ok := lisk.Arg[lisk.Callable](cells[1], env)
	if !ok {
		return failure, 0
	}
	if len(cells) == 2 {
		content, err := ReadAll(context.Background(), name)
		if err != nil {
			return lisk.Throw(err.Error()), 2
		}
		if r := handler.Apply(env, lisk.Str(content)); r.IsException() {
			return r, 2
		}
		return lisk.Bool(true), 2
	}
	delimiter, failure, ok := lisk.Arg[string](cells[2], env)
	if !ok {
		return failure, 0
	}
	if len(delimiter) != 1 {
		return lisk.Throw("load delimiter must be 1 byte long"), 3
	}
	f, err := Open(context.Background(), name)
	if err != nil {
		return lisk.Throw(err.Error()), 3
	}
	defer f.Close()
	splitter := bufio.NewReader(f)
	for {
		chunk, err := splitter.ReadString(delimiter[0])
		chunk = strings.TrimSuffix(chunk, delimiter)
		if chunk != "" || err == nil {
			if r := handler.Apply(env, lisk.Str(chunk)); r.IsException() {
				return r, 3
			}
		}
		if err == io.EOF {
			return lisk.Bool(true), 3
		}
		if err != nil {
			return lisk.Throw(err.Error()), 3
		}
	}
}

func initFiles() {
	lisk.DeclareTitle("Files")

	lisk.Declare(&lisk.Declaration{
		Name: "import", Desc: "evaluates a script file; its definitions become visible in the current scope. Files ending in .gz, .xz or .lz4 are decompressed, s3://bucket/key is fetched from S3",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "filename", Type: "string", Desc: "filename relative to folder of source file"}},
		Returns: "any",
		Fn: lisk.Func1("import", func(env lisk.Environment, allowTail bool, name string) lisk.Expression {
			return Import(context.Background(), env, Resolve(dirOf(env), name))
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "load", Desc: "loads a file and returns its content; with a handler the content is passed to it instead, with a delimiter the handler is called once per chunk (delimiter removed)",
		MinParameter: 1, MaxParameter: 3,
		Params: []lisk.DeclarationParameter{
			{Name: "filename", Type: "string", Desc: "filename relative to folder of source file"},
			{Name: "handler", Type: "func", Desc: "handler receiving the content"},
			{Name: "delimiter", Type: "string", Desc: "single byte to split the content at"},
		},
		Returns: "string|bool",
		Fn:      lisk.NewNative("load", load),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "watch", Desc: "loads a file and calls the handler with its content; whenever the file changes on disk, the file is loaded again. Returns the watch for unwatch",
		MinParameter: 2, MaxParameter: 2,
		Params: []lisk.DeclarationParameter{
			{Name: "filename", Type: "string", Desc: "filename relative to folder of source file"},
			{Name: "handler", Type: "func", Desc: "handler receiving the file content"},
		},
		Returns: "watch",
		Fn: lisk.Func2("watch", func(env lisk.Environment, allowTail bool, name string, handler lisk.Callable) lisk.Expression {
			name = Resolve(dirOf(env), name)
			if strings.HasPrefix(name, "s3://") {
				return lisk.Throwf("watch: %s is not a local file", name)
			}
			reread := func() lisk.Expression {
				content, err := ReadAll(context.Background(), name)
				if err != nil {
					return lisk.Throw(err.Error())
				}
				return handler.Apply(env, lisk.Str(content))
			}
			if r := reread(); r.IsException() {
				return r
			}
			w, err := Watch(name, func() {
				lisk.EvalLock.Lock()
				defer lisk.EvalLock.Unlock()
				defer func() {
					if err := recover(); err != nil {
						slog.Error("reload panicked", "file", name, "err", err)
					}
				}()
				slog.Info("reload", "file", name)
				if r := reread(); r.IsException() {
					slog.Error("reload failed", "file", name, "err", r.AsException())
				}
			})
			if err != nil {
				return lisk.Throw(err.Error())
			}
			return lisk.FromHandle(lisk.NewHandle(w))
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "unwatch", Desc: "stops a watch",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "watch", Type: "watch", Desc: "result of watch"}},
		Returns: "bool",
		Fn: lisk.Func1("unwatch", func(env lisk.Environment, allowTail bool, w *Watcher) lisk.Expression {
			if err := w.Close(); err != nil {
				return lisk.Throw(err.Error())
			}
			return lisk.Bool(true)
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "getenv", Desc: "returns the content of an environment variable",
		MinParameter: 1, MaxParameter: 2,
		Params: []lisk.DeclarationParameter{
			{Name: "var", Type: "string", Desc: "envvar"},
			{Name: "default", Type: "string", Desc: "default if the env is not found"},
		},
		Returns: "string",
		Fn: lisk.NewNative("getenv", func(args lisk.List[lisk.Expression], env lisk.Environment, allowTail bool) (lisk.Expression, int) {
			if !args.Ok() {
				return lisk.Throw("getenv expects a variable name"), 0
			}
			name, failure, ok := lisk.Arg[string](args.Value(), env)
			if !ok {
				return failure, 0
			}
			val, found := os.LookupEnv(name)
			if !args.Next().Ok() {
				return lisk.Str(val), 1
			}
			if found {
				return lisk.Str(val), 2
			}
			return lisk.Eval(args.NextValue(), env, true), 2
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "help", Desc: "lists all functions or prints help for a specific function",
		MinParameter: 0, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "topic", Type: "string", Desc: "function to print help about"}},
		Returns: "nil",
		Fn: lisk.NewNative("help", func(args lisk.List[lisk.Expression], env lisk.Environment, allowTail bool) (lisk.Expression, int) {
			topic, n := "", 0
			if args.Ok() {
				s, failure, ok := lisk.Arg[string](args.Value(), env)
				if !ok {
					return failure, 0
				}
				topic, n = s, 1
			}
			if err := lisk.Help(lisk.Output(env), topic); err != nil {
				return lisk.Throw(err.Error()), n
			}
			return lisk.Nil(), n
		}),
	})
}
