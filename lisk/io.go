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
	"bufio"
	"io"
	"os"
	"strings"
)

// Output returns the writer bound to *stdout* in env, os.Stdout otherwise.
func Output(env Environment) io.Writer {
	if v, ok := env.Get(StdoutSymbol); ok {
		if w, ok := Extract[io.Writer](v); ok && w != nil {
			return w
		}
	}
	return os.Stdout
}

// Input returns the reader bound to *stdin* in env.
func Input(env Environment) *bufio.Reader {
	if v, ok := env.Get(StdinSymbol); ok {
		if r, ok := Extract[*bufio.Reader](v); ok && r != nil {
			return r
		}
	}
	return bufio.NewReader(os.Stdin)
}

func printValue(w io.Writer, value Expression, newline bool) {
	s, ok := value.GetString()
	if !ok {
		s = String(value)
	}
	if newline {
		s += "\n"
	}
	io.WriteString(w, s)
}

func initIO() {
	DeclareTitle("IO")

	Declare(&Declaration{
		"print", "prints a string verbatim, any other value in reader syntax",
		1, 1, []DeclarationParameter{{"value", "any", "value to print"}}, "nil",
		NewNative("print", func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
			if !args.Ok() {
				return Nil(), 0
			}
			value := Eval(args.Value(), env, true)
			if value.IsException() {
				return value, 1
			}
			printValue(Output(env), value, false)
			return Nil(), 1
		}), Expression{},
	})
	Declare(&Declaration{
		"println", "like print, followed by a newline; without argument only prints the newline",
		0, 1, []DeclarationParameter{{"value", "any", "value to print"}}, "nil",
		NewNative("println", func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
			if !args.Ok() {
				io.WriteString(Output(env), "\n")
				return Nil(), 0
			}
			value := Eval(args.Value(), env, true)
			if value.IsException() {
				return value, 1
			}
			printValue(Output(env), value, true)
			return Nil(), 1
		}), Expression{},
	})
	Declare(&Declaration{
		"read", "reads one line from *stdin*; nil at end of input",
		0, 0, nil, "string",
		Func0("read", func(env Environment, allowTail bool) Expression {
			line, err := Input(env).ReadString('\n')
			if err != nil && line == "" {
				return Nil()
			}
			return Str(strings.TrimRight(line, "\r\n"))
		}), Expression{},
	})
}
