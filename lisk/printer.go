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
	"io"
	"strings"
)

// String renders e in reader syntax where one exists.
func String(e Expression) string {
	var b strings.Builder
	Serialize(&b, e)
	return b.String()
}

func (e Expression) String() string {
	return String(e)
}

func Serialize(w io.StringWriter, e Expression) {
	switch e.kind {
	case NullExpr:
		w.WriteString("null")
	case AtomExpr:
		serializeAtom(w, e.atom)
	case ListExpr:
		serializeList(w, e.list)
	case TailExpr:
		w.WriteString("<tail ")
		serializeList(w, e.list)
		w.WriteString(">")
	case CallableExpr:
		switch {
		case e.call.lambda != nil:
			w.WriteString(e.call.lambda.String())
		case e.call.native != nil:
			w.WriteString("<builtin " + e.call.native.name + ">")
		default:
			w.WriteString("<builtin>")
		}
	case ExceptionExpr:
		w.WriteString("<exception '" + e.exc.Message + "'>")
	}
}

func serializeList(w io.StringWriter, l List[Expression]) {
	w.WriteString("(")
	first := true
	for v := range l.All() {
		if !first {
			w.WriteString(" ")
		}
		first = false
		Serialize(w, v)
	}
	w.WriteString(")")
}

func serializeAtom(w io.StringWriter, a Atom) {
	switch a.kind {
	case NilAtom:
		w.WriteString("nil")
	case SymbolAtom:
		w.WriteString(a.str)
	case StringAtom:
		w.WriteString(Quote(a.str))
	case NumberAtom:
		w.WriteString(a.num.String())
	case BoolAtom:
		if a.b {
			w.WriteString("true")
		} else {
			w.WriteString("false")
		}
	case HandleAtom:
		w.WriteString("<handle " + a.handle.TypeName() + ">")
	}
}

// Quote writes s as a string literal the reader accepts.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
