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

type AtomKind uint8

const (
	NilAtom AtomKind = iota
	SymbolAtom
	StringAtom
	NumberAtom
	BoolAtom
	HandleAtom
)

type Symbol string

// Atom is a scalar value. Exactly one payload field is meaningful, chosen
// by kind; the zero Atom is nil.
type Atom struct {
	kind   AtomKind
	str    string
	num    Number
	b      bool
	handle Handle
}

func NilValue() Atom            { return Atom{} }
func SymbolValue(s Symbol) Atom { return Atom{kind: SymbolAtom, str: string(s)} }
func StringValue(s string) Atom { return Atom{kind: StringAtom, str: s} }
func NumberValue(n Number) Atom { return Atom{kind: NumberAtom, num: n} }
func BoolValue(b bool) Atom     { return Atom{kind: BoolAtom, b: b} }
func HandleValue(h Handle) Atom { return Atom{kind: HandleAtom, handle: h} }

func (a Atom) Kind() AtomKind { return a.kind }
func (a Atom) IsNil() bool    { return a.kind == NilAtom }
func (a Atom) IsSymbol() bool { return a.kind == SymbolAtom }
func (a Atom) IsString() bool { return a.kind == StringAtom }
func (a Atom) IsNumber() bool { return a.kind == NumberAtom }
func (a Atom) IsBool() bool   { return a.kind == BoolAtom }
func (a Atom) IsHandle() bool { return a.kind == HandleAtom }

func (a Atom) GetSymbol() (Symbol, bool) { return Symbol(a.str), a.kind == SymbolAtom }
func (a Atom) GetString() (string, bool) { return a.str, a.kind == StringAtom }
func (a Atom) GetNumber() (Number, bool) { return a.num, a.kind == NumberAtom }
func (a Atom) GetBool() (bool, bool)     { return a.b, a.kind == BoolAtom }
func (a Atom) GetHandle() (Handle, bool) { return a.handle, a.kind == HandleAtom }

func (a Atom) AsSymbol() Symbol {
	if a.kind != SymbolAtom {
		panic("atom is not a symbol")
	}
	return Symbol(a.str)
}

func (a Atom) AsString() string {
	if a.kind != StringAtom {
		panic("atom is not a string")
	}
	return a.str
}

func (a Atom) AsNumber() Number {
	if a.kind != NumberAtom {
		panic("atom is not a number")
	}
	return a.num
}

func (a Atom) AsBool() bool {
	if a.kind != BoolAtom {
		panic("atom is not a bool")
	}
	return a.b
}

func (a Atom) AsHandle() Handle {
	if a.kind != HandleAtom {
		panic("atom is not a handle")
	}
	return a.handle
}
