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

import "fmt"

type ExprKind uint8

const (
	NullExpr ExprKind = iota
	AtomExpr
	ListExpr
	TailExpr
	CallableExpr
	ExceptionExpr
)

// Exception is the error value of the language. It travels through Eval
// like every other result and implements error for the host side.
type Exception struct {
	Message string
}

func (e *Exception) Error() string {
	return e.Message
}

// Expression is the universal term type. The zero Expression is Null, which
// also terminates lists.
type Expression struct {
	kind ExprKind
	atom Atom
	list List[Expression]
	call Callable
	exc  *Exception
}

func Null() Expression               { return Expression{} }
func FromAtom(a Atom) Expression     { return Expression{kind: AtomExpr, atom: a} }
func Nil() Expression                { return FromAtom(NilValue()) }
func Sym(s Symbol) Expression        { return FromAtom(SymbolValue(s)) }
func Str(s string) Expression        { return FromAtom(StringValue(s)) }
func Num(n Number) Expression        { return FromAtom(NumberValue(n)) }
func Bool(b bool) Expression         { return FromAtom(BoolValue(b)) }
func FromHandle(h Handle) Expression { return FromAtom(HandleValue(h)) }
func FromList(l List[Expression]) Expression {
	return Expression{kind: ListExpr, list: l}
}
func FromCallable(c Callable) Expression {
	return Expression{kind: CallableExpr, call: c}
}

// TailThunk wraps a list whose single element is a zero argument callable.
// Eval resolves it only where tail calls are allowed.
func TailThunk(l List[Expression]) Expression {
	return Expression{kind: TailExpr, list: l}
}

func Throw(msg string) Expression {
	return Expression{kind: ExceptionExpr, exc: &Exception{msg}}
}

func Throwf(format string, args ...any) Expression {
	return Throw(fmt.Sprintf(format, args...))
}

// EmptyList is the literal "()": one node holding the terminator.
func EmptyList() Expression {
	return FromList(NewList[Expression]())
}

func (e Expression) Kind() ExprKind    { return e.kind }
func (e Expression) IsNull() bool      { return e.kind == NullExpr }
func (e Expression) IsAtom() bool      { return e.kind == AtomExpr }
func (e Expression) IsList() bool      { return e.kind == ListExpr }
func (e Expression) IsTailThunk() bool { return e.kind == TailExpr }
func (e Expression) IsCallable() bool  { return e.kind == CallableExpr }
func (e Expression) IsException() bool { return e.kind == ExceptionExpr }
func (e Expression) Copy() Expression  { return e }

// IsNil reports the falsy shapes: the nil atom and the empty list.
func (e Expression) IsNil() bool {
	switch e.kind {
	case AtomExpr:
		return e.atom.IsNil()
	case ListExpr:
		return !e.list.Ok()
	}
	return false
}

func (e Expression) IsSymbol() bool {
	return e.kind == AtomExpr && e.atom.IsSymbol()
}

func (e Expression) GetAtom() (Atom, bool)                  { return e.atom, e.kind == AtomExpr }
func (e Expression) GetList() (List[Expression], bool)      { return e.list, e.kind == ListExpr }
func (e Expression) GetTailThunk() (List[Expression], bool) { return e.list, e.kind == TailExpr }
func (e Expression) GetCallable() (Callable, bool)          { return e.call, e.kind == CallableExpr }

func (e Expression) GetException() (*Exception, bool) {
	return e.exc, e.kind == ExceptionExpr
}

func (e Expression) GetSymbol() (Symbol, bool) {
	if e.kind != AtomExpr {
		return "", false
	}
	return e.atom.GetSymbol()
}

func (e Expression) GetNumber() (Number, bool) {
	if e.kind != AtomExpr {
		return Number{}, false
	}
	return e.atom.GetNumber()
}

func (e Expression) GetString() (string, bool) {
	if e.kind != AtomExpr {
		return "", false
	}
	return e.atom.GetString()
}

func (e Expression) AsAtom() Atom {
	if e.kind != AtomExpr {
		panic("expression is not an atom")
	}
	return e.atom
}

func (e Expression) AsList() List[Expression] {
	if e.kind != ListExpr {
		panic("expression is not a list")
	}
	return e.list
}

func (e Expression) AsCallable() Callable {
	if e.kind != CallableExpr {
		panic("expression is not callable")
	}
	return e.call
}

func (e Expression) AsException() *Exception {
	if e.kind != ExceptionExpr {
		panic("expression is not an exception")
	}
	return e.exc
}

// Err returns the exception as error, nil for every other expression.
func (e Expression) Err() error {
	if e.kind == ExceptionExpr {
		return e.exc
	}
	return nil
}
