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

import "reflect"

// Equal compares values structurally; callables compare by identity,
// numbers by value regardless of kind.
func Equal(a, b Expression) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NullExpr:
		return true
	case AtomExpr:
		if a.atom.kind != b.atom.kind {
			return false
		}
		switch a.atom.kind {
		case NilAtom:
			return true
		case SymbolAtom, StringAtom:
			return a.atom.str == b.atom.str
		case NumberAtom:
			return a.atom.num.Compare(b.atom.num) == 0
		case BoolAtom:
			return a.atom.b == b.atom.b
		case HandleAtom:
			ha, hb := a.atom.handle, b.atom.handle
			if ha.typ != hb.typ {
				return false
			}
			if ha.value == nil || hb.value == nil {
				return ha.value == hb.value
			}
			if !reflect.TypeOf(ha.value).Comparable() {
				return false
			}
			return ha.value == hb.value
		}
	case ListExpr, TailExpr:
		x, y := a.list, b.list
		for x.Ok() && y.Ok() {
			if !Equal(x.Value(), y.Value()) {
				return false
			}
			x, y = x.Next(), y.Next()
		}
		return !x.Ok() && !y.Ok()
	case CallableExpr:
		return a.call == b.call
	case ExceptionExpr:
		return a.exc.Message == b.exc.Message
	}
	return false
}

// fold applies op over all arguments, left to right.
func fold(name string, op func(Number, Number) (Number, error)) RawFunc {
	return func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
		if !args.Ok() {
			return Nil(), 0
		}
		var result Number
		n := 0
		for cell := range args.Cells() {
			v, failure, ok := argument[Number](name, n, cell.Value(), env)
			if !ok {
				return failure, 0
			}
			if n == 0 {
				result = v
			} else {
				var err error
				if result, err = op(result, v); err != nil {
					return Throwf("%s: %s", name, err), 0
				}
			}
			n++
		}
		return Num(result), n
	}
}

func binary(name string, op func(Number, Number) (Number, error)) *NativeFunction {
	return Func2(name, func(env Environment, allowTail bool, a, b Number) Expression {
		r, err := op(a, b)
		if err != nil {
			return Throwf("%s: %s", name, err)
		}
		return Num(r)
	})
}

func compare(name string, test func(int) bool) *NativeFunction {
	return Func2(name, func(env Environment, allowTail bool, a, b Number) Expression {
		return Bool(test(a.Compare(b)))
	})
}

func initArithmetic() {
	DeclareTitle("Arithmetic")

	numbers := []DeclarationParameter{{"values...", "number", "operands"}}
	pair := []DeclarationParameter{
		{"a", "number", "left operand"},
		{"b", "number", "right operand"},
	}
	Declare(&Declaration{"+", "adds all arguments", 1, -1, numbers, "number", NewNative("+", fold("+", Number.Add)), Expression{}})
	Declare(&Declaration{"sum", "adds all arguments", 1, -1, numbers, "number", NewNative("sum", fold("sum", Number.Add)), Expression{}})
	Declare(&Declaration{"-", "subtracts b from a", 2, 2, pair, "number", binary("-", Number.Sub), Expression{}})
	Declare(&Declaration{"*", "multiplies all arguments", 1, -1, numbers, "number", NewNative("*", fold("*", Number.Mul)), Expression{}})
	Declare(&Declaration{"product", "multiplies all arguments", 1, -1, numbers, "number", NewNative("product", fold("product", Number.Mul)), Expression{}})
	Declare(&Declaration{"/", "divides a by b; integer division truncates", 2, 2, pair, "number", binary("/", Number.Div), Expression{}})
	Declare(&Declaration{"<", "tells whether a < b", 2, 2, pair, "bool", compare("<", func(c int) bool { return c < 0 }), Expression{}})
	Declare(&Declaration{"<=", "tells whether a <= b", 2, 2, pair, "bool", compare("<=", func(c int) bool { return c <= 0 }), Expression{}})
	Declare(&Declaration{">", "tells whether a > b", 2, 2, pair, "bool", compare(">", func(c int) bool { return c > 0 }), Expression{}})
	Declare(&Declaration{">=", "tells whether a >= b", 2, 2, pair, "bool", compare(">=", func(c int) bool { return c >= 0 }), Expression{}})
	Declare(&Declaration{
		"=", "compares two values structurally; numbers compare by value",
		2, 2, []DeclarationParameter{{"a", "any", "value"}, {"b", "any", "value"}}, "bool",
		Func2("=", func(env Environment, allowTail bool, a, b Expression) Expression {
			if a.IsException() {
				return a
			}
			if b.IsException() {
				return b
			}
			return Bool(Equal(a, b))
		}), Expression{},
	})
	Declare(&Declaration{
		"not", "negates a bool",
		1, 1, []DeclarationParameter{{"value", "bool", "nil and () count as false"}}, "bool",
		Func1("not", func(env Environment, allowTail bool, b bool) Expression {
			return Bool(!b)
		}), Expression{},
	})
}

// convert turns numbers, number strings or the printed form of anything
// else into a number and hands it to to.
func convert(name string, to func(Number) (Number, bool)) *NativeFunction {
	return Func1(name, func(env Environment, allowTail bool, e Expression) Expression {
		if e.IsException() {
			return e
		}
		n, ok := e.GetNumber()
		if !ok {
			s, isString := e.GetString()
			if !isString {
				s = String(e)
			}
			var err error
			if n, err = ParseNumber(s); err != nil {
				return Throwf("%s: %s", name, err)
			}
		}
		r, ok := to(n)
		if !ok {
			return Throwf("%s: %s is out of range", name, n)
		}
		return Num(r)
	})
}

func initConversion() {
	DeclareTitle("Conversion")

	value := []DeclarationParameter{{"value", "any", "number, numeric string or anything printing as a number"}}
	Declare(&Declaration{"uint", "converts to an unsigned integer", 1, 1, value, "uint", convert("uint", func(n Number) (Number, bool) {
		u, ok := n.ToUInt()
		return UInt(u), ok
	}), Expression{}})
	Declare(&Declaration{"sint", "converts to a signed integer", 1, 1, value, "sint", convert("sint", func(n Number) (Number, bool) {
		s, ok := n.ToSInt()
		return SInt(s), ok
	}), Expression{}})
	Declare(&Declaration{"real", "converts to a real number", 1, 1, value, "real", convert("real", func(n Number) (Number, bool) {
		return Real(n.ToReal()), true
	}), Expression{}})
	Declare(&Declaration{
		"string", "returns strings unchanged and the printed form of anything else",
		1, 1, []DeclarationParameter{{"value", "any", "value to convert"}}, "string",
		Func1("string", func(env Environment, allowTail bool, e Expression) Expression {
			if s, ok := e.GetString(); ok {
				return Str(s)
			}
			return Str(String(e))
		}), Expression{},
	})
	Declare(&Declaration{
		"symbol", "turns a string into a symbol",
		1, 1, []DeclarationParameter{{"name", "string", "symbol name"}}, "symbol",
		Func1("symbol", func(env Environment, allowTail bool, s string) Expression {
			return Sym(Symbol(s))
		}), Expression{},
	})
	Declare(&Declaration{
		"parse", "reads the first form of a string without evaluating it",
		1, 1, []DeclarationParameter{{"code", "string", "source text"}}, "any",
		Func1("parse", func(env Environment, allowTail bool, code string) Expression {
			return Read(code)
		}), Expression{},
	})
}
