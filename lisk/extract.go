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

import "sync"
import "reflect"

// Traits say how an argument of a given type is obtained from the literal
// argument expression: Get narrows the literal as written, Eval evaluates it
// first. With both set the literal is preferred.
type Traits struct {
	Get  bool
	Eval bool
}

var (
	GetOrEval = Traits{Get: true, Eval: true}
	EvalOnly  = Traits{Get: false, Eval: true}
	GetOnly   = Traits{Get: true, Eval: false}
)

// Quoted receives its argument exactly as written.
type Quoted struct {
	Expression
}

// QuotedList receives a literal list argument without evaluating it.
type QuotedList struct {
	List[Expression]
}

// EvalList always evaluates its argument and expects a list.
type EvalList struct {
	List[Expression]
}

type rule struct {
	name   string
	traits Traits
	get    func(Expression) (any, bool)
}

var rules sync.Map // reflect.Type -> *rule

// RegisterType adds the narrowing rule for T. Functions with parameters of
// type T can be wrapped afterwards. Types without a rule are matched
// against Handle values holding a T.
func RegisterType[T any](name string, traits Traits, get func(Expression) (T, bool)) {
	rules.Store(reflect.TypeFor[T](), &rule{name, traits, func(e Expression) (any, bool) {
		return get(e)
	}})
}

func ruleFor(t reflect.Type) *rule {
	if r, ok := rules.Load(t); ok {
		return r.(*rule)
	}
	return &rule{t.String(), GetOrEval, func(e Expression) (any, bool) {
		if e.kind != AtomExpr {
			return nil, false
		}
		h, ok := e.atom.GetHandle()
		if !ok || h.typ == nil {
			return nil, false
		}
		if h.typ == t || (t.Kind() == reflect.Interface && h.typ.AssignableTo(t)) {
			return h.value, true
		}
		return nil, false
	}}
}

// Extract narrows e to T without evaluating it.
func Extract[T any](e Expression) (result T, ok bool) {
	v, ok := ruleFor(reflect.TypeFor[T]()).get(e)
	if !ok {
		return
	}
	if v == nil {
		return result, true
	}
	result, ok = v.(T)
	return
}

// TypeNameOf is the name used for T in diagnostics.
func TypeNameOf[T any]() string {
	return ruleFor(reflect.TypeFor[T]()).name
}

// TraitsOf reports how arguments of type T are marshalled.
func TraitsOf[T any]() Traits {
	return ruleFor(reflect.TypeFor[T]()).traits
}

// TypeName names the runtime type of e.
func TypeName(e Expression) string {
	switch e.kind {
	case NullExpr:
		return "null"
	case AtomExpr:
		switch e.atom.kind {
		case NilAtom:
			return "nil"
		case SymbolAtom:
			return "symbol"
		case StringAtom:
			return "string"
		case NumberAtom:
			switch e.atom.num.kind {
			case UIntKind:
				return "uint"
			case SIntKind:
				return "sint"
			}
			return "real"
		case BoolAtom:
			return "bool"
		case HandleAtom:
			return e.atom.handle.TypeName()
		}
	case ListExpr:
		return "list"
	case TailExpr:
		return "tail"
	case CallableExpr:
		if e.call.IsLambda() {
			return "lambda"
		}
		return "builtin"
	case ExceptionExpr:
		return "exception"
	}
	return "unknown"
}

func atomRule[T any](e Expression, get func(Atom) (T, bool)) (result T, ok bool) {
	if e.kind != AtomExpr {
		return
	}
	return get(e.atom)
}

func init() {
	RegisterType("expression", EvalOnly, func(e Expression) (Expression, bool) { return e, true })
	RegisterType("expression", GetOnly, func(e Expression) (Quoted, bool) { return Quoted{e}, true })
	RegisterType("list", EvalOnly, func(e Expression) (List[Expression], bool) { return e.GetList() })
	RegisterType("list", EvalOnly, func(e Expression) (EvalList, bool) {
		l, ok := e.GetList()
		return EvalList{l}, ok
	})
	RegisterType("list", GetOnly, func(e Expression) (QuotedList, bool) {
		l, ok := e.GetList()
		return QuotedList{l}, ok
	})
	RegisterType("atom", GetOrEval, Expression.GetAtom)
	RegisterType("symbol", GetOrEval, Expression.GetSymbol)
	RegisterType("string", GetOrEval, Expression.GetString)
	RegisterType("number", GetOrEval, Expression.GetNumber)
	RegisterType("uint", GetOrEval, func(e Expression) (uint64, bool) {
		n, ok := e.GetNumber()
		if !ok {
			return 0, false
		}
		return n.GetUInt()
	})
	RegisterType("sint", GetOrEval, func(e Expression) (int64, bool) {
		n, ok := e.GetNumber()
		if !ok {
			return 0, false
		}
		return n.GetSInt()
	})
	RegisterType("real", GetOrEval, func(e Expression) (float64, bool) {
		n, ok := e.GetNumber()
		if !ok {
			return 0, false
		}
		return n.GetReal()
	})
	// host convenience: any integral number that fits
	RegisterType("int", GetOrEval, func(e Expression) (int, bool) {
		n, ok := e.GetNumber()
		if !ok || n.IsReal() {
			return 0, false
		}
		v, ok := n.ToSInt()
		return int(v), ok
	})
	RegisterType("bool", GetOrEval, func(e Expression) (bool, bool) {
		switch e.kind {
		case AtomExpr:
			if e.atom.IsNil() {
				return false, true
			}
			return e.atom.GetBool()
		case ListExpr:
			if !e.list.Ok() {
				return false, true
			}
		}
		return false, false
	})
	RegisterType("handle", GetOrEval, func(e Expression) (Handle, bool) {
		return atomRule(e, Atom.GetHandle)
	})
	RegisterType("callable", GetOrEval, Expression.GetCallable)
	RegisterType("lambda", GetOrEval, func(e Expression) (*Lambda, bool) {
		c, ok := e.GetCallable()
		if !ok {
			return nil, false
		}
		return c.GetLambda()
	})
	RegisterType("builtin", GetOrEval, func(e Expression) (*NativeFunction, bool) {
		c, ok := e.GetCallable()
		if !ok {
			return nil, false
		}
		return c.GetNative()
	})
	RegisterType("exception", GetOrEval, Expression.GetException)
}
