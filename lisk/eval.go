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

// Eval evaluates expr in env. allowTail marks tail position: only there are
// TailThunks resolved; elsewhere they are handed back to the caller, which
// keeps the native stack flat for tail recursive lisk code.
func Eval(expr Expression, env Environment, allowTail bool) Expression {
	switch expr.kind {
	case NullExpr:
		return Nil()
	case TailExpr:
		if !allowTail {
			return expr
		}
		return trampoline(expr, env)
	case AtomExpr:
		if sym, ok := expr.atom.GetSymbol(); ok {
			return env.Lookup(sym)
		}
		return expr
	case ListExpr:
		return evalList(expr, env, allowTail)
	case ExceptionExpr:
		return expr
	}
	return Throwf("failed to eval expression '%s' of type %s", String(expr), TypeName(expr))
}

func evalList(expr Expression, env Environment, allowTail bool) Expression {
	l := expr.list
	if !l.Ok() {
		return Nil()
	}
	head := Eval(l.Value(), env, allowTail)
	switch head.kind {
	case ListExpr:
		if !head.list.Ok() {
			return Nil()
		}
		// a list in head position is a literal
		return head
	case AtomExpr:
		if head.atom.IsNil() {
			return Nil()
		}
		if sym, ok := head.atom.GetSymbol(); ok {
			return env.Lookup(sym)
		}
		return head
	case CallableExpr:
		result, _ := head.call.Call(l.Next(), env, allowTail)
		return result
	case ExceptionExpr:
		return head
	}
	return Throwf("failed to eval sub-expression '%s' of '%s', got '%s', expected a symbol, atom or callable", String(l.Value()), String(expr), String(head))
}

// trampoline runs thunks until a call returns something else. Each thunk
// holds a zero argument closure; its body runs without tail resolution, so
// a nested tail call comes back here instead of growing the stack.
func trampoline(expr Expression, env Environment) Expression {
	for expr.IsTailThunk() {
		if !expr.list.Ok() {
			return Nil()
		}
		c, ok := expr.list.Value().GetCallable()
		if !ok {
			return expr
		}
		// a call result is already a value; only another thunk loops, so a
		// returned list is not run as a call
		expr, _ = c.Call(List[Expression]{}, env, false)
	}
	return expr
}

// EvalAll evaluates every element of l into a fresh list.
func EvalAll(l List[Expression], env Environment, allowTail bool) (List[Expression], int) {
	var values []Expression
	for v := range l.All() {
		result := Eval(v, env, allowTail)
		if result.IsNull() {
			result = Nil()
		}
		values = append(values, result)
	}
	return ListOf(values...), len(values)
}

// TailEval defers the evaluation of expr: it returns a TailThunk holding a
// closure over a squashed copy of env. Squashing the two innermost scopes
// (the call scope and the lambda's private scope) keeps the chain from
// growing by one scope per iteration.
func TailEval(expr Expression, env Environment) Expression {
	tailEnv := env.Squash(2)
	thunk := newClosure(nil, expr, tailEnv)
	return TailThunk(ListOf(FromCallable(LambdaCallable(thunk))))
}
